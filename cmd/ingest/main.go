package main

import (
	"flag"
	"log"

	"github.com/google/uuid"

	"ofertas/internal/config"
	"ofertas/internal/db"
	"ofertas/internal/feed"
	"ofertas/internal/ingest"
	"ofertas/internal/observability"
	"ofertas/internal/store"
)

// go run cmd/ingest/main.go
// go run cmd/ingest/main.go -table=oil_offers_2024
func main() {
	tableFlag := flag.String("table", "", "Nome da tabela destino (sobrepõe OFFERS_TABLE_NAME)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuração inválida: %v", err)
	}

	tableName := cfg.TableName
	if *tableFlag != "" {
		tableName = *tableFlag
	}

	observability.Start(cfg.MetricsPort)

	runID := uuid.New()
	log.Printf("[%s] Buscando: %s", runID, cfg.OriginURL)

	dbConn, err := db.New(cfg.DatabaseURL())
	if err != nil {
		log.Fatalf("Erro ao conectar no banco de dados: %v", err)
	}
	defer dbConn.Close()

	st, err := store.New(dbConn, tableName)
	if err != nil {
		log.Fatalf("Erro na tabela destino: %v", err)
	}

	client, err := feed.NewClient(cfg.OriginURL)
	if err != nil {
		log.Fatalf("Erro na URL do feed: %v", err)
	}

	runner := &ingest.Runner{Feed: client, Store: st}
	res, err := runner.Run()
	if err != nil {
		log.Fatalf("[%s] Ingestão falhou: %v", runID, err)
	}

	log.Printf("[%s] Fetched %d offers. Inserted new: %d into table %s.",
		runID, res.Fetched, res.Inserted, st.Table())
}
