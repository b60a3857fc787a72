package main

import (
	"log"
	"time"

	"ofertas/internal/config"
	"ofertas/internal/db"
	"ofertas/internal/report"
)

// Atualiza o bloco de status do README a partir da tabela de ofertas.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuração inválida: %v", err)
	}

	pool, err := db.NewPool(cfg.DatabaseURL())
	if err != nil {
		log.Fatalf("Não foi possível criar o pool de conexões: %v", err)
	}
	defer pool.Close()

	reporter, err := report.NewReporter(pool, cfg.TableName)
	if err != nil {
		log.Fatalf("Erro na tabela de ofertas: %v", err)
	}

	status, err := reporter.Fetch()
	if err != nil {
		log.Fatalf("Erro ao consultar status: %v", err)
	}

	statusMD := report.RenderMarkdown(status, cfg.FreshMinutes, cfg.StaleMinutes, time.Now())

	changed, err := report.UpdateReadme(cfg.ReadmePath, statusMD)
	if err != nil {
		log.Fatalf("Erro ao atualizar README: %v", err)
	}
	if changed {
		log.Println("README atualizado")
	} else {
		log.Println("README já está em dia")
	}
}
