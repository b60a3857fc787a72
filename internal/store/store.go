package store

import (
	"database/sql"
	"fmt"
	"regexp"
	"strings"

	"github.com/lib/pq"

	"ofertas/internal/model"
)

const DefaultTableName = "oil_offers_export"

// insertBatchSize limita o tamanho de cada INSERT multi-linha.
const insertBatchSize = 500

var tableNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

var insertColumns = []string{
	"id", "published_at", "company", "product", "volume",
	"delivery_start", "delivery_end", "price_formula", "ncm",
	"delivery_location", "notes", "basin", "pdf_url", "vigente",
}

// ValidTableName valida o nome de tabela vindo de configuração antes de qualquer
// interpolação em SQL. Vazio cai no default; nome fora do padrão é erro, nunca
// sanitizado em silêncio.
func ValidTableName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return DefaultTableName, nil
	}
	if !tableNameRe.MatchString(name) {
		return "", fmt.Errorf("nome de tabela inválido: %q", name)
	}
	return name, nil
}

type OfferStore struct {
	DB    *sql.DB
	table string
}

func New(db *sql.DB, tableName string) (*OfferStore, error) {
	table, err := ValidTableName(tableName)
	if err != nil {
		return nil, err
	}
	return &OfferStore{DB: db, table: table}, nil
}

func (s *OfferStore) Table() string {
	return s.table
}

// EnsureSchema cria a tabela se não existir. O DDL roda direto na conexão, fora
// de transação, para funcionar atrás do PgBouncer em modo transaction pooling.
// Re-executar com a tabela já criada é no-op.
func (s *OfferStore) EnsureSchema() error {
	ddl := fmt.Sprintf(`
		create table if not exists public.%s (
			id integer primary key,
			published_at timestamptz,
			company text,
			product text,
			volume text,
			delivery_start date,
			delivery_end date,
			price_formula text,
			ncm text,
			delivery_location text,
			notes text,
			basin text,
			pdf_url text,
			vigente text,
			created_at timestamptz not null default now()
		)`, s.table)

	if _, err := s.DB.Exec(ddl); err != nil {
		return fmt.Errorf("falha ao criar tabela %s: %w", s.table, err)
	}
	return nil
}

// FindKnownIDs devolve o subconjunto de ids que já existe na tabela.
// Lista vazia não gera query.
func (s *OfferStore) FindKnownIDs(ids []int) (map[int]bool, error) {
	known := make(map[int]bool)
	if len(ids) == 0 {
		return known, nil
	}

	query := fmt.Sprintf("select id from public.%s where id = any($1)", s.table)
	rows, err := s.DB.Query(query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("falha ao consultar ids existentes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		known[id] = true
	}
	return known, rows.Err()
}

// InsertNew insere apenas as ofertas cujo id ainda não existe. O ON CONFLICT DO
// NOTHING fica como segunda barreira contra corridas entre a consulta e o insert.
// Devolve o tamanho do conjunto novo calculado antes do insert.
func (s *OfferStore) InsertNew(offers []model.Offer) (int, error) {
	if len(offers) == 0 {
		return 0, nil
	}

	ids := make([]int, 0, len(offers))
	for _, o := range offers {
		ids = append(ids, o.ID)
	}
	known, err := s.FindKnownIDs(ids)
	if err != nil {
		return 0, err
	}

	newOffers := make([]model.Offer, 0, len(offers))
	for _, o := range offers {
		if !known[o.ID] {
			newOffers = append(newOffers, o)
		}
	}
	if len(newOffers) == 0 {
		return 0, nil
	}

	tx, err := s.DB.Begin()
	if err != nil {
		return 0, fmt.Errorf("falha ao abrir transação: %w", err)
	}
	defer tx.Rollback()

	for start := 0; start < len(newOffers); start += insertBatchSize {
		end := start + insertBatchSize
		if end > len(newOffers) {
			end = len(newOffers)
		}
		if err := s.insertBatch(tx, newOffers[start:end]); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("falha no commit: %w", err)
	}
	return len(newOffers), nil
}

func (s *OfferStore) insertBatch(tx *sql.Tx, batch []model.Offer) error {
	placeholders := make([]string, 0, len(batch))
	args := make([]any, 0, len(batch)*len(insertColumns))

	for i, o := range batch {
		ph := make([]string, len(insertColumns))
		for j := range insertColumns {
			ph[j] = fmt.Sprintf("$%d", i*len(insertColumns)+j+1)
		}
		placeholders = append(placeholders, "("+strings.Join(ph, ", ")+")")
		args = append(args,
			o.ID, o.PublishedAt, o.Company, o.Product, o.Volume,
			o.DeliveryStart, o.DeliveryEnd, o.PriceFormula, o.NCM,
			o.DeliveryLocation, o.Notes, o.Basin, o.PDFURL, o.Vigente,
		)
	}

	query := fmt.Sprintf(
		"insert into public.%s (%s) values %s on conflict (id) do nothing",
		s.table,
		strings.Join(insertColumns, ", "),
		strings.Join(placeholders, ", "),
	)

	if _, err := tx.Exec(query, args...); err != nil {
		return fmt.Errorf("falha ao inserir lote: %w", err)
	}
	return nil
}
