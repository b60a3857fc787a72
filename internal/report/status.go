package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"ofertas/internal/store"
)

// histogramTZ fixa o calendário do histograma no fuso do mercado.
const histogramTZ = "America/Argentina/Buenos_Aires"

const recentLimit = 5

type RecentRow struct {
	ID          int
	Company     string
	Product     string
	PublishedAt *time.Time
	Vigente     *string
	CreatedAt   time.Time
}

type DayCount struct {
	Day   time.Time
	Count int64
}

type Status struct {
	Total       int64
	LastCreated *time.Time
	Recent      []RecentRow
	Histogram   []DayCount
}

type Reporter struct {
	DB    *pgxpool.Pool
	table string
}

func NewReporter(db *pgxpool.Pool, tableName string) (*Reporter, error) {
	table, err := store.ValidTableName(tableName)
	if err != nil {
		return nil, err
	}
	return &Reporter{DB: db, table: table}, nil
}

// Fetch lê os agregados que alimentam o bloco de status do README.
func (r *Reporter) Fetch() (*Status, error) {
	ctx := context.Background()
	st := &Status{}

	err := r.DB.QueryRow(ctx,
		fmt.Sprintf("select count(*), max(created_at) from public.%s", r.table),
	).Scan(&st.Total, &st.LastCreated)
	if err != nil {
		return nil, fmt.Errorf("falha ao consultar totais: %w", err)
	}

	rows, err := r.DB.Query(ctx, fmt.Sprintf(`
		select id, company, product, published_at, vigente, created_at
		from public.%s
		order by created_at desc
		limit %d`, r.table, recentLimit))
	if err != nil {
		return nil, fmt.Errorf("falha ao consultar registros recentes: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var row RecentRow
		if err := rows.Scan(&row.ID, &row.Company, &row.Product, &row.PublishedAt, &row.Vigente, &row.CreatedAt); err != nil {
			return nil, err
		}
		st.Recent = append(st.Recent, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	hrows, err := r.DB.Query(ctx, fmt.Sprintf(`
		select (created_at at time zone '%s')::date as dia, count(*)
		from public.%s
		where created_at >= now() - interval '14 days'
		group by dia
		order by dia`, histogramTZ, r.table))
	if err != nil {
		return nil, fmt.Errorf("falha ao consultar histograma: %w", err)
	}
	defer hrows.Close()
	for hrows.Next() {
		var dc DayCount
		if err := hrows.Scan(&dc.Day, &dc.Count); err != nil {
			return nil, err
		}
		st.Histogram = append(st.Histogram, dc)
	}
	return st, hrows.Err()
}

// RenderMarkdown monta o bloco de status que vai entre os marcadores do README.
func RenderMarkdown(st *Status, freshMinutes, staleMinutes int, now time.Time) string {
	var b strings.Builder

	b.WriteString("### Estado de ofertas (dinámico)\n\n")
	b.WriteString(badgeLine(st.LastCreated, freshMinutes, staleMinutes, now))
	b.WriteString("\n")

	lastUpdated := now.UTC()
	if st.LastCreated != nil {
		lastUpdated = st.LastCreated.UTC()
	}
	fmt.Fprintf(&b, "- **Última actualización**: %s\n", lastUpdated.Format(time.RFC3339))
	fmt.Fprintf(&b, "- **Total de registros**: %d\n\n", st.Total)

	b.WriteString("- **Últimos 5 registros**:\n")
	if len(st.Recent) == 0 {
		b.WriteString("  - (sin registros)\n")
	}
	for _, row := range st.Recent {
		pub := "-"
		if row.PublishedAt != nil {
			pub = row.PublishedAt.Format(time.RFC3339)
		}
		vig := "-"
		if row.Vigente != nil && *row.Vigente != "" {
			vig = *row.Vigente
		}
		fmt.Fprintf(&b, "  - id %d | %s | %s | publ: %s | vigente: %s | created_at: %s\n",
			row.ID, row.Company, truncate(row.Product, 60), pub, vig,
			row.CreatedAt.UTC().Format(time.RFC3339))
	}

	b.WriteString("\n- **Ingresos por día (14 días)**:\n\n```\n")
	if len(st.Histogram) == 0 {
		b.WriteString("(sin ingresos recientes)\n")
	}
	for _, dc := range st.Histogram {
		fmt.Fprintf(&b, "%s | %-4d %s\n", dc.Day.Format("2006-01-02"), dc.Count, bar(dc.Count))
	}
	b.WriteString("```\n")

	return b.String()
}

// badgeLine elige el color del badge según la antigüedad del último ingreso.
func badgeLine(last *time.Time, freshMinutes, staleMinutes int, now time.Time) string {
	label, color := "sin--datos", "lightgrey"
	if last != nil {
		age := now.Sub(*last)
		switch {
		case age <= time.Duration(freshMinutes)*time.Minute:
			label, color = "actualizado", "brightgreen"
		case age <= time.Duration(staleMinutes)*time.Minute:
			label, color = "atrasado", "yellow"
		default:
			label, color = "desactualizado", "red"
		}
	}
	return fmt.Sprintf("![estado](https://img.shields.io/badge/datos-%s-%s)\n", label, color)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}

func bar(n int64) string {
	if n > 40 {
		n = 40
	}
	return strings.Repeat("█", int(n))
}
