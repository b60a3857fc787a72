package ingest

import (
	"log"
	"sort"

	"ofertas/internal/feed"
	"ofertas/internal/model"
	"ofertas/internal/observability"
	"ofertas/internal/store"
)

type Result struct {
	Fetched  int
	Inserted int
}

// Runner amarra o feed ao store: fetch → ordena por id → garante schema → insere.
type Runner struct {
	Feed  *feed.Client
	Store *store.OfferStore
}

// Run executa uma ingestão completa. Qualquer falha aborta a execução; o que já
// foi commitado pelo store permanece (reexecutar é seguro, o insert é idempotente).
func (r *Runner) Run() (Result, error) {
	offers, err := r.Feed.FetchOffers()
	if err != nil {
		return Result{}, err
	}
	observability.OffersFetched.Add(float64(len(offers)))

	// Insere do mais antigo para o mais novo
	sort.Slice(offers, func(i, j int) bool { return offers[i].ID < offers[j].ID })

	if err := r.Store.EnsureSchema(); err != nil {
		return Result{}, err
	}

	inserted, err := r.Store.InsertNew(offers)
	if err != nil {
		return Result{}, err
	}
	observability.OffersInserted.Add(float64(inserted))

	logSample(offers)
	return Result{Fetched: len(offers), Inserted: inserted}, nil
}

// logSample loga as primeiras ofertas para auditoria rápida da normalização.
func logSample(offers []model.Offer) {
	for i, o := range offers {
		if i >= 3 {
			return
		}
		log.Printf("[AUDIT] id=%d empresa=%q produto=%q", o.ID, o.Company, o.Product)
	}
}
