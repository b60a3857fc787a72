package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	OffersFetched = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "offers_fetched_total",
			Help: "Total de ofertas baixadas do feed",
		},
	)
	OffersInserted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "offers_inserted_total",
			Help: "Total de ofertas novas inseridas",
		},
	)
)

func Start(port string) {
	prometheus.MustRegister(OffersFetched, OffersInserted)
	http.Handle("/metrics", promhttp.Handler())
	go http.ListenAndServe(":"+port, nil)
}
