package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"net/http"
	"sync"
)

var (
	ErrorsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobboard_errors_total",
			Help: "Total number of logged errors by type and level.",
		},
		[]string{"type", "level"},
	)
	BackendRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "jobboard_backend_request_duration_seconds",
			Help:    "Duration of requests to the job board backend in seconds.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"endpoint"},
	)
	ListingFetchesCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobboard_listing_fetches_total",
			Help: "Total number of job listing fetches by outcome.",
		},
		[]string{"outcome"},
	)
	EnrichmentFailuresCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "jobboard_enrichment_failures_total",
			Help: "Total number of failed application count requests.",
		},
	)
)

var registerOnce sync.Once

func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(ErrorsCounter)
		prometheus.MustRegister(BackendRequestDuration)
		prometheus.MustRegister(ListingFetchesCounter)
		prometheus.MustRegister(EnrichmentFailuresCounter)
	})
}

func Handler() http.Handler {
	return promhttp.Handler()
}
