package auctions

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ResolutionsTotal counts successful resolutions by resulting state.
	ResolutionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dutchx_auctions_resolutions_total",
		Help: "Total number of auction resolutions by resulting state",
	}, []string{"state"})

	// ResolutionsNoResultTotal counts resolutions that yielded no record.
	ResolutionsNoResultTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dutchx_auctions_resolutions_no_result_total",
		Help: "Total number of resolutions with insufficient provider data",
	})

	// ResolutionErrorsTotal counts resolutions aborted by provider errors.
	ResolutionErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dutchx_auctions_resolution_errors_total",
		Help: "Total number of resolutions aborted by provider errors",
	})

	// ResolutionDurationSeconds tracks end-to-end resolution latency.
	ResolutionDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "dutchx_auctions_resolution_duration_seconds",
		Help:    "Duration of auction resolutions including provider queries",
		Buckets: prometheus.DefBuckets,
	})
)
