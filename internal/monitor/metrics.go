package monitor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PollsTotal counts completed polling rounds.
	PollsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dutchx_monitor_polls_total",
		Help: "Total number of polling rounds",
	})

	// PollErrorsTotal counts per-pair poll failures.
	PollErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dutchx_monitor_poll_errors_total",
		Help: "Total number of failed pair polls",
	})

	// PollDurationSeconds tracks the duration of a full polling round.
	PollDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "dutchx_monitor_poll_duration_seconds",
		Help:    "Duration of a full polling round across all pairs",
		Buckets: prometheus.DefBuckets,
	})

	// StateTransitionsTotal counts observed auction state transitions by
	// the state entered.
	StateTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dutchx_monitor_state_transitions_total",
		Help: "Total number of observed auction state transitions",
	}, []string{"state"})

	// ActiveAuctions tracks how many pairs currently have a snapshot.
	ActiveAuctions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "dutchx_monitor_active_auctions",
		Help: "Number of trading pairs with a current auction snapshot",
	})
)
