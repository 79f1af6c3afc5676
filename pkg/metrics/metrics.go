package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	BathOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "bath_journal", Name: "bath_operations_total", Help: "Bath operations by operation and outcome."},
		[]string{"op", "outcome"},
	)
	ListCacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "bath_journal", Name: "list_cache_lookups_total", Help: "Bath list cache lookups by result (hit, miss, error, stale)."},
		[]string{"result"},
	)
	EventsPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "bath_journal", Name: "events_published_total", Help: "Bath lifecycle events by type and outcome."},
		[]string{"type", "outcome"},
	)
	EventsIndexed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "bath_journal", Name: "events_indexed_total", Help: "Bath events applied to the search index by type and outcome."},
		[]string{"type", "outcome"},
	)
	RateLimitRejected = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "bath_journal", Name: "rate_limit_rejected_total", Help: "Requests rejected by the rate limiter."},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(BathOperations)
	reg.MustRegister(ListCacheLookups)
	reg.MustRegister(EventsPublished)
	reg.MustRegister(EventsIndexed)
	reg.MustRegister(RateLimitRejected)
}

// Outcome maps an error to the outcome label.
func Outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
