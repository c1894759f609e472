package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "inkwell"

// HTTP metrics.
var (
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
)

// Firestore REST metrics.
var (
	FirestoreRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "firestore",
			Name:      "requests_total",
			Help:      "Firestore REST requests by operation and status code",
		},
		[]string{"op", "status"},
	)

	FirestoreRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "firestore",
			Name:      "request_duration_seconds",
			Help:      "Firestore REST request duration in seconds",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"op"},
	)

	FirestoreRetriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "firestore",
			Name:      "retries_total",
			Help:      "Retried Firestore requests",
		},
		[]string{"op"},
	)

	DecodeWarningsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "firestore",
			Name:      "decode_warnings_total",
			Help:      "Fields dropped during decoding because of an unknown value tag",
		},
	)
)

// Cache metrics.
var (
	QueryCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "query_cache_total",
			Help:      "Query response cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	AuthorCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "author_cache_total",
			Help:      "Author lookup cache hits and misses",
		},
		[]string{"result"},
	)
)

// Outline metrics.
var (
	OutlineIDsAssignedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "outline",
			Name:      "ids_assigned_total",
			Help:      "Heading identifiers assigned by the synchronizer",
		},
	)

	OutlineRebuildsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "outline",
			Name:      "rebuilds_total",
			Help:      "Outline rebuilds after a document change",
		},
	)

	OutlineApplyErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "outline",
			Name:      "apply_errors_total",
			Help:      "Identifier transactions the document refused",
		},
	)
)

// Summarizer metrics.
var (
	SummarizerRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "summarizer",
			Name:      "requests_total",
			Help:      "Excerpt summarizer requests",
		},
		[]string{"model", "status"},
	)

	SummarizerTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "summarizer",
			Name:      "tokens_total",
			Help:      "Tokens consumed by the excerpt summarizer",
		},
		[]string{"model", "type"},
	)

	SummarizerBudgetTokensRemaining = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "summarizer",
			Name:      "budget_tokens_remaining",
			Help:      "Summarizer tokens left in the current period (-1 when unlimited)",
		},
		[]string{"period"}, // "daily" / "monthly"
	)
)

var registerOnce sync.Once

// Register registers all collectors on the default registry. Must be called
// from main; repeated calls are no-ops.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			HTTPRequestDuration,
			HTTPRequestsTotal,
			FirestoreRequestsTotal,
			FirestoreRequestDuration,
			FirestoreRetriesTotal,
			DecodeWarningsTotal,
			QueryCacheTotal,
			AuthorCacheTotal,
			OutlineIDsAssignedTotal,
			OutlineRebuildsTotal,
			OutlineApplyErrorsTotal,
			SummarizerRequestsTotal,
			SummarizerTokensTotal,
			SummarizerBudgetTokensRemaining,
		)
	})
}
