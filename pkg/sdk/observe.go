package inkwell

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/inkwell/internal/domain"
)

// Operation statuses. A missing record is reported apart from failures.
const (
	statusOK       = "ok"
	statusNotFound = "not_found"
	statusError    = "error"
)

// sdkMetrics holds the collectors of one registerer.
type sdkMetrics struct {
	calls    *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	returned *prometheus.HistogramVec
}

func newSDKMetrics(reg prometheus.Registerer) (*sdkMetrics, error) {
	m := &sdkMetrics{
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "inkwell",
			Subsystem: "sdk",
			Name:      "operations_total",
			Help:      "SDK operations by operation, collection and status.",
		}, []string{"operation", "collection", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "inkwell",
			Subsystem: "sdk",
			Name:      "operation_duration_seconds",
			Help:      "SDK operation duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation", "collection"}),
		returned: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "inkwell",
			Subsystem: "sdk",
			Name:      "query_records",
			Help:      "Records returned per query.",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100},
		}, []string{"collection"}),
	}
	if err := register(reg, &m.calls); err != nil {
		return nil, err
	}
	if err := register(reg, &m.latency); err != nil {
		return nil, err
	}
	if err := register(reg, &m.returned); err != nil {
		return nil, err
	}
	return m, nil
}

// register adds c to reg. When another client registered the same metric
// first, c is replaced by that collector so both clients share it.
func register[T prometheus.Collector](reg prometheus.Registerer, c *T) error {
	err := reg.Register(*c)
	if err == nil {
		return nil
	}
	var are prometheus.AlreadyRegisteredError
	if !errors.As(err, &are) {
		return fmt.Errorf("inkwell: register metric: %w", err)
	}
	existing, ok := are.ExistingCollector.(T)
	if !ok {
		return fmt.Errorf("inkwell: metric already registered with incompatible type: %T", are.ExistingCollector)
	}
	*c = existing
	return nil
}

// observer logs and counts SDK operations. A nil observer is a no-op.
type observer struct {
	logger  *slog.Logger
	metrics *sdkMetrics
}

func newObserver(logger *slog.Logger, reg prometheus.Registerer) (*observer, error) {
	o := &observer{logger: logger}
	if reg != nil {
		m, err := newSDKMetrics(reg)
		if err != nil {
			return nil, err
		}
		o.metrics = m
	}
	return o, nil
}

func statusOf(err error) string {
	switch {
	case err == nil:
		return statusOK
	case errors.Is(err, domain.ErrNotFound):
		return statusNotFound
	}
	return statusError
}

// observe records one operation on collection. collection is empty for
// operations that span collections or touch none.
func (o *observer) observe(op, collection string, start time.Time, err error) {
	if o == nil {
		return
	}
	dur := time.Since(start)
	status := statusOf(err)

	if o.metrics != nil {
		o.metrics.calls.WithLabelValues(op, collection, status).Inc()
		o.metrics.latency.WithLabelValues(op, collection).Observe(dur.Seconds())
	}

	if o.logger == nil {
		return
	}
	attrs := []any{"op", op, "duration", dur}
	if collection != "" {
		attrs = append(attrs, "collection", collection)
	}
	switch status {
	case statusError:
		o.logger.Warn("operation failed", append(attrs, "error", err)...)
	case statusNotFound:
		o.logger.Debug("record not found", attrs...)
	default:
		o.logger.Debug("operation completed", attrs...)
	}
}

// records notes how many records a query returned.
func (o *observer) records(collection string, n int) {
	if o == nil || o.metrics == nil {
		return
	}
	o.metrics.returned.WithLabelValues(collection).Observe(float64(n))
}
