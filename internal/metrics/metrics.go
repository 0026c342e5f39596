// Package metrics defines the Prometheus instrumentation for the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Resolution metrics
	ResolveTotal           *prometheus.CounterVec
	ResolveDurationSeconds *prometheus.HistogramVec

	// Fallback provider metrics
	FallbackErrorsTotal *prometheus.CounterVec

	// HTTP metrics
	HTTPErrorsTotal *prometheus.CounterVec

	// Rate limiter metrics
	RateLimiterDropped *prometheus.CounterVec

	// Query log metrics
	QueryLogWritesTotal *prometheus.CounterVec
}

// New creates a new Metrics instance with all metrics registered
func New(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		ResolveTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "concierge_resolve_total",
				Help: "Total number of resolved queries by path and status",
			},
			[]string{"path", "status"}, // path: deterministic, fallback; status: ok, unknown, malformed, error
		),

		ResolveDurationSeconds: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "concierge_resolve_duration_seconds",
				Help:    "Query resolution duration in seconds by path",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30}, // Deterministic is sub-ms, fallback can take seconds
			},
			[]string{"path"},
		),

		FallbackErrorsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "concierge_fallback_errors_total",
				Help: "Total fallback provider failures by provider and kind",
			},
			[]string{"provider", "kind"}, // kind: quota, malformed, unavailable
		),

		HTTPErrorsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "concierge_http_errors_total",
				Help: "Total HTTP errors by type",
			},
			[]string{"error_type"}, // error_type: empty_query, rate_limit, quota, internal
		),

		RateLimiterDropped: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "concierge_rate_limiter_dropped_total",
				Help: "Total number of requests dropped by rate limiter",
			},
			[]string{"limiter_type"}, // limiter_type: chat, llm
		),

		QueryLogWritesTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "concierge_query_log_writes_total",
				Help: "Total query log writes by status",
			},
			[]string{"status"}, // status: success, error
		),
	}

	return m
}

// RecordResolve records a resolved query with its pipeline path and status
func (m *Metrics) RecordResolve(path, status string) {
	m.ResolveTotal.WithLabelValues(path, status).Inc()
}

// RecordResolveDuration records query resolution latency for a pipeline path
func (m *Metrics) RecordResolveDuration(path string, duration float64) {
	m.ResolveDurationSeconds.WithLabelValues(path).Observe(duration)
}

// RecordFallbackError records a fallback provider failure
func (m *Metrics) RecordFallbackError(provider, kind string) {
	m.FallbackErrorsTotal.WithLabelValues(provider, kind).Inc()
}

// RecordHTTPError records HTTP error metrics
func (m *Metrics) RecordHTTPError(errorType string) {
	m.HTTPErrorsTotal.WithLabelValues(errorType).Inc()
}

// RecordRateLimiterDrop records a request dropped by rate limiter
func (m *Metrics) RecordRateLimiterDrop(limiterType string) {
	m.RateLimiterDropped.WithLabelValues(limiterType).Inc()
}

// RecordQueryLogWrite records a query log write attempt
func (m *Metrics) RecordQueryLogWrite(status string) {
	m.QueryLogWritesTotal.WithLabelValues(status).Inc()
}
