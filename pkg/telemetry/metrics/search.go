package metrics

import (
	"time"

	"humboldt-hq/biotica/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// SearchMetrics tracks query execution.
//
// Metrics:
//   - biotica_engine_searches_total: searches by status
//   - biotica_engine_search_duration_seconds: search latency histogram
//   - biotica_engine_records_fetched_total: records returned to callers
//   - biotica_engine_transform_failures_total: coordinate transforms that degraded
type SearchMetrics struct {
	searchesTotal     *prometheus.CounterVec
	searchDuration    prometheus.Histogram
	recordsFetched    prometheus.Counter
	transformFailures prometheus.Counter
}

// NewSearchMetrics creates and registers search metrics with the provided registry.
func NewSearchMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *SearchMetrics {
	sm := &SearchMetrics{
		searchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "searches_total",
				Help:      "Total number of search requests processed",
			},
			[]string{"status"},
		),

		searchDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "search_duration_seconds",
				Help:      "Duration of search requests in seconds",
				Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
			},
		),

		recordsFetched: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "records_fetched_total",
				Help:      "Total number of observation records returned",
			},
		),

		transformFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "transform_failures_total",
				Help:      "Total number of records whose coordinate transform failed",
			},
		),
	}

	registry.MustRegister(
		sm.searchesTotal,
		sm.searchDuration,
		sm.recordsFetched,
		sm.transformFailures,
	)

	return sm
}

// RecordSearch records a completed search request.
func (sm *SearchMetrics) RecordSearch(status string, duration time.Duration, records, transformFailures int) {
	sm.searchesTotal.WithLabelValues(status).Inc()
	sm.searchDuration.Observe(duration.Seconds())

	if records > 0 {
		sm.recordsFetched.Add(float64(records))
	}
	if transformFailures > 0 {
		sm.transformFailures.Add(float64(transformFailures))
	}
}
