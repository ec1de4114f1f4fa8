package metrics

import (
	"humboldt-hq/biotica/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// ExportMetrics tracks export artifact generation.
//
// Metrics:
//   - biotica_engine_exports_total: exports by format and status
//   - biotica_engine_export_bytes: artifact size histogram
type ExportMetrics struct {
	exportsTotal *prometheus.CounterVec
	exportBytes  *prometheus.HistogramVec
}

// NewExportMetrics creates and registers export metrics with the provided registry.
func NewExportMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *ExportMetrics {
	em := &ExportMetrics{
		exportsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "exports_total",
				Help:      "Total number of export jobs processed",
			},
			[]string{"format", "status"},
		),

		exportBytes: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "export_bytes",
				Help:      "Size of export artifacts in bytes",
				Buckets:   prometheus.ExponentialBuckets(1024, 4, 10), // 1KB to 256MB
			},
			[]string{"format"},
		),
	}

	registry.MustRegister(
		em.exportsTotal,
		em.exportBytes,
	)

	return em
}

// RecordExport records a completed export job.
func (em *ExportMetrics) RecordExport(format, status string, sizeBytes int64) {
	em.exportsTotal.WithLabelValues(format, status).Inc()

	if sizeBytes > 0 {
		em.exportBytes.WithLabelValues(format).Observe(float64(sizeBytes))
	}
}
