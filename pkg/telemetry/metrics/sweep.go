package metrics

import (
	"humboldt-hq/biotica/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// SweepMetrics tracks retention sweeps over the export directory.
//
// Metrics:
//   - biotica_engine_sweeps_total: sweep runs
//   - biotica_engine_sweep_deleted_total: artifacts removed by sweeps
//   - biotica_engine_sweep_errors_total: per-file removal failures
type SweepMetrics struct {
	sweepsTotal  prometheus.Counter
	deletedTotal prometheus.Counter
	errorsTotal  prometheus.Counter
}

// NewSweepMetrics creates and registers sweep metrics with the provided registry.
func NewSweepMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *SweepMetrics {
	sm := &SweepMetrics{
		sweepsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "sweeps_total",
				Help:      "Total number of retention sweep runs",
			},
		),

		deletedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "sweep_deleted_total",
				Help:      "Total number of export artifacts deleted by sweeps",
			},
		),

		errorsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "sweep_errors_total",
				Help:      "Total number of artifact deletions that failed",
			},
		),
	}

	registry.MustRegister(
		sm.sweepsTotal,
		sm.deletedTotal,
		sm.errorsTotal,
	)

	return sm
}

// RecordSweep records the outcome of one retention sweep.
func (sm *SweepMetrics) RecordSweep(deleted, errors int) {
	sm.sweepsTotal.Inc()

	if deleted > 0 {
		sm.deletedTotal.Add(float64(deleted))
	}
	if errors > 0 {
		sm.errorsTotal.Add(float64(errors))
	}
}
