package metrics

import (
	"time"

	"humboldt-hq/biotica/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector owns every Prometheus metric the engine emits. It registers
// all metric families against a single injected registry so tests can use
// an isolated registry instead of the process-global default.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	searchMetrics *SearchMetrics
	exportMetrics *ExportMetrics
	sweepMetrics  *SweepMetrics
}

// NewCollector creates a collector with the specified configuration and
// Prometheus registry. If registry is nil, a fresh registry is created.
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	if cfg.Namespace == "" {
		cfg.Namespace = "biotica"
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = "engine"
	}

	c := &Collector{
		config:   cfg,
		registry: registry,
	}

	c.searchMetrics = NewSearchMetrics(cfg, registry)
	c.exportMetrics = NewExportMetrics(cfg, registry)
	c.sweepMetrics = NewSweepMetrics(cfg, registry)

	return c
}

// RecordSearch records a completed search request.
//
// Parameters:
//   - status: "success" or "error"
//   - duration: end-to-end search duration
//   - records: number of records returned
//   - transformFailures: records whose coordinates failed to transform
func (c *Collector) RecordSearch(status string, duration time.Duration, records, transformFailures int) {
	if !c.config.Enabled {
		return
	}

	c.searchMetrics.RecordSearch(status, duration, records, transformFailures)
}

// RecordExport records a completed export job.
//
// Parameters:
//   - format: artifact format ("csv" or "xlsx")
//   - status: "success" or "error"
//   - sizeBytes: artifact size on disk, 0 when the job failed
func (c *Collector) RecordExport(format, status string, sizeBytes int64) {
	if !c.config.Enabled {
		return
	}

	c.exportMetrics.RecordExport(format, status, sizeBytes)
}

// RecordSweep records the outcome of a retention sweep.
func (c *Collector) RecordSweep(deleted, errors int) {
	if !c.config.Enabled {
		return
	}

	c.sweepMetrics.RecordSweep(deleted, errors)
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
