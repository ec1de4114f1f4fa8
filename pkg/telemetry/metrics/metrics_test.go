package metrics

import (
	"testing"
	"time"

	"humboldt-hq/biotica/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// testConfig returns an enabled metrics configuration for tests.
func testConfig() *config.MetricsConfig {
	return &config.MetricsConfig{
		Enabled:   true,
		Namespace: "test",
		Subsystem: "engine",
	}
}

// TestCollector_NewCollector tests collector creation.
func TestCollector_NewCollector(t *testing.T) {
	cfg := testConfig()
	registry := prometheus.NewRegistry()

	collector := NewCollector(cfg, registry)

	if collector == nil {
		t.Fatal("Expected non-nil collector")
	}
	if collector.Registry() != registry {
		t.Error("Collector registry not set correctly")
	}
}

// TestCollector_RecordSearch tests the search metric family.
func TestCollector_RecordSearch(t *testing.T) {
	registry := prometheus.NewRegistry()
	collector := NewCollector(testConfig(), registry)

	collector.RecordSearch("success", 120*time.Millisecond, 42, 3)
	collector.RecordSearch("success", 80*time.Millisecond, 10, 0)
	collector.RecordSearch("error", 5*time.Millisecond, 0, 0)

	successes := testutil.ToFloat64(collector.searchMetrics.searchesTotal.WithLabelValues("success"))
	if successes != 2 {
		t.Errorf("Expected 2 successful searches, got %v", successes)
	}
	errors := testutil.ToFloat64(collector.searchMetrics.searchesTotal.WithLabelValues("error"))
	if errors != 1 {
		t.Errorf("Expected 1 failed search, got %v", errors)
	}
	records := testutil.ToFloat64(collector.searchMetrics.recordsFetched)
	if records != 52 {
		t.Errorf("Expected 52 fetched records, got %v", records)
	}
	failures := testutil.ToFloat64(collector.searchMetrics.transformFailures)
	if failures != 3 {
		t.Errorf("Expected 3 transform failures, got %v", failures)
	}
}

// TestCollector_RecordExport tests the export metric family.
func TestCollector_RecordExport(t *testing.T) {
	registry := prometheus.NewRegistry()
	collector := NewCollector(testConfig(), registry)

	collector.RecordExport("csv", "success", 2048)
	collector.RecordExport("xlsx", "success", 8192)
	collector.RecordExport("xlsx", "error", 0)

	csvTotal := testutil.ToFloat64(collector.exportMetrics.exportsTotal.WithLabelValues("csv", "success"))
	if csvTotal != 1 {
		t.Errorf("Expected 1 csv export, got %v", csvTotal)
	}
	xlsxErrors := testutil.ToFloat64(collector.exportMetrics.exportsTotal.WithLabelValues("xlsx", "error"))
	if xlsxErrors != 1 {
		t.Errorf("Expected 1 failed xlsx export, got %v", xlsxErrors)
	}
}

// TestCollector_RecordSweep tests the sweep metric family.
func TestCollector_RecordSweep(t *testing.T) {
	registry := prometheus.NewRegistry()
	collector := NewCollector(testConfig(), registry)

	collector.RecordSweep(5, 0)
	collector.RecordSweep(0, 1)

	sweeps := testutil.ToFloat64(collector.sweepMetrics.sweepsTotal)
	if sweeps != 2 {
		t.Errorf("Expected 2 sweeps, got %v", sweeps)
	}
	deleted := testutil.ToFloat64(collector.sweepMetrics.deletedTotal)
	if deleted != 5 {
		t.Errorf("Expected 5 deletions, got %v", deleted)
	}
	errs := testutil.ToFloat64(collector.sweepMetrics.errorsTotal)
	if errs != 1 {
		t.Errorf("Expected 1 sweep error, got %v", errs)
	}
}

// TestCollector_Disabled tests that recording is a no-op when disabled.
func TestCollector_Disabled(t *testing.T) {
	cfg := testConfig()
	cfg.Enabled = false
	registry := prometheus.NewRegistry()
	collector := NewCollector(cfg, registry)

	collector.RecordSearch("success", time.Second, 100, 0)
	collector.RecordExport("csv", "success", 1024)
	collector.RecordSweep(3, 0)

	if got := testutil.ToFloat64(collector.searchMetrics.recordsFetched); got != 0 {
		t.Errorf("Disabled collector recorded %v records", got)
	}
	if got := testutil.ToFloat64(collector.sweepMetrics.deletedTotal); got != 0 {
		t.Errorf("Disabled collector recorded %v deletions", got)
	}
}
