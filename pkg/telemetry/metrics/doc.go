// Package metrics provides Prometheus instrumentation for the observation
// engine.
//
// # Design
//
// All metric families hang off a single Collector created with an injected
// registry, so the process exposes one coherent /metrics surface and tests
// can assert against a private registry. Metric families are grouped by
// concern:
//
//   - SearchMetrics: query counts, latency, rows returned, degraded transforms
//   - ExportMetrics: export jobs by format and artifact sizes
//   - SweepMetrics: retention sweep runs and deletions
//
// Every family uses the configured namespace and subsystem, biotica_engine
// by default. Recording is a no-op when metrics are disabled in
// configuration.
package metrics
