// Package server provides the HTTP API for the observation engine.
//
// # Routes
//
//   - POST /api/v1/search: run a filter query, returns records plus
//     map-ready points for georeferenced results
//   - POST /api/v1/export: generate a CSV or XLSX artifact for a filter
//   - GET /api/v1/exports/{id}: download a previously created artifact
//   - GET /api/v1/fields/{field}/values: distinct values for a filter field
//   - GET /health: record store connectivity probe
//   - GET /metrics: Prometheus exposition, when metrics are enabled
//
// Domain errors map to HTTP statuses by kind: validation and configuration
// problems are 400, store failures are 502 (504 on timeout), unknown export
// jobs are 404, and export generation failures are 500. Every error body
// uses the same JSON envelope.
package server
