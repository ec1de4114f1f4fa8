// Package storage provides record store implementations for observation
// data.
//
// # Backends
//
// The package implements the observation.Store interface twice:
//
//   - SQLite: embedded database for single-node deployments, WAL mode,
//     busy timeout, pooled connections
//   - Memory: in-memory store for tests
//
// # Fetch Semantics
//
// Both backends drive the query builder for predicate assembly, apply the
// configured row cap with a deterministic truncation flag, and run the
// coordinate transformer per row. A per-record transform failure degrades
// only that record's map fields; a store failure or context deadline aborts
// the request with an observation.StoreError.
package storage
