// Package observation defines the core domain types for the biotica
// query/export engine: observation records, filter specifications, export
// jobs, and the shared error taxonomy.
//
// # Records
//
// A Record is an immutable snapshot of one biological observation as read
// from the store. Raw projected coordinates (east/north plus the EPSG code
// they were captured in) are never modified; the WGS84 latitude/longitude
// used for map display are carried as derived fields and are simply absent
// when the transform fails for a record.
//
// # Filters
//
// A FilterSpec maps allow-listed field names to match criteria (exact or
// contains) and optionally carries a free-text keyword that is OR-matched
// across every text column. An empty FilterSpec with no keyword matches the
// full data set, bounded only by the configured row cap.
//
// # Error Taxonomy
//
// All engine errors are one of five typed kinds:
//
//   - ValidationError: a filter or sort field outside the allow-list
//   - ConfigError: unknown reference system or invalid configuration value
//   - TransformError: coordinate pair outside the valid domain (per-record,
//     never fatal to a request)
//   - StoreError: connectivity, query execution, or timeout failure
//   - ExportError: artifact generation failure
//
// Callers use errors.As to map kinds to user-facing responses.
package observation
