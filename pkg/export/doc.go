// Package export generates CSV and spreadsheet artifacts from observation
// result sets.
//
// # Formats
//
//   - CSV: configurable delimiter, optional UTF-8 byte-order marker, fixed
//     column order, dates in a single fixed format, coordinates at fixed
//     precision
//   - XLSX: a data sheet with a styled header row and auto-sized columns,
//     plus a summary sheet with total and per-group counts computed in a
//     single pass
//
// # Determinism
//
// Both generators are deterministic and order-preserving: the same record
// sequence and configuration produce byte-identical output, and output row
// order equals input order. An empty record sequence produces a header-only
// artifact rather than an error.
//
// # Errors
//
// Invalid styling configuration (malformed color code, bad delimiter)
// fails with observation.ConfigError before any bytes are written;
// generation failures fail with observation.ExportError.
package export
