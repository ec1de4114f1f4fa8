// Biotica is a query and export engine for hydrobiological observation
// records.
//
// It serves an HTTP API over a curated observation store, providing:
//   - Allow-listed, parameterized filter queries with keyword search
//   - Per-record projection of planar coordinates to WGS84
//   - Deterministic CSV and styled XLSX export artifacts
//   - Time-based artifact retention with a background sweep
//
// Usage:
//
//	# Start the server with default configuration
//	biotica run
//
//	# Start with a custom configuration file
//	biotica run --config /etc/biotica/config.yaml
//
//	# Reclaim expired export artifacts once and exit
//	biotica sweep
//
//	# Show version information
//	biotica version
package main

func main() {
	Execute()
}
