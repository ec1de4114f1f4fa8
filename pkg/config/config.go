// Package config defines the biotica configuration tree: a single YAML
// document loaded at startup, defaulted, validated, and optionally
// overridden by BIOTICA_* environment variables. A fsnotify-based Watcher
// supports live reload of the export/styling values through a Holder.
package config

import "time"

// Config is the root configuration structure.
type Config struct {
	// Store contains record store configuration: database path,
	// connection pool sizing, and the hard row cap.
	Store StoreConfig `yaml:"store"`

	// Export contains export generation and lifecycle configuration.
	Export ExportConfig `yaml:"export"`

	// Server contains HTTP server configuration.
	Server ServerConfig `yaml:"server"`

	// Telemetry contains logging and metrics configuration.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// StoreConfig contains configuration for the observation record store.
type StoreConfig struct {
	// Path is the SQLite database file path.
	// Default: "data/observations.db"
	Path string `yaml:"path"`

	// MaxOpenConns is the maximum number of open connections.
	// Default: 10
	MaxOpenConns int `yaml:"max_open_conns"`

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 5
	MaxIdleConns int `yaml:"max_idle_conns"`

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`

	// RowCap is the hard upper bound on rows a single search returns.
	// Default: 10000
	RowCap int `yaml:"row_cap"`

	// QueryTimeout bounds each store query. Default: 15s
	QueryTimeout time.Duration `yaml:"query_timeout"`
}

// ExportConfig contains configuration for export artifacts and their
// lifecycle.
type ExportConfig struct {
	// Dir is the export directory. Default: "data/exports"
	Dir string `yaml:"dir"`

	// Retention is the artifact age threshold for the reclamation sweep.
	// Default: 1h
	Retention time.Duration `yaml:"retention"`

	// SweepSchedule is a cron expression for the background sweep.
	// Default: "@every 10m"
	SweepSchedule string `yaml:"sweep_schedule"`

	// CSVDelimiter is the CSV column separator. Default: ","
	CSVDelimiter string `yaml:"csv_delimiter"`

	// CSVAddBOM prefixes CSV artifacts with the UTF-8 byte-order marker.
	// Default: false
	CSVAddBOM bool `yaml:"csv_add_bom"`

	// IncludeCoordinates appends the derived WGS84 columns to exports.
	// Default: true
	IncludeCoordinates bool `yaml:"include_coordinates"`

	// HeaderFillColor is the spreadsheet header fill as a 6-digit hex
	// RGB code. Default: "DDEBF7"
	HeaderFillColor string `yaml:"header_fill_color"`

	// HeaderFontColor is the spreadsheet header font color as a 6-digit
	// hex RGB code. Default: "1F4E78"
	HeaderFontColor string `yaml:"header_font_color"`

	// MaxColumnWidth caps spreadsheet auto-sized column widths.
	// Default: 45
	MaxColumnWidth float64 `yaml:"max_column_width"`

	// SummaryGroupField is the categorical column the spreadsheet
	// summary sheet groups by. Default: "grupo_biologico"
	SummaryGroupField string `yaml:"summary_group_field"`

	// Columns is the export column order. Empty means the built-in
	// default column list.
	Columns []string `yaml:"columns"`
}

// ServerConfig contains configuration for the HTTP server.
type ServerConfig struct {
	// ListenAddress is the address and port to listen on.
	// Default: "127.0.0.1:8080"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading a request.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration for writing a response.
	// Export downloads go through this path, hence the larger default.
	// Default: 120s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the keep-alive idle timeout. Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout is the graceful shutdown bound. Default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// TelemetryConfig contains logging and metrics configuration.
type TelemetryConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig contains structured logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level ("debug", "info", "warn", "error").
	// Default: "info"
	Level string `yaml:"level"`

	// Format is the output format ("json", "text"). Default: "text"
	Format string `yaml:"format"`
}

// MetricsConfig contains Prometheus metrics configuration.
type MetricsConfig struct {
	// Enabled controls whether the /metrics endpoint is served.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Namespace is the metric name prefix. Default: "biotica"
	Namespace string `yaml:"namespace"`

	// Subsystem is the secondary metric name prefix. Default: "engine"
	Subsystem string `yaml:"subsystem"`
}
