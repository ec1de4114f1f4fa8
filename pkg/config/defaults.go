package config

import "time"

// DefaultConfig returns a fully defaulted configuration.
func DefaultConfig() *Config {
	cfg := seed()
	ApplyDefaults(cfg)
	return cfg
}

// seed returns a config with the options whose default is true already
// set, so explicit false values in YAML survive unmarshalling.
func seed() *Config {
	cfg := &Config{}
	cfg.Export.IncludeCoordinates = true
	cfg.Telemetry.Metrics.Enabled = true
	return cfg
}

// ApplyDefaults fills every zero-valued option with its default. Explicit
// values, including explicit false booleans that default to true, are
// handled by the YAML layer before this runs.
func ApplyDefaults(cfg *Config) {
	// Store defaults
	if cfg.Store.Path == "" {
		cfg.Store.Path = "data/observations.db"
	}
	if cfg.Store.MaxOpenConns == 0 {
		cfg.Store.MaxOpenConns = 10
	}
	if cfg.Store.MaxIdleConns == 0 {
		cfg.Store.MaxIdleConns = 5
	}
	if cfg.Store.BusyTimeout == 0 {
		cfg.Store.BusyTimeout = 5 * time.Second
	}
	if cfg.Store.RowCap == 0 {
		cfg.Store.RowCap = 10000
	}
	if cfg.Store.QueryTimeout == 0 {
		cfg.Store.QueryTimeout = 15 * time.Second
	}

	// Export defaults
	if cfg.Export.Dir == "" {
		cfg.Export.Dir = "data/exports"
	}
	if cfg.Export.Retention == 0 {
		cfg.Export.Retention = time.Hour
	}
	if cfg.Export.SweepSchedule == "" {
		cfg.Export.SweepSchedule = "@every 10m"
	}
	if cfg.Export.CSVDelimiter == "" {
		cfg.Export.CSVDelimiter = ","
	}
	if cfg.Export.HeaderFillColor == "" {
		cfg.Export.HeaderFillColor = "DDEBF7"
	}
	if cfg.Export.HeaderFontColor == "" {
		cfg.Export.HeaderFontColor = "1F4E78"
	}
	if cfg.Export.MaxColumnWidth == 0 {
		cfg.Export.MaxColumnWidth = 45
	}
	if cfg.Export.SummaryGroupField == "" {
		cfg.Export.SummaryGroupField = "grupo_biologico"
	}

	// Server defaults
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = "127.0.0.1:8080"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 30 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 120 * time.Second
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = 120 * time.Second
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 30 * time.Second
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = "info"
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = "text"
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = "biotica"
	}
	if cfg.Telemetry.Metrics.Subsystem == "" {
		cfg.Telemetry.Metrics.Subsystem = "engine"
	}
}
