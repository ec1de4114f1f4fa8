package config

import (
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/robfig/cron/v3"
)

var hexColorPattern = regexp.MustCompile(`^[0-9A-Fa-f]{6}$`)

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validLogFormats = map[string]bool{
	"text": true,
	"json": true,
}

// Validate checks that the configuration is internally consistent. It
// assumes ApplyDefaults has already run, so zero values that have
// defaults are treated as errors here.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("configuration is nil")
	}

	if cfg.Store.Path == "" {
		return fmt.Errorf("store.path must not be empty")
	}
	if cfg.Store.MaxOpenConns <= 0 {
		return fmt.Errorf("store.max_open_conns must be positive, got %d", cfg.Store.MaxOpenConns)
	}
	if cfg.Store.MaxIdleConns < 0 {
		return fmt.Errorf("store.max_idle_conns must not be negative, got %d", cfg.Store.MaxIdleConns)
	}
	if cfg.Store.RowCap <= 0 {
		return fmt.Errorf("store.row_cap must be positive, got %d", cfg.Store.RowCap)
	}
	if cfg.Store.QueryTimeout <= 0 {
		return fmt.Errorf("store.query_timeout must be positive, got %s", cfg.Store.QueryTimeout)
	}

	if cfg.Export.Dir == "" {
		return fmt.Errorf("export.dir must not be empty")
	}
	if cfg.Export.Retention <= 0 {
		return fmt.Errorf("export.retention must be positive, got %s", cfg.Export.Retention)
	}
	if _, err := cron.ParseStandard(cfg.Export.SweepSchedule); err != nil {
		return fmt.Errorf("export.sweep_schedule %q is not a valid cron expression: %w", cfg.Export.SweepSchedule, err)
	}
	if utf8.RuneCountInString(cfg.Export.CSVDelimiter) != 1 {
		return fmt.Errorf("export.csv_delimiter must be a single character, got %q", cfg.Export.CSVDelimiter)
	}
	if !hexColorPattern.MatchString(cfg.Export.HeaderFillColor) {
		return fmt.Errorf("export.header_fill_color %q is not a six-digit hex color", cfg.Export.HeaderFillColor)
	}
	if !hexColorPattern.MatchString(cfg.Export.HeaderFontColor) {
		return fmt.Errorf("export.header_font_color %q is not a six-digit hex color", cfg.Export.HeaderFontColor)
	}
	if cfg.Export.MaxColumnWidth <= 0 {
		return fmt.Errorf("export.max_column_width must be positive, got %g", cfg.Export.MaxColumnWidth)
	}

	if cfg.Server.ListenAddress == "" {
		return fmt.Errorf("server.listen_address must not be empty")
	}
	if cfg.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server.read_timeout must be positive, got %s", cfg.Server.ReadTimeout)
	}
	if cfg.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server.write_timeout must be positive, got %s", cfg.Server.WriteTimeout)
	}
	if cfg.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server.shutdown_timeout must be positive, got %s", cfg.Server.ShutdownTimeout)
	}

	if !validLogLevels[cfg.Telemetry.Logging.Level] {
		return fmt.Errorf("telemetry.logging.level %q is not one of debug, info, warn, error", cfg.Telemetry.Logging.Level)
	}
	if !validLogFormats[cfg.Telemetry.Logging.Format] {
		return fmt.Errorf("telemetry.logging.format %q is not one of text, json", cfg.Telemetry.Logging.Format)
	}
	if cfg.Telemetry.Metrics.Enabled && cfg.Telemetry.Metrics.Namespace == "" {
		return fmt.Errorf("telemetry.metrics.namespace must not be empty when metrics are enabled")
	}

	return nil
}
