package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Load reads configuration from a YAML file, applies defaults and
// BIOTICA_* environment overrides, and validates the result. Environment
// variables always take precedence over file values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	cfg := seed()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(cfg)
	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies BIOTICA_SECTION_FIELD environment variables
// on top of the loaded configuration.
func applyEnvOverrides(cfg *Config) {
	// Store overrides
	if val := os.Getenv("BIOTICA_STORE_PATH"); val != "" {
		cfg.Store.Path = val
	}
	if val := os.Getenv("BIOTICA_STORE_ROW_CAP"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Store.RowCap = i
		}
	}
	if val := os.Getenv("BIOTICA_STORE_QUERY_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Store.QueryTimeout = d
		}
	}

	// Export overrides
	if val := os.Getenv("BIOTICA_EXPORT_DIR"); val != "" {
		cfg.Export.Dir = val
	}
	if val := os.Getenv("BIOTICA_EXPORT_RETENTION"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Export.Retention = d
		}
	}
	if val := os.Getenv("BIOTICA_EXPORT_SWEEP_SCHEDULE"); val != "" {
		cfg.Export.SweepSchedule = val
	}
	if val := os.Getenv("BIOTICA_CSV_DELIMITER"); val != "" {
		cfg.Export.CSVDelimiter = val
	}
	if val := os.Getenv("BIOTICA_CSV_ADD_BOM"); val != "" {
		cfg.Export.CSVAddBOM = val == "1" || val == "true"
	}
	if val := os.Getenv("BIOTICA_EXPORT_INCLUDE_COORDINATES"); val != "" {
		cfg.Export.IncludeCoordinates = val == "1" || val == "true"
	}
	if val := os.Getenv("BIOTICA_EXPORT_HEADER_FILL_COLOR"); val != "" {
		cfg.Export.HeaderFillColor = val
	}
	if val := os.Getenv("BIOTICA_EXPORT_HEADER_FONT_COLOR"); val != "" {
		cfg.Export.HeaderFontColor = val
	}

	// Server overrides
	if val := os.Getenv("BIOTICA_SERVER_LISTEN_ADDRESS"); val != "" {
		cfg.Server.ListenAddress = val
	}

	// Telemetry overrides
	if val := os.Getenv("BIOTICA_LOG_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("BIOTICA_LOG_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
}
