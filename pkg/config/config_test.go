package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// writeConfigFile writes a YAML document to a temp file and returns its
// path.
func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}
	return path
}

// TestDefaultConfig tests the fully defaulted configuration.
func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Store.Path != "data/observations.db" {
		t.Errorf("Unexpected store path %q", cfg.Store.Path)
	}
	if cfg.Store.RowCap != 10000 {
		t.Errorf("Unexpected row cap %d", cfg.Store.RowCap)
	}
	if cfg.Export.Retention != time.Hour {
		t.Errorf("Unexpected retention %s", cfg.Export.Retention)
	}
	if cfg.Export.SweepSchedule != "@every 10m" {
		t.Errorf("Unexpected sweep schedule %q", cfg.Export.SweepSchedule)
	}
	if !cfg.Export.IncludeCoordinates {
		t.Error("Coordinates should be included by default")
	}
	if cfg.Server.ListenAddress != "127.0.0.1:8080" {
		t.Errorf("Unexpected listen address %q", cfg.Server.ListenAddress)
	}
	if !cfg.Telemetry.Metrics.Enabled {
		t.Error("Metrics should be enabled by default")
	}

	if err := Validate(cfg); err != nil {
		t.Errorf("Default configuration should validate: %v", err)
	}
}

// TestLoad tests loading a partial YAML file over the defaults.
func TestLoad(t *testing.T) {
	path := writeConfigFile(t, `
store:
  path: /var/lib/biotica/obs.db
  row_cap: 2500
export:
  retention: 30m
  csv_delimiter: ";"
telemetry:
  logging:
    level: debug
    format: json
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Store.Path != "/var/lib/biotica/obs.db" {
		t.Errorf("Unexpected store path %q", cfg.Store.Path)
	}
	if cfg.Store.RowCap != 2500 {
		t.Errorf("Unexpected row cap %d", cfg.Store.RowCap)
	}
	if cfg.Export.Retention != 30*time.Minute {
		t.Errorf("Unexpected retention %s", cfg.Export.Retention)
	}
	if cfg.Export.CSVDelimiter != ";" {
		t.Errorf("Unexpected delimiter %q", cfg.Export.CSVDelimiter)
	}
	if cfg.Telemetry.Logging.Level != "debug" || cfg.Telemetry.Logging.Format != "json" {
		t.Errorf("Unexpected logging config %+v", cfg.Telemetry.Logging)
	}

	// Untouched sections keep their defaults.
	if cfg.Server.ListenAddress != "127.0.0.1:8080" {
		t.Errorf("Unexpected listen address %q", cfg.Server.ListenAddress)
	}
}

// TestLoad_ExplicitFalseSurvives tests that a true-default boolean set to
// false in YAML is not flipped back by defaulting.
func TestLoad_ExplicitFalseSurvives(t *testing.T) {
	path := writeConfigFile(t, `
export:
  include_coordinates: false
telemetry:
  metrics:
    enabled: false
    namespace: biotica
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Export.IncludeCoordinates {
		t.Error("Explicit include_coordinates: false should survive")
	}
	if cfg.Telemetry.Metrics.Enabled {
		t.Error("Explicit metrics.enabled: false should survive")
	}
}

// TestLoad_EnvOverrides tests that BIOTICA_* variables win over file
// values.
func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfigFile(t, `
store:
  path: /from/file.db
server:
  listen_address: 127.0.0.1:9999
`)

	t.Setenv("BIOTICA_STORE_PATH", "/from/env.db")
	t.Setenv("BIOTICA_SERVER_LISTEN_ADDRESS", "0.0.0.0:8081")
	t.Setenv("BIOTICA_EXPORT_RETENTION", "45m")
	t.Setenv("BIOTICA_CSV_ADD_BOM", "true")
	t.Setenv("BIOTICA_LOG_LEVEL", "warn")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Store.Path != "/from/env.db" {
		t.Errorf("Env override lost: %q", cfg.Store.Path)
	}
	if cfg.Server.ListenAddress != "0.0.0.0:8081" {
		t.Errorf("Env override lost: %q", cfg.Server.ListenAddress)
	}
	if cfg.Export.Retention != 45*time.Minute {
		t.Errorf("Env override lost: %s", cfg.Export.Retention)
	}
	if !cfg.Export.CSVAddBOM {
		t.Error("Env override lost: csv_add_bom")
	}
	if cfg.Telemetry.Logging.Level != "warn" {
		t.Errorf("Env override lost: %q", cfg.Telemetry.Logging.Level)
	}
}

// TestLoad_MissingFile tests the missing-file error.
func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("Expected error for missing file")
	}
}

// TestLoad_MalformedYAML tests the parse error path.
func TestLoad_MalformedYAML(t *testing.T) {
	path := writeConfigFile(t, "store: [not a mapping")

	if _, err := Load(path); err == nil {
		t.Fatal("Expected error for malformed YAML")
	}
}

// TestValidate_Rejections tests the validation failures.
func TestValidate_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty store path", func(c *Config) { c.Store.Path = "" }},
		{"non-positive row cap", func(c *Config) { c.Store.RowCap = -1 }},
		{"non-positive retention", func(c *Config) { c.Export.Retention = -time.Minute }},
		{"bad sweep schedule", func(c *Config) { c.Export.SweepSchedule = "every so often" }},
		{"multi-rune delimiter", func(c *Config) { c.Export.CSVDelimiter = ",," }},
		{"bad fill color", func(c *Config) { c.Export.HeaderFillColor = "red" }},
		{"bad font color", func(c *Config) { c.Export.HeaderFontColor = "12345" }},
		{"bad log level", func(c *Config) { c.Telemetry.Logging.Level = "loud" }},
		{"bad log format", func(c *Config) { c.Telemetry.Logging.Format = "xml" }},
		{"empty listen address", func(c *Config) { c.Server.ListenAddress = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := Validate(cfg); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}

// TestHolder tests snapshot swapping.
func TestHolder(t *testing.T) {
	first := DefaultConfig()
	holder := NewHolder(first)

	if holder.Current() != first {
		t.Fatal("Current() should return the seeded config")
	}

	second := DefaultConfig()
	second.Export.Retention = 2 * time.Hour

	old := holder.Swap(second)
	if old != first {
		t.Error("Swap() should return the previous config")
	}
	if holder.Current().Export.Retention != 2*time.Hour {
		t.Error("Current() should reflect the swapped config")
	}
}
