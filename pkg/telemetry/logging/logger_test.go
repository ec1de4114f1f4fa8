package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"humboldt-hq/biotica/pkg/config"
)

// TestNew_JSONFormat tests structured JSON output.
func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&config.LoggingConfig{Level: "info", Format: "json"}, &buf)

	logger.Info("Engine started", "component", "test")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Output is not JSON: %v", err)
	}
	if entry["msg"] != "Engine started" || entry["component"] != "test" {
		t.Errorf("Unexpected entry: %v", entry)
	}
}

// TestNew_TextFormat tests the default text handler.
func TestNew_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&config.LoggingConfig{Level: "info", Format: "text"}, &buf)

	logger.Info("Engine started")

	if !strings.Contains(buf.String(), "msg=\"Engine started\"") {
		t.Errorf("Unexpected text output: %q", buf.String())
	}
}

// TestNew_LevelFiltering tests that the configured level filters output.
func TestNew_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&config.LoggingConfig{Level: "warn", Format: "text"}, &buf)

	logger.Info("should be dropped")
	if buf.Len() != 0 {
		t.Errorf("Info record should be filtered at warn level: %q", buf.String())
	}

	logger.Warn("should appear")
	if buf.Len() == 0 {
		t.Error("Warn record should pass at warn level")
	}
}

// TestParseLevel tests the level mapping including the fallback.
func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"ERROR", slog.LevelError},
		{"unknown", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.want {
			t.Errorf("ParseLevel(%q): expected %v, got %v", tt.input, tt.want, got)
		}
	}
}
