// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package logging

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	if cfg.Level != "info" {
		t.Errorf("expected default level 'info', got '%s'", cfg.Level)
	}
	if cfg.Format != "json" {
		t.Errorf("expected default format 'json', got '%s'", cfg.Format)
	}
	if cfg.Caller {
		t.Error("expected default caller to be false")
	}
	if !cfg.Timestamp {
		t.Error("expected default timestamp to be true")
	}
	if cfg.Service != "questwise" {
		t.Errorf("expected default service 'questwise', got '%s'", cfg.Service)
	}
}

// The Init tests mutate the global logger and must not run in parallel.
func TestInit_JSON(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "debug", Format: "json", Service: "questwise", Output: &buf})
	t.Cleanup(func() { Init(DefaultConfig()) })

	Info().Str("quest", "q1").Msg("test message")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("output is not JSON: %v: %s", err, buf.String())
	}
	if line["message"] != "test message" || line["level"] != "info" {
		t.Errorf("unexpected line: %v", line)
	}
	if line["service"] != "questwise" || line["quest"] != "q1" {
		t.Errorf("missing fields: %v", line)
	}
	if _, ok := line["time"]; ok {
		t.Errorf("timestamp disabled but present: %v", line)
	}
}

func TestInit_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "warn", Output: &buf})
	t.Cleanup(func() { Init(DefaultConfig()) })

	Debug().Msg("hidden debug")
	Info().Msg("hidden info")
	Warn().Msg("shown warn")
	Err(errors.New("boom")).Msg("shown error")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("filtered levels written: %s", out)
	}
	if !strings.Contains(out, "shown warn") || !strings.Contains(out, `"error":"boom"`) {
		t.Errorf("expected warn and error lines, got: %s", out)
	}
}

func TestInit_Console(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "info", Format: "console", Output: &buf})
	t.Cleanup(func() { Init(DefaultConfig()) })

	Info().Msg("console line")

	out := buf.String()
	if !strings.Contains(out, "console line") {
		t.Errorf("expected message, got: %s", out)
	}
	if strings.HasPrefix(strings.TrimSpace(out), "{") {
		t.Errorf("console format wrote JSON: %s", out)
	}
}

func TestComponent(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(NewTestLogger(&buf))
	t.Cleanup(func() { Init(DefaultConfig()) })

	logger := Component("trainer")
	logger.Info().Msg("training completed")

	if !strings.Contains(buf.String(), `"component":"trainer"`) {
		t.Errorf("expected component field, got: %s", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected zerolog.Level
		valid    bool
	}{
		{"trace", zerolog.TraceLevel, true},
		{"debug", zerolog.DebugLevel, true},
		{"INFO", zerolog.InfoLevel, true},
		{"warn", zerolog.WarnLevel, true},
		{"warning", zerolog.WarnLevel, true},
		{"error", zerolog.ErrorLevel, true},
		{"fatal", zerolog.FatalLevel, true},
		{"disabled", zerolog.Disabled, true},
		{"verbose", zerolog.InfoLevel, false},
		{"", zerolog.InfoLevel, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			if got := ParseLevel(tt.input); got != tt.expected {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
			if got := ValidLevel(tt.input); got != tt.valid {
				t.Errorf("ValidLevel(%q) = %v, want %v", tt.input, got, tt.valid)
			}
		})
	}
}
