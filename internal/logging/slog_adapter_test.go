// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestSlogHandler_Enabled(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		zerologLevel zerolog.Level
		slogLevel    slog.Level
		want         bool
	}{
		{"debug logger enables debug", zerolog.DebugLevel, slog.LevelDebug, true},
		{"info logger disables debug", zerolog.InfoLevel, slog.LevelDebug, false},
		{"info logger enables warn", zerolog.InfoLevel, slog.LevelWarn, true},
		{"error logger disables warn", zerolog.ErrorLevel, slog.LevelWarn, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h := NewSlogHandlerWithLogger(zerolog.New(&bytes.Buffer{}).Level(tt.zerologLevel))
			if got := h.Enabled(context.Background(), tt.slogLevel); got != tt.want {
				t.Errorf("Enabled(%v) = %v, want %v", tt.slogLevel, got, tt.want)
			}
		})
	}
}

func TestSlogHandler_Levels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level slog.Level
		want  string
	}{
		{slog.LevelDebug, `"level":"debug"`},
		{slog.LevelInfo, `"level":"info"`},
		{slog.LevelWarn, `"level":"warn"`},
		{slog.LevelError, `"level":"error"`},
		{slog.LevelWarn + 2, `"level":"warn"`},
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			slog.New(NewSlogHandlerWithLogger(zerolog.New(&buf).Level(zerolog.TraceLevel))).
				Log(context.Background(), tt.level, "msg")
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("got %s, want %s", buf.String(), tt.want)
			}
		})
	}
}

func TestSlogHandler_Attributes(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(NewSlogHandlerWithLogger(zerolog.New(&buf))).
		With("supervisor", "questwise").
		WithGroup("svc")

	logger.Warn("service failed",
		"name", "bundle-sync",
		"restarts", 3,
		"backoff", 2*time.Second,
		"healthy", false,
		slog.Group("err", "kind", "storage"),
	)

	out := buf.String()
	for _, want := range []string{
		`"message":"service failed"`,
		`"supervisor":"questwise"`,
		`"svc.name":"bundle-sync"`,
		`"svc.restarts":3`,
		`"svc.healthy":false`,
		`"svc.err.kind":"storage"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s: %s", want, out)
		}
	}
}

func TestSlogHandler_WithGroupEmpty(t *testing.T) {
	t.Parallel()

	h := NewSlogHandlerWithLogger(zerolog.Nop())
	if got := h.WithGroup(""); got != h {
		t.Error("WithGroup(\"\") should return the same handler")
	}
}

func TestNewSlogLoggerFor(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(NewTestLogger(&buf))
	t.Cleanup(func() { Init(DefaultConfig()) })

	NewSlogLoggerFor("supervisor").Info("tree started")

	out := buf.String()
	if !strings.Contains(out, `"component":"supervisor"`) || !strings.Contains(out, "tree started") {
		t.Errorf("unexpected output: %s", out)
	}
}
