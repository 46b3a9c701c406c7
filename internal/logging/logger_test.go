package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  slog.Level
	}{
		{"info", "info", slog.LevelInfo},
		{"debug", "debug", slog.LevelDebug},
		{"trace", "trace", LevelTrace},
		{"warn", "warn", slog.LevelWarn},
		{"error", "error", slog.LevelError},
		{"uppercase TRACE", "TRACE", LevelTrace},
		{"padded debug", " debug ", slog.LevelDebug},
		{"unknown defaults to info", "verbose", slog.LevelInfo},
		{"empty defaults to info", "", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNewLogger_LevelFiltering(t *testing.T) {
	tests := []struct {
		name       string
		level      string
		logAtDebug bool
		logAtTrace bool
	}{
		{"info filters debug", "info", false, false},
		{"debug passes debug", "debug", true, false},
		{"trace passes everything", "trace", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLogger(tt.level, &buf)

			logger.Debug("debug message")
			logger.Log(context.Background(), LevelTrace, "trace message")

			if got := strings.Contains(buf.String(), "debug message"); got != tt.logAtDebug {
				t.Errorf("debug logged = %v, want %v", got, tt.logAtDebug)
			}
			if got := strings.Contains(buf.String(), "trace message"); got != tt.logAtTrace {
				t.Errorf("trace logged = %v, want %v", got, tt.logAtTrace)
			}
		})
	}
}

func TestNewLogger_TraceLabel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("trace", &buf)
	logger.Log(context.Background(), LevelTrace, "stage")
	if !strings.Contains(buf.String(), "level=TRACE") {
		t.Errorf("expected TRACE label, got %q", buf.String())
	}
}

func TestTickLogger(t *testing.T) {
	dir := t.TempDir()

	if tl := NewTickLogger(dir, "info"); tl != nil {
		t.Fatal("expected nil tick logger at info level")
	}

	tl := NewTickLogger(dir, "debug")
	if tl == nil {
		t.Fatal("expected tick logger at debug level")
	}
	event := map[string]any{"tick": 3, "active": 12}
	tl.Log(event)
	if err := tl.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, ok := event["time"]; ok {
		t.Error("Log mutated caller map")
	}

	data, err := os.ReadFile(filepath.Join(dir, "ticks.jsonl"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(data), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got["tick"] != float64(3) || got["time"] == nil {
		t.Errorf("unexpected entry %v", got)
	}

	var nilLogger *TickLogger
	nilLogger.Log(event)
	if err := nilLogger.Close(); err != nil {
		t.Errorf("nil close: %v", err)
	}
}
