// Package logging provides leveled logging and tick tracing for atmos-ca.
// It offers two outputs:
//   - A leveled slog.Logger for stderr (operational output)
//   - A TickLogger for structured JSONL tick traces
package logging

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// LevelTrace is a custom slog level below Debug for per-stage timings.
const LevelTrace = slog.LevelDebug - 4

// ParseLevel maps a string level name to a slog.Level.
// Supported values: "error", "warn", "info", "debug", "trace" (case-insensitive).
// Unknown values default to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "error":
		return slog.LevelError
	case "warn", "warning":
		return slog.LevelWarn
	case "debug":
		return slog.LevelDebug
	case "trace":
		return LevelTrace
	default:
		return slog.LevelInfo
	}
}

// NewLogger creates a leveled slog.Logger writing to w.
func NewLogger(level string, w io.Writer) *slog.Logger {
	lvl := ParseLevel(level)
	opts := &slog.HandlerOptions{
		Level: lvl,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey {
				if lvl, ok := a.Value.Any().(slog.Level); ok && lvl == LevelTrace {
					a.Value = slog.StringValue("TRACE")
				}
			}
			return a
		},
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TickLogger appends one JSON object per line to dir/ticks.jsonl. It is safe
// for concurrent use, and a nil TickLogger ignores every call.
type TickLogger struct {
	mu   sync.Mutex
	file *os.File
}

// NewTickLogger opens dir/ticks.jsonl for append. Below debug level it
// returns nil and creates nothing. It also returns nil when the file cannot
// be opened.
func NewTickLogger(dir string, level string) *TickLogger {
	if ParseLevel(level) > slog.LevelDebug {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil
	}
	f, err := os.OpenFile(filepath.Join(dir, "ticks.jsonl"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil
	}
	return &TickLogger{file: f}
}

// Log writes event as a single line with a "time" field added. The caller's
// map is not mutated.
func (tl *TickLogger) Log(event map[string]any) {
	if tl == nil || tl.file == nil {
		return
	}
	entry := make(map[string]any, len(event)+1)
	for k, v := range event {
		entry[k] = v
	}
	entry["time"] = time.Now().UTC().Format(time.RFC3339Nano)

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	data = append(data, '\n')

	tl.mu.Lock()
	defer tl.mu.Unlock()
	_, _ = tl.file.Write(data)
}

// Close closes the underlying file.
func (tl *TickLogger) Close() error {
	if tl == nil || tl.file == nil {
		return nil
	}
	tl.mu.Lock()
	defer tl.mu.Unlock()
	return tl.file.Close()
}
