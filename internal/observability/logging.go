package observability

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
)

// NewLogger builds the service logger: JSON to stdout, debug level
// outside production.
func NewLogger(environment string) *slog.Logger {
	level := slog.LevelDebug
	if environment == "production" {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}

// NoOpLogger discards everything; used in tests.
var NoOpLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// TestHandler is a slog.Handler that records every log line so tests
// can assert on them.
type TestHandler struct {
	mu      sync.Mutex
	records []slog.Record
}

func NewTestHandler() *TestHandler {
	return &TestHandler{}
}

func (h *TestHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *TestHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, r.Clone())
	return nil
}

func (h *TestHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *TestHandler) WithGroup(string) slog.Handler      { return h }

// Records returns a copy of everything logged so far.
func (h *TestHandler) Records() []slog.Record {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]slog.Record, len(h.records))
	copy(out, h.records)
	return out
}
