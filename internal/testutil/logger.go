// Package testutil holds helpers shared by the export tests: a logger
// that writes through the test, and a small builder for build graphs.
package testutil

import (
	"log/slog"
	"testing"
)

// NewTestLogger returns a debug logger that writes to t.Log, so export
// traces only show up on failure or with -v.
func NewTestLogger(t testing.TB) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(testWriter{t}, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

type testWriter struct {
	t testing.TB
}

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}
