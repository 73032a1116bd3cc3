// Package logtest provides a logger that writes to the test log.
package logtest

import (
	"log/slog"
	"testing"
)

// New returns a debug-level logger that writes to t.Log. Output only
// appears on failure or with -v.
func New(t testing.TB) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(writer{t}, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

type writer struct{ t testing.TB }

func (w writer) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}
