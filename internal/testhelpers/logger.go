package testhelpers

import (
	"github.com/myrjola/dossier/internal/logging"
	"io"
	"log/slog"
	"testing"
)

// NewLogger creates a new logger with the given log sink such as io.Discard.
func NewLogger(logSink io.Writer) *slog.Logger {
	return logging.NewLogger(logSink, slog.LevelDebug)
}

// NewTestLogger creates a logger that writes through t.Log so output only shows up for failing tests.
func NewTestLogger(t testing.TB) *slog.Logger {
	t.Helper()
	return NewLogger(testWriter{t: t})
}

type testWriter struct {
	t testing.TB
}

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}
