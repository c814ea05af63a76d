// Package testutil holds helpers shared by engine and CLI tests.
package testutil

import (
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"fieldmapper/internal/mapping"
)

// NewTestLogger returns a debug logger that writes to t.Log, so output
// shows up only for failing tests or with -v.
func NewTestLogger(t testing.TB) *slog.Logger {
	t.Helper()

	return slog.New(slog.NewTextHandler(testWriter{t}, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

type testWriter struct {
	t testing.TB
}

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(strings.TrimRight(string(p), "\n"))

	return len(p), nil
}

// Definition parses a YAML mapping definition and fails the test on error.
func Definition(t testing.TB, doc string) *mapping.Definition {
	t.Helper()

	def, err := mapping.Parse([]byte(doc))
	require.NoError(t, err)

	return def
}
