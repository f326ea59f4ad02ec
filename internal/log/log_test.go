package log

import (
	"bytes"
	"context"
	stdlog "log"
	"testing"

	reqid "github.com/hanpama/graphdef/internal/reqid"
	"github.com/stretchr/testify/require"
)

func captureStdLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := stdlog.Writer()
	stdlog.SetOutput(&buf)
	t.Cleanup(func() { stdlog.SetOutput(prev) })
	return &buf
}

func TestDefaultLoggerIncludesRequestID(t *testing.T) {
	buf := captureStdLog(t)
	ctx, id := reqid.NewContext(context.Background())

	var l Logger = &DefaultLogger{}
	l.LogPanic(ctx, "kaboom")

	out := buf.String()
	require.Contains(t, out, "panic occurred in request "+id)
	require.Contains(t, out, "kaboom")
	require.Contains(t, out, "goroutine")
}

func TestDefaultLoggerWithoutRequestID(t *testing.T) {
	buf := captureStdLog(t)

	(&DefaultLogger{}).LogPanic(context.Background(), 42)

	require.Contains(t, buf.String(), "graphdef: panic occurred: 42")
}

func TestLoggerFunc(t *testing.T) {
	var got any
	var l Logger = LoggerFunc(func(ctx context.Context, value any) { got = value })
	l.LogPanic(context.Background(), "x")
	require.Equal(t, "x", got)
}
