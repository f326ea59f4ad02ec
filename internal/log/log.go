package log

import (
	"context"
	"log"
	"runtime"

	reqid "github.com/hanpama/graphdef/internal/reqid"
)

// Logger records panics recovered from resolvers during execution.
type Logger interface {
	LogPanic(ctx context.Context, value any)
}

// LoggerFunc adapts a function to Logger.
type LoggerFunc func(ctx context.Context, value any)

func (f LoggerFunc) LogPanic(ctx context.Context, value any) {
	f(ctx, value)
}

// DefaultLogger writes the panic value and the goroutine stack through the
// standard logger, tagged with the request id when one is in ctx.
type DefaultLogger struct{}

func (l *DefaultLogger) LogPanic(ctx context.Context, value any) {
	const size = 64 << 10
	buf := make([]byte, size)
	buf = buf[:runtime.Stack(buf, false)]
	if id, ok := reqid.FromContext(ctx); ok {
		log.Printf("graphdef: panic occurred in request %s: %v\n%s", id, value, buf)
		return
	}
	log.Printf("graphdef: panic occurred: %v\n%s", value, buf)
}
