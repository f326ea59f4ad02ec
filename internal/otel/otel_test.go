package otel

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	eventbus "github.com/hanpama/graphdef/internal/eventbus"
	events "github.com/hanpama/graphdef/internal/events"
	reqid "github.com/hanpama/graphdef/internal/reqid"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestSpansFollowRequestLifecycle(t *testing.T) {
	eventbus.Use(eventbus.New())
	t.Cleanup(func() { eventbus.Use(nil) })

	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	detach := Attach(tp)
	t.Cleanup(detach)

	ctx, _ := reqid.NewContext(context.Background())
	req := httptest.NewRequest("POST", "/graphql", nil)
	boom := errors.New("boom")

	eventbus.Publish(ctx, events.HTTPStart{Request: req})
	eventbus.Publish(ctx, events.GraphQLStart{OperationName: "Hero", OperationType: "query"})
	eventbus.Publish(ctx, events.ResolverStart{ObjectType: "Query", Field: "hero", Path: []any{"hero"}})
	eventbus.Publish(ctx, events.ResolverStart{ObjectType: "Human", Field: "friends", Path: []any{"hero", "friends"}})
	eventbus.Publish(ctx, events.ResolverFinish{ObjectType: "Human", Field: "friends", Path: []any{"hero", "friends"}, Err: boom})
	eventbus.Publish(ctx, events.ResolverFinish{ObjectType: "Query", Field: "hero", Path: []any{"hero"}, Duration: time.Millisecond})
	eventbus.Publish(ctx, events.GraphQLFinish{OperationName: "Hero", OperationType: "query", Errors: []error{boom}})
	eventbus.Publish(ctx, events.HTTPFinish{Request: req, Status: 200})

	spans := rec.Ended()
	require.Len(t, spans, 4)

	var names []string
	for _, s := range spans {
		names = append(names, s.Name())
	}
	require.Equal(t, []string{"graphql.resolve", "graphql.resolve", "graphql.operation", "http.request"}, names)

	friends, hero, op, httpSpan := spans[0], spans[1], spans[2], spans[3]
	require.Equal(t, codes.Error, friends.Status().Code)
	require.Equal(t, codes.Unset, hero.Status().Code)
	require.Equal(t, op.SpanContext().SpanID(), hero.Parent().SpanID())
	require.Equal(t, httpSpan.SpanContext().SpanID(), op.Parent().SpanID())
	require.Equal(t, httpSpan.SpanContext().TraceID(), friends.SpanContext().TraceID())
}

func TestSetupWithoutEndpointIsNoop(t *testing.T) {
	shutdown, err := Setup("", "graphdef")
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
}
