package otel

import (
	"context"
	"fmt"
	"strings"
	"sync"

	eventbus "github.com/hanpama/graphdef/internal/eventbus"
	events "github.com/hanpama/graphdef/internal/events"
	reqid "github.com/hanpama/graphdef/internal/reqid"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

const tracerName = "github.com/hanpama/graphdef"

// Setup configures OpenTelemetry and attaches eventbus subscribers.
// If endpoint is empty, no telemetry is configured.
func Setup(endpoint, service string) (func(context.Context) error, error) {
	if endpoint == "" {
		return func(context.Context) error { return nil }, nil
	}
	exp, err := otlptracegrpc.New(context.Background(),
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())))
	if err != nil {
		return nil, err
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(service),
		)),
	)
	otel.SetTracerProvider(tp)

	detach := Attach(tp)
	return func(ctx context.Context) error {
		detach()
		return tp.Shutdown(ctx)
	}, nil
}

// Attach subscribes span-producing handlers on the global event bus using a
// tracer from tp. The returned function removes the handlers.
func Attach(tp trace.TracerProvider) (detach func()) {
	sub := &subscriber{tracer: tp.Tracer(tracerName)}
	return sub.register()
}

type subscriber struct {
	tracer        trace.Tracer
	httpSpans     sync.Map // rid -> trace.Span
	gqlSpans      sync.Map // rid -> trace.Span
	resolverSpans sync.Map // rid/path -> trace.Span
}

func resolverKey(rid string, path []any) string {
	var b strings.Builder
	b.WriteString(rid)
	for _, p := range path {
		b.WriteByte('/')
		fmt.Fprint(&b, p)
	}
	return b.String()
}

func (s *subscriber) register() func() {
	var unsubs []func()
	add := func(u func()) { unsubs = append(unsubs, u) }

	add(eventbus.Subscribe(func(ctx context.Context, e events.HTTPStart) {
		rid, _ := reqid.FromContext(ctx)
		_, span := s.tracer.Start(ctx, "http.request")
		span.SetAttributes(
			semconv.HTTPMethodKey.String(e.Request.Method),
			attribute.String("http.target", e.Request.URL.Path),
			attribute.String("graphql.request_id", rid),
		)
		s.httpSpans.Store(rid, span)
	}))

	add(eventbus.Subscribe(func(ctx context.Context, e events.HTTPFinish) {
		rid, _ := reqid.FromContext(ctx)
		v, ok := s.httpSpans.LoadAndDelete(rid)
		if !ok {
			return
		}
		span := v.(trace.Span)
		span.SetAttributes(semconv.HTTPStatusCodeKey.Int(e.Status))
		span.End()
	}))

	add(eventbus.Subscribe(func(ctx context.Context, e events.GraphQLStart) {
		rid, _ := reqid.FromContext(ctx)
		parent := ctx
		if v, ok := s.httpSpans.Load(rid); ok {
			parent = trace.ContextWithSpan(ctx, v.(trace.Span))
		}
		_, span := s.tracer.Start(parent, "graphql.operation")
		span.SetAttributes(
			attribute.String("graphql.operation.name", e.OperationName),
			attribute.String("graphql.operation.type", e.OperationType),
		)
		s.gqlSpans.Store(rid, span)
	}))

	add(eventbus.Subscribe(func(ctx context.Context, e events.GraphQLFinish) {
		rid, _ := reqid.FromContext(ctx)
		v, ok := s.gqlSpans.LoadAndDelete(rid)
		if !ok {
			return
		}
		span := v.(trace.Span)
		span.SetAttributes(attribute.Int("graphql.error_count", len(e.Errors)))
		span.End()
	}))

	add(eventbus.Subscribe(func(ctx context.Context, e events.ResolverStart) {
		rid, _ := reqid.FromContext(ctx)
		parent := ctx
		if v, ok := s.gqlSpans.Load(rid); ok {
			parent = trace.ContextWithSpan(ctx, v.(trace.Span))
		} else if v, ok := s.httpSpans.Load(rid); ok {
			parent = trace.ContextWithSpan(ctx, v.(trace.Span))
		}
		_, span := s.tracer.Start(parent, "graphql.resolve")
		span.SetAttributes(
			attribute.String("graphql.field.parent", e.ObjectType),
			attribute.String("graphql.field.name", e.Field),
			attribute.String("graphql.field.path", resolverKey("", e.Path)),
		)
		s.resolverSpans.Store(resolverKey(rid, e.Path), span)
	}))

	add(eventbus.Subscribe(func(ctx context.Context, e events.ResolverFinish) {
		rid, _ := reqid.FromContext(ctx)
		v, ok := s.resolverSpans.LoadAndDelete(resolverKey(rid, e.Path))
		if !ok {
			return
		}
		span := v.(trace.Span)
		if e.Err != nil {
			span.RecordError(e.Err)
			span.SetStatus(codes.Error, e.Err.Error())
		}
		span.End()
	}))

	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}
