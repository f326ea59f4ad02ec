package types

import (
	"context"
	"net/http"

	executor "github.com/hanpama/graphdef/internal/executor"
	server "github.com/hanpama/graphdef/internal/server"
)

// HandlerOption configures the handler returned by Schema.Handler.
type HandlerOption = server.Option

var (
	// WithTimeout bounds requests arriving without a deadline.
	WithTimeout = server.WithTimeout
	// WithPretty indents JSON responses.
	WithPretty = server.WithPretty
	// WithMaxBodyBytes limits request bodies.
	WithMaxBodyBytes = server.WithMaxBodyBytes
	// WithCORS allows cross-origin requests from the given origins.
	WithCORS = server.WithCORS
	// WithMetadataHeaders forwards the named HTTP headers into outgoing
	// gRPC metadata.
	WithMetadataHeaders = server.WithMetadataHeaders
	// WithGraphiQL serves the GraphiQL IDE to browsers.
	WithGraphiQL = server.WithGraphiQL
)

// Handler serves the schema over HTTP, accepting GET and POST requests and
// batched POST bodies.
func (s *Schema) Handler(opts ...HandlerOption) http.Handler {
	return server.New(func(ctx context.Context, req server.GraphQLRequest) *executor.ExecutionResult {
		res := s.Execute(ctx, req.Query, WithOperationName(req.OperationName), WithVariables(req.Variables))
		out := &executor.ExecutionResult{Errors: res.Errors}
		if res.Data != nil {
			out.Data = res.Data
		}
		return out
	}, opts...)
}
