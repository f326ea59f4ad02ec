package executor

import "context"

type pathKey struct{}

// WithPath returns a copy of ctx carrying the response path of the value being
// completed.
func WithPath(ctx context.Context, path Path) context.Context {
	return context.WithValue(ctx, pathKey{}, path)
}

// PathFromContext returns the response path stored by WithPath.
func PathFromContext(ctx context.Context) (Path, bool) {
	p, ok := ctx.Value(pathKey{}).(Path)
	return p, ok
}
