package types

import (
	"context"

	jsoniter "github.com/json-iterator/go"
)

// ResolverFunc produces a field value from its parent value. args holds the
// arguments supplied in the query or defaulted by the declaration, keyed by
// attribute name.
type ResolverFunc func(ctx context.Context, source any, args Args, info ResolveInfo) (any, error)

// ResolveInfo describes the field being resolved.
type ResolveInfo struct {
	// FieldName is the field's schema name.
	FieldName string
	// ParentType is the object type declaring the field. It is nil when
	// resolving an interface type.
	ParentType *ObjectType
	ReturnType Type
	// Path is the response path of the value, e.g. ["hero", "friends", 0].
	Path   []any
	Schema *Schema
}

// Args are the arguments of one field invocation. Arguments that were neither
// supplied nor defaulted are absent, so Lookup distinguishes them from an
// explicit null.
type Args map[string]any

func (a Args) Lookup(name string) (any, bool) {
	v, ok := a[name]
	return v, ok
}

// Get returns the argument or nil.
func (a Args) Get(name string) any { return a[name] }

var argsJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// Decode binds the arguments into the struct or map dst points to, matching
// attribute names against json tags.
func (a Args) Decode(dst any) error {
	b, err := argsJSON.Marshal(map[string]any(a))
	if err != nil {
		return err
	}
	return argsJSON.Unmarshal(b, dst)
}
