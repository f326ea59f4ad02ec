package events

import "time"

// ResolverStart is emitted before a declared resolver runs.
type ResolverStart struct {
	ObjectType string
	Field      string
	Path       []any
}

// ResolverFinish is emitted after a declared resolver returns or panics.
type ResolverFinish struct {
	ObjectType string
	Field      string
	Path       []any
	Err        error
	Duration   time.Duration
}
