package executor

import (
	"errors"

	language "github.com/hanpama/graphdef/internal/language"
)

// Location is a line/column position in the query document.
type Location struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// GraphQLError represents an error that occurred during execution
type GraphQLError struct {
	Message    string         `json:"message"`
	Locations  []Location     `json:"locations,omitempty"`
	Path       Path           `json:"path,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
	// Err is the error returned by the runtime, if any.
	Err error `json:"-"`
}

func (e GraphQLError) Error() string {
	return e.Message
}

func (e GraphQLError) Unwrap() error { return e.Err }

// ExtendedError lets runtime errors contribute to the "extensions" entry.
type ExtendedError interface {
	Extensions() map[string]any
}

// ExecutionResult represents the result of executing a GraphQL query
type ExecutionResult struct {
	Data   any            `json:"data"`
	Errors []GraphQLError `json:"errors,omitempty"`
}

// newFieldError locates a runtime error at the field's first occurrence in the document.
func newFieldError(err error, fields []*language.Field, path Path) GraphQLError {
	ge := GraphQLError{Message: err.Error(), Path: path, Err: err}
	if len(fields) > 0 && fields[0].Position != nil {
		ge.Locations = []Location{{Line: fields[0].Position.Line, Column: fields[0].Position.Column}}
	}
	var ext ExtendedError
	if errors.As(err, &ext) {
		ge.Extensions = ext.Extensions()
	}
	return ge
}
