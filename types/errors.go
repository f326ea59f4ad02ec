package types

import (
	"errors"
	"fmt"
)

// ErrNoResolve is wrapped by the DeclarationError returned for a FieldResolver
// that declares arguments without a resolve function.
var ErrNoResolve = errors.New("arguments declared without a resolve function")

// ErrNoMutate is wrapped by the DeclarationError returned for a Mutation
// without a mutate function.
var ErrNoMutate = errors.New("all mutations must define a mutate function")

// DeclarationError reports an invalid type declaration. It is returned by the
// New* constructors and by NewSchema; the Must* constructors panic with it.
type DeclarationError struct {
	// Type is the name of the type being declared, if known.
	Type    string
	Message string
	Err     error
}

func (e *DeclarationError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	} else if e.Err != nil {
		msg = msg + ": " + e.Err.Error()
	}
	if e.Type == "" {
		return msg
	}
	return fmt.Sprintf("%s: %s", e.Type, msg)
}

func (e *DeclarationError) Unwrap() error { return e.Err }

func declErrorf(typeName, format string, args ...any) *DeclarationError {
	return &DeclarationError{Type: typeName, Message: fmt.Sprintf(format, args...)}
}

// TypeResolutionError reports that a value returned for an interface field
// could not be classified as one of its object types.
type TypeResolutionError struct {
	Interface string
	Value     any
	Err       error
}

func (e *TypeResolutionError) Error() string {
	msg := fmt.Sprintf("cannot resolve the object type of %T for interface %s", e.Value, e.Interface)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *TypeResolutionError) Unwrap() error { return e.Err }
