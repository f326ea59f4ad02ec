package types

import "fmt"

// Type is a type a field can return or an argument can accept. It is
// implemented by *Scalar, *ObjectType, *Interface and the wrappers returned by
// NonNull, List and Lazy.
type Type interface {
	// String returns the type as written in SDL, e.g. "[Character!]".
	String() string
	isType()
}

// UnmountedType is a declaration placeholder. Collected into a type it mounts
// as a Field of the type GetType returns; inside an arguments block it mounts
// as an Argument.
type UnmountedType interface {
	GetType() Type
}

// NonNullType forbids null at the position it wraps.
type NonNullType struct {
	ofType Type
}

// NonNull wraps t so that its values may not be null. Wrapping a NonNullType
// again is reported when the schema compiles.
func NonNull(t Type) *NonNullType { return &NonNullType{ofType: t} }

func (t *NonNullType) OfType() Type   { return t.ofType }
func (t *NonNullType) GetType() Type  { return t }
func (t *NonNullType) String() string { return typeString(t.ofType) + "!" }
func (*NonNullType) isType()          {}

// ListType is a sequence of its element type.
type ListType struct {
	ofType Type
}

// List wraps t in a list.
func List(t Type) *ListType { return &ListType{ofType: t} }

func (t *ListType) OfType() Type   { return t.ofType }
func (t *ListType) GetType() Type  { return t }
func (t *ListType) String() string { return "[" + typeString(t.ofType) + "]" }
func (*ListType) isType()          {}

// LazyType defers a type reference until the schema compiles, so a field can
// refer to a type declared later (or to its own declaring type).
type LazyType struct {
	get func() Type
}

// Lazy returns a reference resolved by calling get when the schema compiles.
func Lazy(get func() Type) *LazyType { return &LazyType{get: get} }

// Resolve returns the referenced type, following nested lazy references.
// It returns nil while the target is not yet declared.
func (t *LazyType) Resolve() Type {
	var cur Type = t
	// bounded so a reference that resolves to itself terminates
	for i := 0; i < 32; i++ {
		l, ok := cur.(*LazyType)
		if !ok {
			return cur
		}
		if l == nil || l.get == nil {
			return nil
		}
		cur = l.get()
		if cur == nil {
			return nil
		}
	}
	return nil
}

func (t *LazyType) GetType() Type { return t }
func (t *LazyType) String() string {
	if r := t.Resolve(); r != nil {
		return r.String()
	}
	return "<unresolved>"
}
func (*LazyType) isType() {}

func typeString(t Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}

// NamedType strips NonNull, List and Lazy wrappers from t.
func NamedType(t Type) Type {
	for {
		switch w := t.(type) {
		case *NonNullType:
			t = w.ofType
		case *ListType:
			t = w.ofType
		case *LazyType:
			t = w.Resolve()
		default:
			return t
		}
	}
}

// IsNonNull reports whether t, after resolving lazy references, forbids null.
func IsNonNull(t Type) bool {
	if l, ok := t.(*LazyType); ok {
		t = l.Resolve()
	}
	_, ok := t.(*NonNullType)
	return ok
}

func resolveLazy(t Type) (Type, error) {
	l, ok := t.(*LazyType)
	if !ok {
		return t, nil
	}
	r := l.Resolve()
	if r == nil {
		return nil, fmt.Errorf("lazy type reference resolved to nil")
	}
	return r, nil
}
