package types

import "fmt"

// Field is a named, typed position within an object type or interface.
// Fields are immutable; collecting a field into a type copies it under its
// attribute name.
type Field struct {
	attr              string
	name              string
	typ               Type
	args              []*Argument
	resolver          ResolverFunc
	description       string
	deprecationReason string
	source            string
	err               error
}

// NewField declares a field of type t.
func NewField(t Type, opts ...Option) *Field {
	s := newSettings(opts)
	f := &Field{
		name:              s.name,
		typ:               t,
		resolver:          s.resolver,
		description:       s.description,
		deprecationReason: s.deprecationReason,
		source:            s.source,
	}
	if t == nil {
		f.err = fmt.Errorf("field type is nil")
	}
	if s.required {
		f.typ = required(t)
	}
	args, err := mountArguments(s.args)
	if err != nil && f.err == nil {
		f.err = err
	}
	f.args = args
	return f
}

// MountField materializes a field from a placeholder. Options given here are
// applied after the placeholder's own options.
func MountField(u UnmountedType, opts ...Option) *Field {
	switch u := u.(type) {
	case interface{ Field(...Option) *Field }:
		return u.Field(opts...)
	case *Unmounted:
		return NewField(u.typ, append(append([]Option(nil), u.opts...), opts...)...)
	case nil:
		return &Field{err: fmt.Errorf("cannot mount a nil type")}
	}
	return NewField(u.GetType(), opts...)
}

// Name returns the field name: the explicit name if one was given, otherwise
// the attribute name it was collected under.
func (f *Field) Name() string {
	if f.name != "" {
		return f.name
	}
	return f.attr
}

// AttrName returns the attribute name the field was collected under.
func (f *Field) AttrName() string           { return f.attr }
func (f *Field) Type() Type                 { return f.typ }
func (f *Field) Args() []*Argument          { return append([]*Argument(nil), f.args...) }
func (f *Field) Resolver() ResolverFunc     { return f.resolver }
func (f *Field) Description() string        { return f.description }
func (f *Field) DeprecationReason() string  { return f.deprecationReason }
func (f *Field) Source() string             { return f.source }

// Arg returns the argument collected under attribute name attr.
func (f *Field) Arg(attr string) (*Argument, bool) {
	for _, a := range f.args {
		if a.attr == attr {
			return a, true
		}
	}
	return nil, false
}

func (f *Field) withAttr(attr string) *Field {
	c := *f
	c.attr = attr
	return &c
}

func required(t Type) Type {
	if _, ok := t.(*NonNullType); ok {
		return t
	}
	return NonNull(t)
}

// Unmounted is a type paired with field or argument options, waiting to be
// mounted by collection.
type Unmounted struct {
	typ  Type
	opts []Option
}

// Of returns a placeholder for t carrying opts:
//
//	{Name: "name", Value: types.Of(types.String, types.Required())}
func Of(t Type, opts ...Option) *Unmounted {
	return &Unmounted{typ: t, opts: opts}
}

func (u *Unmounted) GetType() Type { return u.typ }
