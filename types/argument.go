package types

import "fmt"

// Argument is a named, typed input to a field.
type Argument struct {
	attr              string
	name              string
	typ               Type
	defaultValue      any
	hasDefault        bool
	description       string
	deprecationReason string
}

// NewArgument declares an argument of type t. The name is assigned from the
// attribute it is declared under unless WithName is given.
func NewArgument(t Type, opts ...Option) *Argument {
	s := newSettings(opts)
	a := &Argument{
		name:              s.name,
		typ:               t,
		defaultValue:      s.defaultValue,
		hasDefault:        s.hasDefault,
		description:       s.description,
		deprecationReason: s.deprecationReason,
	}
	if s.required {
		a.typ = required(t)
	}
	return a
}

// MountArgument materializes an argument from a placeholder.
func MountArgument(u UnmountedType, opts ...Option) *Argument {
	if um, ok := u.(*Unmounted); ok {
		return NewArgument(um.typ, append(append([]Option(nil), um.opts...), opts...)...)
	}
	return NewArgument(u.GetType(), opts...)
}

func (a *Argument) Name() string {
	if a.name != "" {
		return a.name
	}
	return a.attr
}

func (a *Argument) AttrName() string          { return a.attr }
func (a *Argument) Type() Type                { return a.typ }
func (a *Argument) Description() string       { return a.description }
func (a *Argument) DeprecationReason() string { return a.deprecationReason }

// DefaultValue returns the default and whether one was declared.
func (a *Argument) DefaultValue() (any, bool) { return a.defaultValue, a.hasDefault }

// mountArguments collects an arguments block in declaration order.
func mountArguments(attrs Attrs) ([]*Argument, error) {
	if len(attrs) == 0 {
		return nil, nil
	}
	out := make([]*Argument, 0, len(attrs))
	seen := make(map[string]struct{}, len(attrs))
	for _, attr := range attrs {
		if attr.Name == "" {
			return nil, fmt.Errorf("argument declared without a name")
		}
		if _, dup := seen[attr.Name]; dup {
			return nil, fmt.Errorf("argument %q declared more than once", attr.Name)
		}
		seen[attr.Name] = struct{}{}

		var arg *Argument
		switch v := attr.Value.(type) {
		case *Argument:
			c := *v
			arg = &c
		case UnmountedType:
			arg = MountArgument(v)
		default:
			return nil, fmt.Errorf("argument %q: cannot mount %T", attr.Name, attr.Value)
		}
		if arg.typ == nil {
			return nil, fmt.Errorf("argument %q: type is nil", attr.Name)
		}
		arg.attr = attr.Name
		out = append(out, arg)
	}
	return out, nil
}
