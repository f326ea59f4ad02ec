package types

import "google.golang.org/protobuf/reflect/protoreflect"

// FieldResolver is an object type that also produces the field returning it:
// its Arguments become the field's arguments and Resolve its resolver.
type FieldResolver struct {
	*ObjectType
	args    []*Argument
	resolve ResolverFunc
}

// FieldResolverConfig declares a FieldResolver. The embedded object type is
// declared exactly as with ObjectTypeConfig.
type FieldResolverConfig struct {
	Name         string
	Doc          string
	Meta         Meta
	Bases        []Base
	Fields       Attrs
	Resolvers    map[string]ResolverFunc
	IsTypeOf     func(value any) bool
	Model        any
	ProtoMessage protoreflect.FullName

	// Arguments declares the arguments of the generated field.
	Arguments Attrs
	// Resolve resolves the generated field. It is required when Arguments
	// is not empty.
	Resolve ResolverFunc
}

// NewFieldResolver collects cfg. Declaring Arguments without Resolve is a
// DeclarationError wrapping ErrNoResolve.
func NewFieldResolver(cfg FieldResolverConfig) (*FieldResolver, error) {
	obj := &ObjectType{
		isTypeOf:     cfg.IsTypeOf,
		model:        modelType(cfg.Model),
		protoMessage: cfg.ProtoMessage,
	}
	if err := obj.init(typeDecl{
		kind:      objectDecl,
		name:      cfg.Name,
		doc:       cfg.Doc,
		meta:      cfg.Meta,
		bases:     cfg.Bases,
		fields:    cfg.Fields,
		resolvers: cfg.Resolvers,
	}); err != nil {
		return nil, err
	}
	if len(cfg.Arguments) > 0 && cfg.Resolve == nil {
		return nil, &DeclarationError{Type: obj.Name(), Err: ErrNoResolve}
	}
	args, err := mountArguments(cfg.Arguments)
	if err != nil {
		return nil, &DeclarationError{Type: obj.Name(), Message: "arguments", Err: err}
	}
	return &FieldResolver{ObjectType: obj, args: args, resolve: cfg.Resolve}, nil
}

func MustNewFieldResolver(cfg FieldResolverConfig) *FieldResolver {
	r, err := NewFieldResolver(cfg)
	if err != nil {
		panic(err)
	}
	return r
}

// Arguments returns the declared arguments in order.
func (r *FieldResolver) Arguments() []*Argument { return append([]*Argument(nil), r.args...) }

// Field mounts a field returning the object type, with the declared arguments
// and resolve function. opts are applied last.
func (r *FieldResolver) Field(opts ...Option) *Field {
	return mountGenerated(r.ObjectType, r.args, r.resolve, opts)
}

func mountGenerated(t Type, args []*Argument, resolve ResolverFunc, opts []Option) *Field {
	f := NewField(t, opts...)
	if f.resolver == nil {
		f.resolver = resolve
	}
	f.args = append(append([]*Argument(nil), args...), f.args...)
	return f
}
