package types

import (
	"reflect"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
)

// ObjectType is a concrete output type with an ordered set of fields.
type ObjectType struct {
	meta         *TypeMeta
	decl         *declaration
	isTypeOf     func(value any) bool
	model        reflect.Type
	protoMessage protoreflect.FullName
}

// ObjectTypeConfig declares an object type.
type ObjectTypeConfig struct {
	// Name is the declared type name; Meta.Name overrides it.
	Name string
	// Doc is the documentation string used as description unless
	// Meta.Description is set.
	Doc   string
	Meta  Meta
	Bases []Base
	// Fields lists the attributes declared directly on the type.
	Fields Attrs
	// Resolvers maps field attribute names to resolve functions.
	Resolvers map[string]ResolverFunc

	// IsTypeOf reports whether a value belongs to this type when it is
	// returned for an interface field.
	IsTypeOf func(value any) bool
	// Model binds a Go type to the object: values of that type (or pointers
	// to it) belong to the object when IsTypeOf is not set.
	Model any
	// ProtoMessage binds a protobuf message to the object: messages with this
	// full name belong to the object when IsTypeOf is not set.
	ProtoMessage protoreflect.FullName
}

// NewObjectType collects cfg into an object type.
func NewObjectType(cfg ObjectTypeConfig) (*ObjectType, error) {
	t := &ObjectType{
		isTypeOf:     cfg.IsTypeOf,
		model:        modelType(cfg.Model),
		protoMessage: cfg.ProtoMessage,
	}
	if err := t.init(typeDecl{
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
	return t, nil
}

// MustNewObjectType is like NewObjectType but panics on error.
func MustNewObjectType(cfg ObjectTypeConfig) *ObjectType {
	t, err := NewObjectType(cfg)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *ObjectType) init(d typeDecl) error {
	meta, decl, err := collect(t, d)
	if err != nil {
		return err
	}
	t.meta, t.decl = meta, decl
	return nil
}

func modelType(model any) reflect.Type {
	if model == nil {
		return nil
	}
	rt := reflect.TypeOf(model)
	for rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	return rt
}

func (t *ObjectType) Meta() *TypeMeta           { return t.meta }
func (t *ObjectType) Name() string              { return t.meta.name }
func (t *ObjectType) Description() string       { return t.meta.description }
func (t *ObjectType) Fields() *FieldMap         { return t.meta.fields }
func (t *ObjectType) Interfaces() []*Interface  { return t.meta.Interfaces() }
func (t *ObjectType) String() string            { return t.meta.name }
func (t *ObjectType) GetType() Type             { return t }
func (t *ObjectType) declaration() *declaration { return t.decl }
func (*ObjectType) isType()                     {}

// Implements reports whether iface is among the declared interfaces.
func (t *ObjectType) Implements(iface *Interface) bool {
	for _, i := range t.meta.interfaces {
		if i == iface {
			return true
		}
	}
	return false
}

// IsTypeOf reports whether value belongs to t: by the configured predicate,
// else by the bound Go model type, else by the bound protobuf message name.
func (t *ObjectType) IsTypeOf(value any) bool {
	if typed, ok := value.(Typed); ok {
		return typed.Type == t
	}
	switch {
	case t.isTypeOf != nil:
		return t.isTypeOf(value)
	case t.model != nil:
		rt := reflect.TypeOf(value)
		for rt != nil && rt.Kind() == reflect.Pointer {
			rt = rt.Elem()
		}
		return rt == t.model
	case t.protoMessage != "":
		if m, ok := value.(proto.Message); ok {
			return m.ProtoReflect().Descriptor().FullName() == t.protoMessage
		}
		if m, ok := value.(protoreflect.Message); ok {
			return m.Descriptor().FullName() == t.protoMessage
		}
	}
	return false
}

// Typed tags a value with the object type it must be completed as, bypassing
// interface type resolution.
type Typed struct {
	Type  *ObjectType
	Value any
}

// As tags value as an instance of t.
func As(t *ObjectType, value any) Typed { return Typed{Type: t, Value: value} }

func untag(value any) any {
	if typed, ok := value.(Typed); ok {
		return typed.Value
	}
	return value
}
