package types

import "context"

// Interface is an abstract output type implemented by object types that list
// it in Meta.Interfaces.
type Interface struct {
	meta *TypeMeta
	decl *declaration
}

// InterfaceConfig declares an interface.
type InterfaceConfig struct {
	Name      string
	Doc       string
	Meta      Meta
	Bases     []Base
	Fields    Attrs
	Resolvers map[string]ResolverFunc
}

// TypeResolver picks the object type a value returned for an interface field
// is completed as. It returns an error, typically a *TypeResolutionError, when
// the value cannot be classified.
type TypeResolver func(ctx context.Context, value any, info ResolveInfo) (*ObjectType, error)

func NewInterface(cfg InterfaceConfig) (*Interface, error) {
	t := &Interface{}
	meta, decl, err := collect(t, typeDecl{
		kind:      interfaceDecl,
		name:      cfg.Name,
		doc:       cfg.Doc,
		meta:      cfg.Meta,
		bases:     cfg.Bases,
		fields:    cfg.Fields,
		resolvers: cfg.Resolvers,
	})
	if err != nil {
		return nil, err
	}
	t.meta, t.decl = meta, decl
	return t, nil
}

func MustNewInterface(cfg InterfaceConfig) *Interface {
	t, err := NewInterface(cfg)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Interface) Meta() *TypeMeta            { return t.meta }
func (t *Interface) Name() string               { return t.meta.name }
func (t *Interface) Description() string        { return t.meta.description }
func (t *Interface) Fields() *FieldMap          { return t.meta.fields }
func (t *Interface) TypeResolver() TypeResolver { return t.meta.typeResolver }
func (t *Interface) String() string             { return t.meta.name }
func (t *Interface) GetType() Type              { return t }
func (t *Interface) declaration() *declaration  { return t.decl }
func (*Interface) isType()                      {}
