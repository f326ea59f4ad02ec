package types

// Mutation is a FieldResolver variant for mutation fields: Mutate is
// required and Output may replace the payload type.
type Mutation struct {
	*ObjectType
	args   []*Argument
	mutate ResolverFunc
	output Type
}

type MutationConfig struct {
	Name      string
	Doc       string
	Meta      Meta
	Bases     []Base
	Fields    Attrs
	Resolvers map[string]ResolverFunc
	IsTypeOf  func(value any) bool
	Model     any

	Arguments Attrs
	Mutate    ResolverFunc
	// Output is the type the generated field returns. When nil the field
	// returns the mutation's own object type.
	Output Type
}

func NewMutation(cfg MutationConfig) (*Mutation, error) {
	obj := &ObjectType{isTypeOf: cfg.IsTypeOf, model: modelType(cfg.Model)}
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
	if cfg.Mutate == nil {
		return nil, &DeclarationError{Type: obj.Name(), Err: ErrNoMutate}
	}
	args, err := mountArguments(cfg.Arguments)
	if err != nil {
		return nil, &DeclarationError{Type: obj.Name(), Message: "arguments", Err: err}
	}
	return &Mutation{ObjectType: obj, args: args, mutate: cfg.Mutate, output: cfg.Output}, nil
}

func MustNewMutation(cfg MutationConfig) *Mutation {
	m, err := NewMutation(cfg)
	if err != nil {
		panic(err)
	}
	return m
}

func (m *Mutation) Arguments() []*Argument { return append([]*Argument(nil), m.args...) }

// Output returns the type the generated field returns.
func (m *Mutation) Output() Type {
	if m.output != nil {
		return m.output
	}
	return m.ObjectType
}

// Field mounts the mutation field.
func (m *Mutation) Field(opts ...Option) *Field {
	return mountGenerated(m.Output(), m.args, m.mutate, opts)
}
