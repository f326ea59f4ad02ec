package types

import "iter"

// Attr is one attribute of a declaration. Values that are a *Field or an
// UnmountedType become fields; other values are ignored.
type Attr struct {
	Name  string
	Value any
}

// Attrs is an ordered attribute list.
type Attrs []Attr

// Meta holds per-type overrides.
type Meta struct {
	// Name overrides the declared name.
	Name string
	// Description overrides the documentation string.
	Description string
	// Interfaces lists the interfaces an object type implements.
	Interfaces []*Interface
	// TypeResolver replaces the default runtime dispatch of an interface.
	TypeResolver TypeResolver
}

// FieldMap is an ordered, read-only mapping of attribute name to field.
type FieldMap struct {
	keys   []string
	fields map[string]*Field
}

func newFieldMap() *FieldMap { return &FieldMap{fields: make(map[string]*Field)} }

// set registers f under name. A name seen before keeps its position.
func (m *FieldMap) set(name string, f *Field) {
	if _, ok := m.fields[name]; !ok {
		m.keys = append(m.keys, name)
	}
	m.fields[name] = f
}

func (m *FieldMap) Len() int { return len(m.keys) }

// Keys returns the attribute names in order.
func (m *FieldMap) Keys() []string { return append([]string(nil), m.keys...) }

func (m *FieldMap) Get(name string) (*Field, bool) {
	f, ok := m.fields[name]
	return f, ok
}

// All iterates fields in order.
func (m *FieldMap) All() iter.Seq2[string, *Field] {
	return func(yield func(string, *Field) bool) {
		for _, k := range m.keys {
			if !yield(k, m.fields[k]) {
				return
			}
		}
	}
}

// TypeMeta is the immutable result of collecting a declaration.
type TypeMeta struct {
	name         string
	description  string
	fields       *FieldMap
	interfaces   []*Interface
	typeResolver TypeResolver
	resolvers    map[string]ResolverFunc
}

func (m *TypeMeta) Name() string               { return m.name }
func (m *TypeMeta) Description() string        { return m.description }
func (m *TypeMeta) Fields() *FieldMap          { return m.fields }
func (m *TypeMeta) Interfaces() []*Interface   { return append([]*Interface(nil), m.interfaces...) }
func (m *TypeMeta) TypeResolver() TypeResolver { return m.typeResolver }

// Resolver returns the resolve function declared for the field collected
// under attr, on this type or one of its bases.
func (m *TypeMeta) Resolver(attr string) (ResolverFunc, bool) {
	fn, ok := m.resolvers[attr]
	return fn, ok
}
