package types

import (
	"fmt"
	"strings"
)

// Base is a declaration another declaration can inherit fields and resolve
// functions from: an *AbstractType, an *ObjectType (or a FieldResolver or
// Mutation built on one) or an *Interface.
type Base interface {
	declaration() *declaration
}

type declKind int

const (
	abstractDecl declKind = iota
	objectDecl
	interfaceDecl
)

func (k declKind) String() string {
	switch k {
	case objectDecl:
		return "object type"
	case interfaceDecl:
		return "interface"
	}
	return "abstract type"
}

// declaration is the raw, uncollected form of a type. owner identifies it
// across linearizations.
type declaration struct {
	owner     any
	kind      declKind
	name      string
	bases     []Base
	fields    Attrs
	resolvers map[string]ResolverFunc
}

// AbstractType is a mixin contributing fields and resolve functions to the
// declarations that list it as a base. It is not a schema type itself and must
// not be modified after it is first inherited from.
type AbstractType struct {
	Name      string
	Bases     []Base
	Fields    Attrs
	Resolvers map[string]ResolverFunc
}

func (a *AbstractType) declaration() *declaration {
	return &declaration{
		owner:     a,
		kind:      abstractDecl,
		name:      a.Name,
		bases:     a.Bases,
		fields:    a.Fields,
		resolvers: a.Resolvers,
	}
}

// typeDecl is what the ObjectType, Interface, FieldResolver and Mutation
// constructors share.
type typeDecl struct {
	kind      declKind
	name      string
	doc       string
	meta      Meta
	bases     []Base
	fields    Attrs
	resolvers map[string]ResolverFunc
}

// collect builds the TypeMeta of a declaration owned by owner.
func collect(owner any, d typeDecl) (*TypeMeta, *declaration, error) {
	name := d.meta.Name
	if name == "" {
		name = d.name
	}
	if name == "" {
		return nil, nil, declErrorf("", "%s name is required", d.kind)
	}
	if err := checkMeta(name, d); err != nil {
		return nil, nil, err
	}

	decl := &declaration{
		owner:     owner,
		kind:      d.kind,
		name:      name,
		bases:     d.bases,
		fields:    d.fields,
		resolvers: d.resolvers,
	}
	mro, err := linearize(decl, map[any]bool{})
	if err != nil {
		return nil, nil, &DeclarationError{Type: name, Message: "cannot linearize bases", Err: err}
	}

	fields := newFieldMap()
	for _, iface := range d.meta.Interfaces {
		for attr, f := range iface.meta.fields.All() {
			fields.set(attr, f)
		}
	}
	resolvers := make(map[string]ResolverFunc)
	for i := len(mro) - 1; i >= 0; i-- {
		base := mro[i]
		if err := checkAttrs(base); err != nil {
			return nil, nil, &DeclarationError{Type: name, Err: err}
		}
		for _, attr := range base.fields {
			f, ok := mountAttr(attr.Value)
			if !ok {
				continue
			}
			if f.err != nil {
				return nil, nil, &DeclarationError{Type: name, Message: fmt.Sprintf("field %q", attr.Name), Err: f.err}
			}
			fields.set(attr.Name, f.withAttr(attr.Name))
		}
		for attr, fn := range base.resolvers {
			if fn != nil {
				resolvers[attr] = fn
			}
		}
	}
	for attr := range resolvers {
		if _, ok := fields.Get(attr); !ok {
			return nil, nil, declErrorf(name, "resolve function declared for unknown field %q", attr)
		}
	}

	description := d.meta.Description
	if description == "" {
		description = strings.TrimSpace(d.doc)
	}
	return &TypeMeta{
		name:         name,
		description:  description,
		fields:       fields,
		interfaces:   append([]*Interface(nil), d.meta.Interfaces...),
		typeResolver: d.meta.TypeResolver,
		resolvers:    resolvers,
	}, decl, nil
}

func checkMeta(name string, d typeDecl) error {
	if len(d.meta.Interfaces) > 0 && d.kind != objectDecl {
		return declErrorf(name, "Meta.Interfaces is only valid on object types")
	}
	if d.meta.TypeResolver != nil && d.kind != interfaceDecl {
		return declErrorf(name, "Meta.TypeResolver is only valid on interfaces")
	}
	seen := make(map[*Interface]bool, len(d.meta.Interfaces))
	for _, iface := range d.meta.Interfaces {
		if iface == nil {
			return declErrorf(name, "Meta.Interfaces contains a nil interface")
		}
		if seen[iface] {
			return declErrorf(name, "interface %s listed more than once", iface.Name())
		}
		seen[iface] = true
	}
	for _, b := range d.bases {
		if b == nil {
			return declErrorf(name, "nil base")
		}
		bd := b.declaration()
		if bd.kind != abstractDecl && bd.kind != d.kind {
			return declErrorf(name, "%s cannot inherit from %s %s", d.kind, bd.kind, bd.name)
		}
	}
	return nil
}

// checkAttrs rejects unnamed and repeated attributes within one declaration.
func checkAttrs(d *declaration) error {
	seen := make(map[string]struct{}, len(d.fields))
	for _, attr := range d.fields {
		if attr.Name == "" {
			return fmt.Errorf("attribute without a name in %s", declName(d))
		}
		if _, dup := seen[attr.Name]; dup {
			return fmt.Errorf("attribute %q declared more than once in %s", attr.Name, declName(d))
		}
		seen[attr.Name] = struct{}{}
	}
	return nil
}

func declName(d *declaration) string {
	if d.name != "" {
		return d.name
	}
	return "an unnamed " + d.kind.String()
}

// mountAttr turns an attribute value into a field. It reports false for values
// that do not declare one.
func mountAttr(v any) (*Field, bool) {
	switch v := v.(type) {
	case *Field:
		if v == nil {
			return nil, false
		}
		return v, true
	case UnmountedType:
		if isNilPointer(v) {
			return nil, false
		}
		return MountField(v), true
	}
	return nil, false
}

// linearize returns the C3 linearization of d: d itself followed by its
// ancestors, each listed before its own bases.
func linearize(d *declaration, visiting map[any]bool) ([]*declaration, error) {
	if visiting[d.owner] {
		return nil, fmt.Errorf("%s inherits from itself", declName(d))
	}
	visiting[d.owner] = true
	defer delete(visiting, d.owner)

	seqs := make([][]*declaration, 0, len(d.bases)+1)
	direct := make([]*declaration, 0, len(d.bases))
	for _, b := range d.bases {
		bd := b.declaration()
		lin, err := linearize(bd, visiting)
		if err != nil {
			return nil, err
		}
		seqs = append(seqs, lin)
		direct = append(direct, bd)
	}
	seqs = append(seqs, direct)

	merged, err := c3Merge(seqs)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", declName(d), err)
	}
	return append([]*declaration{d}, merged...), nil
}

func c3Merge(seqs [][]*declaration) ([]*declaration, error) {
	var out []*declaration
	for {
		live := seqs[:0]
		for _, s := range seqs {
			if len(s) > 0 {
				live = append(live, s)
			}
		}
		seqs = live
		if len(seqs) == 0 {
			return out, nil
		}

		var next *declaration
		for _, s := range seqs {
			if !inTail(s[0], seqs) {
				next = s[0]
				break
			}
		}
		if next == nil {
			names := make([]string, 0, len(seqs))
			for _, s := range seqs {
				names = append(names, declName(s[0]))
			}
			return nil, fmt.Errorf("inconsistent base order among %s", strings.Join(names, ", "))
		}
		out = append(out, next)
		for i, s := range seqs {
			if s[0].owner == next.owner {
				seqs[i] = s[1:]
			}
		}
	}
}

func inTail(d *declaration, seqs [][]*declaration) bool {
	for _, s := range seqs {
		for _, t := range s[1:] {
			if t.owner == d.owner {
				return true
			}
		}
	}
	return false
}
