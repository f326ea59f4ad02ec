package schema

import (
	"sort"
	"strings"

	language "github.com/hanpama/graphdef/internal/language"
)

// BuildFromSDL parses and validates SDL and returns the corresponding Schema.
// Fields are marked sync; callers flip Async on fields backed by resolvers.
func BuildFromSDL(sdl string) (*Schema, error) {
	doc, err := language.LoadSchema("schema.graphql", sdl)
	if err != nil {
		return nil, err
	}
	return FromAST(doc), nil
}

// FromAST converts a validated gqlparser schema into a Schema.
func FromAST(doc *language.Schema) *Schema {
	s := NewSchema(doc.Description)
	if doc.Query != nil {
		s.SetQueryType(doc.Query.Name)
	}
	if doc.Mutation != nil {
		s.SetMutationType(doc.Mutation.Name)
	}
	if doc.Subscription != nil {
		s.SetSubscriptionType(doc.Subscription.Name)
	}

	names := make([]string, 0, len(doc.Types))
	for name, def := range doc.Types {
		if def.BuiltIn {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		def := doc.Types[name]
		if BuiltinScalar(name) != nil {
			continue
		}
		switch def.Kind {
		case language.Object, language.Interface:
			kind := TypeKindObject
			if def.Kind == language.Interface {
				kind = TypeKindInterface
			}
			t := NewType(def.Name, kind, def.Description)
			for _, iface := range def.Interfaces {
				t.AddInterface(iface)
			}
			for _, fd := range def.Fields {
				if strings.HasPrefix(fd.Name, "__") {
					continue
				}
				t.AddField(fieldFromAST(fd))
			}
			if kind == TypeKindInterface {
				for _, impl := range doc.PossibleTypes[def.Name] {
					t.AddPossibleType(impl.Name)
				}
			}
			s.AddType(t)
		case language.Union:
			t := NewType(def.Name, TypeKindUnion, def.Description)
			for _, member := range def.Types {
				t.AddPossibleType(member)
			}
			s.AddType(t)
		case language.Enum:
			t := NewType(def.Name, TypeKindEnum, def.Description)
			for _, ev := range def.EnumValues {
				v := NewEnumValue(ev.Name, ev.Description)
				if reason, ok := deprecationFromAST(ev.Directives); ok {
					v.Deprecate(reason)
				}
				t.AddEnumValue(v)
			}
			s.AddType(t)
		case language.InputObject:
			t := NewType(def.Name, TypeKindInputObject, def.Description).
				SetOneOf(def.Directives.ForName("oneOf") != nil)
			for _, fd := range def.Fields {
				v := NewInputValue(fd.Name, fd.Description, typeRefFromAST(fd.Type))
				if fd.DefaultValue != nil {
					dv, _ := fd.DefaultValue.Value(nil)
					v.SetDefault(dv)
				}
				t.AddInputField(v)
			}
			s.AddType(t)
		case language.Scalar:
			s.AddType(NewType(def.Name, TypeKindScalar, def.Description))
		}
	}
	return s
}

func fieldFromAST(fd *language.FieldDefinition) *Field {
	f := NewField(fd.Name, fd.Description, typeRefFromAST(fd.Type))
	if reason, ok := deprecationFromAST(fd.Directives); ok {
		f.Deprecate(reason)
	}
	for _, ad := range fd.Arguments {
		v := NewInputValue(ad.Name, ad.Description, typeRefFromAST(ad.Type))
		if ad.DefaultValue != nil {
			dv, _ := ad.DefaultValue.Value(nil)
			v.SetDefault(dv)
		}
		f.AddArgument(v)
	}
	return f
}

func deprecationFromAST(directives language.DirectiveList) (string, bool) {
	d := directives.ForName("deprecated")
	if d == nil {
		return "", false
	}
	if arg := d.Arguments.ForName("reason"); arg != nil && arg.Value != nil {
		return arg.Value.Raw, true
	}
	return "", true
}

func typeRefFromAST(t *language.Type) *TypeRef {
	if t == nil {
		return nil
	}
	var ref *TypeRef
	if t.Elem != nil {
		ref = ListType(typeRefFromAST(t.Elem))
	} else {
		ref = NamedType(t.NamedType)
	}
	if t.NonNull {
		return NonNullType(ref)
	}
	return ref
}
