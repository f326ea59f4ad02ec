package executor

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	schema "github.com/hanpama/graphdef/internal/schema"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	typeName string
	value    map[string]any
}

// envelopeRuntime resolves abstract values wrapped in an envelope and records
// the paths ResolveType was called with.
type envelopeRuntime struct {
	*MockRuntime
	paths []Path
}

func (r *envelopeRuntime) ResolveType(ctx context.Context, abstractType string, value any) (string, error) {
	p, _ := PathFromContext(ctx)
	r.paths = append(r.paths, p)
	return value.(envelope).typeName, nil
}

func (r *envelopeRuntime) ResolveInterfaceConcreteValue(ctx context.Context, interfaceTypeName string, value any) (any, error) {
	return value.(envelope).value, nil
}

func (r *envelopeRuntime) ResolveUnionConcreteValue(ctx context.Context, unionTypeName string, value any) (any, error) {
	return value.(envelope).value, nil
}

func newCharacterSchema() *schema.Schema {
	return &schema.Schema{
		QueryType: "Query",
		Types: map[string]*schema.Type{
			"Query": {Name: "Query", Kind: schema.TypeKindObject, Fields: []*schema.Field{
				{Name: "heroes", Type: schema.ListType(schema.NamedType("Character")), Async: true},
				{Name: "search", Type: schema.ListType(schema.NamedType("SearchResult")), Async: true},
			}},
			"Character": {Name: "Character", Kind: schema.TypeKindInterface, PossibleTypes: []string{"Human", "Droid"}, Fields: []*schema.Field{
				{Name: "name", Type: schema.NamedType("String")},
			}},
			"SearchResult": {Name: "SearchResult", Kind: schema.TypeKindUnion, PossibleTypes: []string{"Human", "Starship"}},
			"Human": {Name: "Human", Kind: schema.TypeKindObject, Interfaces: []string{"Character"}, Fields: []*schema.Field{
				{Name: "name", Type: schema.NamedType("String")},
				{Name: "height", Type: schema.NamedType("Float")},
			}},
			"Droid": {Name: "Droid", Kind: schema.TypeKindObject, Interfaces: []string{"Character"}, Fields: []*schema.Field{
				{Name: "name", Type: schema.NamedType("String")},
				{Name: "primaryFunction", Type: schema.NamedType("String")},
			}},
			"Starship": {Name: "Starship", Kind: schema.TypeKindObject, Fields: []*schema.Field{
				{Name: "name", Type: schema.NamedType("String")},
			}},
			"String": {Name: "String", Kind: schema.TypeKindScalar},
			"Float":  {Name: "Float", Kind: schema.TypeKindScalar},
		},
	}
}

func projectKey(key string) MockResolver {
	return func(ctx context.Context, source any, args map[string]any) (any, error) {
		return source.(map[string]any)[key], nil
	}
}

func newEnvelopeRuntime() *envelopeRuntime {
	rt := &envelopeRuntime{MockRuntime: NewMockRuntime(map[string]MockResolver{
		"Query.heroes": NewMockValueResolver([]any{
			envelope{typeName: "Human", value: map[string]any{"name": "Luke", "height": 1.72}},
			envelope{typeName: "Droid", value: map[string]any{"name": "R2-D2", "primaryFunction": "Astromech"}},
		}),
		"Query.search": NewMockValueResolver([]any{
			envelope{typeName: "Starship", value: map[string]any{"name": "Falcon"}},
			envelope{typeName: "Human", value: map[string]any{"name": "Han", "height": 1.8}},
		}),
	})}
	for _, typ := range []string{"Human", "Droid", "Starship"} {
		rt.SetResolver(typ, "name", projectKey("name"))
	}
	rt.SetResolver("Human", "height", projectKey("height"))
	rt.SetResolver("Droid", "primaryFunction", projectKey("primaryFunction"))
	return rt
}

func TestAbstract_FragmentsOnInterfaceAndUnion_Result(t *testing.T) {
	rt := newEnvelopeRuntime()
	exec := NewExecutor(rt, newCharacterSchema())

	doc := mustParseQuery(t, `{
		heroes {
			... on Character { name }
			... on Human { height }
			...DroidFields
		}
		search {
			__typename
			... on Character { name }
			... on Starship { name }
		}
	}
	fragment DroidFields on Droid { primaryFunction }`)
	gotRes := exec.ExecuteRequest(context.Background(), doc, "", nil, nil)

	wantRes := &ExecutionResult{
		Data: map[string]any{
			"heroes": []any{
				map[string]any{"name": "Luke", "height": 1.72},
				map[string]any{"name": "R2-D2", "primaryFunction": "Astromech"},
			},
			"search": []any{
				map[string]any{"__typename": "Starship", "name": "Falcon"},
				map[string]any{"__typename": "Human", "name": "Han"},
			},
		},
		Errors: []GraphQLError{},
	}
	if diff := cmp.Diff(wantRes, gotRes, ignoreErrorDetails); diff != "" {
		t.Fatalf("result mismatch (-want +got):\n%s", diff)
	}
}

func TestAbstract_ResolveTypeReceivesPath(t *testing.T) {
	rt := newEnvelopeRuntime()
	exec := NewExecutor(rt, newCharacterSchema())

	doc := mustParseQuery(t, `{ heroes { name } }`)
	res := exec.ExecuteRequest(context.Background(), doc, "", nil, nil)
	require.Empty(t, res.Errors)

	want := []Path{{"heroes", 0}, {"heroes", 1}}
	if diff := cmp.Diff(want, rt.paths); diff != "" {
		t.Fatalf("paths mismatch (-want +got):\n%s", diff)
	}
}

func TestAbstract_ImpossibleType_Error(t *testing.T) {
	rt := newEnvelopeRuntime()
	rt.SetResolver("Query", "heroes", NewMockValueResolver([]any{
		envelope{typeName: "Starship", value: map[string]any{"name": "Falcon"}},
	}))
	exec := NewExecutor(rt, newCharacterSchema())

	doc := mustParseQuery(t, `{ heroes { name } }`)
	gotRes := exec.ExecuteRequest(context.Background(), doc, "", nil, nil)

	wantRes := &ExecutionResult{
		Data: map[string]any{"heroes": []any{nil}},
		Errors: []GraphQLError{{
			Message: "Runtime Object type Starship is not a possible type for Character",
			Path:    Path{"heroes", 0},
		}},
	}
	if diff := cmp.Diff(wantRes, gotRes, ignoreErrorDetails); diff != "" {
		t.Fatalf("result mismatch (-want +got):\n%s", diff)
	}
}

func TestResolverErrorCarriesLocation(t *testing.T) {
	rt := NewMockRuntime(map[string]MockResolver{
		"Query.a": NewMockErrorResolver(errBoom),
	})
	sch := newSchemaWithQueryType(newObjectType("Query", schema.NewField("a", "", schema.NamedType("String")).SetAsync(true)))
	exec := NewExecutor(rt, sch)

	doc := mustParseQuery(t, "{\n  a\n}")
	res := exec.ExecuteRequest(context.Background(), doc, "", nil, nil)
	require.Len(t, res.Errors, 1)
	require.Equal(t, []Location{{Line: 2, Column: 3}}, res.Errors[0].Locations)
	require.ErrorIs(t, res.Errors[0], errBoom)
}
