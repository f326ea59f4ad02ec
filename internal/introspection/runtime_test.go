package introspection

import (
	"context"
	"testing"

	executor "github.com/hanpama/graphdef/internal/executor"
	language "github.com/hanpama/graphdef/internal/language"
	schema "github.com/hanpama/graphdef/internal/schema"
	"github.com/stretchr/testify/require"
)

// noopRuntime implements executor.Runtime with no behaviour.
type noopRuntime struct{}

func (noopRuntime) ResolveSync(context.Context, string, string, any, map[string]any) (any, error) {
	return nil, nil
}

func (noopRuntime) BatchResolveAsync(_ context.Context, tasks []executor.AsyncResolveTask) []executor.AsyncResolveResult {
	return make([]executor.AsyncResolveResult, len(tasks))
}

func (noopRuntime) ResolveType(context.Context, string, any) (string, error) {
	return "", nil
}

func (noopRuntime) ResolveUnionConcreteValue(_ context.Context, _ string, value any) (any, error) {
	return value, nil
}

func (noopRuntime) ResolveInterfaceConcreteValue(_ context.Context, _ string, value any) (any, error) {
	return value, nil
}

func (noopRuntime) SerializeLeafValue(_ context.Context, _ string, value any) (any, error) {
	if s, ok := value.(*string); ok {
		return *s, nil
	}
	return value, nil
}

func buildSchema(t *testing.T, sdl string) *schema.Schema {
	t.Helper()
	sch, err := schema.BuildFromSDL(sdl)
	if err != nil {
		t.Fatalf("build schema: %v", err)
	}
	return sch
}

func execute(t *testing.T, sch *schema.Schema, query string) map[string]any {
	t.Helper()
	wrapper := Wrap(noopRuntime{}, sch)
	exec := executor.NewExecutor(wrapper.Runtime, wrapper.Schema)
	doc, err := language.ParseQuery(query)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	res := exec.ExecuteRequest(context.Background(), doc, "", nil, nil)
	if len(res.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}
	return res.Data.(map[string]any)
}

func TestIntrospectionEnabled(t *testing.T) {
	data := execute(t, buildSchema(t, `type Query { hello: String }`), "{__schema{queryType{name}}}")
	schData := data["__schema"].(map[string]any)
	qt := schData["queryType"].(map[string]any)
	if qt["name"].(string) != "Query" {
		t.Fatalf("queryType.name = %v", qt["name"])
	}
}

func TestIntrospectionCustomQueryRoot(t *testing.T) {
	sdl := `schema { query: RootQuery }
type RootQuery { hello: String }`
	data := execute(t, buildSchema(t, sdl), `{ __type(name: "RootQuery") { name kind } }`)
	require.Equal(t, map[string]any{"name": "RootQuery", "kind": "OBJECT"}, data["__type"])
}

func TestIntrospectionFieldTypeKinds(t *testing.T) {
	sdl := `type Query {
  hero(unit: String = "METER"): Hero!
}
type Hero { name: String }`
	data := execute(t, buildSchema(t, sdl), `{
  __type(name: "Query") {
    fields {
      name
      args { name defaultValue }
      type { kind ofType { kind name } }
    }
  }
}`)
	fields := data["__type"].(map[string]any)["fields"].([]any)
	require.Len(t, fields, 1)
	hero := fields[0].(map[string]any)
	require.Equal(t, map[string]any{
		"kind":   "NON_NULL",
		"ofType": map[string]any{"kind": "OBJECT", "name": "Hero"},
	}, hero["type"])
	require.Equal(t, []any{map[string]any{"name": "unit", "defaultValue": `"METER"`}}, hero["args"])
}

func TestTypenameField(t *testing.T) {
	sch := buildSchema(t, `type Query { hello: String }`)
	// __typename should work without introspection wrapper
	rt := noopRuntime{}
	exec := executor.NewExecutor(rt, sch)
	doc, err := language.ParseQuery("{__typename}")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	res := exec.ExecuteRequest(context.Background(), doc, "", nil, nil)
	if len(res.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}
	data := res.Data.(map[string]any)
	if data["__typename"] != "Query" {
		t.Fatalf("expected __typename to be Query, got %v", data["__typename"])
	}
}
