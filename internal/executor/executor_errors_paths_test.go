package executor

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	schema "github.com/hanpama/graphdef/internal/schema"
)

func TestErrors_LocatedPaths(t *testing.T) {
	obj := newObjectType("Obj", schema.NewField("a", "", schema.NamedType("String")))
	query := newObjectType("Query",
		schema.NewField("a", "", schema.NamedType("String")),
		schema.NewField("obj", "", schema.NamedType("Obj")),
		schema.NewField("objs", "", schema.ListType(schema.NamedType("Obj"))),
	)
	sch := newSchemaWithQueryType(query, obj, newScalarType("String"))

	rt := NewMockRuntime(map[string]MockResolver{
		"Query.a":    NewMockErrorResolver(errBoom),
		"Query.obj":  NewMockValueResolver(map[string]any{"idx": 1}),
		"Query.objs": NewMockValueResolver([]any{map[string]any{"idx": 0}, map[string]any{"idx": 1}}),
		"Obj.a": func(ctx context.Context, src any, args map[string]any) (any, error) {
			if src.(map[string]any)["idx"].(int) == 1 {
				return nil, fmt.Errorf("boom at %d", 1)
			}
			return "A", nil
		},
	})

	tests := []struct {
		query    string
		wantData map[string]any
		wantPath Path
	}{
		{"{ a }", map[string]any{"a": nil}, Path{"a"}},
		{"{ obj { a } }", map[string]any{"obj": map[string]any{"a": nil}}, Path{"obj", "a"}},
		{"{ objs { a } }", map[string]any{"objs": []any{map[string]any{"a": "A"}, map[string]any{"a": nil}}}, Path{"objs", 1, "a"}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			res := NewExecutor(rt, sch).ExecuteRequest(context.Background(), mustParseQuery(t, tt.query), "", nil, nil)
			require.Equal(t, tt.wantData, res.Data)
			require.Len(t, res.Errors, 1)
			require.Equal(t, tt.wantPath, res.Errors[0].Path)
		})
	}
}
