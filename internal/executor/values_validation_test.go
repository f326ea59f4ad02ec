package executor

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2/ast"

	language "github.com/hanpama/graphdef/internal/language"
	schema "github.com/hanpama/graphdef/internal/schema"
)

func TestCoerceVariableValues_InputObjectValidation(t *testing.T) {
	sch := schema.NewSchema("")

	input := schema.NewType("FilterInput", schema.TypeKindInputObject, "")
	input.AddInputField(schema.NewInputValue("required", "", schema.NonNullType(schema.NamedType("String"))))
	input.AddInputField(schema.NewInputValue("optional", "", schema.NamedType("Int")))
	sch.AddType(input)

	op := &language.OperationDefinition{
		Operation: language.Query,
		VariableDefinitions: ast.VariableDefinitionList{
			&ast.VariableDefinition{
				Variable: "input",
				Type:     &ast.Type{NamedType: "FilterInput", NonNull: true},
			},
		},
	}

	_, err := coerceVariableValues(sch, op, map[string]any{
		"input": map[string]any{
			"optional": 10,
		},
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "required field 'required'")
}

func TestCoerceVariableValues_ScalarTypeMismatch(t *testing.T) {
	sch := schema.NewSchema("")

	op := &language.OperationDefinition{
		Operation: language.Query,
		VariableDefinitions: ast.VariableDefinitionList{
			&ast.VariableDefinition{
				Variable: "count",
				Type:     &ast.Type{NamedType: "Int", NonNull: true},
			},
		},
	}

	_, err := coerceVariableValues(sch, op, map[string]any{
		"count": "42",
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "cannot coerce")
}

func TestCoerceArgumentValues_VariableDefaults(t *testing.T) {
	field := schema.NewField("greet", "", schema.NamedType("String")).
		AddArgument(schema.NewInputValue("times", "", schema.NamedType("Int"))).
		AddArgument(schema.NewInputValue("greeting", "", schema.NamedType("String")).SetDefault("Hello"))

	doc := mustParseQuery(t, `query Q($n: Int, $g: String) { greet(times: $n, greeting: $g) }`)
	args := doc.Operations[0].SelectionSet[0].(*language.Field).Arguments

	t.Run("unprovided", func(t *testing.T) {
		state := &executionState{}
		got := coerceArgumentValues(field, args, map[string]any{}, state, Path{"greet"})
		require.Empty(t, state.errors)
		require.Equal(t, map[string]any{"greeting": "Hello"}, got)
	})

	t.Run("explicit null", func(t *testing.T) {
		state := &executionState{}
		got := coerceArgumentValues(field, args, map[string]any{"n": nil, "g": nil}, state, Path{"greet"})
		require.Empty(t, state.errors)
		require.Equal(t, map[string]any{"times": nil, "greeting": nil}, got)
	})
}
