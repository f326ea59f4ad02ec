package schema

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const characterSDL = `"""
A character in the trilogy
"""
interface Character {
  id: ID!
  name: String
}

type Droid implements Character {
  id: ID!
  name: String
  primaryFunction: String
}

type Human implements Character {
  id: ID!
  name: String
  height(unit: String = "METER"): Float @deprecated(reason: "use heightInMeters")
}

type Query {
  hero(episode: Int): Character
  humans: [Human!]!
}
`

func TestBuildFromSDL(t *testing.T) {
	s, err := BuildFromSDL(characterSDL)
	require.NoError(t, err)

	require.Equal(t, "Query", s.QueryType)
	require.Empty(t, s.MutationType)
	require.True(t, IsBuiltin(s.Types["String"]))

	character := s.Types["Character"]
	require.Equal(t, TypeKindInterface, character.Kind)
	require.Equal(t, "A character in the trilogy", character.Description)
	require.ElementsMatch(t, []string{"Droid", "Human"}, character.PossibleTypes)

	human := s.Types["Human"]
	require.True(t, human.Implements("Character"))
	require.False(t, human.Implements("Droid"))

	var names []string
	for _, f := range human.GetOrderedFields() {
		names = append(names, f.Name)
	}
	if diff := cmp.Diff([]string{"id", "name", "height"}, names); diff != "" {
		t.Errorf("field order mismatch (-want +got):\n%s", diff)
	}

	height := human.Fields[2]
	require.True(t, height.IsDeprecated)
	require.Equal(t, "use heightInMeters", height.DeprecationReason)
	require.Len(t, height.GetOrderedArguments(), 1)
	require.Equal(t, "METER", height.Arguments[0].DefaultValue)

	query := s.GetQueryType()
	for _, f := range query.Fields {
		require.NotEqual(t, "__schema", f.Name, "introspection fields must not leak into the model")
	}
	humans := query.Fields[1]
	require.True(t, humans.Type.IsNonNull())
	require.True(t, humans.Type.IsList())
	require.Equal(t, "Human", humans.Type.GetNamedType())
}

func TestRenderRoundTrip(t *testing.T) {
	s, err := BuildFromSDL(characterSDL)
	require.NoError(t, err)

	rendered := Render(s)
	again, err := BuildFromSDL(rendered)
	require.NoError(t, err)

	if diff := cmp.Diff(rendered, Render(again)); diff != "" {
		t.Errorf("render is not stable (-first +second):\n%s", diff)
	}
}

func TestRenderSchemaDefinition(t *testing.T) {
	s := NewSchema("")
	s.SetQueryType("RootQuery").SetMutationType("RootMutation")
	s.AddType(NewType("RootQuery", TypeKindObject, "").
		AddField(NewField("ping", "", NamedType("String"))))
	s.AddType(NewType("RootMutation", TypeKindObject, "").
		AddField(NewField("touch", "", NonNullType(NamedType("Boolean")))))

	want := `schema {
  query: RootQuery
  mutation: RootMutation
}

type RootMutation {
  touch: Boolean!
}

type RootQuery {
  ping: String
}
`
	if diff := cmp.Diff(want, Render(s)); diff != "" {
		t.Errorf("rendered SDL mismatch (-want +got):\n%s", diff)
	}

	loaded, err := BuildFromSDL(Render(s))
	require.NoError(t, err)
	require.Equal(t, "RootQuery", loaded.QueryType)
	require.Equal(t, "RootMutation", loaded.MutationType)
}

func TestRenderConventionalRootsOmitSchemaBlock(t *testing.T) {
	s := NewSchema("")
	s.SetQueryType("Query")
	s.AddType(NewType("Query", TypeKindObject, "").
		AddField(NewField("hello", "", NamedType("String"))))

	require.Equal(t, "type Query {\n  hello: String\n}\n", Render(s))
}
