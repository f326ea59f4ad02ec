package starwars

import (
	"context"
	"testing"

	"github.com/hanpama/graphdef/types"
	"github.com/stretchr/testify/require"
)

func newTestSchema(t *testing.T, opts ...types.SchemaOption) *types.Schema {
	t.Helper()
	s, err := NewSchema(NewStore(), opts...)
	require.NoError(t, err)
	return s
}

func TestHeroNameQuery(t *testing.T) {
	res := newTestSchema(t).Execute(context.Background(), `
		query HeroNameQuery {
			hero {
				name
			}
		}
	`)
	require.Empty(t, res.Errors)
	require.Equal(t, map[string]any{
		"hero": map[string]any{"name": "R2-D2"},
	}, res.Data)
}

func TestHeroNameAndFriendsQuery(t *testing.T) {
	res := newTestSchema(t).Execute(context.Background(), `
		query HeroNameAndFriendsQuery {
			hero {
				id
				name
				friends {
					name
				}
			}
		}
	`)
	require.Empty(t, res.Errors)
	require.Equal(t, map[string]any{
		"hero": map[string]any{
			"id":   "2001",
			"name": "R2-D2",
			"friends": []any{
				map[string]any{"name": "Luke Skywalker"},
				map[string]any{"name": "Han Solo"},
				map[string]any{"name": "Leia Organa"},
			},
		},
	}, res.Data)
}

func TestNestedQuery(t *testing.T) {
	res := newTestSchema(t).Execute(context.Background(), `
		query NestedQuery {
			hero {
				name
				friends {
					name
					appearsIn
					friends {
						name
					}
				}
			}
		}
	`)
	require.Empty(t, res.Errors)
	hero := res.Data["hero"].(map[string]any)
	friends := hero["friends"].([]any)
	require.Len(t, friends, 3)
	luke := friends[0].(map[string]any)
	require.Equal(t, "Luke Skywalker", luke["name"])
	require.Equal(t, []any{"NEWHOPE", "EMPIRE", "JEDI"}, luke["appearsIn"])
	require.Equal(t, []any{
		map[string]any{"name": "Han Solo"},
		map[string]any{"name": "Leia Organa"},
		map[string]any{"name": "C-3PO"},
		map[string]any{"name": "R2-D2"},
	}, luke["friends"])
}

func TestHeroOfEpisodeIsHuman(t *testing.T) {
	res := newTestSchema(t).Execute(context.Background(), `
		query HeroForEpisode($ep: String) {
			hero(episode: $ep) {
				__typename
				name
				... on Human { homePlanet }
				... on Droid { primaryFunction }
			}
		}
	`, types.WithVariables(map[string]any{"ep": "EMPIRE"}))
	require.Empty(t, res.Errors)
	require.Equal(t, map[string]any{
		"hero": map[string]any{
			"__typename": "Human",
			"name":       "Luke Skywalker",
			"homePlanet": "Tatooine",
		},
	}, res.Data)
}

func TestFetchByID(t *testing.T) {
	res := newTestSchema(t).Execute(context.Background(), `
		{
			luke: human(id: "1000") { name }
			threepio: droid(id: "2000") { primaryFunction }
			leia: character(id: "1003") { __typename name }
			nobody: human(id: "404") { name }
		}
	`)
	require.Empty(t, res.Errors)
	require.Equal(t, map[string]any{
		"luke":     map[string]any{"name": "Luke Skywalker"},
		"threepio": map[string]any{"primaryFunction": "Protocol"},
		"leia":     map[string]any{"__typename": "Human", "name": "Leia Organa"},
		"nobody":   nil,
	}, res.Data)
}

func TestMissingRequiredArgument(t *testing.T) {
	res := newTestSchema(t).Execute(context.Background(), `{ human { name } }`)
	require.Nil(t, res.Data)
	require.Len(t, res.Errors, 1)
}

func TestIntroduceDroid(t *testing.T) {
	s := newTestSchema(t)
	res := s.Execute(context.Background(), `
		mutation {
			introduceDroid(name: "BB-8") { id name primaryFunction }
		}
	`)
	require.Empty(t, res.Errors)
	require.Equal(t, map[string]any{
		"introduceDroid": map[string]any{"id": "3001", "name": "BB-8", "primaryFunction": "Astromech"},
	}, res.Data)

	res = s.Execute(context.Background(), `{ droid(id: "3001") { name } }`)
	require.Empty(t, res.Errors)
	require.Equal(t, map[string]any{"droid": map[string]any{"name": "BB-8"}}, res.Data)
}

func TestSDL(t *testing.T) {
	sdl := newTestSchema(t).SDL()
	require.Contains(t, sdl, "interface Character {\n")
	require.Contains(t, sdl, "type Human implements Character {\n")
	require.Contains(t, sdl, "  id: ID!\n")
	require.Contains(t, sdl, "  friends: [Character]\n")
	require.Contains(t, sdl, "  introduceDroid(name: String!, primaryFunction: String = \"Astromech\"): Droid\n")
}

func TestIntrospectionDisabled(t *testing.T) {
	res := newTestSchema(t, types.WithIntrospection(false)).Execute(context.Background(), `{ __schema { queryType { name } } }`)
	require.Nil(t, res.Data)
	require.Len(t, res.Errors, 1)
	require.Equal(t, "GraphQL introspection is not allowed", res.Errors[0].Message)
}
