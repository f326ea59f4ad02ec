// Package starwars declares the Star Wars schema used by the graphdef command
// and as an end-to-end fixture.
package starwars

import (
	"context"
	"fmt"

	"github.com/hanpama/graphdef/types"
)

// NewSchema declares the Star Wars types over store.
func NewSchema(store *Store, opts ...types.SchemaOption) (*types.Schema, error) {
	node := &types.AbstractType{
		Name: "Node",
		Fields: types.Attrs{
			{Name: "id", Value: types.Of(types.ID, types.Required(), types.WithDescription("The id of the character."))},
		},
	}

	var character *types.Interface
	character, err := types.NewInterface(types.InterfaceConfig{
		Name:  "Character",
		Doc:   "A character in the Star Wars Trilogy",
		Bases: []types.Base{node},
		Fields: types.Attrs{
			{Name: "name", Value: types.Of(types.String, types.WithDescription("The name of the character."))},
			{Name: "friends", Value: types.Of(
				types.List(types.Lazy(func() types.Type { return character })),
				types.WithDescription("The friends of the character, or an empty list if they have none."),
			)},
			{Name: "appears_in", Value: types.Of(types.List(types.String), types.WithDescription("Which movies they appear in."))},
		},
		Resolvers: map[string]types.ResolverFunc{
			"friends": func(ctx context.Context, source any, args types.Args, info types.ResolveInfo) (any, error) {
				switch c := source.(type) {
				case *Human:
					return store.Friends(c.Friends), nil
				case *Droid:
					return store.Friends(c.Friends), nil
				}
				return nil, fmt.Errorf("unexpected character %T", source)
			},
		},
	})
	if err != nil {
		return nil, err
	}

	human, err := types.NewObjectType(types.ObjectTypeConfig{
		Name:  "Human",
		Doc:   "A humanoid creature in the Star Wars universe.",
		Meta:  types.Meta{Interfaces: []*types.Interface{character}},
		Model: Human{},
		Fields: types.Attrs{
			{Name: "home_planet", Value: types.Of(types.String, types.WithDescription("The home planet of the human, or null if unknown."))},
		},
	})
	if err != nil {
		return nil, err
	}
	droid, err := types.NewObjectType(types.ObjectTypeConfig{
		Name:  "Droid",
		Doc:   "A mechanical creature in the Star Wars universe.",
		Meta:  types.Meta{Interfaces: []*types.Interface{character}},
		Model: Droid{},
		Fields: types.Attrs{
			{Name: "primary_function", Value: types.Of(types.String, types.WithDescription("The primary function of the droid."))},
		},
	})
	if err != nil {
		return nil, err
	}

	byID := types.WithArgs(types.Attrs{
		{Name: "id", Value: types.Of(types.ID, types.Required(), types.WithDescription("id of the character"))},
	})
	query, err := types.NewObjectType(types.ObjectTypeConfig{
		Name: "Query",
		Fields: types.Attrs{
			{Name: "hero", Value: types.NewField(character, types.WithArgs(types.Attrs{
				{Name: "episode", Value: types.Of(types.String, types.WithDescription(
					"If omitted, returns the hero of the whole saga. If provided, returns the hero of that particular episode.",
				))},
			}))},
			{Name: "human", Value: types.NewField(human, byID)},
			{Name: "droid", Value: types.NewField(droid, byID)},
			{Name: "character", Value: types.NewField(character, byID)},
		},
		Resolvers: map[string]types.ResolverFunc{
			"hero": func(ctx context.Context, source any, args types.Args, info types.ResolveInfo) (any, error) {
				episode, _ := args.Get("episode").(string)
				return store.Hero(episode), nil
			},
			"human": func(ctx context.Context, source any, args types.Args, info types.ResolveInfo) (any, error) {
				if h := store.Human(idArg(args)); h != nil {
					return h, nil
				}
				return nil, nil
			},
			"droid": func(ctx context.Context, source any, args types.Args, info types.ResolveInfo) (any, error) {
				if d := store.Droid(idArg(args)); d != nil {
					return d, nil
				}
				return nil, nil
			},
			"character": func(ctx context.Context, source any, args types.Args, info types.ResolveInfo) (any, error) {
				return store.Character(idArg(args)), nil
			},
		},
	})
	if err != nil {
		return nil, err
	}

	introduceDroid, err := types.NewMutation(types.MutationConfig{
		Name: "IntroduceDroid",
		Doc:  "Adds a droid to the saga.",
		Arguments: types.Attrs{
			{Name: "name", Value: types.Of(types.String, types.Required())},
			{Name: "primary_function", Value: types.Of(types.String, types.WithDefault("Astromech"))},
		},
		Output: droid,
		Mutate: func(ctx context.Context, source any, args types.Args, info types.ResolveInfo) (any, error) {
			name := args.Get("name").(string)
			primaryFunction, _ := args.Get("primary_function").(string)
			return store.AddDroid(name, primaryFunction), nil
		},
	})
	if err != nil {
		return nil, err
	}
	mutation, err := types.NewObjectType(types.ObjectTypeConfig{
		Name: "Mutation",
		Fields: types.Attrs{
			{Name: "introduce_droid", Value: introduceDroid},
		},
	})
	if err != nil {
		return nil, err
	}

	return types.NewSchema(query, append([]types.SchemaOption{
		types.WithMutation(mutation),
		types.WithTypes(human, droid),
	}, opts...)...)
}

func idArg(args types.Args) string {
	return fmt.Sprint(args.Get("id"))
}
