// Package types declares GraphQL object types, interfaces and fields as Go
// values and compiles them into an executable schema.
//
// A type is declared with a config struct listing its fields as ordered
// attributes. Attribute names become field names (camel-cased by default), and
// fields inherited from bases keep their position when a more derived
// declaration overrides them:
//
//	var Character = types.MustNewInterface(types.InterfaceConfig{
//		Name: "Character",
//		Fields: types.Attrs{
//			{Name: "name", Value: types.String},
//		},
//	})
//
//	var Human = types.MustNewObjectType(types.ObjectTypeConfig{
//		Name:  "Human",
//		Meta:  types.Meta{Interfaces: []*types.Interface{Character}},
//		Model: Person{},
//	})
//
// Declarations are collected once by their constructor into an immutable
// TypeMeta. A Schema wraps a query root (and optionally a mutation root) and
// executes queries against the declared resolvers.
package types
