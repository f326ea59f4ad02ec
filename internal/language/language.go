package language

import (
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vektah/gqlparser/v2/parser"
)

type (
	// Error is a located GraphQL error produced by parsing or validation.
	Error     = gqlerror.Error
	ErrorList = gqlerror.List
	Location  = gqlerror.Location
)

func ParseQuery(source string) (*QueryDocument, error) {
	doc, err := parser.ParseQuery(&ast.Source{Input: source})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// LoadSchema parses and validates SDL on top of the specified prelude.
func LoadSchema(name, source string) (*Schema, error) {
	return gqlparser.LoadSchema(&ast.Source{Name: name, Input: source})
}

// LoadQuery parses source and validates it against s with the default rule set.
func LoadQuery(s *Schema, source string) (*QueryDocument, ErrorList) {
	return gqlparser.LoadQueryWithRules(s, source, nil)
}
