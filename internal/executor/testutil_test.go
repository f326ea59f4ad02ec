package executor

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp/cmpopts"
	language "github.com/hanpama/graphdef/internal/language"
)

// ignoreErrorDetails compares errors by message and path only.
var ignoreErrorDetails = cmpopts.IgnoreFields(GraphQLError{}, "Locations", "Err")

var errBoom = errors.New("boom")

// mustParseQuery parses a GraphQL query and fails the test on error.
func mustParseQuery(t *testing.T, q string) *language.QueryDocument {
	t.Helper()
	d, err := language.ParseQuery(q)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return d
}
