// Package strcase converts declaration attribute names between the snake case
// used in declarations, the camel case used in GraphQL names and the exported
// Go identifiers the default resolver looks up.
package strcase

import "strings"

func toUpper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - 'a' + 'A'
	}
	return b
}

// CamelCase converts a name of the form "/[_A-Za-z][_0-9A-Za-z]*/" into an
// exported Go identifier. For example, it returns "MainCharacter" for
// "main_character".
func CamelCase(s string) string {
	n := len(s)
	if n == 0 {
		return s
	}

	var buf strings.Builder
	buf.Grow(n)

	upper := true
	for i := 0; i < n; i++ {
		c := s[i]
		if c == '_' {
			upper = true
			continue
		}
		if upper {
			c = toUpper(c)
			upper = false
		}
		buf.WriteByte(c)
	}
	return buf.String()
}

// LowerCamelCase converts a snake case attribute name into a GraphQL field
// name: "main_character" becomes "mainCharacter". Leading underscores are kept
// and a name without underscores is returned unchanged.
func LowerCamelCase(s string) string {
	if strings.IndexByte(strings.TrimLeft(s, "_"), '_') < 0 {
		return s
	}

	var buf strings.Builder
	buf.Grow(len(s))

	i := 0
	for i < len(s) && s[i] == '_' {
		buf.WriteByte('_')
		i++
	}

	upper := false
	for ; i < len(s); i++ {
		c := s[i]
		if c == '_' {
			upper = true
			continue
		}
		if upper {
			c = toUpper(c)
			upper = false
		}
		buf.WriteByte(c)
	}
	return buf.String()
}
