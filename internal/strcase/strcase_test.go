package strcase

import "testing"

func TestCamelCase(t *testing.T) {
	cases := map[string]string{
		"":               "",
		"a":              "A",
		"foo":            "Foo",
		"FOO":            "FOO",
		"CamelCase":      "CamelCase",
		"foo_bar":        "FooBar",
		"_foo_bar_":      "FooBar",
		"foo___bar":      "FooBar",
		"foo1_bar2":      "Foo1Bar2",
		"main_character": "MainCharacter",
	}
	for in, want := range cases {
		if got := CamelCase(in); got != want {
			t.Errorf("CamelCase(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLowerCamelCase(t *testing.T) {
	cases := map[string]string{
		"":               "",
		"name":           "name",
		"myField":        "myField",
		"my_field":       "myField",
		"main_character": "mainCharacter",
		"foo___bar":      "fooBar",
		"foo_bar_":       "fooBar",
		"_private":       "_private",
		"__typename":     "__typename",
		"_foo_bar":       "_fooBar",
		"a_b_c":          "aBC",
	}
	for in, want := range cases {
		if got := LowerCamelCase(in); got != want {
			t.Errorf("LowerCamelCase(%q) = %q, want %q", in, got, want)
		}
	}
}
