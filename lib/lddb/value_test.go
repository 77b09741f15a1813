package lddb

import (
	"errors"
	"testing"
)

func TestParseValueTypeAliases(t *testing.T) {
	tests := map[string]ValueType{
		"string":  TypeString,
		"str":     TypeString,
		"String":  TypeString,
		"integer": TypeInteger,
		"int":     TypeInteger,
		"float":   TypeFloat,
		"boolean": TypeBoolean,
		"bool":    TypeBoolean,
		"list":    TypeList,
	}
	for tag, want := range tests {
		got, ok := ParseValueType(tag)
		if !ok || got != want {
			t.Errorf("ParseValueType(%q): expected %v, got %v (ok=%v)", tag, want, got, ok)
		}
	}

	for _, bad := range []string{"", "decimal", "strings", "i64"} {
		if _, ok := ParseValueType(bad); ok {
			t.Errorf("Expected %q to be rejected", bad)
		}
	}
}

func TestStringLiteralEscapes(t *testing.T) {
	tests := map[string]string{
		`"plain"`:          "plain",
		`""`:               "",
		`"tab\there"`:      "tab\there",
		`"line\nbreak"`:    "line\nbreak",
		`"quote\"inside"`:  `quote"inside`,
		`"back\\slash"`:    `back\slash`,
		`"hash # inside"`:  "hash # inside",
		`"equals = plain"`: "equals = plain",
	}
	for raw, want := range tests {
		got, err := parseStringLiteral("t", 1, raw)
		if err != nil {
			t.Errorf("parseStringLiteral(%q) failed: %v", raw, err)
			continue
		}
		if got != want {
			t.Errorf("parseStringLiteral(%q): expected %q, got %q", raw, want, got)
		}
	}
}

func TestStringLiteralErrors(t *testing.T) {
	if _, err := parseStringLiteral("t", 1, `"open`); !errors.Is(err, ErrSyntax) {
		t.Errorf("Expected ErrSyntax for unterminated string, got %v", err)
	}
	if _, err := parseStringLiteral("t", 1, `"a" tail`); !errors.Is(err, ErrSyntax) {
		t.Errorf("Expected ErrSyntax for content after closing quote, got %v", err)
	}
	if _, err := parseStringLiteral("t", 1, `bare`); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("Expected ErrTypeMismatch for unquoted value, got %v", err)
	}
}

func TestListLiteral(t *testing.T) {
	items, err := parseListLiteral("t", 1, `["a", "b", "with, comma"]`)
	if err != nil {
		t.Fatalf("parseListLiteral failed: %v", err)
	}
	want := []string{"a", "b", "with, comma"}
	if len(items) != len(want) {
		t.Fatalf("Expected %d items, got %v", len(want), items)
	}
	for i := range want {
		if items[i] != want[i] {
			t.Errorf("Item %d: expected %q, got %q", i, want[i], items[i])
		}
	}

	empty, err := parseListLiteral("t", 1, `[]`)
	if err != nil || len(empty) != 0 {
		t.Errorf("Expected empty list, got %v, %v", empty, err)
	}
}

func TestValueString(t *testing.T) {
	tests := map[string]Value{
		`"cmd"`:      {Type: TypeString, Str: "cmd"},
		"100":        {Type: TypeInteger, Int: 100},
		"0.75":       {Type: TypeFloat, Float: 0.75},
		"true":       {Type: TypeBoolean, Bool: true},
		`["a", "b"]`: {Type: TypeList, List: []string{"a", "b"}},
	}
	for want, v := range tests {
		if got := v.String(); got != want {
			t.Errorf("Expected %q, got %q", want, got)
		}
	}
}

func TestValueEqual(t *testing.T) {
	a := Value{Type: TypeList, List: []string{"x", "y"}}
	b := Value{Type: TypeList, List: []string{"x", "y"}}
	c := Value{Type: TypeList, List: []string{"x", "z"}}

	if !a.Equal(b) {
		t.Error("Expected identical lists to compare equal")
	}
	if a.Equal(c) {
		t.Error("Expected differing lists to compare unequal")
	}
	if a.Equal(Value{Type: TypeString, Str: "x"}) {
		t.Error("Expected differing types to compare unequal")
	}
}

func TestValueSize(t *testing.T) {
	if got := (Value{Type: TypeString, Str: "abcd"}).Size(); got != 4 {
		t.Errorf("Expected string size 4, got %d", got)
	}
	if got := (Value{Type: TypeList, List: []string{"ab", "cd"}}).Size(); got != 4 {
		t.Errorf("Expected list size 4, got %d", got)
	}
	if got := (Value{Type: TypeInteger, Int: 7}).Size(); got != 8 {
		t.Errorf("Expected scalar size 8, got %d", got)
	}
}
