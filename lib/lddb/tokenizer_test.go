package lddb

import (
	"errors"
	"testing"
)

func TestTokenizeFullGrammar(t *testing.T) {
	src := `console {
    # command settings
    string command_mode = "cmd"
    str shorthand = "ok";
    integer max_items = 100
    int negative = -5,
    float ratio = 0.75
    boolean enabled = true # inline comment
    bool disabled = false
    list flags = ["a", "b, still b", "c"]
}
`
	entries, err := Parse([]byte(src), "console")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(entries) != 8 {
		t.Fatalf("Expected 8 entries, got %d: %v", len(entries), entries)
	}

	expected := []Entry{
		{Type: TypeString, Key: "command_mode", Value: Value{Type: TypeString, Str: "cmd"}},
		{Type: TypeString, Key: "shorthand", Value: Value{Type: TypeString, Str: "ok"}},
		{Type: TypeInteger, Key: "max_items", Value: Value{Type: TypeInteger, Int: 100}},
		{Type: TypeInteger, Key: "negative", Value: Value{Type: TypeInteger, Int: -5}},
		{Type: TypeFloat, Key: "ratio", Value: Value{Type: TypeFloat, Float: 0.75}},
		{Type: TypeBoolean, Key: "enabled", Value: Value{Type: TypeBoolean, Bool: true}},
		{Type: TypeBoolean, Key: "disabled", Value: Value{Type: TypeBoolean, Bool: false}},
		{Type: TypeList, Key: "flags", Value: Value{Type: TypeList, List: []string{"a", "b, still b", "c"}}},
	}
	for i, want := range expected {
		got := entries[i]
		if got.Type != want.Type || got.Key != want.Key || !got.Value.Equal(want.Value) {
			t.Errorf("Entry %d: expected %v, got %v", i, want, got)
		}
	}
}

func TestTokenizeQuotedSpecialChars(t *testing.T) {
	src := "string tricky = \"a # b = c\"\n"
	entries, err := ParseLegacy([]byte(src))
	if err != nil {
		t.Fatalf("ParseLegacy failed: %v", err)
	}
	if entries[0].Value.Str != "a # b = c" {
		t.Errorf("Quoted '#' and '=' must survive, got %q", entries[0].Value.Str)
	}
}

func TestTokenizeErrors(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		sentinel error
	}{
		{"unknown type tag", "decimal pi = 3.14", ErrUnknownType},
		{"missing assignment", "string key \"value\"", ErrSyntax},
		{"duplicate assignment", "string key = \"a\" = \"b\"", ErrSyntax},
		{"invalid key", "string 1key = \"v\"", ErrSyntax},
		{"missing value", "string key =", ErrSyntax},
		{"missing key", "string", ErrSyntax},
		{"unterminated string", "string key = \"open", ErrSyntax},
		{"unquoted string", "string command_mode = unterminated", ErrTypeMismatch},
		{"integer mismatch", "integer n = \"ten\"", ErrTypeMismatch},
		{"float mismatch", "float f = x.y", ErrTypeMismatch},
		{"boolean mismatch", "boolean b = yes", ErrTypeMismatch},
		{"unterminated list", "list l = [\"a\"", ErrSyntax},
		{"empty list element", "list l = [\"a\", ]", ErrSyntax},
		{"unquoted list element", "list l = [a]", ErrTypeMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := "console {\n" + tt.line + "\n}\n"
			_, err := Parse([]byte(src), "console")
			if err == nil {
				t.Fatalf("Expected tokenization of %q to fail", tt.line)
			}
			if !errors.Is(err, tt.sentinel) {
				t.Errorf("Expected %v, got %v", tt.sentinel, err)
			}

			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("Expected *ParseError, got %T", err)
			}
			if pe.Line != 2 {
				t.Errorf("Expected the failure to name line 2, got %d (%v)", pe.Line, err)
			}
			if pe.Section != "console" {
				t.Errorf("Expected the failure to name the section, got %q", pe.Section)
			}
		})
	}
}

func TestTokenizeAbortsOnFirstError(t *testing.T) {
	src := "string ok = \"v\"\nbroken line without assignment\nstring after = \"w\"\n"
	entries, err := ParseLegacy([]byte(src))
	if err == nil {
		t.Fatal("Expected tokenization to fail")
	}
	if entries != nil {
		t.Errorf("Expected no partial result, got %v", entries)
	}

	var pe *ParseError
	if errors.As(err, &pe) && pe.Line != 2 {
		t.Errorf("Expected line 2, got %d", pe.Line)
	}
}

func TestTokenizeLineNumbersInsideSection(t *testing.T) {
	src := "# preamble\n\nconsole {\n    string ok = \"v\"\n    integer broken = nope\n}\n"
	_, err := Parse([]byte(src), "console")

	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("Expected *ParseError, got %v", err)
	}
	if pe.Line != 5 {
		t.Errorf("Expected source line 5, got %d", pe.Line)
	}
}
