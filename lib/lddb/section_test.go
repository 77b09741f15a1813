package lddb

import (
	"errors"
	"testing"
)

const sampleV2 = `# global comment
console {
    string command_mode = "cmd"
    integer max_items = 100
}

settings {
    boolean verbose = true
}
`

func TestSelectSection(t *testing.T) {
	s, err := SelectSection([]byte(sampleV2), "settings")
	if err != nil {
		t.Fatalf("SelectSection failed: %v", err)
	}
	if s.Name() != "settings" {
		t.Errorf("Expected section name settings, got %q", s.Name())
	}

	entries, err := s.Tokenize()
	if err != nil {
		t.Fatalf("Tokenize failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Key != "verbose" {
		t.Errorf("Selected the wrong span: %v", entries)
	}
}

func TestSelectSectionNotFound(t *testing.T) {
	_, err := SelectSection([]byte(sampleV2), "nonexistent")
	if !errors.Is(err, ErrSectionNotFound) {
		t.Errorf("Expected ErrSectionNotFound, got %v", err)
	}

	// an unknown name is an error, never an empty result
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("Expected *ParseError, got %T", err)
	}
	if pe.Section != "nonexistent" {
		t.Errorf("Expected the requested name in the error, got %q", pe.Section)
	}
}

func TestSelectSectionEmptyName(t *testing.T) {
	if _, err := SelectSection([]byte(sampleV2), ""); !errors.Is(err, ErrSectionNotFound) {
		t.Errorf("Expected ErrSectionNotFound for empty name, got %v", err)
	}
}

func TestSelectSectionUnterminated(t *testing.T) {
	src := "console {\n    string k = \"v\"\n"
	_, err := SelectSection([]byte(src), "console")
	if !errors.Is(err, ErrMalformedHeader) {
		t.Errorf("Expected ErrMalformedHeader for unterminated section, got %v", err)
	}
}

func TestSelectSectionHeaderWithoutName(t *testing.T) {
	src := "{\n    string k = \"v\"\n}\n"
	_, err := SelectSection([]byte(src), "console")
	if !errors.Is(err, ErrMalformedHeader) {
		t.Errorf("Expected ErrMalformedHeader for nameless header, got %v", err)
	}
}

func TestSelectSectionStrayClosingBrace(t *testing.T) {
	src := "}\nconsole {\n}\n"
	_, err := SelectSection([]byte(src), "console")
	if !errors.Is(err, ErrMalformedHeader) {
		t.Errorf("Expected ErrMalformedHeader for stray '}', got %v", err)
	}
}

func TestSelectSectionNestedHeader(t *testing.T) {
	src := "outer {\ninner {\n}\n}\n"
	_, err := SelectSection([]byte(src), "outer")
	if !errors.Is(err, ErrMalformedHeader) {
		t.Errorf("Expected ErrMalformedHeader for nested header, got %v", err)
	}
}

func TestSelectSectionTerminatorWithSemicolon(t *testing.T) {
	src := "console {\n    string k = \"v\"\n};\n"
	s, err := SelectSection([]byte(src), "console")
	if err != nil {
		t.Fatalf("SelectSection failed on '};' terminator: %v", err)
	}
	entries, err := s.Tokenize()
	if err != nil || len(entries) != 1 {
		t.Errorf("Expected one entry, got %v, %v", entries, err)
	}
}

func TestSelectLegacy(t *testing.T) {
	src := "string command_mode = \"cmd\"\ninteger max_items = 100\n"
	s := SelectLegacy([]byte(src))
	if s.Name() != "" {
		t.Errorf("Legacy span must be anonymous, got %q", s.Name())
	}

	entries, err := s.Tokenize()
	if err != nil {
		t.Fatalf("Tokenize failed: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("Expected 2 entries from the V1 file, got %d", len(entries))
	}
}

func TestIsIdentifier(t *testing.T) {
	for _, valid := range []string{"console", "command_mode", "_x", "sec-1", "a.b"} {
		if !isIdentifier(valid) {
			t.Errorf("Expected %q to be a valid identifier", valid)
		}
	}
	for _, invalid := range []string{"", "1abc", "-x", "a b", "k=v", `"q"`} {
		if isIdentifier(invalid) {
			t.Errorf("Expected %q to be rejected", invalid)
		}
	}
}
