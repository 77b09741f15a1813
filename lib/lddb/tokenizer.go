package lddb

import (
	"strings"
	"unicode"
)

// --------------------------------------------------------------------------
// Entry Tokenization (generation V1)
// --------------------------------------------------------------------------

// Tokenize recognizes one typed assignment per logical line within the
// selected span and returns the ordered entry sequence. It does not mutate
// any store; the caller bulk-inserts the result.
//
// Failures carry the offending line number and wrap ErrSyntax,
// ErrUnknownType or ErrTypeMismatch. The first failure aborts tokenization;
// no partial sequence is returned.
func (s *Section) Tokenize() ([]Entry, error) {
	entries := make([]Entry, 0, len(s.lines))

	for i, rawLine := range s.lines {
		lineNo := s.firstLine + i

		line := strings.TrimSpace(stripComment(rawLine))
		if line == "" {
			continue
		}

		// Tolerated statement terminators
		if strings.HasSuffix(line, ";") || strings.HasSuffix(line, ",") {
			line = strings.TrimSpace(line[:len(line)-1])
			if line == "" {
				continue
			}
		}

		entry, err := s.tokenizeStatement(lineNo, line)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// tokenizeStatement parses a single 'type key = value' statement.
func (s *Section) tokenizeStatement(lineNo int, line string) (Entry, error) {
	sp := strings.IndexFunc(line, unicode.IsSpace)
	if sp < 0 {
		return Entry{}, newParseError(s.name, lineNo, ErrSyntax,
			"expected 'type key = value', got %q", line)
	}

	tag := line[:sp]
	vt, ok := ParseValueType(tag)
	if !ok {
		return Entry{}, newParseError(s.name, lineNo, ErrUnknownType,
			"unknown type tag %q (legal: string, integer, float, boolean, list)", tag)
	}

	rest := strings.TrimSpace(line[sp+1:])
	eq := indexOutsideQuotes(rest, '=')
	if eq < 0 {
		return Entry{}, newParseError(s.name, lineNo, ErrSyntax,
			"missing '=' in assignment")
	}
	if indexOutsideQuotes(rest[eq+1:], '=') >= 0 {
		return Entry{}, newParseError(s.name, lineNo, ErrSyntax,
			"duplicate assignment operator")
	}

	key := strings.TrimSpace(rest[:eq])
	if !isIdentifier(key) {
		return Entry{}, newParseError(s.name, lineNo, ErrSyntax,
			"invalid key %q", key)
	}

	rawValue := strings.TrimSpace(rest[eq+1:])
	if rawValue == "" {
		return Entry{}, newParseError(s.name, lineNo, ErrSyntax,
			"missing value after '='")
	}

	value, err := coerce(s.name, lineNo, vt, rawValue)
	if err != nil {
		return Entry{}, err
	}

	return Entry{Type: vt, Key: key, Value: value}, nil
}

// indexOutsideQuotes returns the index of the first occurrence of c outside
// of double quotes, or -1.
func indexOutsideQuotes(s string, c byte) int {
	inQuote := false
	escaped := false
	for i := 0; i < len(s); i++ {
		if escaped {
			escaped = false
			continue
		}
		switch s[i] {
		case '\\':
			escaped = inQuote
		case '"':
			inQuote = !inQuote
		case c:
			if !inQuote {
				return i
			}
		}
	}
	return -1
}

// --------------------------------------------------------------------------
// Convenience
// --------------------------------------------------------------------------

// Parse selects the named section (V2) and tokenizes its entries (V1) in
// one call.
func Parse(data []byte, section string) ([]Entry, error) {
	s, err := SelectSection(data, section)
	if err != nil {
		return nil, err
	}
	return s.Tokenize()
}

// ParseLegacy tokenizes a whole headerless V1-generation file.
func ParseLegacy(data []byte) ([]Entry, error) {
	return SelectLegacy(data).Tokenize()
}
