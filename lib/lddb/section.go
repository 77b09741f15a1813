package lddb

import (
	"strings"
)

// --------------------------------------------------------------------------
// Section Type (output of generation V2 selection)
// --------------------------------------------------------------------------

// Section is the byte span of one selected database section. Values are
// only produced by SelectSection and SelectLegacy; the V1 tokenizer is a
// method on this type, so tokenizing without a prior successful selection
// is impossible to express.
type Section struct {
	name      string
	lines     []string
	firstLine int // one-based source line number of the first body line
}

// Name returns the section name ("" for a legacy V1 file span).
func (s *Section) Name() string {
	return s.name
}

// --------------------------------------------------------------------------
// Section Selection (generation V2)
// --------------------------------------------------------------------------

// SelectSection scans the byte sequence for the named section and returns
// its span. It fails with ErrSectionNotFound if the name does not appear
// and with ErrMalformedHeader if a section delimiter is present but
// structurally invalid (unterminated body, header without a name, stray
// closing brace).
func SelectSection(data []byte, name string) (*Section, error) {
	if name == "" {
		return nil, newParseError("", 0, ErrSectionNotFound, "empty section name")
	}

	lines := splitLines(data)
	i := 0
	for i < len(lines) {
		line := strings.TrimSpace(stripComment(lines[i]))
		if line == "" {
			i++
			continue
		}

		if strings.HasSuffix(line, "{") {
			header := strings.TrimSpace(strings.TrimSuffix(line, "{"))
			if !isIdentifier(header) {
				return nil, newParseError(header, i+1, ErrMalformedHeader,
					"section header needs a valid name before '{', got %q", header)
			}

			bodyStart := i + 1
			end := -1
			for j := bodyStart; j < len(lines); j++ {
				t := strings.TrimSpace(stripComment(lines[j]))
				if t == "}" || t == "};" {
					end = j
					break
				}
				if strings.HasSuffix(t, "{") {
					return nil, newParseError(header, j+1, ErrMalformedHeader,
						"section header inside unterminated section %q", header)
				}
			}
			if end < 0 {
				return nil, newParseError(header, i+1, ErrMalformedHeader,
					"section %q is not terminated with '}'", header)
			}

			if header == name {
				return &Section{
					name:      header,
					lines:     lines[bodyStart:end],
					firstLine: bodyStart + 1,
				}, nil
			}

			i = end + 1
			continue
		}

		if line == "}" || line == "};" {
			return nil, newParseError("", i+1, ErrMalformedHeader,
				"unexpected '}' outside of a section")
		}

		// Bare content outside any section (V1 remnants) is skipped here;
		// SelectLegacy is the entry point for headerless files.
		i++
	}

	return nil, newParseError(name, 0, ErrSectionNotFound,
		"section %q does not exist", name)
}

// SelectLegacy wraps a whole V1-generation file (no section headers) as a
// single anonymous section span.
func SelectLegacy(data []byte) *Section {
	return &Section{
		name:      "",
		lines:     splitLines(data),
		firstLine: 1,
	}
}

// --------------------------------------------------------------------------
// Line Helpers
// --------------------------------------------------------------------------

// splitLines splits raw bytes into lines, tolerating both LF and CRLF.
func splitLines(data []byte) []string {
	lines := strings.Split(string(data), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// stripComment cuts a line at the first '#' outside of double quotes.
func stripComment(line string) string {
	inQuote := false
	escaped := false
	for i := 0; i < len(line); i++ {
		if escaped {
			escaped = false
			continue
		}
		switch line[i] {
		case '\\':
			escaped = inQuote
		case '"':
			inQuote = !inQuote
		case '#':
			if !inQuote {
				return line[:i]
			}
		}
	}
	return line
}

// isIdentifier reports whether s is a legal section or key name: a letter
// or underscore followed by letters, digits, '_', '-' or '.'.
func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '_':
		case i > 0 && (c >= '0' && c <= '9' || c == '-' || c == '.'):
		default:
			return false
		}
	}
	return true
}
