package lddb

import (
	"fmt"
	"strconv"
	"strings"
)

// --------------------------------------------------------------------------
// Value Types
// --------------------------------------------------------------------------

// ValueType identifies one of the constrained LDDB value types.
type ValueType string

const (
	TypeString  ValueType = "string"
	TypeInteger ValueType = "integer"
	TypeFloat   ValueType = "float"
	TypeBoolean ValueType = "boolean"
	TypeList    ValueType = "list"
)

// ValueTypes lists every legal type tag in declaration order.
func ValueTypes() []ValueType {
	return []ValueType{TypeString, TypeInteger, TypeFloat, TypeBoolean, TypeList}
}

// ParseValueType normalizes a type tag from the source file. Short aliases
// (str, int, bool) are accepted alongside the canonical names. The boolean
// return value indicates whether the tag is part of the constrained set.
func ParseValueType(tag string) (ValueType, bool) {
	switch strings.ToLower(tag) {
	case "string", "str":
		return TypeString, true
	case "integer", "int":
		return TypeInteger, true
	case "float":
		return TypeFloat, true
	case "boolean", "bool":
		return TypeBoolean, true
	case "list":
		return TypeList, true
	default:
		return "", false
	}
}

// --------------------------------------------------------------------------
// Value Type (typed literal)
// --------------------------------------------------------------------------

// Value holds one coerced LDDB value. Exactly one of the payload fields is
// meaningful, selected by Type.
type Value struct {
	Type  ValueType
	Str   string
	Int   int64
	Float float64
	Bool  bool
	List  []string
}

// String renders the value in its literal source form.
func (v Value) String() string {
	switch v.Type {
	case TypeString:
		return strconv.Quote(v.Str)
	case TypeInteger:
		return strconv.FormatInt(v.Int, 10)
	case TypeFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case TypeBoolean:
		return strconv.FormatBool(v.Bool)
	case TypeList:
		quoted := make([]string, len(v.List))
		for i, s := range v.List {
			quoted[i] = strconv.Quote(s)
		}
		return "[" + strings.Join(quoted, ", ") + "]"
	default:
		return fmt.Sprintf("<invalid %q>", string(v.Type))
	}
}

// Raw returns the payload as a plain string without quoting, suitable for
// display to users. Lists are rendered comma-separated.
func (v Value) Raw() string {
	switch v.Type {
	case TypeString:
		return v.Str
	case TypeList:
		return strings.Join(v.List, ", ")
	default:
		return v.String()
	}
}

// Equal reports whether two values have the same type and payload.
func (v Value) Equal(o Value) bool {
	if v.Type != o.Type {
		return false
	}
	switch v.Type {
	case TypeString:
		return v.Str == o.Str
	case TypeInteger:
		return v.Int == o.Int
	case TypeFloat:
		return v.Float == o.Float
	case TypeBoolean:
		return v.Bool == o.Bool
	case TypeList:
		if len(v.List) != len(o.List) {
			return false
		}
		for i := range v.List {
			if v.List[i] != o.List[i] {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Size estimates the in-memory payload size in bytes. Used for store
// statistics sampling.
func (v Value) Size() int {
	switch v.Type {
	case TypeString:
		return len(v.Str)
	case TypeList:
		n := 0
		for _, s := range v.List {
			n += len(s)
		}
		return n
	default:
		return 8
	}
}

// --------------------------------------------------------------------------
// Entry Type (one parsed triple)
// --------------------------------------------------------------------------

// Entry is one (type, key, value) triple produced by the tokenizer.
type Entry struct {
	Type  ValueType
	Key   string
	Value Value
}

// String renders the entry in its source form.
func (e Entry) String() string {
	return fmt.Sprintf("%s %s = %s", e.Type, e.Key, e.Value)
}

// --------------------------------------------------------------------------
// Coercion
// --------------------------------------------------------------------------

// ParseValue converts a standalone value literal into a typed Value, outside
// of any file context. Used by front ends accepting values from the command
// line.
func ParseValue(vt ValueType, raw string) (Value, error) {
	return coerce("", 0, vt, raw)
}

// coerce converts a raw value literal into a typed Value. The returned error
// wraps ErrTypeMismatch (value does not fit the declared type) or ErrSyntax
// (structurally broken literal, e.g. an unterminated string).
func coerce(section string, line int, vt ValueType, raw string) (Value, error) {
	switch vt {
	case TypeString:
		s, err := parseStringLiteral(section, line, raw)
		if err != nil {
			return Value{}, err
		}
		return Value{Type: TypeString, Str: s}, nil

	case TypeInteger:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return Value{}, newParseError(section, line, ErrTypeMismatch,
				"expected integer, got %q", raw)
		}
		return Value{Type: TypeInteger, Int: n}, nil

	case TypeFloat:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return Value{}, newParseError(section, line, ErrTypeMismatch,
				"expected float, got %q", raw)
		}
		return Value{Type: TypeFloat, Float: f}, nil

	case TypeBoolean:
		switch raw {
		case "true":
			return Value{Type: TypeBoolean, Bool: true}, nil
		case "false":
			return Value{Type: TypeBoolean, Bool: false}, nil
		default:
			return Value{}, newParseError(section, line, ErrTypeMismatch,
				"expected boolean (true or false), got %q", raw)
		}

	case TypeList:
		items, err := parseListLiteral(section, line, raw)
		if err != nil {
			return Value{}, err
		}
		return Value{Type: TypeList, List: items}, nil

	default:
		return Value{}, newParseError(section, line, ErrUnknownType,
			"unknown type tag %q", string(vt))
	}
}

// parseStringLiteral parses a double-quoted string with backslash escapes.
func parseStringLiteral(section string, line int, raw string) (string, error) {
	if len(raw) == 0 || raw[0] != '"' {
		return "", newParseError(section, line, ErrTypeMismatch,
			"expected quoted string, got %q", raw)
	}

	var sb strings.Builder
	escaped := false
	for i := 1; i < len(raw); i++ {
		c := raw[i]
		if escaped {
			switch c {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			default:
				sb.WriteByte(c)
			}
			escaped = false
			continue
		}
		switch c {
		case '\\':
			escaped = true
		case '"':
			if i != len(raw)-1 {
				return "", newParseError(section, line, ErrSyntax,
					"unexpected content after closing quote: %q", raw[i+1:])
			}
			return sb.String(), nil
		default:
			sb.WriteByte(c)
		}
	}
	return "", newParseError(section, line, ErrSyntax, "unterminated string")
}

// parseListLiteral parses a bracketed list of quoted strings: ["a", "b"].
func parseListLiteral(section string, line int, raw string) ([]string, error) {
	if len(raw) == 0 || raw[0] != '[' {
		return nil, newParseError(section, line, ErrTypeMismatch,
			"expected list, got %q", raw)
	}
	if raw[len(raw)-1] != ']' {
		return nil, newParseError(section, line, ErrSyntax, "unterminated list")
	}

	body := strings.TrimSpace(raw[1 : len(raw)-1])
	if body == "" {
		return []string{}, nil
	}

	var items []string
	for _, part := range splitOutsideQuotes(body, ',') {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, newParseError(section, line, ErrSyntax, "empty list element")
		}
		s, err := parseStringLiteral(section, line, part)
		if err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, nil
}

// splitOutsideQuotes splits s on sep, ignoring separators inside double
// quotes. Backslash escapes inside quotes are honored.
func splitOutsideQuotes(s string, sep byte) []string {
	var (
		parts   []string
		start   int
		inQuote bool
		escaped bool
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			escaped = inQuote
		case '"':
			inQuote = !inQuote
		case sep:
			if !inQuote {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])
	return parts
}
