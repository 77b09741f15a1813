package lddb

import (
	"errors"
	"fmt"
)

// --------------------------------------------------------------------------
// Sentinel Errors
// --------------------------------------------------------------------------

// Reader errors
var (
	ErrNoPath       = errors.New("no file path set")
	ErrFileNotFound = errors.New("file not found")
	ErrTruncated    = errors.New("truncated read")
)

// Parser errors
var (
	ErrSectionNotFound = errors.New("section not found")
	ErrMalformedHeader = errors.New("malformed section header")
	ErrSyntax          = errors.New("syntax error")
	ErrUnknownType     = errors.New("unknown type tag")
	ErrTypeMismatch    = errors.New("type mismatch")
)

// --------------------------------------------------------------------------
// Parse Error Type
// --------------------------------------------------------------------------

// ParseError describes a failure while selecting a section or tokenizing
// entries. It carries the section name (empty while no section is selected
// yet), the one-based line number in the source file and a human-readable
// reason. It wraps one of the package sentinel errors so callers can use
// errors.Is to branch on the failure class.
type ParseError struct {
	Section string // name of the section being parsed, "" if none
	Line    int    // one-based line number in the source file, 0 if unknown
	Reason  string // human-readable description
	Err     error  // wrapped sentinel error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	switch {
	case e.Section != "" && e.Line > 0:
		return fmt.Sprintf("line %d in section %q: %s", e.Line, e.Section, e.Reason)
	case e.Line > 0:
		return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
	case e.Section != "":
		return fmt.Sprintf("section %q: %s", e.Section, e.Reason)
	default:
		return e.Reason
	}
}

// Unwrap returns the wrapped sentinel error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// newParseError creates a ParseError wrapping the given sentinel.
func newParseError(section string, line int, sentinel error, format string, args ...interface{}) *ParseError {
	return &ParseError{
		Section: section,
		Line:    line,
		Reason:  fmt.Sprintf(format, args...),
		Err:     sentinel,
	}
}
