// Package lddb implements the loader for the LDDB textual database format.
// It turns raw file bytes into typed entries scoped to a named database
// section, in two independently versioned stages that mirror the two
// generations of the on-disk grammar.
//
// The package focuses on:
//   - Chunked, buffer-bounded file reading with precise I/O error reporting
//   - Section selection (generation V2): locating the byte span of a named
//     section inside a file that may contain several sections
//   - Entry tokenization (generation V1): recognizing one typed assignment
//     per logical line inside a selected span
//   - Coercion of raw value literals into the constrained LDDB type set
//
// File Format:
//
// An LDDB file of the current (V2) generation contains one or more named
// sections. A section is an identifier followed by an opening brace, a body
// of entries, and a closing brace on its own line:
//
//	# comment to end of line
//	console {
//	    string command_mode = "cmd"
//	    integer max_items = 100
//	    float ratio = 0.5
//	    boolean verbose = true
//	    list tags = ["a", "b"]
//	}
//
// Each entry is a single typed assignment: a type tag, a key identifier, an
// equals sign and a value literal. Statements are newline-terminated; a
// trailing ';' or ',' is tolerated. Whitespace is insignificant, '#' starts
// a comment outside of quoted strings.
//
// The legal type tags form a constrained set: string, integer, float,
// boolean and list (with the short aliases str, int and bool). This
// constraint is part of the format contract, not an implementation limit.
//
// Files of the older V1 generation carry no section headers at all; the
// whole file is a single anonymous entry list. Such files are read via
// SelectLegacy, which yields the same Section value that SelectSection
// produces for V2 files, so both generations stay readable.
//
// Versioned Stages:
//
// The two loader generations are not interchangeable: tokenization (V1)
// requires a prior successful section selection (V2). This protocol is
// enforced at compile time rather than with a runtime state flag - the
// tokenizer is only reachable as a method on the Section type, and Section
// values are only produced by SelectSection and SelectLegacy.
//
// Parsing is purely functional: no stage mutates a store. Tokenize returns
// an ordered entry sequence that the caller bulk-inserts. All failures carry
// a *ParseError with the section name and one-based line number, and wrap
// one of the package sentinel errors (ErrSectionNotFound, ErrMalformedHeader,
// ErrSyntax, ErrUnknownType, ErrTypeMismatch) so callers can branch with
// errors.Is.
package lddb
