// Package wml implements a recursive-descent parser for the Wesnoth Markup
// Language, producing a read-only tree over an arena of nodes whose leaf
// strings reference the original input buffer by (offset, length) rather
// than copying it.
package wml

import "errors"

var (
	// ErrParseFailure reports that some grammar production could not match
	// the input at the position it was tried.
	ErrParseFailure = errors.New("wml: parse failure")

	// ErrTrailingInput reports that the top-level Doc production matched a
	// prefix of the buffer but left a nonzero residue.
	ErrTrailingInput = errors.New("wml: trailing input after document")

	// ErrDepthExceeded reports that tag nesting exceeded a configured depth
	// cap. Uncapped recursion (the default) never raises this.
	ErrDepthExceeded = errors.New("wml: tag nesting exceeds configured depth limit")
)
