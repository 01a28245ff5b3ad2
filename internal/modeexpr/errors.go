package modeexpr

import (
	"errors"
	"fmt"
)

// ErrMalformedModeExpression is returned (wrapped in *ParseError) for every
// syntax violation in a mode expression.
var ErrMalformedModeExpression = errors.New("malformed mode expression")

// ParseError identifies the clause that could not be parsed.
type ParseError struct {
	// Index is the zero-based position of the clause in the comma separated list.
	Index  int
	Clause string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%v: clause %d %q: %s", ErrMalformedModeExpression, e.Index, e.Clause, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return ErrMalformedModeExpression
}
