package parse

import (
	"errors"
	"fmt"
)

var (
	ErrParse         = errors.New("parse error")
	ErrUnexpectedEOF = fmt.Errorf("%w: unexpected end of input", ErrParse)
	ErrMissingColon  = fmt.Errorf("%w: missing ':'", ErrParse)
	ErrBoundary      = fmt.Errorf("%w: bad boundary", ErrParse)
)

// Error locates a parse failure by input line.
type Error struct {
	Line int
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("line %d: %s: %v", e.Line, e.Msg, e.Err)
	}
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrParse}
	}
	return []error{ErrParse, e.Err}
}
