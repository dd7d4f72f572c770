package ltx

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedLine is wrapped by every ParseError.
	ErrMalformedLine = errors.New("unparseable line")

	// ErrIncludeCycle is returned when a file includes itself, directly or
	// through other files.
	ErrIncludeCycle = errors.New("include cycle")
)

// ParseError locates a line that matches none of the LTX productions.
type ParseError struct {
	File string
	Line int
	Text string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%v:%d: %v: %q", e.File, e.Line, ErrMalformedLine, e.Text)
}

func (e *ParseError) Unwrap() error {
	return ErrMalformedLine
}
