package pathquery

import (
	"errors"
	"fmt"
)

var (
	// ErrSyntax indicates a path expression syntax error during parsing.
	ErrSyntax = errors.New("pathquery: syntax error")

	// ErrDuplicateSegmentType indicates a registration attempt with a tag
	// that is already registered.
	ErrDuplicateSegmentType = errors.New("pathquery: duplicate segment type")

	// ErrUnknownSegmentType indicates a tag with no descriptor in the
	// target registry.
	ErrUnknownSegmentType = errors.New("pathquery: unknown segment type")

	// ErrMalformedRecord indicates a serialized record with missing or
	// mistyped fields.
	ErrMalformedRecord = errors.New("pathquery: malformed record")

	// ErrNoMatch indicates that an expression matched nothing.
	ErrNoMatch = errors.New("pathquery: no match")
)

// SyntaxError reports where parsing stopped and why. It matches ErrSyntax
// under errors.Is.
type SyntaxError struct {
	Offset    int    // byte offset into the original expression
	Remainder string // unconsumed input starting at Offset
	Reason    string
}

func (e *SyntaxError) Error() string {
	if e.Remainder == "" {
		return fmt.Sprintf("pathquery: syntax error at position %d: %s", e.Offset, e.Reason)
	}
	return fmt.Sprintf("pathquery: syntax error at position %d near %q: %s", e.Offset, e.Remainder, e.Reason)
}

func (e *SyntaxError) Is(target error) bool {
	return target == ErrSyntax
}

func malformedRecord(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedRecord, fmt.Sprintf(format, args...))
}
