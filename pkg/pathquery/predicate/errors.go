package predicate

import (
	"errors"
	"fmt"
)

// ErrInvalidPredicate indicates predicate parsing failures.
var ErrInvalidPredicate = errors.New("predicate: invalid expression")

func predicateError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidPredicate, fmt.Sprintf(format, args...))
}
