package sqrtdec

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput flags malformed construction data or batch
	// submissions: empty sequences, non-finite values, nil factories,
	// duplicate query ids.
	ErrInvalidInput = errors.New("invalid input")

	// ErrOutOfBounds flags a query or update range with l > r or a
	// bound outside [0, n). The structure is left untouched.
	ErrOutOfBounds = errors.New("out of bounds")

	// ErrInvariant flags an internal contract violation. A correct
	// caller never sees it.
	ErrInvariant = errors.New("invariant violation")
)

func checkRange(l, r, n int) error {
	if l < 0 || r >= n || l > r {
		return fmt.Errorf("%w: range [%d, %d] over sequence of length %d", ErrOutOfBounds, l, r, n)
	}
	return nil
}
