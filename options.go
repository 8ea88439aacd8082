package sqrtdec

import (
	"fmt"
	"math"
)

type config struct {
	blockSize int
	capacity  int
}

// Option configures a structure at construction time.
type Option func(*config) error

// BlockSize overrides the derived block size.
//
// The default is the square root of the sequence length, which
// balances the cost of walking the two partial boundary blocks
// against the number of fully covered blocks. Override it when the
// access pattern is known to be skewed - read-heavy workloads do
// better with slightly larger blocks, update-heavy with smaller.
//
// Block size must be at least 1.
func BlockSize(c int) Option {
	return func(cfg *config) error {
		if c < 1 {
			return fmt.Errorf("%w: block size must be >= 1, got %d", ErrInvalidInput, c)
		}
		cfg.blockSize = c
		return nil
	}
}

// Capacity sets the update buffer capacity of a Buffered structure.
//
// A flush rebuild costs a full linear pass while every query pays a
// scan over the pending buffer, so the optimum is near the square
// root of the expected update count - the default, derived from the
// sequence length, when the caller has no better estimate. Capacity 1
// degenerates to rebuilding on every update, which is slow but
// correct.
func Capacity(b int) Option {
	return func(cfg *config) error {
		if b < 1 {
			return fmt.Errorf("%w: buffer capacity must be >= 1, got %d", ErrInvalidInput, b)
		}
		cfg.capacity = b
		return nil
	}
}

func applyOptions(options []Option) (config, error) {
	var cfg config
	for _, opt := range options {
		if err := opt(&cfg); err != nil {
			return config{}, err
		}
	}
	return cfg, nil
}

func defaultBlockSize(n int) int {
	c := int(math.Round(math.Sqrt(float64(n))))
	if c < 1 {
		c = 1
	}
	return c
}
