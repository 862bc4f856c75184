package random

import (
	"math/rand/v2"
	"time"
)

// Random provides random values that can be mocked for testing
type Random interface {
	// Duration returns a random duration in [0, max)
	Duration(max time.Duration) time.Duration
}

// MathRandom implements Random using math/rand/v2
type MathRandom struct{}

// New creates a new MathRandom
func New() *MathRandom {
	return &MathRandom{}
}

// Duration returns a random duration in [0, max), or 0 if max is not positive
func (r *MathRandom) Duration(max time.Duration) time.Duration {
	if max <= 0 {
		return 0
	}
	return time.Duration(rand.Int64N(int64(max)))
}
