// Package chaos holds the delay helpers used to simulate slow collaborators.
package chaos

import (
	"context"
	"math/rand/v2"
	"time"
)

// Rand is the source of uniform draws in [0, 1).
type Rand interface {
	Float64() float64
}

// SleepFunc blocks for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }

// DefaultRand draws from the process-wide generator and is safe for
// concurrent use.
var DefaultRand Rand = globalRand{}

// SleepOrDone waits for the duration or returns early on context cancellation.
func SleepOrDone(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Uniform returns a duration drawn uniformly from [lo, hi).
func Uniform(r Rand, lo, hi time.Duration) time.Duration {
	if hi <= lo {
		return lo
	}
	return lo + time.Duration(r.Float64()*float64(hi-lo))
}
