// Package clock provides helpers for time-related operations.
package clock

import (
	"context"
	"time"
)

// SleepWithContext waits for the duration or returns early if the context is canceled.
func SleepWithContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Clock reports the current time. Components that reason about ages take one so tests can pin time.
type Clock interface {
	Now() time.Time
}

// System is the wall clock.
type System struct{}

// Now returns time.Now.
func (System) Now() time.Time { return time.Now() }

// Fixed always reports the same instant.
type Fixed time.Time

// Now returns the pinned instant.
func (f Fixed) Now() time.Time { return time.Time(f) }
