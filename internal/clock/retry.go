package clock

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Backoff describes an exponential retry schedule.
type Backoff struct {
	Initial  time.Duration
	Max      time.Duration
	Attempts int
}

// DefaultBackoff is used when a zero Backoff is passed to Retry.
var DefaultBackoff = Backoff{Initial: 250 * time.Millisecond, Max: 10 * time.Second, Attempts: 5}

// Permanent wraps err so Retry gives up immediately.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return backoff.Permanent(err)
}

// schedule builds the backoff policy for b, bounded by attempts and ctx.
func (b Backoff) schedule(ctx context.Context) backoff.BackOffContext {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = b.Initial
	exp.Multiplier = 2
	exp.RandomizationFactor = 0
	exp.MaxElapsedTime = 0
	if b.Max > 0 {
		exp.MaxInterval = b.Max
	}
	return backoff.WithContext(backoff.WithMaxRetries(exp, uint64(b.Attempts-1)), ctx)
}

// Retry calls fn until it succeeds, returns a permanent error, the attempts are exhausted or ctx ends.
// onRetry, when set, is invoked before each wait.
func Retry(ctx context.Context, b Backoff, fn func(ctx context.Context) error, onRetry func(attempt int, err error)) error {
	if b.Attempts <= 0 {
		b = DefaultBackoff
	}
	attempt := 0
	return backoff.RetryNotify(func() error {
		attempt++
		return fn(ctx)
	}, b.schedule(ctx), func(err error, _ time.Duration) {
		if onRetry != nil {
			onRetry(attempt, err)
		}
	})
}
