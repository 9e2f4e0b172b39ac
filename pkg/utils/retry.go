package utils

import (
	"context"
	"time"
)

// RetryPolicy is a bounded, fixed-delay retry.
//
// The delay is deliberately NOT exponential: the campaign directory contract
// is "up to N attempts with a constant pause between them", and that shape is
// an explicit, testable parameter here rather than an accident of a loop.
type RetryPolicy struct {
	// MaxAttempts is the total number of calls, first attempt included.
	MaxAttempts int

	// Delay is the pause between consecutive attempts.
	Delay time.Duration

	// IsRetryable filters errors. nil means every error is retryable.
	IsRetryable func(error) bool

	// Sleep is injectable for deterministic tests. nil uses a timer that
	// honors context cancellation.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Do runs fn until it succeeds, the attempts are exhausted, an error is
// non-retryable, or ctx is done. The returned error is the last error from fn
// (or ctx.Err() when cancelled mid-wait).
func (p RetryPolicy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = sleepCtx
	}

	var last error
	for i := 1; i <= attempts; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		last = fn(ctx)
		if last == nil {
			return nil
		}
		if p.IsRetryable != nil && !p.IsRetryable(last) {
			return last
		}
		if i == attempts {
			break
		}
		if err := sleep(ctx, p.Delay); err != nil {
			return err
		}
	}
	return last
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
