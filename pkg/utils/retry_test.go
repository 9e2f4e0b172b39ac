package utils

import (
	"context"
	"errors"
	"testing"
	"time"
)

func noSleep(recorded *[]time.Duration) func(ctx context.Context, d time.Duration) error {
	return func(ctx context.Context, d time.Duration) error {
		*recorded = append(*recorded, d)
		return nil
	}
}

func TestRetryPolicy_SucceedsAfterTransientFailures(t *testing.T) {
	var sleeps []time.Duration
	calls := 0
	p := RetryPolicy{MaxAttempts: 3, Delay: time.Second, Sleep: noSleep(&sleeps)}

	err := p.Do(context.Background(), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected exactly 3 attempts, got %d", calls)
	}
	if len(sleeps) != 2 {
		t.Fatalf("expected 2 pauses, got %d", len(sleeps))
	}
	for _, d := range sleeps {
		if d != time.Second {
			t.Fatalf("expected fixed 1s delay, got %s", d)
		}
	}
}

func TestRetryPolicy_ExhaustsAndReturnsLastError(t *testing.T) {
	var sleeps []time.Duration
	calls := 0
	wantErr := errors.New("still down")
	p := RetryPolicy{MaxAttempts: 3, Delay: 10 * time.Millisecond, Sleep: noSleep(&sleeps)}

	err := p.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected last error, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
	// No pause after the final attempt.
	if len(sleeps) != 2 {
		t.Fatalf("expected 2 pauses, got %d", len(sleeps))
	}
}

func TestRetryPolicy_NonRetryableStopsImmediately(t *testing.T) {
	calls := 0
	fatal := errors.New("bad request")
	p := RetryPolicy{
		MaxAttempts: 5,
		Delay:       time.Second,
		IsRetryable: func(err error) bool { return !errors.Is(err, fatal) },
		Sleep:       func(ctx context.Context, d time.Duration) error { return nil },
	}

	err := p.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return fatal
	})
	if !errors.Is(err, fatal) {
		t.Fatalf("expected fatal error, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected a single attempt, got %d", calls)
	}
}

func TestRetryPolicy_CancelledContextAbortsWait(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	p := RetryPolicy{
		MaxAttempts: 3,
		Delay:       time.Second,
		Sleep: func(ctx context.Context, d time.Duration) error {
			cancel()
			return ctx.Err()
		},
	}

	err := p.Do(ctx, func(ctx context.Context) error {
		calls++
		return errors.New("transient")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 attempt before cancellation, got %d", calls)
	}
}
