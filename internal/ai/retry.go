package ai

import (
	"context"
	"time"
)

// retryPolicy retries an operation a bounded number of times, sleeping
// between attempts. Only errors the predicate accepts are retried; anything
// else propagates immediately.
type retryPolicy struct {
	attempts  int
	delay     func(attempt int) time.Duration
	retryable func(error) bool
	sleep     func(ctx context.Context, d time.Duration) error
}

func newRetryPolicy(attempts int, baseDelay time.Duration, retryable func(error) bool) retryPolicy {
	if attempts < 1 {
		attempts = 1
	}
	return retryPolicy{
		attempts:  attempts,
		delay:     linearDelay(baseDelay),
		retryable: retryable,
		sleep:     sleepContext,
	}
}

func linearDelay(base time.Duration) func(int) time.Duration {
	return func(attempt int) time.Duration {
		return time.Duration(attempt) * base
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func retry[T any](ctx context.Context, p retryPolicy, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error
	for attempt := 1; attempt <= p.attempts; attempt++ {
		v, err := fn()
		if err == nil {
			return v, nil
		}
		lastErr = err
		if !p.retryable(err) || attempt == p.attempts {
			break
		}
		if err := p.sleep(ctx, p.delay(attempt)); err != nil {
			return zero, err
		}
	}
	return zero, lastErr
}
