package util

import (
	"context"
	"errors"
	"time"
)

// RetryPolicy bounds a network call: each attempt gets its own timeout and
// transient failures are retried with exponential backoff
type RetryPolicy struct {
	Timeout    time.Duration // Per attempt; zero means no extra deadline
	MaxRetries int           // Retries after the first attempt
	BaseDelay  time.Duration // Delay before the first retry, doubled each time

	// Sleep waits between attempts (injectable for tests)
	Sleep func(ctx context.Context, d time.Duration) error
}

// Retry runs fn until it succeeds, fails permanently or the budget is spent.
// It returns the last error seen.
func Retry[T any](ctx context.Context, policy RetryPolicy, retryable func(error) bool, fn func(ctx context.Context) (T, error)) (T, error) {
	sleep := policy.Sleep
	if sleep == nil {
		sleep = SleepContext
	}
	delay := policy.BaseDelay
	if delay <= 0 {
		delay = 500 * time.Millisecond
	}

	var zero T
	var lastErr error
	for attempt := 0; attempt <= policy.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			if lastErr == nil {
				lastErr = err
			}
			return zero, lastErr
		}

		result, err := runAttempt(ctx, policy.Timeout, fn)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !retryable(err) || attempt == policy.MaxRetries {
			break
		}

		backoff := delay * time.Duration(1<<uint(attempt))
		if err := sleep(ctx, backoff); err != nil {
			break
		}
	}
	return zero, lastErr
}

func runAttempt[T any](ctx context.Context, timeout time.Duration, fn func(ctx context.Context) (T, error)) (T, error) {
	if timeout <= 0 {
		return fn(ctx)
	}
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return fn(attemptCtx)
}

// SleepContext sleeps for d or until ctx is done
func SleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// NoSleep skips backoff delays
func NoSleep(context.Context, time.Duration) error { return nil }

// IsTimeout reports whether err is a deadline or network timeout
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}
