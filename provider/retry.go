package provider

import (
	"context"
	"fmt"
	"time"
)

// Retry defaults for transient remote failures.
const (
	DefaultMaxAttempts = 3
	DefaultBaseDelay   = 2 * time.Second
	DefaultMultiplier  = 2.0
)

// Policy configures Retry.
type Policy struct {
	// MaxAttempts is the total number of calls, first included. Values < 1
	// mean a single attempt.
	MaxAttempts int

	// BaseDelay is the pause after the first failure.
	BaseDelay time.Duration

	// Multiplier scales the pause after each further failure.
	Multiplier float64

	// Retryable decides whether an error is worth another attempt.
	// Nil retries every error.
	Retryable func(error) bool

	// OnRetry is called before each pause.
	OnRetry func(attempt int, delay time.Duration, err error)
}

// DefaultPolicy retries rate-limit and connection failures three times
// total, waiting 2s then 4s.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: DefaultMaxAttempts,
		BaseDelay:   DefaultBaseDelay,
		Multiplier:  DefaultMultiplier,
		Retryable:   IsRetryable,
	}
}

// Delay returns the pause before attempt+1, for attempt starting at 1.
func (p Policy) Delay(attempt int) time.Duration {
	d := float64(p.BaseDelay)
	m := p.Multiplier
	if m <= 0 {
		m = 1
	}
	for i := 1; i < attempt; i++ {
		d *= m
	}
	return time.Duration(d)
}

// Do calls fn until it succeeds, returns a non-retryable error, exhausts
// p.MaxAttempts, or ctx is done. A retryable error that outlives every
// attempt is wrapped with the attempt count and keeps its identity for
// errors.Is and errors.As.
func Do[T any](ctx context.Context, p Policy, fn func(context.Context) (T, error)) (T, error) {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var zero T
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		v, err := fn(ctx)
		if err == nil {
			return v, nil
		}
		lastErr = err

		if p.Retryable != nil && !p.Retryable(err) {
			return zero, err
		}
		if attempt == attempts {
			break
		}

		delay := p.Delay(attempt)
		if p.OnRetry != nil {
			p.OnRetry(attempt, delay, err)
		}
		if err := sleep(ctx, delay); err != nil {
			return zero, fmt.Errorf("retry interrupted after %d attempts: %w", attempt, lastErr)
		}
	}

	if attempts == 1 {
		return zero, lastErr
	}
	return zero, fmt.Errorf("failed after %d attempts: %w", attempts, lastErr)
}

// Retry is Do for functions without a result.
func Retry(ctx context.Context, p Policy, fn func(context.Context) error) error {
	_, err := Do(ctx, p, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

func sleep(ctx context.Context, d time.Duration) error {
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
