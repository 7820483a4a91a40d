package desi

import (
	"context"
	"errors"
	"time"
)

// RetryConfig controls how remote rule fetches are retried.
type RetryConfig struct {
	MaxRetries int           // attempts after the first
	BaseDelay  time.Duration // delay before the first retry, doubled each time
	MaxDelay   time.Duration // upper bound for any delay, including RetryAfter hints
}

// DefaultRetryConfig returns the retry settings used for remote rule sources.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 3,
		BaseDelay:  500 * time.Millisecond,
		MaxDelay:   10 * time.Second,
	}
}

// Backoff returns the delay before retry number attempt (0-based).
func (c RetryConfig) Backoff(attempt int) time.Duration {
	d := c.BaseDelay
	for i := 0; i < attempt && (c.MaxDelay <= 0 || d < c.MaxDelay); i++ {
		d *= 2
	}
	return c.clamp(d)
}

func (c RetryConfig) clamp(d time.Duration) time.Duration {
	if c.MaxDelay > 0 && d > c.MaxDelay {
		return c.MaxDelay
	}
	return d
}

// WithRetry calls fn until it succeeds or fails with an error that is not
// retryable, making at most MaxRetries extra attempts. A SourceError that
// carries a RetryAfter hint replaces the computed backoff.
func WithRetry[T any](ctx context.Context, cfg RetryConfig, fn func() (T, error)) (T, error) {
	var zero T
	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}
		if attempt >= cfg.MaxRetries || !IsRetryable(err) {
			return zero, err
		}

		delay := cfg.Backoff(attempt)
		var srcErr *SourceError
		if errors.As(err, &srcErr) && srcErr.RetryAfter > 0 {
			delay = cfg.clamp(srcErr.RetryAfter)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
	}
}

// IsRetryable reports whether err is, or wraps, a retryable SourceError.
func IsRetryable(err error) bool {
	var srcErr *SourceError
	return errors.As(err, &srcErr) && srcErr.Retryable
}
