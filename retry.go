package postforge

import (
	"context"
	"time"
)

// RetryPolicy bounds automatic retries of external calls.
type RetryPolicy struct {
	// MaxRetries is the number of attempts after the first.
	MaxRetries int

	// BaseDelay is the wait before the first retry; each later retry
	// doubles it, capped at MaxDelay when MaxDelay is set.
	BaseDelay time.Duration
	MaxDelay  time.Duration

	// Retryable decides whether an error is worth another attempt.
	// Defaults to IsTemporary.
	Retryable func(error) bool

	// OnRetry, if set, is called before each retry.
	OnRetry func(attempt int, err error)
}

// DefaultRetryPolicy retries temporary errors twice, waiting 1s then 2s.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries: 2,
		BaseDelay:  1 * time.Second,
		MaxDelay:   8 * time.Second,
		Retryable:  IsTemporary,
	}
}

// Delay returns the wait before retry number attempt (0-based).
func (p RetryPolicy) Delay(attempt int) time.Duration {
	d := p.BaseDelay << attempt
	if p.MaxDelay > 0 && (d > p.MaxDelay || d <= 0) {
		return p.MaxDelay
	}
	return d
}

func (p RetryPolicy) retryable(err error) bool {
	if p.Retryable == nil {
		return IsTemporary(err)
	}
	return p.Retryable(err)
}

// Retry calls fn until it succeeds, returns a non-retryable error, or the
// policy's retries are exhausted. The last error is returned unchanged.
func Retry[T any](ctx context.Context, p RetryPolicy, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error
	for attempt := 0; attempt <= p.MaxRetries; attempt++ {
		v, err := fn(ctx)
		if err == nil {
			return v, nil
		}
		lastErr = err

		if attempt >= p.MaxRetries || !p.retryable(err) {
			break
		}

		if p.OnRetry != nil {
			p.OnRetry(attempt+1, err)
		}

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(p.Delay(attempt)):
		}
	}
	return zero, lastErr
}
