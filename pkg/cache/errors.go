package cache

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for caching operations.
var (
	ErrNotFound       = errors.New("not found")
	ErrNetwork        = errors.New("network error")
	ErrUnsupportedURL = errors.New("unsupported cache url")
	ErrCorrupt        = errors.New("corrupt cache entry")
)

// RetryableError marks a transient backend failure, such as a dropped
// connection or a timeout, that is worth another attempt.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retryable marks err as transient. It returns nil for a nil err.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// IsRetryable reports whether err or any error it wraps was marked by
// [Retryable].
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// Backoff retries an operation with exponentially growing pauses.
type Backoff struct {
	Attempts int           // total calls, at least 1
	Delay    time.Duration // pause after the first failure
	MaxDelay time.Duration // upper bound on a single pause; 0 means none
}

// defaultBackoff is used by the remote backends.
var defaultBackoff = Backoff{Attempts: 3, Delay: 100 * time.Millisecond, MaxDelay: 2 * time.Second}

// Do calls fn until it succeeds, fails with an error not marked retryable,
// or the attempts run out. It returns ctx.Err() if ctx ends during a pause.
func (b Backoff) Do(ctx context.Context, fn func() error) error {
	delay := b.Delay
	var err error
	for attempt := 1; ; attempt++ {
		if err = fn(); err == nil || !IsRetryable(err) || attempt >= b.Attempts {
			return err
		}
		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		delay *= 2
		if b.MaxDelay > 0 && delay > b.MaxDelay {
			delay = b.MaxDelay
		}
	}
}

// RetryWithBackoff runs fn under the default backoff: three attempts
// starting at 100ms.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return defaultBackoff.Do(ctx, fn)
}
