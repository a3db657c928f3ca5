package cache

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"
)

// ErrUnavailable is wrapped into errors from a backend that could not be
// reached.
var ErrUnavailable = errors.New("cache backend unavailable")

// transientError marks a failure that may go away on retry.
type transientError struct{ err error }

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

// Transient marks err as worth retrying. nil stays nil.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &transientError{err: err}
}

// IsTransient reports whether err, or anything it wraps, was marked with
// Transient.
func IsTransient(err error) bool {
	var te *transientError
	return errors.As(err, &te)
}

// RetryPolicy bounds how often a transient backend failure is retried.
type RetryPolicy struct {
	Attempts int
	Delay    time.Duration // first wait; doubled after each attempt
}

// DefaultRetry is the policy of the network backends.
var DefaultRetry = RetryPolicy{Attempts: 3, Delay: 200 * time.Millisecond}

// Do calls fn until it succeeds, returns a non-transient error, or the
// attempts run out. It returns ctx.Err() if ctx ends while waiting.
func (p RetryPolicy) Do(ctx context.Context, fn func() error) error {
	delay := p.Delay
	var err error
	for attempt := 1; ; attempt++ {
		if err = fn(); err == nil || !IsTransient(err) || attempt >= p.Attempts {
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
	}
}

// classify marks network failures and timeouts as transient.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var ne net.Error
	if errors.As(err, &ne) || errors.Is(err, context.DeadlineExceeded) {
		return Transient(fmt.Errorf("%w: %v", ErrUnavailable, err))
	}
	return err
}
