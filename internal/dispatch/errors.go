package dispatch

import (
	"errors"

	"github.com/eventry-labs/vendorscout/internal/core/domain"
)

// permanentError marks an error as non-retryable.
type permanentError struct {
	err error
}

func (e *permanentError) Error() string {
	return e.err.Error()
}

func (e *permanentError) Unwrap() error {
	return e.err
}

// Permanent wraps err so the worker pool will not retry it. Adapters
// use it for failures that cannot succeed on retry: malformed input,
// authorisation failures, content rejection.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsPermanent reports whether err was marked non-retryable, directly
// or via a domain sentinel that is permanent by definition.
func IsPermanent(err error) bool {
	var pe *permanentError
	if errors.As(err, &pe) {
		return true
	}
	return errors.Is(err, domain.ErrContentRejected) ||
		errors.Is(err, domain.ErrInvalidInput) ||
		errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrRateLimitMisconfigured)
}
