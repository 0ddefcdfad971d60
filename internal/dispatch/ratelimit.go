package dispatch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/eventry-labs/vendorscout/internal/core/domain"
)

// Limiter is a token bucket guarding one external service's call rate.
// The bucket holds up to its capacity in tokens and refills continuously
// at the configured rate; each call consumes tokens equal to its cost.
//
// Refill, comparison, and deduction are one atomic step: no caller can
// observe a negative balance or double-spend tokens.
type Limiter struct {
	bucket *rate.Limiter

	mu      sync.Mutex
	retryAt time.Time
}

// NewLimiter creates a limiter with the given sustained rate and burst
// capacity. Invalid parameters are a configuration error, rejected here
// rather than at call time.
func NewLimiter(requestsPerSecond float64, burst int) (*Limiter, error) {
	if requestsPerSecond <= 0 {
		return nil, fmt.Errorf("%w: rate must be positive, got %g", domain.ErrRateLimitMisconfigured, requestsPerSecond)
	}
	if burst <= 0 {
		return nil, fmt.Errorf("%w: burst must be positive, got %d", domain.ErrRateLimitMisconfigured, burst)
	}
	return &Limiter{
		bucket: rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
	}, nil
}

// Capacity returns the bucket capacity.
func (l *Limiter) Capacity() int {
	return l.bucket.Burst()
}

// Acquire blocks until n tokens are available, deducts them, and
// returns. The wait is computed from the bucket's reservation, not
// polled. It also respects any backoff window set by RecordThrottle.
// Acquire fails only when n exceeds the bucket capacity or the context
// is cancelled while waiting.
func (l *Limiter) Acquire(ctx context.Context, n int) error {
	if n > l.bucket.Burst() {
		return fmt.Errorf("%w: acquire %d exceeds capacity %d", domain.ErrRateLimitMisconfigured, n, l.bucket.Burst())
	}

	// Honour backoff from a previous throttling response first.
	l.mu.Lock()
	retryAt := l.retryAt
	l.mu.Unlock()

	if until := time.Until(retryAt); until > 0 {
		timer := time.NewTimer(until)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	return l.bucket.WaitN(ctx, n)
}

// Allow reports whether n tokens can be taken immediately, taking them
// if so. Used by callers that prefer to skip work over waiting.
func (l *Limiter) Allow(n int) bool {
	l.mu.Lock()
	retryAt := l.retryAt
	l.mu.Unlock()

	if time.Now().Before(retryAt) {
		return false
	}
	return l.bucket.AllowN(time.Now(), n)
}

// RecordThrottle sets a backoff window after the external service
// reported quota exhaustion. Subsequent Acquire calls wait until the
// window passes before consuming tokens. A non-positive duration
// applies a 30 second default.
func (l *Limiter) RecordThrottle(retryAfter time.Duration) {
	if retryAfter <= 0 {
		retryAfter = 30 * time.Second
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if at := time.Now().Add(retryAfter); at.After(l.retryAt) {
		l.retryAt = at
	}
}
