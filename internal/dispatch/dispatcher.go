package dispatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/eventry-labs/vendorscout/internal/core/domain"
	"github.com/eventry-labs/vendorscout/internal/logger"
)

// Config configures a Dispatcher for one external service class.
type Config struct {
	// Name identifies the service in logs ("embedding", "places").
	Name string

	// RequestsPerSecond is the sustained rate limit.
	RequestsPerSecond float64

	// Burst is the bucket capacity.
	Burst int

	// MaxConcurrency caps concurrent calls (default 5).
	MaxConcurrency int

	// MaxAttempts is total attempts per task, including the first
	// (default 2).
	MaxAttempts int

	// Backoff is the initial retry delay (default 500ms, doubling).
	Backoff time.Duration

	// CallTimeout bounds each external call, independent of limiter
	// waits (default 60s). A timeout is the task's error outcome and
	// is eligible for retry.
	CallTimeout time.Duration

	// CallCost is the default token cost per call (default 1). APIs
	// billed in composite units configure a higher cost.
	CallCost int
}

func (c Config) withDefaults() Config {
	if c.MaxConcurrency <= 0 {
		c.MaxConcurrency = 5
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 2
	}
	if c.Backoff <= 0 {
		c.Backoff = 500 * time.Millisecond
	}
	if c.CallTimeout <= 0 {
		c.CallTimeout = 60 * time.Second
	}
	if c.CallCost <= 0 {
		c.CallCost = 1
	}
	return c
}

// Dispatcher pairs a rate limiter with a bounded worker pool for one
// external service class. Every task acquires its token cost before
// the call, so the pool's aggregate rate never exceeds the quota even
// at maximum concurrency.
//
// Dispatchers are process-lifetime values constructed once at startup.
// Each owns its limiter explicitly; there is no shared singleton.
type Dispatcher struct {
	name    string
	limiter *Limiter
	pool    PoolConfig
	timeout time.Duration
	cost    int
}

// New creates a dispatcher. Misconfiguration (invalid bucket
// parameters, a default cost exceeding the bucket capacity) is fatal
// here, before any work can be dispatched.
func New(cfg Config) (*Dispatcher, error) {
	cfg = cfg.withDefaults()

	limiter, err := NewLimiter(cfg.RequestsPerSecond, cfg.Burst)
	if err != nil {
		return nil, fmt.Errorf("dispatcher %s: %w", cfg.Name, err)
	}
	if cfg.CallCost > cfg.Burst {
		return nil, fmt.Errorf("dispatcher %s: %w: call cost %d exceeds capacity %d",
			cfg.Name, domain.ErrRateLimitMisconfigured, cfg.CallCost, cfg.Burst)
	}

	return &Dispatcher{
		name:    cfg.Name,
		limiter: limiter,
		pool: PoolConfig{
			MaxConcurrency: cfg.MaxConcurrency,
			MaxAttempts:    cfg.MaxAttempts,
			Backoff:        cfg.Backoff,
		},
		timeout: cfg.CallTimeout,
		cost:    cfg.CallCost,
	}, nil
}

// Name returns the service name the dispatcher was configured with.
func (d *Dispatcher) Name() string {
	return d.name
}

// Limiter exposes the dispatcher's rate limiter.
func (d *Dispatcher) Limiter() *Limiter {
	return d.limiter
}

// Submit runs a batch of tasks through the dispatcher: each task waits
// for its token cost, then performs its call under the per-call
// timeout. The batch is fail-soft; per-task errors come back in the
// results, and partial failure is never a batch-level abort.
func Submit[R any](ctx context.Context, d *Dispatcher, tasks []Task[R]) []Result[R] {
	return Run(ctx, d.pool, tasks, func(ctx context.Context, t Task[R]) (R, error) {
		var zero R

		cost := t.Cost
		if cost == 0 {
			cost = d.cost
		}
		if err := d.limiter.Acquire(ctx, cost); err != nil {
			return zero, err
		}

		callCtx, cancel := context.WithTimeout(ctx, d.timeout)
		defer cancel()

		value, err := t.Do(callCtx)
		if err != nil {
			if errors.Is(err, domain.ErrRateLimited) {
				// The service throttled us despite the local bucket;
				// back the whole pool off before the retry.
				d.limiter.RecordThrottle(0)
				logger.Warn("%s: throttled by service on %s", d.name, t.Key)
			}
			return zero, err
		}
		return value, nil
	})
}

// CollectErrors extracts the failed results from a batch as one error
// per failed task, preserving keys.
func CollectErrors[R any](results []Result[R]) []error {
	var errs []error
	for i := range results {
		if results[i].Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", results[i].Key, results[i].Err))
		}
	}
	return errs
}
