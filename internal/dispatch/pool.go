package dispatch

import (
	"context"
	"sync"
	"time"
)

// Task is one unit of work: a callable with a correlation key and a
// token cost. The same shape serves every service class, which keeps
// the pool generic across heterogeneous external calls.
type Task[R any] struct {
	// Key correlates the task with its result (a query string, a place
	// ID, a vendor ID).
	Key string

	// Cost is the number of limiter tokens the call consumes.
	// Zero means the dispatcher's default cost.
	Cost int

	// Do performs the external call.
	Do func(ctx context.Context) (R, error)
}

// Result is the outcome of one task. Exactly one Result is produced
// per submitted task; a failed task carries its error rather than
// aborting the batch.
type Result[R any] struct {
	// Key is the submitting task's key.
	Key string

	// Value is the task's output when Err is nil.
	Value R

	// Err is the final error after retries, nil on success.
	Err error

	// Attempts is how many times the task was attempted.
	Attempts int
}

// PoolConfig bounds a batch run.
type PoolConfig struct {
	// MaxConcurrency caps how many tasks run at once. Large batches
	// queue behind the bound rather than spawning unbounded work.
	MaxConcurrency int

	// MaxAttempts is the total attempts per task, including the first.
	MaxAttempts int

	// Backoff is the delay before the second attempt; it doubles for
	// each further attempt.
	Backoff time.Duration
}

func (c PoolConfig) withDefaults() PoolConfig {
	if c.MaxConcurrency <= 0 {
		c.MaxConcurrency = 5
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 2
	}
	if c.Backoff <= 0 {
		c.Backoff = 500 * time.Millisecond
	}
	return c
}

// Run executes tasks with bounded concurrency and returns one result
// per task, in task order, once all have completed. One task's failure
// never blocks or cancels its siblings.
//
// Cancellation is cooperative: once ctx is done no further task starts
// (each unstarted task gets ctx.Err() as its result) and in-flight
// attempts finish or abort through their own context.
func Run[R any](ctx context.Context, cfg PoolConfig, tasks []Task[R], worker func(ctx context.Context, t Task[R]) (R, error)) []Result[R] {
	cfg = cfg.withDefaults()
	results := make([]Result[R], len(tasks))

	sem := make(chan struct{}, cfg.MaxConcurrency)
	var wg sync.WaitGroup

	for i := range tasks {
		// Acquire a slot before spawning, so a batch of any size keeps
		// at most MaxConcurrency goroutines in existence.
		select {
		case <-ctx.Done():
			results[i] = Result[R]{Key: tasks[i].Key, Err: ctx.Err()}
			continue
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i] = attempt(ctx, cfg, tasks[i], worker)
		}(i)
	}

	wg.Wait()
	return results
}

// attempt runs one task through the retry loop. Errors marked
// permanent fail immediately; everything else retries with doubling
// backoff until MaxAttempts is spent.
func attempt[R any](ctx context.Context, cfg PoolConfig, t Task[R], worker func(ctx context.Context, t Task[R]) (R, error)) Result[R] {
	res := Result[R]{Key: t.Key}

	delay := cfg.Backoff
	for i := 1; i <= cfg.MaxAttempts; i++ {
		if i > 1 {
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				res.Err = ctx.Err()
				return res
			case <-timer.C:
			}
			delay *= 2
		}

		// Cancellation is consulted at attempt start, never by
		// interrupting an in-flight call.
		if err := ctx.Err(); err != nil {
			res.Err = err
			return res
		}

		res.Attempts = i
		value, err := worker(ctx, t)
		if err == nil {
			res.Value = value
			return res
		}
		res.Err = err

		if IsPermanent(err) {
			return res
		}
	}

	return res
}
