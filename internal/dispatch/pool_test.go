package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventry-labs/vendorscout/internal/core/domain"
)

func passthrough[R any](_ context.Context, t Task[R]) (R, error) {
	return t.Do(context.Background())
}

func TestRun_OneResultPerTaskInOrder(t *testing.T) {
	var tasks []Task[string]
	for i := 0; i < 8; i++ {
		i := i
		tasks = append(tasks, Task[string]{
			Key: fmt.Sprintf("task-%d", i),
			Do: func(_ context.Context) (string, error) {
				return fmt.Sprintf("value-%d", i), nil
			},
		})
	}

	results := Run(context.Background(), PoolConfig{MaxConcurrency: 3}, tasks, passthrough[string])

	require.Len(t, results, 8)
	for i, res := range results {
		assert.Equal(t, fmt.Sprintf("task-%d", i), res.Key)
		assert.Equal(t, fmt.Sprintf("value-%d", i), res.Value)
		assert.NoError(t, res.Err)
	}
}

func TestRun_FailureDoesNotAbortBatch(t *testing.T) {
	boom := errors.New("boom")
	tasks := []Task[int]{
		{Key: "ok-1", Do: func(_ context.Context) (int, error) { return 1, nil }},
		{Key: "bad", Do: func(_ context.Context) (int, error) { return 0, Permanent(boom) }},
		{Key: "ok-2", Do: func(_ context.Context) (int, error) { return 2, nil }},
	}

	results := Run(context.Background(), PoolConfig{}, tasks, passthrough[int])

	require.Len(t, results, 3)
	assert.NoError(t, results[0].Err)
	assert.ErrorIs(t, results[1].Err, boom)
	assert.NoError(t, results[2].Err)
	assert.Equal(t, 2, results[2].Value)
}

func TestRun_ConcurrencyIsBounded(t *testing.T) {
	var current, peak int64
	var mu sync.Mutex

	var tasks []Task[struct{}]
	for i := 0; i < 20; i++ {
		tasks = append(tasks, Task[struct{}]{
			Key: fmt.Sprintf("t-%d", i),
			Do: func(_ context.Context) (struct{}, error) {
				n := atomic.AddInt64(&current, 1)
				mu.Lock()
				if n > peak {
					peak = n
				}
				mu.Unlock()
				time.Sleep(5 * time.Millisecond)
				atomic.AddInt64(&current, -1)
				return struct{}{}, nil
			},
		})
	}

	Run(context.Background(), PoolConfig{MaxConcurrency: 3}, tasks, passthrough[struct{}])

	mu.Lock()
	defer mu.Unlock()
	assert.LessOrEqual(t, peak, int64(3))
}

func TestRun_RetriesTransientErrors(t *testing.T) {
	var calls int64
	tasks := []Task[string]{{
		Key: "flaky",
		Do: func(_ context.Context) (string, error) {
			if atomic.AddInt64(&calls, 1) == 1 {
				return "", errors.New("transient")
			}
			return "recovered", nil
		},
	}}

	results := Run(context.Background(), PoolConfig{MaxAttempts: 3, Backoff: time.Millisecond}, tasks, passthrough[string])

	require.Len(t, results, 1)
	assert.NoError(t, results[0].Err)
	assert.Equal(t, "recovered", results[0].Value)
	assert.Equal(t, 2, results[0].Attempts)
}

func TestRun_PermanentErrorsAreNotRetried(t *testing.T) {
	var calls int64
	tasks := []Task[string]{{
		Key: "rejected",
		Do: func(_ context.Context) (string, error) {
			atomic.AddInt64(&calls, 1)
			return "", domain.ErrContentRejected
		},
	}}

	results := Run(context.Background(), PoolConfig{MaxAttempts: 3, Backoff: time.Millisecond}, tasks, passthrough[string])

	require.Len(t, results, 1)
	assert.ErrorIs(t, results[0].Err, domain.ErrContentRejected)
	assert.Equal(t, 1, results[0].Attempts)
	assert.Equal(t, int64(1), atomic.LoadInt64(&calls))
}

func TestRun_ExhaustsAttemptsAndKeepsLastError(t *testing.T) {
	var calls int64
	tasks := []Task[string]{{
		Key: "doomed",
		Do: func(_ context.Context) (string, error) {
			return "", fmt.Errorf("attempt %d failed", atomic.AddInt64(&calls, 1))
		},
	}}

	results := Run(context.Background(), PoolConfig{MaxAttempts: 3, Backoff: time.Millisecond}, tasks, passthrough[string])

	require.Len(t, results, 1)
	require.Error(t, results[0].Err)
	assert.Contains(t, results[0].Err.Error(), "attempt 3")
	assert.Equal(t, 3, results[0].Attempts)
}

func TestRun_CancelledContextSkipsTasks(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls int64
	var tasks []Task[int]
	for i := 0; i < 4; i++ {
		tasks = append(tasks, Task[int]{
			Key: fmt.Sprintf("t-%d", i),
			Do: func(_ context.Context) (int, error) {
				atomic.AddInt64(&calls, 1)
				return 0, nil
			},
		})
	}

	results := Run(ctx, PoolConfig{}, tasks, passthrough[int])

	require.Len(t, results, 4)
	for _, res := range results {
		assert.ErrorIs(t, res.Err, context.Canceled)
	}
	assert.Equal(t, int64(0), atomic.LoadInt64(&calls), "no task should run after cancellation")
}

func TestPermanent(t *testing.T) {
	assert.Nil(t, Permanent(nil))

	base := errors.New("bad request")
	wrapped := Permanent(base)
	assert.True(t, IsPermanent(wrapped))
	assert.ErrorIs(t, wrapped, base)

	assert.False(t, IsPermanent(errors.New("transient")))
	assert.True(t, IsPermanent(domain.ErrInvalidInput))
	assert.True(t, IsPermanent(domain.ErrNotFound))
	assert.True(t, IsPermanent(fmt.Errorf("wrapped: %w", domain.ErrContentRejected)))
	assert.False(t, IsPermanent(domain.ErrRateLimited))
}
