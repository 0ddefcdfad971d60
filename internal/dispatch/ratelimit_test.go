package dispatch

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventry-labs/vendorscout/internal/core/domain"
)

func TestNewLimiter_RejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name  string
		rate  float64
		burst int
	}{
		{"zero rate", 0, 5},
		{"negative rate", -1, 5},
		{"zero burst", 10, 0},
		{"negative burst", 10, -3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLimiter(tt.rate, tt.burst)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrRateLimitMisconfigured)
		})
	}
}

func TestLimiter_AcquireRejectsOversizedRequest(t *testing.T) {
	limiter, err := NewLimiter(10, 5)
	require.NoError(t, err)

	err = limiter.Acquire(context.Background(), 6)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRateLimitMisconfigured)
}

func TestLimiter_AcquireEqualToCapacitySucceeds(t *testing.T) {
	limiter, err := NewLimiter(100, 5)
	require.NoError(t, err)

	// n == capacity is the boundary case and must not error.
	err = limiter.Acquire(context.Background(), 5)
	assert.NoError(t, err)
}

func TestLimiter_BurstIsImmediate(t *testing.T) {
	limiter, err := NewLimiter(1, 5)
	require.NoError(t, err)

	start := time.Now()
	for i := 0; i < 5; i++ {
		require.NoError(t, limiter.Acquire(context.Background(), 1))
	}
	assert.Less(t, time.Since(start), 100*time.Millisecond, "burst should not wait")
}

func TestLimiter_SustainedRateIsEnforced(t *testing.T) {
	// 50 req/s, burst 1: the first acquire is free, each further one
	// must wait ~20ms. Five acquires need at least ~80ms.
	limiter, err := NewLimiter(50, 1)
	require.NoError(t, err)

	start := time.Now()
	for i := 0; i < 5; i++ {
		require.NoError(t, limiter.Acquire(context.Background(), 1))
	}
	assert.GreaterOrEqual(t, time.Since(start), 70*time.Millisecond)
}

func TestLimiter_AcquireHonoursCancellation(t *testing.T) {
	limiter, err := NewLimiter(0.1, 1)
	require.NoError(t, err)

	// Drain the bucket; the next token is ten seconds away.
	require.NoError(t, limiter.Acquire(context.Background(), 1))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err = limiter.Acquire(ctx, 1)
	assert.Error(t, err)
}

func TestLimiter_Allow(t *testing.T) {
	limiter, err := NewLimiter(0.1, 2)
	require.NoError(t, err)

	assert.True(t, limiter.Allow(1))
	assert.True(t, limiter.Allow(1))
	assert.False(t, limiter.Allow(1), "bucket drained, refill is seconds away")
}

func TestLimiter_RecordThrottleDelaysAcquire(t *testing.T) {
	limiter, err := NewLimiter(1000, 10)
	require.NoError(t, err)

	limiter.RecordThrottle(80 * time.Millisecond)

	assert.False(t, limiter.Allow(1), "backoff window should block Allow")

	start := time.Now()
	require.NoError(t, limiter.Acquire(context.Background(), 1))
	assert.GreaterOrEqual(t, time.Since(start), 60*time.Millisecond)
}

func TestLimiter_Capacity(t *testing.T) {
	limiter, err := NewLimiter(10, 7)
	require.NoError(t, err)
	assert.Equal(t, 7, limiter.Capacity())
}
