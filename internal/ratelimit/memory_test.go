package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) Now() time.Time { return f.t }

func TestMemoryLimiter_FixedWindow(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	limiter := NewMemoryLimiter(MemoryLimiterConfig{Now: clock.Now})
	ctx := context.Background()

	for i := 2; i >= 0; i-- {
		d, err := limiter.Allow(ctx, "ip:1", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, d.Allowed)
		assert.Equal(t, i, d.Remaining)
		assert.Equal(t, clock.t.Add(time.Minute), d.ResetAt)
	}

	d, err := limiter.Allow(ctx, "ip:1", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, 0, d.Remaining)

	// Other keys have their own window.
	d, err = limiter.Allow(ctx, "ip:2", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, d.Allowed)

	clock.t = clock.t.Add(time.Minute + time.Second)
	d, err = limiter.Allow(ctx, "ip:1", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, 2, d.Remaining)
}

func TestMemoryLimiter_Capacity(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	limiter := NewMemoryLimiter(MemoryLimiterConfig{Now: clock.Now, MaxKeys: 1})
	ctx := context.Background()

	_, err := limiter.Allow(ctx, "a", 1, time.Minute)
	require.NoError(t, err)
	_, err = limiter.Allow(ctx, "b", 1, time.Minute)
	assert.ErrorIs(t, err, ErrCapacityExceeded)

	// Expired windows are collected to make room.
	clock.t = clock.t.Add(2 * time.Minute)
	_, err = limiter.Allow(ctx, "b", 1, time.Minute)
	assert.NoError(t, err)
}

func TestMemoryLimiter_NoLimit(t *testing.T) {
	d, err := NewMemoryLimiter(MemoryLimiterConfig{}).Allow(context.Background(), "k", 0, time.Minute)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
}
