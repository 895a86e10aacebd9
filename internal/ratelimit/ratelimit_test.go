package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHostLimiter_SpacesSameHost(t *testing.T) {
	rl := NewHostLimiter(50 * time.Millisecond)
	ctx := context.Background()

	start := time.Now()
	require.NoError(t, rl.Wait(ctx, "news.google.com"))
	require.NoError(t, rl.Wait(ctx, "news.google.com"))
	require.NoError(t, rl.Wait(ctx, "news.google.com"))

	assert.GreaterOrEqual(t, time.Since(start), 100*time.Millisecond)
	stats := rl.GetStats()
	assert.Equal(t, 3, stats["requests"])
	assert.Equal(t, 2, stats["delayed_requests"])
}

func TestHostLimiter_HostsAreIndependent(t *testing.T) {
	rl := NewHostLimiter(time.Hour)
	ctx := context.Background()

	require.NoError(t, rl.Wait(ctx, "a.example.com"))
	require.NoError(t, rl.Wait(ctx, "b.example.com"))

	assert.Equal(t, 0, rl.GetStats()["delayed_requests"])
	assert.Equal(t, 2, rl.GetStats()["hosts"])
}

func TestHostLimiter_ZeroIntervalNeverDelays(t *testing.T) {
	rl := NewHostLimiter(0)
	for i := 0; i < 5; i++ {
		require.NoError(t, rl.Wait(context.Background(), "example.com"))
	}
	assert.Equal(t, 0, rl.GetStats()["delayed_requests"])
}

func TestHostLimiter_ContextCancelled(t *testing.T) {
	rl := NewHostLimiter(time.Hour)
	require.NoError(t, rl.Wait(context.Background(), "example.com"))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := rl.Wait(ctx, "example.com")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
