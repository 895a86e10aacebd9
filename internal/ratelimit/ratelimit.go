package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/deusflow/aidigest/internal/logger"
)

// HostLimiter spaces requests to the same host by a minimum interval.
// Several feeds share one aggregator host, and those hosts throttle bursts.
type HostLimiter struct {
	mu       sync.Mutex
	interval time.Duration
	next     map[string]time.Time
	requests int
	delayed  int
	waited   time.Duration
}

// NewHostLimiter returns a limiter. A zero interval never delays.
func NewHostLimiter(interval time.Duration) *HostLimiter {
	return &HostLimiter{
		interval: interval,
		next:     make(map[string]time.Time),
	}
}

// Wait blocks until host may be contacted again, reserving the slot for the
// caller. It returns early with the context error if ctx is done first.
func (rl *HostLimiter) Wait(ctx context.Context, host string) error {
	rl.mu.Lock()
	now := time.Now()
	slot := rl.next[host]
	if slot.Before(now) {
		slot = now
	}
	rl.next[host] = slot.Add(rl.interval)
	rl.requests++
	delay := slot.Sub(now)
	if delay > 0 {
		rl.delayed++
		rl.waited += delay
	}
	rl.mu.Unlock()

	if delay <= 0 {
		return nil
	}
	logger.Debug("throttling request", "host", host, "delay", delay)

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// GetStats returns current limiter statistics
func (rl *HostLimiter) GetStats() map[string]interface{} {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	return map[string]interface{}{
		"hosts":            len(rl.next),
		"requests":         rl.requests,
		"delayed_requests": rl.delayed,
		"total_wait_ms":    rl.waited.Milliseconds(),
		"interval_ms":      rl.interval.Milliseconds(),
	}
}
