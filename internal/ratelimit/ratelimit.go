package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// SourceRateLimiter enforces a minimum delay between consecutive requests to
// the same provider. Different providers never block each other.
type SourceRateLimiter struct {
	mu        sync.Mutex
	lastCall  map[string]time.Time // key: source name
	minDelay  time.Duration        // default delay between requests to a source
	overrides map[string]time.Duration
}

// NewSourceRateLimiter creates a rate limiter with the given default delay.
// A delay of zero (or less) makes Wait a no-op for that source.
func NewSourceRateLimiter(minDelay time.Duration) *SourceRateLimiter {
	return &SourceRateLimiter{
		lastCall:  make(map[string]time.Time),
		minDelay:  minDelay,
		overrides: make(map[string]time.Duration),
	}
}

// SetDelay overrides the delay for a single source.
func (r *SourceRateLimiter) SetDelay(source string, delay time.Duration) {
	r.mu.Lock()
	r.overrides[source] = delay
	r.mu.Unlock()
}

func (r *SourceRateLimiter) delayFor(source string) time.Duration {
	if d, ok := r.overrides[source]; ok {
		return d
	}
	return r.minDelay
}

// Wait blocks until enough time has passed since the last request to source.
// Returns an error if the context is cancelled while waiting.
func (r *SourceRateLimiter) Wait(ctx context.Context, source string) error {
	r.mu.Lock()
	delay := r.delayFor(source)
	if delay <= 0 {
		r.mu.Unlock()
		return nil
	}

	last, ok := r.lastCall[source]
	now := time.Now()

	if !ok || now.Sub(last) >= delay {
		r.lastCall[source] = now
		r.mu.Unlock()
		return nil
	}

	remaining := delay - now.Sub(last)
	r.mu.Unlock()

	select {
	case <-ctx.Done():
		return fmt.Errorf("rate limiter wait for %s: %w", source, ctx.Err())
	case <-time.After(remaining):
	}

	r.mu.Lock()
	r.lastCall[source] = time.Now()
	r.mu.Unlock()

	return nil
}
