package security

import (
	"sync"
	"time"
)

// RateLimiter implements per-client sliding-window rate limiting. Each client
// key maps to the timestamps of its granted requests inside the trailing
// window; entries at or before now-window are pruned on every access.
type RateLimiter struct {
	windows    map[string][]time.Time
	windowsMux sync.Mutex
	limit      int
	window     time.Duration
}

// NewRateLimiter creates a new rate limiter allowing limit requests per
// client key within the given window
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		windows: make(map[string][]time.Time),
		limit:   limit,
		window:  window,
	}
}

// Allow checks if a request is allowed for the given client key. A denied
// attempt is not recorded, so it does not extend the caller's lockout.
func (rl *RateLimiter) Allow(clientKey string) bool {
	rl.windowsMux.Lock()
	defer rl.windowsMux.Unlock()

	now := time.Now()
	kept := rl.prune(clientKey, now)

	if len(kept) >= rl.limit {
		return false
	}

	rl.windows[clientKey] = append(kept, now)
	return true
}

// RetryAfter returns the retry hint in seconds for a denied request
func (rl *RateLimiter) RetryAfter() int {
	return int(rl.window / time.Second)
}

// Limit returns the maximum number of requests per window
func (rl *RateLimiter) Limit() int {
	return rl.limit
}

// Remaining returns how many requests the client key has left in the
// current window
func (rl *RateLimiter) Remaining(clientKey string) int {
	rl.windowsMux.Lock()
	defer rl.windowsMux.Unlock()

	kept := rl.prune(clientKey, time.Now())
	if len(kept) == 0 {
		delete(rl.windows, clientKey)
	} else {
		rl.windows[clientKey] = kept
	}

	remaining := rl.limit - len(kept)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// prune drops timestamps at or before now-window and evicts the key when
// nothing remains. Caller must hold windowsMux.
func (rl *RateLimiter) prune(clientKey string, now time.Time) []time.Time {
	cutoff := now.Add(-rl.window)

	entries, exists := rl.windows[clientKey]
	if !exists {
		return nil
	}

	kept := entries[:0]
	for _, ts := range entries {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}

	if len(kept) == 0 {
		delete(rl.windows, clientKey)
		return nil
	}

	return kept
}

// Sweep prunes every tracked key and evicts the empty ones
func (rl *RateLimiter) Sweep() {
	rl.windowsMux.Lock()
	defer rl.windowsMux.Unlock()

	now := time.Now()
	for key := range rl.windows {
		if kept := rl.prune(key, now); kept != nil {
			rl.windows[key] = kept
		}
	}
}

// StartSweep starts periodic eviction of stale client keys. The returned
// function stops the sweeper.
func (rl *RateLimiter) StartSweep(interval time.Duration) func() {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-ticker.C:
				rl.Sweep()
			case <-done:
				ticker.Stop()
				return
			}
		}
	}()

	return func() { close(done) }
}
