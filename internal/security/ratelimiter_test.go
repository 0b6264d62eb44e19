package security

import (
	"sync"
	"testing"
	"time"
)

func TestRateLimiter_Allow(t *testing.T) {
	limit := 5
	window := time.Second
	rl := NewRateLimiter(limit, window)

	key := "203.0.113.7"

	// Requests up to the limit are allowed
	for i := 0; i < limit; i++ {
		if !rl.Allow(key) {
			t.Errorf("Request %d should be allowed", i+1)
		}
	}

	// The next request is denied
	if rl.Allow(key) {
		t.Error("Request should be denied after exceeding limit")
	}
}

func TestRateLimiter_Allow_DifferentKeys(t *testing.T) {
	limit := 3
	rl := NewRateLimiter(limit, time.Second)

	key1 := "198.51.100.1"
	key2 := "198.51.100.2"

	for i := 0; i < limit; i++ {
		if !rl.Allow(key1) {
			t.Errorf("Request %d for key1 should be allowed", i+1)
		}
	}

	if rl.Allow(key1) {
		t.Error("key1 should be denied after exceeding limit")
	}

	if !rl.Allow(key2) {
		t.Error("key2 should still be allowed")
	}
}

func TestRateLimiter_Allow_WindowSlides(t *testing.T) {
	limit := 2
	window := 100 * time.Millisecond // Short window for testing
	rl := NewRateLimiter(limit, window)

	key := "203.0.113.8"

	for i := 0; i < limit; i++ {
		if !rl.Allow(key) {
			t.Errorf("Request %d should be allowed", i+1)
		}
	}

	if rl.Allow(key) {
		t.Error("Request should be denied after exceeding limit")
	}

	// Wait for the recorded requests to fall out of the window
	time.Sleep(window + 20*time.Millisecond)

	if !rl.Allow(key) {
		t.Error("Request should be allowed after window slides past old entries")
	}
}

func TestRateLimiter_DeniedAttemptNotRecorded(t *testing.T) {
	limit := 1
	rl := NewRateLimiter(limit, time.Second)

	key := "203.0.113.9"

	if !rl.Allow(key) {
		t.Fatal("First request should be allowed")
	}

	// Denied attempts must not extend the lockout
	for i := 0; i < 10; i++ {
		if rl.Allow(key) {
			t.Fatal("Request over the limit should be denied")
		}
	}

	if got := rl.Remaining(key); got != 0 {
		t.Errorf("Remaining = %d, want 0", got)
	}
}

func TestRateLimiter_BoundaryTimestampPruned(t *testing.T) {
	limit := 1
	window := time.Minute
	rl := NewRateLimiter(limit, window)

	key := "203.0.113.10"

	// An entry exactly one window old sits on the boundary and must be
	// pruned, freeing the slot
	rl.windowsMux.Lock()
	rl.windows[key] = []time.Time{time.Now().Add(-window)}
	rl.windowsMux.Unlock()

	if !rl.Allow(key) {
		t.Error("Entry exactly at the window boundary should be pruned")
	}
}

func TestRateLimiter_RetryAfter(t *testing.T) {
	rl := NewRateLimiter(5, 15*time.Minute)

	if got := rl.RetryAfter(); got != 900 {
		t.Errorf("RetryAfter() = %d, want 900", got)
	}
}

func TestRateLimiter_Sweep_EvictsStaleKeys(t *testing.T) {
	window := 50 * time.Millisecond
	rl := NewRateLimiter(3, window)

	rl.Allow("key-a")
	rl.Allow("key-b")

	time.Sleep(window + 20*time.Millisecond)
	rl.Sweep()

	rl.windowsMux.Lock()
	tracked := len(rl.windows)
	rl.windowsMux.Unlock()

	if tracked != 0 {
		t.Errorf("Sweep left %d stale keys tracked, want 0", tracked)
	}
}

func TestRateLimiter_ConcurrentAccess(t *testing.T) {
	limit := 50
	rl := NewRateLimiter(limit, time.Minute)

	key := "203.0.113.11"
	workers := 10
	perWorker := 20

	var wg sync.WaitGroup
	var mu sync.Mutex
	granted := 0

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				if rl.Allow(key) {
					mu.Lock()
					granted++
					mu.Unlock()
				}
			}
		}()
	}
	wg.Wait()

	if granted != limit {
		t.Errorf("Granted %d requests concurrently, want exactly %d", granted, limit)
	}
}
