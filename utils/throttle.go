package utils

import (
	"context"
	"sync"
	"time"
)

// Throttle enforces a minimum interval between consecutive requests.
type Throttle struct {
	mu          sync.Mutex
	interval    time.Duration
	lastRequest time.Time
}

// NewThrottle creates a Throttle allowing one request per rateLimitMs.
// A non-positive rate disables throttling.
func NewThrottle(rateLimitMs int) *Throttle {
	return &Throttle{interval: time.Duration(rateLimitMs) * time.Millisecond}
}

// Wait blocks until the next request may start or ctx is done.
func (t *Throttle) Wait(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.interval > 0 && !t.lastRequest.IsZero() {
		if wait := t.interval - time.Since(t.lastRequest); wait > 0 {
			timer := time.NewTimer(wait)
			defer timer.Stop()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-timer.C:
			}
		}
	}
	t.lastRequest = time.Now()
	return nil
}

// URLSet tracks visited URLs.
type URLSet struct {
	mu   sync.RWMutex
	seen map[string]struct{}
}

// NewURLSet creates an empty URLSet.
func NewURLSet() *URLSet {
	return &URLSet{seen: make(map[string]struct{})}
}

// Add returns true if the URL was newly added, false if already present.
func (s *URLSet) Add(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.seen[url]; exists {
		return false
	}
	s.seen[url] = struct{}{}
	return true
}

// Size returns the number of unique URLs tracked.
func (s *URLSet) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.seen)
}
