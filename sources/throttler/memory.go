package throttler

import (
	"context"
	"sync"
	"time"
)

type counter struct {
	start time.Time
	count int
}

// MemoryLimiter keeps one counter per user for the current window only.
type MemoryLimiter struct {
	mu       sync.Mutex
	counters map[string]*counter
	limit    int
	window   time.Duration
	now      func() time.Time
}

func NewMemoryLimiter(limit int, window time.Duration, now func() time.Time) *MemoryLimiter {
	if now == nil {
		now = time.Now
	}
	return &MemoryLimiter{counters: make(map[string]*counter), limit: limit, window: window, now: now}
}

func (x *MemoryLimiter) Allow(_ context.Context, userID string) (Decision, error) {
	if x.limit <= 0 {
		return Decision{Allowed: true}, nil
	}

	now := x.now()
	start := windowStart(now, x.window)

	x.mu.Lock()
	defer x.mu.Unlock()

	c, ok := x.counters[userID]
	if !ok || !c.start.Equal(start) {
		c = &counter{start: start}
		x.counters[userID] = c
	}

	if c.count < x.limit {
		c.count++
		return decide(c.count, x.limit, start.Add(x.window), now), nil
	}

	return decide(x.limit+1, x.limit, start.Add(x.window), now), nil
}

// Sweep forgets counters from windows that have already closed.
func (x *MemoryLimiter) Sweep() int {
	start := windowStart(x.now(), x.window)

	x.mu.Lock()
	defer x.mu.Unlock()

	removed := 0
	for userID, c := range x.counters {
		if c.start.Before(start) {
			delete(x.counters, userID)
			removed++
		}
	}
	return removed
}

func (x *MemoryLimiter) Len() int {
	x.mu.Lock()
	defer x.mu.Unlock()
	return len(x.counters)
}
