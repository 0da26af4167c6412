package throttler

import (
	"context"
	"time"
)

// Decision is the outcome of one admission check.
type Decision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// Limiter admits at most a fixed number of requests per user in each window.
type Limiter interface {
	Allow(ctx context.Context, userID string) (Decision, error)
}

// windowStart aligns t to the beginning of its fixed window.
func windowStart(t time.Time, window time.Duration) time.Time {
	return t.Truncate(window)
}

func decide(count, limit int, resetsAt, now time.Time) Decision {
	if count > limit {
		return Decision{Allowed: false, Remaining: 0, RetryAfter: resetsAt.Sub(now)}
	}
	return Decision{Allowed: true, Remaining: limit - count}
}
