package throttler

import (
	"context"
	"fmt"
	"time"

	"grokcord/sources/platform"
	"grokcord/sources/tracing"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter shares fixed-window counters between bot replicas.
type RedisLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	log    *tracing.Logger
	now    func() time.Time
}

func NewRedisLimiter(client *redis.Client, limit int, window time.Duration, log *tracing.Logger) *RedisLimiter {
	return &RedisLimiter{client: client, limit: limit, window: window, log: log, now: time.Now}
}

func (x *RedisLimiter) key(userID string, start time.Time) string {
	return fmt.Sprintf("throttle:%s:%d", userID, start.Unix())
}

// Allow fails open: a Redis error admits the request and is logged.
func (x *RedisLimiter) Allow(ctx context.Context, userID string) (Decision, error) {
	if x.limit <= 0 {
		return Decision{Allowed: true}, nil
	}

	ctx, cancel := platform.ContextTimeout(ctx)
	defer cancel()

	now := x.now()
	start := windowStart(now, x.window)
	key := x.key(userID, start)

	pipe := x.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, x.window+time.Second)

	if _, err := pipe.Exec(ctx); err != nil {
		x.log.E("Error incrementing throttle counter", "key", key, tracing.UserId, userID, tracing.InnerError, err)
		return Decision{Allowed: true, Remaining: x.limit}, nil
	}

	return decide(int(incr.Val()), x.limit, start.Add(x.window), now), nil
}
