package persistence

import (
	"strings"

	"grokcord/sources/configuration"
	"grokcord/sources/tracing"

	"github.com/redis/go-redis/v9"
)

// NewRedis connects to Redis only when the rate limiter is backed by it, otherwise it returns nil.
func NewRedis(config *configuration.Config, log *tracing.Logger) *redis.Client {
	if !strings.EqualFold(config.Throttler.Backend, "redis") {
		return nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:                  redisAddr(config.Redis),
		Password:              config.Redis.Password,
		DB:                    config.Redis.DB,
		MaxRetries:            config.Redis.MaxRetries,
		DialTimeout:           config.Redis.DialTimeout,
		ContextTimeoutEnabled: true,
	})

	log.I("Redis client initialized successfully", "addr", redisAddr(config.Redis))
	return rdb
}
