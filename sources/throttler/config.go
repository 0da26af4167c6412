package throttler

import (
	"strings"
	"time"

	"grokcord/sources/configuration"
)

const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

type ThrottlerConfig struct {
	Backend string
	Limit   int
	Window  time.Duration
}

func NewThrottlerConfig(config *configuration.Config) *ThrottlerConfig {
	backend := strings.ToLower(strings.TrimSpace(config.Throttler.Backend))
	if backend == "" {
		backend = BackendMemory
	}

	window := config.Throttler.Window
	if window <= 0 {
		window = time.Minute
	}

	return &ThrottlerConfig{Backend: backend, Limit: config.Throttler.Limit, Window: window}
}
