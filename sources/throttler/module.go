package throttler

import (
	"context"
	"fmt"
	"time"

	"grokcord/sources/tracing"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

type limiterParams struct {
	fx.In

	Config *ThrottlerConfig
	Redis  *redis.Client `optional:"true"`
	Log    *tracing.Logger
}

func NewLimiter(lc fx.Lifecycle, params limiterParams) (Limiter, error) {
	config := params.Config

	switch config.Backend {
	case BackendRedis:
		if params.Redis == nil {
			return nil, fmt.Errorf("throttler backend %q requires a redis client", config.Backend)
		}
		params.Log.I("Rate limiter initialized", tracing.LimiterBackend, config.Backend, "limit", config.Limit, "window", config.Window.String())
		return NewRedisLimiter(params.Redis, config.Limit, config.Window, params.Log), nil

	case BackendMemory:
		limiter := NewMemoryLimiter(config.Limit, config.Window, nil)
		stop := make(chan struct{})
		done := make(chan struct{})

		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				go func() {
					defer close(done)
					ticker := time.NewTicker(config.Window)
					defer ticker.Stop()
					for {
						select {
						case <-stop:
							return
						case <-ticker.C:
							limiter.Sweep()
						}
					}
				}()
				return nil
			},
			OnStop: func(ctx context.Context) error {
				close(stop)
				<-done
				return nil
			},
		})

		params.Log.I("Rate limiter initialized", tracing.LimiterBackend, config.Backend, "limit", config.Limit, "window", config.Window.String())
		return limiter, nil

	default:
		return nil, fmt.Errorf("unknown throttler backend %q", config.Backend)
	}
}

var Module = fx.Module("throttler",
	fx.Provide(
		NewThrottlerConfig,
		NewLimiter,
	),
)
