package artificial

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"grokcord/sources/conversation"
	"grokcord/sources/metrics"
	"grokcord/sources/tracing"

	"github.com/sony/gobreaker"
)

// ResilientCompleter retries transient provider failures with capped
// exponential backoff and stops calling the provider while its breaker is open.
type ResilientCompleter struct {
	inner    Completer
	provider string
	retry    RetryConfig
	breaker  *gobreaker.CircuitBreaker
	metrics  *metrics.MetricsService
	sleep    func(ctx context.Context, d time.Duration) error
}

func NewResilientCompleter(inner Completer, provider string, config *AIConfig, metrics *metrics.MetricsService, log *tracing.Logger) *ResilientCompleter {
	threshold := config.Breaker
	settings := gobreaker.Settings{
		Name:        provider,
		MaxRequests: threshold.MaxRequests,
		Interval:    threshold.Interval,
		Timeout:     threshold.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < threshold.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= threshold.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.W("Circuit breaker state changed", tracing.AiKind, name, "from", from.String(), "to", to.String())
			metrics.SetBreakerState(name, float64(to))
		},
		IsSuccessful: func(err error) bool {
			return err == nil || !isTransient(err)
		},
	}

	metrics.SetBreakerState(provider, float64(gobreaker.StateClosed))

	return &ResilientCompleter{
		inner:    inner,
		provider: provider,
		retry:    config.Retry,
		breaker:  gobreaker.NewCircuitBreaker(settings),
		metrics:  metrics,
		sleep:    sleepContext,
	}
}

func (x *ResilientCompleter) Complete(ctx context.Context, log *tracing.Logger, request conversation.Request) (*Completion, error) {
	attempts := max(x.retry.MaxAttempts, 1)

	for attempt := 1; ; attempt++ {
		result, err := x.breaker.Execute(func() (interface{}, error) {
			return x.inner.Complete(ctx, log, request)
		})
		if err == nil {
			return result.(*Completion), nil
		}

		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			log.W("Completion provider short-circuited", tracing.AiKind, x.provider, tracing.InnerError, err)
			return nil, fmt.Errorf("%w: %w", ErrProviderUnavailable, err)
		}

		if attempt >= attempts || !isTransient(err) {
			return nil, err
		}

		backoff := x.backoff(attempt)
		log.W("Retrying completion", tracing.AiKind, x.provider, tracing.AiAttempt, attempt, tracing.AiBackoff, backoff.String(), tracing.InnerError, err)
		x.metrics.RecordAIRetry(x.provider)

		if err := x.sleep(ctx, backoff); err != nil {
			return nil, err
		}
	}
}

// backoff doubles the initial delay per attempt, caps it and adds up to 10% jitter.
func (x *ResilientCompleter) backoff(attempt int) time.Duration {
	delay := x.retry.InitialBackoff
	for i := 1; i < attempt && delay < x.retry.MaxBackoff; i++ {
		delay *= 2
	}
	delay = min(delay, x.retry.MaxBackoff)
	if delay <= 0 {
		return 0
	}
	return delay + time.Duration(rand.Int64N(int64(delay)/10+1))
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
