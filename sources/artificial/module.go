package artificial

import (
	"fmt"

	"grokcord/sources/metrics"
	"grokcord/sources/tracing"

	openrouter "github.com/revrost/go-openrouter"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/fx"
)

var Module = fx.Module(
	"artificial",
	fx.Provide(
		NewAIConfig,
		NewGrokClient,
		NewOpenRouterClient,
		NewImager,
		NewCompleter,
		NewDialer,
	),
)

// NewCompleter picks the configured provider and wraps it with retries and a breaker.
func NewCompleter(config *AIConfig, grok *openai.Client, router *openrouter.Client, metrics *metrics.MetricsService, log *tracing.Logger) (Completer, error) {
	var inner Completer
	switch config.Provider {
	case ProviderXAI, "":
		inner = NewGrokCompleter(grok, config, metrics)
	case ProviderOpenRouter:
		inner = NewRouterCompleter(router, config, metrics)
	default:
		return nil, fmt.Errorf("unknown completion provider %q", config.Provider)
	}

	provider := config.Provider
	if provider == "" {
		provider = ProviderXAI
	}

	log.I("Completion provider selected", tracing.AiKind, provider, tracing.AiModel, config.Model, "fallback_models", config.FallbackModels)

	return NewResilientCompleter(inner, provider, config, metrics, log), nil
}
