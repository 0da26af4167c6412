package artificial

import (
	"context"
	"net/http"
	"strings"
	"time"

	"grokcord/sources/conversation"
	"grokcord/sources/metrics"
	"grokcord/sources/tracing"

	openrouter "github.com/revrost/go-openrouter"
	"github.com/shopspring/decimal"
)

const ProviderOpenRouter = "openrouter"

func NewOpenRouterClient(client *http.Client, config *AIConfig) *openrouter.Client {
	clientConfig := openrouter.DefaultConfig(config.OpenRouterToken)
	clientConfig.HTTPClient = client
	clientConfig.XTitle = "Grokcord"
	clientConfig.HttpReferer = "https://github.com/grokcord/grokcord"

	return openrouter.NewClientWithConfig(*clientConfig)
}

// RouterCompleter sends the request through OpenRouter, which falls back to
// the next model on provider failures and reports the real cost.
type RouterCompleter struct {
	ai      *openrouter.Client
	config  *AIConfig
	metrics *metrics.MetricsService
}

func NewRouterCompleter(ai *openrouter.Client, config *AIConfig, metrics *metrics.MetricsService) *RouterCompleter {
	return &RouterCompleter{ai: ai, config: config, metrics: metrics}
}

func (x *RouterCompleter) Complete(ctx context.Context, log *tracing.Logger, request conversation.Request) (*Completion, error) {
	messages := make([]openrouter.ChatCompletionMessage, 0, len(request.Turns)+1)
	for _, turn := range request.Messages() {
		messages = append(messages, openrouter.ChatCompletionMessage{
			Role:    string(turn.Role),
			Content: openrouter.Content{Text: turn.Text},
		})
	}

	completion := openrouter.ChatCompletionRequest{
		Model:       x.config.Model,
		Models:      x.config.FallbackModels,
		Messages:    messages,
		Temperature: x.config.Temperature,
		MaxTokens:   request.Policy.MaxTokens,
		Usage:       &openrouter.IncludeUsage{Include: true},
		Provider: &openrouter.ChatProvider{
			DataCollection: openrouter.DataCollectionDeny,
			Sort:           openrouter.ProviderSortingLatency,
		},
	}

	log = log.With(tracing.AiKind, "openrouter/dialer", tracing.AiModel, completion.Model, tracing.AiBrevity, request.Policy.Brevity.String())
	log.I("ai requested", "messages", len(messages), "max_tokens", completion.MaxTokens)

	start := time.Now()
	response, err := x.ai.CreateChatCompletion(ctx, completion)
	x.metrics.RecordAIRequestDuration(time.Since(start), completion.Model)
	if err != nil {
		switch e := err.(type) {
		case *openrouter.APIError:
			log.E("OpenRouter API error", "code", e.Code, "message", e.Message, "http_status", e.HTTPStatusCode, tracing.InnerError, err)
		default:
			log.E("Failed to complete dialogue", tracing.InnerError, err)
		}
		return nil, openRouterError(ProviderOpenRouter, err)
	}

	if len(response.Choices) == 0 {
		log.W("OpenRouter returned no choices")
		return nil, ErrEmptyCompletion
	}

	text := strings.TrimSpace(response.Choices[0].Message.Content.Text)
	if text == "" {
		log.W("OpenRouter returned an empty message")
		return nil, ErrEmptyCompletion
	}

	model := response.Model
	if model == "" {
		model = completion.Model
	}

	result := &Completion{
		Text:             text,
		Model:            model,
		PromptTokens:     response.Usage.PromptTokens,
		CompletionTokens: response.Usage.CompletionTokens,
		Cost:             decimal.NewFromFloat(response.Usage.Cost),
	}

	log.I("ai completed", tracing.AiCost, result.Cost.String(), tracing.AiTokens, result.Tokens())

	return result, nil
}
