package artificial

import (
	"context"
	"net/http"
	"strings"
	"time"

	"grokcord/sources/conversation"
	"grokcord/sources/metrics"
	"grokcord/sources/tracing"

	"github.com/sashabaranov/go-openai"
)

const ProviderXAI = "xai"

func NewGrokClient(client *http.Client, config *AIConfig) *openai.Client {
	clientConfig := openai.DefaultConfig(config.XAIToken)
	clientConfig.BaseURL = config.XAIBaseURL
	clientConfig.HTTPClient = client
	return openai.NewClientWithConfig(clientConfig)
}

// GrokCompleter talks to the xAI chat completions endpoint. xAI does not report
// cost, so it is estimated from the configured prices.
type GrokCompleter struct {
	ai      *openai.Client
	config  *AIConfig
	metrics *metrics.MetricsService
}

func NewGrokCompleter(ai *openai.Client, config *AIConfig, metrics *metrics.MetricsService) *GrokCompleter {
	return &GrokCompleter{ai: ai, config: config, metrics: metrics}
}

func (x *GrokCompleter) Complete(ctx context.Context, log *tracing.Logger, request conversation.Request) (*Completion, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(request.Turns)+1)
	for _, turn := range request.Messages() {
		messages = append(messages, openai.ChatCompletionMessage{Role: string(turn.Role), Content: turn.Text})
	}

	completion := openai.ChatCompletionRequest{
		Model:       x.config.Model,
		Messages:    messages,
		Temperature: x.config.Temperature,
		MaxTokens:   request.Policy.MaxTokens,
	}

	log = log.With(tracing.AiKind, "xai/dialer", tracing.AiModel, completion.Model, tracing.AiBrevity, request.Policy.Brevity.String())
	log.I("ai requested", "messages", len(messages), "max_tokens", completion.MaxTokens)

	start := time.Now()
	response, err := x.ai.CreateChatCompletion(ctx, completion)
	x.metrics.RecordAIRequestDuration(time.Since(start), completion.Model)
	if err != nil {
		log.E("Grok API error", tracing.InnerError, err)
		return nil, openAIError(ProviderXAI, err)
	}

	if len(response.Choices) == 0 {
		log.W("Grok returned no choices")
		return nil, ErrEmptyCompletion
	}

	text := strings.TrimSpace(response.Choices[0].Message.Content)
	if text == "" {
		log.W("Grok returned an empty message")
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
	}
	result.Cost = x.config.Pricing.Cost(result.PromptTokens, result.CompletionTokens)

	log.I("ai completed", tracing.AiCost, result.Cost.String(), tracing.AiTokens, result.Tokens())

	return result, nil
}
