package artificial

import (
	"fmt"
	"time"

	"grokcord/sources/configuration"

	"github.com/shopspring/decimal"
)

type AIConfig struct {
	Provider        string
	XAIToken        string
	XAIBaseURL      string
	OpenRouterToken string

	Model          string
	FallbackModels []string
	Temperature    float32
	Timeout        time.Duration

	Pricing Pricing
	Retry   RetryConfig
	Breaker BreakerConfig

	ImagesEnabled bool
	ImagesModel   string
}

type RetryConfig struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

type BreakerConfig struct {
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	MinRequests      uint32
	FailureThreshold float64
}

func NewAIConfig(config *configuration.Config) (*AIConfig, error) {
	pricing, err := ParsePricing(config.AI.Pricing.InputPerMillion, config.AI.Pricing.OutputPerMillion)
	if err != nil {
		return nil, err
	}

	retry := RetryConfig{
		MaxAttempts:    config.AI.Retry.MaxAttempts,
		InitialBackoff: config.AI.Retry.InitialBackoff,
		MaxBackoff:     config.AI.Retry.MaxBackoff,
	}
	if retry.MaxAttempts <= 0 {
		retry.MaxAttempts = 1
	}
	if retry.InitialBackoff <= 0 {
		retry.InitialBackoff = 500 * time.Millisecond
	}
	if retry.MaxBackoff < retry.InitialBackoff {
		retry.MaxBackoff = retry.InitialBackoff
	}

	breaker := BreakerConfig{
		MaxRequests:      config.AI.Breaker.MaxRequests,
		Interval:         config.AI.Breaker.Interval,
		Timeout:          config.AI.Breaker.Timeout,
		MinRequests:      config.AI.Breaker.MinRequests,
		FailureThreshold: config.AI.Breaker.FailureThreshold,
	}
	if breaker.MinRequests == 0 {
		breaker.MinRequests = 5
	}
	if breaker.FailureThreshold <= 0 || breaker.FailureThreshold > 1 {
		breaker.FailureThreshold = 0.6
	}

	images := config.AI.Images.Model
	if images == "" {
		images = "grok-2-image"
	}

	return &AIConfig{
		Provider:        config.AI.Provider,
		XAIToken:        config.AI.XAIToken,
		XAIBaseURL:      config.AI.XAIBaseURL,
		OpenRouterToken: config.AI.OpenRouterToken,
		Model:           config.AI.Model,
		FallbackModels:  config.AI.FallbackModels,
		Temperature:     config.AI.Temperature,
		Timeout:         config.AI.Timeout,
		Pricing:         pricing,
		Retry:           retry,
		Breaker:         breaker,
		ImagesEnabled:   config.AI.Images.Enabled,
		ImagesModel:     images,
	}, nil
}

// Pricing holds USD prices per million tokens.
type Pricing struct {
	InputPerMillion  decimal.Decimal
	OutputPerMillion decimal.Decimal
}

var million = decimal.NewFromInt(1_000_000)

func ParsePricing(input, output string) (Pricing, error) {
	var pricing Pricing
	var err error

	if pricing.InputPerMillion, err = parsePrice(input); err != nil {
		return Pricing{}, fmt.Errorf("invalid input price %q: %w", input, err)
	}
	if pricing.OutputPerMillion, err = parsePrice(output); err != nil {
		return Pricing{}, fmt.Errorf("invalid output price %q: %w", output, err)
	}

	return pricing, nil
}

func parsePrice(value string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, nil
	}
	price, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, err
	}
	if price.IsNegative() {
		return decimal.Zero, fmt.Errorf("price must not be negative")
	}
	return price, nil
}

func (p Pricing) Cost(promptTokens, completionTokens int) decimal.Decimal {
	input := p.InputPerMillion.Mul(decimal.NewFromInt(int64(promptTokens)))
	output := p.OutputPerMillion.Mul(decimal.NewFromInt(int64(completionTokens)))
	return input.Add(output).Div(million)
}
