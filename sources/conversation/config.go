package conversation

import (
	"fmt"
	"strings"
	"time"

	"grokcord/sources/configuration"
)

type ContextConfig struct {
	SizeMetric string
	Encoding   string
	MaxSize    int
	MaxTurns   int
	IdleTTL    time.Duration

	SimpleWordThreshold int
	ShortQuestionWords  int

	SimpleMaxTokens   int
	DetailedMaxTokens int
}

func NewContextConfig(config *configuration.Config) *ContextConfig {
	return &ContextConfig{
		SizeMetric:          strings.ToLower(config.Conversation.SizeMetric),
		Encoding:            config.Conversation.Encoding,
		MaxSize:             config.Conversation.MaxSize,
		MaxTurns:            config.Conversation.MaxTurns,
		IdleTTL:             config.Conversation.IdleTTL,
		SimpleWordThreshold: config.Conversation.SimpleWordThreshold,
		ShortQuestionWords:  config.Conversation.ShortQuestionWords,
		SimpleMaxTokens:     config.AI.SimpleMaxTokens,
		DetailedMaxTokens:   config.AI.DetailedMaxTokens,
	}
}

// NewSizer builds the size metric named by the configuration.
func NewSizer(config *ContextConfig) (Sizer, error) {
	switch config.SizeMetric {
	case "", MetricChars:
		return CharSizer{}, nil
	case MetricTokens:
		encoding := config.Encoding
		if encoding == "" {
			encoding = "cl100k_base"
		}
		return NewTokenSizer(encoding)
	default:
		return nil, fmt.Errorf("unknown conversation size metric %q", config.SizeMetric)
	}
}
