package artificial

import (
	"context"

	"grokcord/sources/conversation"
	"grokcord/sources/tracing"

	"github.com/shopspring/decimal"
)

type Completion struct {
	Text             string
	Model            string
	PromptTokens     int
	CompletionTokens int
	Cost             decimal.Decimal
}

func (c *Completion) Tokens() int {
	return c.PromptTokens + c.CompletionTokens
}

// Completer turns a prepared conversation request into a reply.
type Completer interface {
	Complete(ctx context.Context, log *tracing.Logger, request conversation.Request) (*Completion, error)
}
