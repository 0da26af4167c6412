package conversation

import (
	"fmt"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
)

const (
	MetricChars  = "chars"
	MetricTokens = "tokens"
)

// Sizer measures turn text against the transcript ceiling.
type Sizer interface {
	Size(text string) int
	Unit() string
}

// CharSizer counts Unicode code points.
type CharSizer struct{}

func (CharSizer) Size(text string) int {
	return utf8.RuneCountInString(text)
}

func (CharSizer) Unit() string {
	return MetricChars
}

// TokenSizer estimates tokens with a tiktoken encoding.
type TokenSizer struct {
	encoding *tiktoken.Tiktoken
}

func NewTokenSizer(encoding string) (*TokenSizer, error) {
	tkm, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to get tokenizer encoding %q: %w", encoding, err)
	}
	return &TokenSizer{encoding: tkm}, nil
}

func (x *TokenSizer) Size(text string) int {
	return len(x.encoding.Encode(text, nil, nil))
}

func (x *TokenSizer) Unit() string {
	return MetricTokens
}
