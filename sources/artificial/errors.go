package artificial

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	openrouter "github.com/revrost/go-openrouter"
	"github.com/sashabaranov/go-openai"
)

var (
	ErrEmptyCompletion     = errors.New("provider returned an empty completion")
	ErrProviderUnavailable = errors.New("completion provider is temporarily unavailable")
	ErrImagesDisabled      = errors.New("image generation is disabled")
)

// CompletionError is a failed call to a completion provider. Status is zero
// when no HTTP response was received.
type CompletionError struct {
	Provider string
	Status   int
	Message  string
	Err      error
}

func (e *CompletionError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s: %s", e.Provider, e.Message)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Provider, e.Status, e.Message)
}

func (e *CompletionError) Unwrap() error {
	return e.Err
}

// Transient reports whether repeating the call may succeed.
func (e *CompletionError) Transient() bool {
	if errors.Is(e.Err, context.Canceled) {
		return false
	}
	switch {
	case e.Status == 0:
		return true
	case e.Status == http.StatusRequestTimeout, e.Status == http.StatusTooManyRequests:
		return true
	default:
		return e.Status >= http.StatusInternalServerError
	}
}

// IsCompletionError reports whether err came from the completion provider
// rather than from local processing.
func IsCompletionError(err error) bool {
	var completion *CompletionError
	return errors.As(err, &completion) || errors.Is(err, ErrEmptyCompletion) || errors.Is(err, ErrProviderUnavailable)
}

func isTransient(err error) bool {
	var completion *CompletionError
	if errors.As(err, &completion) {
		return completion.Transient()
	}
	return false
}

func openAIError(provider string, err error) error {
	var api *openai.APIError
	if errors.As(err, &api) {
		return &CompletionError{Provider: provider, Status: api.HTTPStatusCode, Message: api.Message, Err: err}
	}

	var request *openai.RequestError
	if errors.As(err, &request) {
		return &CompletionError{Provider: provider, Status: request.HTTPStatusCode, Message: request.Error(), Err: err}
	}

	return &CompletionError{Provider: provider, Message: err.Error(), Err: err}
}

func openRouterError(provider string, err error) error {
	var api *openrouter.APIError
	if errors.As(err, &api) {
		return &CompletionError{Provider: provider, Status: api.HTTPStatusCode, Message: api.Message, Err: err}
	}

	return &CompletionError{Provider: provider, Message: err.Error(), Err: err}
}
