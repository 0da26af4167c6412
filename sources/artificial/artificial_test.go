package artificial

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"grokcord/sources/conversation"
	"grokcord/sources/features"
	"grokcord/sources/metrics"
	"grokcord/sources/repository"
	"grokcord/sources/tracing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var (
	testLog     = tracing.NewLogger(io.Discard, "error")
	testMetrics = metrics.NewMetricsService(testLog)
	testKey     = conversation.Key{UserID: "42", ChannelID: "7"}
)

func testConfig(baseURL string) *AIConfig {
	return &AIConfig{
		Provider:       ProviderXAI,
		XAIToken:       "xai-test",
		XAIBaseURL:     baseURL,
		Model:          "grok-3-beta",
		Temperature:    0.7,
		Timeout:        5 * time.Second,
		Pricing:        Pricing{InputPerMillion: decimal.NewFromInt(3), OutputPerMillion: decimal.NewFromInt(15)},
		Retry:          RetryConfig{MaxAttempts: 3, InitialBackoff: time.Millisecond, MaxBackoff: 4 * time.Millisecond},
		Breaker:        BreakerConfig{MaxRequests: 1, Interval: time.Minute, Timeout: time.Minute, MinRequests: 2, FailureThreshold: 0.5},
		ImagesEnabled:  true,
		ImagesModel:    "grok-2-image",
		FallbackModels: []string{"x-ai/grok-3-mini"},
	}
}

func testStore() *conversation.Store {
	return conversation.NewStore(conversation.StoreOptions{
		MaxSize:    100000,
		Classifier: conversation.NewClassifier(8, 5),
		Policies:   conversation.NewPolicies(70, 400),
	})
}

// redirect sends every request to target regardless of the client's base URL.
type redirect struct {
	target *url.URL
}

func (r redirect) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.URL.Scheme = r.target.Scheme
	req.URL.Host = r.target.Host
	return http.DefaultTransport.RoundTrip(req)
}

func TestParsePricing(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		output  string
		wantErr bool
	}{
		{name: "plain", input: "3", output: "15"},
		{name: "fractional", input: "0.2", output: "1.5"},
		{name: "empty means free", input: "", output: ""},
		{name: "garbage", input: "three", output: "15", wantErr: true},
		{name: "negative", input: "3", output: "-1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePricing(tt.input, tt.output)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPricingCost(t *testing.T) {
	pricing, err := ParsePricing("3", "15")
	require.NoError(t, err)

	assert.True(t, decimal.RequireFromString("0.000105").Equal(pricing.Cost(10, 5)))
	assert.True(t, decimal.Zero.Equal(pricing.Cost(0, 0)))
	assert.True(t, decimal.NewFromInt(18).Equal(pricing.Cost(1_000_000, 1_000_000)))
}

func TestIsImageGenerationRequest(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"generate an image of a cat", true},
		{"Draw me a picture of the sea", true},
		{"CREATE some pixel art", true},
		{"  draw a nice image", true},
		{"can you generate an image", false},
		{"generate a poem", false},
		{"draw", false},
		{"create artwork", false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, IsImageGenerationRequest(tt.text))
		})
	}
}

func TestCompletionErrorTransient(t *testing.T) {
	tests := []struct {
		name string
		err  *CompletionError
		want bool
	}{
		{name: "network", err: &CompletionError{Status: 0, Err: errors.New("dial tcp")}, want: true},
		{name: "canceled", err: &CompletionError{Status: 0, Err: context.Canceled}, want: false},
		{name: "rate limited", err: &CompletionError{Status: http.StatusTooManyRequests}, want: true},
		{name: "timeout", err: &CompletionError{Status: http.StatusRequestTimeout}, want: true},
		{name: "server", err: &CompletionError{Status: http.StatusBadGateway}, want: true},
		{name: "bad request", err: &CompletionError{Status: http.StatusBadRequest}, want: false},
		{name: "unauthorized", err: &CompletionError{Status: http.StatusUnauthorized}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Transient())
		})
	}
}

func TestIsCompletionError(t *testing.T) {
	assert.True(t, IsCompletionError(&CompletionError{Provider: ProviderXAI, Status: 500}))
	assert.True(t, IsCompletionError(ErrEmptyCompletion))
	assert.True(t, IsCompletionError(errors.Join(ErrProviderUnavailable, errors.New("open"))))
	assert.False(t, IsCompletionError(errors.New("discord is down")))
	assert.False(t, IsCompletionError(ErrImagesDisabled))
}

func TestGrokCompleterSendsPolicy(t *testing.T) {
	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer xai-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"c1","object":"chat.completion","model":"grok-3-beta",
			"choices":[{"index":0,"message":{"role":"assistant","content":"  Paris.  "},"finish_reason":"stop"}],
			"usage":{"prompt_tokens":10,"completion_tokens":5,"total_tokens":15}}`)
	}))
	defer server.Close()

	config := testConfig(server.URL)
	completer := NewGrokCompleter(NewGrokClient(server.Client(), config), config, testMetrics)

	store := testStore()
	store.Append(testKey, conversation.RoleUser, "what is the capital of France?")

	completion, err := completer.Complete(context.Background(), testLog, store.BuildRequest(testKey))
	require.NoError(t, err)

	assert.Equal(t, "Paris.", completion.Text)
	assert.Equal(t, "grok-3-beta", completion.Model)
	assert.Equal(t, 15, completion.Tokens())
	assert.True(t, decimal.RequireFromString("0.000105").Equal(completion.Cost))

	assert.Equal(t, "grok-3-beta", captured["model"])
	assert.EqualValues(t, 70, captured["max_tokens"])
	assert.InDelta(t, 0.7, captured["temperature"], 0.001)

	messages, ok := captured["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 2)
	system := messages[0].(map[string]any)
	assert.Equal(t, "system", system["role"])
	assert.Equal(t, conversation.SimpleInstruction, system["content"])
	user := messages[1].(map[string]any)
	assert.Equal(t, "user", user["role"])
	assert.Equal(t, "what is the capital of France?", user["content"])
}

func TestGrokCompleterErrors(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantErr   error
		wantState int
	}{
		{
			name:      "rate limited",
			status:    http.StatusTooManyRequests,
			body:      `{"error":{"message":"slow down","type":"rate_limit"}}`,
			wantState: http.StatusTooManyRequests,
		},
		{
			name:      "bad request",
			status:    http.StatusBadRequest,
			body:      `{"error":{"message":"bad model","type":"invalid_request_error"}}`,
			wantState: http.StatusBadRequest,
		},
		{
			name:    "no choices",
			status:  http.StatusOK,
			body:    `{"id":"c1","model":"grok-3-beta","choices":[],"usage":{}}`,
			wantErr: ErrEmptyCompletion,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer server.Close()

			config := testConfig(server.URL)
			completer := NewGrokCompleter(NewGrokClient(server.Client(), config), config, testMetrics)

			_, err := completer.Complete(context.Background(), testLog, conversation.Request{
				Policy: conversation.NewPolicies(70, 400).Detailed,
				Turns:  []conversation.Turn{{Role: conversation.RoleUser, Text: "hi"}},
			})
			require.Error(t, err)
			assert.True(t, IsCompletionError(err))

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			var completion *CompletionError
			require.ErrorAs(t, err, &completion)
			assert.Equal(t, ProviderXAI, completion.Provider)
			assert.Equal(t, tt.wantState, completion.Status)
		})
	}
}

func TestRouterCompleter(t *testing.T) {
	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"r1","object":"chat.completion","model":"x-ai/grok-3-mini",
			"choices":[{"index":0,"message":{"role":"assistant","content":"Sure."},"finish_reason":"stop"}],
			"usage":{"prompt_tokens":20,"completion_tokens":4,"total_tokens":24,"cost":0.0002}}`)
	}))
	defer server.Close()

	target, err := url.Parse(server.URL)
	require.NoError(t, err)

	config := testConfig(server.URL)
	config.Provider = ProviderOpenRouter
	config.OpenRouterToken = "or-test"
	client := NewOpenRouterClient(&http.Client{Transport: redirect{target: target}}, config)
	completer := NewRouterCompleter(client, config, testMetrics)

	store := testStore()
	store.Append(testKey, conversation.RoleUser, "please write a long and thorough essay about the history of Rome")

	completion, err := completer.Complete(context.Background(), testLog, store.BuildRequest(testKey))
	require.NoError(t, err)

	assert.Equal(t, "Sure.", completion.Text)
	assert.Equal(t, "x-ai/grok-3-mini", completion.Model)
	assert.Equal(t, 24, completion.Tokens())
	assert.True(t, decimal.NewFromFloat(0.0002).Equal(completion.Cost))

	assert.Equal(t, "grok-3-beta", captured["model"])
	assert.Equal(t, []any{"x-ai/grok-3-mini"}, captured["models"])
	assert.EqualValues(t, 400, captured["max_tokens"])
}

func TestRouterCompleterError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, `{"error":{"code":502,"message":"upstream failed"}}`)
	}))
	defer server.Close()

	target, err := url.Parse(server.URL)
	require.NoError(t, err)

	config := testConfig(server.URL)
	completer := NewRouterCompleter(NewOpenRouterClient(&http.Client{Transport: redirect{target: target}}, config), config, testMetrics)

	_, err = completer.Complete(context.Background(), testLog, conversation.Request{
		Policy: conversation.NewPolicies(70, 400).Detailed,
		Turns:  []conversation.Turn{{Role: conversation.RoleUser, Text: "hi"}},
	})
	require.Error(t, err)
	assert.True(t, IsCompletionError(err))
}

// scriptedCompleter replays errors in order, then succeeds.
type scriptedCompleter struct {
	mu       sync.Mutex
	errs     []error
	calls    int
	requests []conversation.Request
}

func (s *scriptedCompleter) Complete(ctx context.Context, log *tracing.Logger, request conversation.Request) (*Completion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls++
	s.requests = append(s.requests, request)
	if len(s.errs) > 0 {
		err := s.errs[0]
		s.errs = s.errs[1:]
		if err != nil {
			return nil, err
		}
	}
	return &Completion{Text: "reply", Model: "grok-3-beta", PromptTokens: 3, CompletionTokens: 2, Cost: decimal.RequireFromString("0.01")}, nil
}

func newTestResilient(inner Completer, config *AIConfig) (*ResilientCompleter, *[]time.Duration) {
	resilient := NewResilientCompleter(inner, ProviderXAI, config, testMetrics, testLog)
	var slept []time.Duration
	resilient.sleep = func(ctx context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}
	return resilient, &slept
}

func TestResilientCompleterRetriesTransient(t *testing.T) {
	inner := &scriptedCompleter{errs: []error{
		&CompletionError{Provider: ProviderXAI, Status: http.StatusServiceUnavailable},
		&CompletionError{Provider: ProviderXAI, Status: http.StatusTooManyRequests},
	}}
	config := testConfig("")
	config.Breaker.MinRequests = 10
	resilient, slept := newTestResilient(inner, config)

	completion, err := resilient.Complete(context.Background(), testLog, conversation.Request{})
	require.NoError(t, err)
	assert.Equal(t, "reply", completion.Text)
	assert.Equal(t, 3, inner.calls)
	require.Len(t, *slept, 2)
	assert.GreaterOrEqual(t, (*slept)[1], (*slept)[0])
	assert.LessOrEqual(t, (*slept)[1], config.Retry.MaxBackoff+config.Retry.MaxBackoff/10+1)
}

func TestResilientCompleterGivesUp(t *testing.T) {
	failure := &CompletionError{Provider: ProviderXAI, Status: http.StatusInternalServerError}
	inner := &scriptedCompleter{errs: []error{failure, failure, failure, failure}}
	config := testConfig("")
	config.Breaker.MinRequests = 10
	resilient, _ := newTestResilient(inner, config)

	_, err := resilient.Complete(context.Background(), testLog, conversation.Request{})
	require.Error(t, err)
	assert.ErrorIs(t, err, failure)
	assert.Equal(t, 3, inner.calls)
}

func TestResilientCompleterSkipsPermanent(t *testing.T) {
	inner := &scriptedCompleter{errs: []error{&CompletionError{Provider: ProviderXAI, Status: http.StatusUnauthorized}}}
	resilient, slept := newTestResilient(inner, testConfig(""))

	_, err := resilient.Complete(context.Background(), testLog, conversation.Request{})
	require.Error(t, err)
	assert.Equal(t, 1, inner.calls)
	assert.Empty(t, *slept)
}

func TestResilientCompleterOpensBreaker(t *testing.T) {
	failure := &CompletionError{Provider: ProviderXAI, Status: http.StatusBadGateway}
	inner := &scriptedCompleter{errs: []error{failure, failure, failure}}
	config := testConfig("")
	config.Retry.MaxAttempts = 1
	resilient, _ := newTestResilient(inner, config)

	for range 2 {
		_, err := resilient.Complete(context.Background(), testLog, conversation.Request{})
		require.ErrorIs(t, err, failure)
	}

	_, err := resilient.Complete(context.Background(), testLog, conversation.Request{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrProviderUnavailable)
	assert.True(t, IsCompletionError(err))
	assert.Equal(t, 2, inner.calls)
}

func TestResilientCompleterStopsOnCancel(t *testing.T) {
	inner := &scriptedCompleter{errs: []error{&CompletionError{Provider: ProviderXAI, Status: http.StatusBadGateway}}}
	resilient := NewResilientCompleter(inner, ProviderXAI, testConfig(""), testMetrics, testLog)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := resilient.Complete(ctx, testLog, conversation.Request{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, inner.calls)
}

func newTestDialer(completer Completer, imager *Imager) (*Dialer, *conversation.Store) {
	store := testStore()
	return NewDialer(store, completer, imager, repository.NewUsageRepository(nil), testMetrics, testConfig("")), store
}

func TestDialerRecordsBothTurns(t *testing.T) {
	inner := &scriptedCompleter{}
	dialer, store := newTestDialer(inner, nil)

	completion, err := dialer.Dial(WithGuild(context.Background(), "g1"), testLog, testKey, "who is Ada Lovelace?")
	require.NoError(t, err)
	assert.Equal(t, "reply", completion.Text)

	assert.Equal(t, []conversation.Turn{
		{Role: conversation.RoleUser, Text: "who is Ada Lovelace?"},
		{Role: conversation.RoleAssistant, Text: "reply"},
	}, store.Turns(testKey))

	require.Len(t, inner.requests, 1)
	assert.Equal(t, conversation.Simple, inner.requests[0].Policy.Brevity)
	assert.Len(t, inner.requests[0].Turns, 1)
}

func TestDialerKeepsUserTurnOnFailure(t *testing.T) {
	inner := &scriptedCompleter{errs: []error{&CompletionError{Provider: ProviderXAI, Status: http.StatusBadRequest}}}
	dialer, store := newTestDialer(inner, nil)

	_, err := dialer.Dial(context.Background(), testLog, testKey, "hello there")
	require.Error(t, err)
	assert.True(t, IsCompletionError(err))

	assert.Equal(t, []conversation.Turn{{Role: conversation.RoleUser, Text: "hello there"}}, store.Turns(testKey))
}

func TestDialerRememberAndReset(t *testing.T) {
	dialer, store := newTestDialer(&scriptedCompleter{}, nil)

	dialer.Remember(testKey, "draw an image of a fox", "Image generation is not supported.")
	assert.Len(t, store.Turns(testKey), 2)
	assert.Equal(t, conversation.Footprint{Turns: 2, Size: store.Size(testKey)}, dialer.Footprint(testKey))

	assert.True(t, dialer.Reset(testKey))
	assert.False(t, dialer.Reset(testKey))
	assert.Empty(t, store.Turns(testKey))
}

func TestDialerSpent(t *testing.T) {
	dialer, _ := newTestDialer(&scriptedCompleter{}, nil)

	tokens, ok := dialer.Spent(testLog, testKey.UserID)
	assert.False(t, ok)
	assert.Zero(t, tokens)

	db, err := gorm.Open(postgres.Open("host=127.0.0.1 port=1 user=grokcord dbname=grokcord sslmode=disable connect_timeout=1"), &gorm.Config{DisableAutomaticPing: true})
	require.NoError(t, err)

	unreachable := NewDialer(conversation.NewStore(conversation.StoreOptions{}), &scriptedCompleter{}, nil, repository.NewUsageRepository(db), testMetrics, testConfig(""))
	tokens, ok = unreachable.Spent(testLog, testKey.UserID)
	assert.False(t, ok)
	assert.Zero(t, tokens)
}

func TestDialerImagineDisabled(t *testing.T) {
	config := testConfig("")
	config.ImagesEnabled = false
	imager := NewImager(nil, config, features.NewStaticFeatureManager(testLog), testMetrics)
	dialer, _ := newTestDialer(&scriptedCompleter{}, imager)

	assert.False(t, dialer.ImagesEnabled())
	_, err := dialer.Imagine(context.Background(), testLog, "draw an image of a fox")
	assert.ErrorIs(t, err, ErrImagesDisabled)

	nilDialer, _ := newTestDialer(&scriptedCompleter{}, nil)
	assert.False(t, nilDialer.ImagesEnabled())
}

func TestImagerGeneratesURL(t *testing.T) {
	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/images/generations", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"created":1,"data":[{"url":"https://imgen.x.ai/fox.png"}]}`)
	}))
	defer server.Close()

	config := testConfig(server.URL)
	imager := NewImager(NewGrokClient(server.Client(), config), config, features.NewStaticFeatureManager(testLog), testMetrics)
	require.True(t, imager.Enabled())

	link, err := imager.Imagine(context.Background(), testLog, "draw an image of a fox")
	require.NoError(t, err)
	assert.Equal(t, "https://imgen.x.ai/fox.png", link)
	assert.Equal(t, "grok-2-image", captured["model"])
	assert.Equal(t, "url", captured["response_format"])
}

func TestNewCompleterSelectsProvider(t *testing.T) {
	config := testConfig("")
	completer, err := NewCompleter(config, nil, nil, testMetrics, testLog)
	require.NoError(t, err)
	assert.IsType(t, &GrokCompleter{}, completer.(*ResilientCompleter).inner)

	config.Provider = ProviderOpenRouter
	completer, err = NewCompleter(config, nil, nil, testMetrics, testLog)
	require.NoError(t, err)
	assert.IsType(t, &RouterCompleter{}, completer.(*ResilientCompleter).inner)

	config.Provider = "anthropic"
	_, err = NewCompleter(config, nil, nil, testMetrics, testLog)
	assert.Error(t, err)
}
