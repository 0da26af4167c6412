package artificial

import (
	"context"
	"time"

	"grokcord/sources/conversation"
	"grokcord/sources/metrics"
	"grokcord/sources/persistence/entities"
	"grokcord/sources/platform"
	"grokcord/sources/repository"
	"grokcord/sources/tracing"
)

// SpentWindow is how far back Spent sums a user's tokens.
const SpentWindow = 24 * time.Hour

type guildKey struct{}

// WithGuild tags ctx with the guild a dialogue happens in, for the usage ledger.
func WithGuild(ctx context.Context, guildID string) context.Context {
	return context.WithValue(ctx, guildKey{}, guildID)
}

func guildFrom(ctx context.Context) string {
	guild, _ := ctx.Value(guildKey{}).(string)
	return guild
}

// Dialer drives one exchange: it records the user's turn, asks the completer
// for a reply built from the transcript and records the reply.
type Dialer struct {
	store     *conversation.Store
	completer Completer
	imager    *Imager
	usage     *repository.UsageRepository
	metrics   *metrics.MetricsService
	config    *AIConfig
}

func NewDialer(store *conversation.Store, completer Completer, imager *Imager, usage *repository.UsageRepository, metrics *metrics.MetricsService, config *AIConfig) *Dialer {
	return &Dialer{store: store, completer: completer, imager: imager, usage: usage, metrics: metrics, config: config}
}

// Dial appends text as a user turn and returns the provider's reply. When the
// provider fails the user turn stays in the transcript.
func (x *Dialer) Dial(ctx context.Context, log *tracing.Logger, key conversation.Key, text string) (*Completion, error) {
	defer tracing.ProfilePoint(log, "Dialogue completed", "artificial.dialer.dial")()

	ctx, cancel := platform.ContextTimeoutVal(ctx, x.config.Timeout)
	defer cancel()

	log = log.With(tracing.ConversationKey, key.String())

	footprint := x.store.Append(key, conversation.RoleUser, text)
	x.metrics.RecordTurnsEvicted(footprint.Evicted)

	request := x.store.BuildRequest(key)
	x.metrics.RecordBrevity(request.Policy.Brevity.String())

	log.D("Dialogue prepared", tracing.TranscriptTurns, footprint.Turns, tracing.TranscriptSize, footprint.Size, tracing.AiBrevity, request.Policy.Brevity.String())

	completion, err := x.completer.Complete(ctx, log, request)
	if err != nil {
		log.E("Failed to complete dialogue", tracing.InnerError, err)
		return nil, err
	}

	footprint = x.store.Append(key, conversation.RoleAssistant, completion.Text)
	x.metrics.RecordTurnsEvicted(footprint.Evicted)
	x.metrics.RecordDialerUsage(completion.Tokens(), completion.Cost.InexactFloat64(), completion.Model)

	usage := &entities.Usage{
		UserID:           key.UserID,
		ChannelID:        key.ChannelID,
		GuildID:          guildFrom(ctx),
		Kind:             "dialer",
		Model:            completion.Model,
		Brevity:          request.Policy.Brevity.String(),
		PromptTokens:     completion.PromptTokens,
		CompletionTokens: completion.CompletionTokens,
		Cost:             completion.Cost,
	}
	if err := x.usage.SaveUsage(ctx, log, usage); err != nil {
		log.E("Error saving usage", tracing.InnerError, err)
	}

	return completion, nil
}

func (x *Dialer) ImagesEnabled() bool {
	return x.imager.Enabled()
}

// Imagine generates a picture for prompt without touching any transcript.
func (x *Dialer) Imagine(ctx context.Context, log *tracing.Logger, prompt string) (string, error) {
	if !x.imager.Enabled() {
		return "", ErrImagesDisabled
	}

	ctx, cancel := platform.ContextTimeoutVal(ctx, x.config.Timeout)
	defer cancel()

	return x.imager.Imagine(ctx, log, prompt)
}

// Remember records an exchange that did not go through the completer.
func (x *Dialer) Remember(key conversation.Key, prompt, reply string) {
	x.metrics.RecordTurnsEvicted(x.store.Append(key, conversation.RoleUser, prompt).Evicted)
	x.metrics.RecordTurnsEvicted(x.store.Append(key, conversation.RoleAssistant, reply).Evicted)
}

// Reset drops the transcript for key and reports whether one existed.
func (x *Dialer) Reset(key conversation.Key) bool {
	return x.store.Forget(key)
}

// Footprint describes the transcript for key without changing it.
func (x *Dialer) Footprint(key conversation.Key) conversation.Footprint {
	return conversation.Footprint{Turns: len(x.store.Turns(key)), Size: x.store.Size(key)}
}

// Capacity returns the transcript ceiling and the unit it is measured in.
func (x *Dialer) Capacity() (int, string) {
	return x.store.MaxSize(), x.store.Unit()
}

// Spent sums the tokens userID used over SpentWindow. ok is false when the
// usage ledger is disabled or could not be read.
func (x *Dialer) Spent(log *tracing.Logger, userID string) (tokens int64, ok bool) {
	if !x.usage.Enabled() {
		return 0, false
	}

	tokens, err := x.usage.GetUserTokensSince(log, userID, time.Now().Add(-SpentWindow))
	if err != nil {
		log.W("Failed to read spent tokens", tracing.InnerError, err)
		return 0, false
	}
	return tokens, true
}
