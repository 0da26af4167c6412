package discord

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"time"

	"grokcord/sources/artificial"
	"grokcord/sources/conversation"
	"grokcord/sources/features"
	"grokcord/sources/framework/commands"
	"grokcord/sources/localization"
	"grokcord/sources/metrics"
	"grokcord/sources/texting"
	"grokcord/sources/texting/transform"
	"grokcord/sources/throttler"
	"grokcord/sources/tracing"
)

// Attachment is a file attached to an inbound message.
type Attachment struct {
	Filename string
	URL      string
	Size     int
}

// Inbound is a Discord message reduced to what the handler looks at.
type Inbound struct {
	MessageID       string
	ChannelID       string
	GuildID         string
	AuthorID        string
	AuthorName      string
	Content         string
	ReplyToAuthorID string
	Locale          string
	Attachments     []Attachment
}

func (in Inbound) Key() conversation.Key {
	return conversation.Key{UserID: in.AuthorID, ChannelID: in.ChannelID}
}

type responder interface {
	Reply(log *tracing.Logger, in Inbound, text string) error
	Typing(channelID string) func()
}

type fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

type extractor interface {
	Extract(data []byte) (string, error)
}

var imageExtensions = []string{".jpg", ".jpeg", ".png"}

type Handler struct {
	self         atomic.Pointer[string]
	diplomat     responder
	dialer       *artificial.Dialer
	fetcher      fetcher
	extractor    extractor
	limiter      throttler.Limiter
	parser       *commands.Parser
	features     *features.FeatureManager
	localization *localization.LocalizationManager
	metrics      *metrics.MetricsService
}

func NewHandler(diplomat responder, dialer *artificial.Dialer, fetcher fetcher, extractor extractor, limiter throttler.Limiter, config *HandlerConfig, fm *features.FeatureManager, localization *localization.LocalizationManager, metrics *metrics.MetricsService) *Handler {
	return &Handler{
		diplomat:     diplomat,
		dialer:       dialer,
		fetcher:      fetcher,
		extractor:    extractor,
		limiter:      limiter,
		parser:       commands.NewParser(config.CommandPrefix, commands.CommandReset, commands.CommandContext, commands.CommandHelp),
		features:     fm,
		localization: localization,
		metrics:      metrics,
	}
}

// SetSelf records the bot's own user id once the gateway is ready.
func (x *Handler) SetSelf(id string) {
	x.self.Store(&id)
}

func (x *Handler) Self() string {
	if id := x.self.Load(); id != nil {
		return *id
	}
	return ""
}

func (x *Handler) HandleMessage(ctx context.Context, log *tracing.Logger, in Inbound) error {
	defer tracing.ProfilePoint(log, "Discord handler message completed", "discord.handler.message")()

	start := time.Now()
	defer func() { x.metrics.RecordMessageProcessingDuration(time.Since(start)) }()

	self := x.Self()
	if self == "" || in.AuthorID == self {
		x.metrics.RecordMessageIgnored("own")
		return nil
	}

	content, addressed := address(self, in)
	if !addressed {
		x.metrics.RecordMessageIgnored("not_addressed")
		return nil
	}

	log.I("Got message", "attachments", len(in.Attachments))

	content, handled, err := x.attachments(ctx, log, in, content)
	if handled {
		return err
	}

	if content == "" {
		log.I("Ignoring empty message")
		x.metrics.RecordMessageIgnored("empty")
		return nil
	}

	if x.parser.IsCommand(content) {
		return x.command(log, in, content)
	}

	if admitted, err := x.admit(ctx, log, in); !admitted {
		return err
	}

	stop := x.diplomat.Typing(in.ChannelID)
	defer stop()

	if artificial.IsImageGenerationRequest(content) {
		return x.imagine(ctx, log.With(tracing.CommandIssued, "grok/image"), in, content)
	}

	return x.dial(ctx, log.With(tracing.CommandIssued, "grok/dialer"), in, content)
}

// address reports whether the message is meant for the bot: it starts with a
// mention of the bot, which is stripped, or it replies to one of its messages.
func address(self string, in Inbound) (string, bool) {
	content := strings.TrimSpace(in.Content)
	mentions := []string{"<@" + self + ">", "<@!" + self + ">"}

	for _, mention := range mentions {
		if strings.HasPrefix(content, mention) {
			for _, m := range mentions {
				content = strings.ReplaceAll(content, m, "")
			}
			return strings.TrimSpace(content), true
		}
	}

	if in.ReplyToAuthorID != "" && in.ReplyToAuthorID == self {
		return content, true
	}

	return "", false
}

// attachments folds the first PDF into the content. handled is true when a
// reply was already sent and processing must stop.
func (x *Handler) attachments(ctx context.Context, log *tracing.Logger, in Inbound, content string) (string, bool, error) {
	for _, attachment := range in.Attachments {
		name := strings.ToLower(attachment.Filename)
		alog := log.With(tracing.AttachmentName, attachment.Filename)

		switch {
		case strings.HasSuffix(name, ".pdf"):
			if !x.features.IsEnabledDefault(features.FeaturePDFExtraction, true) {
				alog.I("PDF extraction switched off, skipping attachment")
				continue
			}

			text, err := x.readPDF(ctx, alog, attachment)
			if err != nil {
				alog.E("PDF error", tracing.InnerError, err)
				x.metrics.RecordDocumentExtracted("error")
				reply := x.localization.LocalizeByTd(in.Locale, localization.MsgPDFError, map[string]interface{}{"Error": err.Error()})
				return "", true, x.diplomat.Reply(alog, in, reply)
			}

			x.metrics.RecordDocumentExtracted("ok")
			alog.I("PDF extracted", "chars", len([]rune(text)))

			if content == "" {
				return text, false, nil
			}
			return content + "\n\n" + text, false, nil

		case hasAnySuffix(name, imageExtensions...):
			alog.I("Image attachments are not supported")
			x.metrics.RecordMessageIgnored("image_attachment")
			return "", true, x.diplomat.Reply(alog, in, x.localization.LocalizeBy(in.Locale, localization.MsgImageHandlingUnsupported))
		}
	}

	return content, false, nil
}

func (x *Handler) readPDF(ctx context.Context, log *tracing.Logger, attachment Attachment) (string, error) {
	defer tracing.ProfilePoint(log, "PDF read", "discord.handler.pdf", "size", texting.Bytify(int64(attachment.Size)))()

	data, err := tracing.ReportExecutionForRE(log, func() ([]byte, error) {
		return x.fetcher.Fetch(ctx, attachment.URL)
	}, func(l *tracing.Logger, err error) {
		if err == nil {
			l.D("Attachment downloaded")
		}
	})
	if err != nil {
		return "", err
	}

	return x.extractor.Extract(data)
}

func (x *Handler) command(log *tracing.Logger, in Inbound, content string) error {
	prefix := x.parser.Prefix()

	invocation, err := x.parser.Parse(content)
	if err != nil {
		log.I("Unknown command", tracing.CommandIssued, content)
		x.metrics.RecordCommandUsed("unknown")
		return x.diplomat.Reply(log, in, x.localization.LocalizeByTd(in.Locale, localization.MsgUnknownCommand, map[string]interface{}{"Prefix": prefix}))
	}

	log = log.With(tracing.CommandIssued, string(invocation.Command))
	x.metrics.RecordCommandUsed(string(invocation.Command))
	log.I("Command issued")

	key := in.Key()

	switch invocation.Command {
	case commands.CommandReset:
		x.dialer.Reset(key)
		return x.diplomat.Reply(log, in, x.localization.LocalizeBy(in.Locale, localization.MsgContextReset))

	case commands.CommandContext:
		footprint := x.dialer.Footprint(key)
		if footprint.Turns == 0 {
			return x.diplomat.Reply(log, in, x.localization.LocalizeBy(in.Locale, localization.MsgContextEmpty))
		}

		capacity, unit := x.dialer.Capacity()
		reply := x.localization.LocalizeByTd(in.Locale, localization.MsgContextStats, map[string]interface{}{
			"Turns": footprint.Turns,
			"Size":  texting.Numberify(int64(footprint.Size)),
			"Max":   texting.Numberify(int64(capacity)),
			"Unit":  unit,
		})

		if spent, ok := x.dialer.Spent(log, in.AuthorID); ok {
			reply += "\n" + x.localization.LocalizeByTd(in.Locale, localization.MsgContextSpent, map[string]interface{}{
				"Tokens": texting.Numberify(spent),
			})
		}

		return x.diplomat.Reply(log, in, reply)

	default:
		return x.diplomat.Reply(log, in, x.localization.LocalizeByTd(in.Locale, localization.MsgHelp, map[string]interface{}{"Prefix": prefix}))
	}
}

func (x *Handler) admit(ctx context.Context, log *tracing.Logger, in Inbound) (bool, error) {
	decision, err := x.limiter.Allow(ctx, in.AuthorID)
	if err != nil {
		log.W("Rate limiter failed, admitting message", tracing.InnerError, err)
		return true, nil
	}

	if decision.Allowed {
		return true, nil
	}

	seconds := texting.Secondify(decision.RetryAfter)
	log.I("Rate limited", "retry_after", seconds)
	x.metrics.RecordRateLimited()

	return false, x.diplomat.Reply(log, in, x.localization.LocalizeByTd(in.Locale, localization.MsgRateLimited, map[string]interface{}{"Count": seconds}))
}

func (x *Handler) imagine(ctx context.Context, log *tracing.Logger, in Inbound, content string) error {
	reply := x.localization.LocalizeBy(in.Locale, localization.MsgImageGenerationUnsupported)

	if x.dialer.ImagesEnabled() {
		url, err := x.dialer.Imagine(ctx, log, content)
		switch {
		case errors.Is(err, artificial.ErrImagesDisabled):
		case err != nil:
			x.metrics.RecordMessageHandled("error")
			return x.diplomat.Reply(log, in, x.failure(in, err))
		default:
			reply = x.localization.LocalizeByTd(in.Locale, localization.MsgImageGenerated, map[string]interface{}{"URL": url})
		}
	}

	x.dialer.Remember(in.Key(), content, reply)
	x.metrics.RecordMessageHandled("image")

	return x.diplomat.Reply(log, in, reply)
}

func (x *Handler) dial(ctx context.Context, log *tracing.Logger, in Inbound, content string) error {
	log.D("Dialogue requested", "preview", transform.SmartTruncate(content, 80))

	completion, err := x.dialer.Dial(artificial.WithGuild(ctx, in.GuildID), log, in.Key(), content)
	if err != nil {
		x.metrics.RecordMessageHandled("error")
		return x.diplomat.Reply(log, in, x.failure(in, err))
	}

	x.metrics.RecordMessageHandled("ok")
	log.I("Dialogue answered", tracing.AiModel, completion.Model, tracing.AiTokens, completion.Tokens(), tracing.AiCost, texting.CurrencifyDecimal(completion.Cost))

	return x.diplomat.Reply(log, in, completion.Text)
}

func (x *Handler) failure(in Inbound, err error) string {
	data := map[string]interface{}{"Error": err.Error()}

	switch {
	case errors.Is(err, artificial.ErrProviderUnavailable):
		return x.localization.LocalizeBy(in.Locale, localization.MsgProviderUnavailable)
	case artificial.IsCompletionError(err):
		return x.localization.LocalizeByTd(in.Locale, localization.MsgGrokError, data)
	default:
		return x.localization.LocalizeByTd(in.Locale, localization.MsgGenericError, data)
	}
}

func hasAnySuffix(name string, suffixes ...string) bool {
	for _, suffix := range suffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}
