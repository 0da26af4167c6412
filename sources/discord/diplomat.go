package discord

import (
	"fmt"

	"grokcord/sources/localization"
	"grokcord/sources/metrics"
	"grokcord/sources/texting/transform"
	"grokcord/sources/tracing"

	"github.com/bwmarrin/discordgo"
)

// Messenger is the part of the Discord REST API the bot writes through.
type Messenger interface {
	Send(channelID string, message *discordgo.MessageSend) error
	ChannelTyping(channelID string) error
}

type sessionMessenger struct {
	session *discordgo.Session
}

func NewMessenger(session *discordgo.Session) Messenger {
	return &sessionMessenger{session: session}
}

func (x *sessionMessenger) Send(channelID string, message *discordgo.MessageSend) error {
	_, err := x.session.ChannelMessageSendComplex(channelID, message)
	return err
}

func (x *sessionMessenger) ChannelTyping(channelID string) error {
	return x.session.ChannelTyping(channelID)
}

// Diplomat delivers replies to Discord.
type Diplomat struct {
	messenger    Messenger
	typing       *TypingManager
	config       *DiplomatConfig
	localization *localization.LocalizationManager
	metrics      *metrics.MetricsService
}

func NewDiplomat(messenger Messenger, config *DiplomatConfig, localization *localization.LocalizationManager, metrics *metrics.MetricsService, log *tracing.Logger) *Diplomat {
	return &Diplomat{
		messenger:    messenger,
		typing:       NewTypingManager(messenger, log),
		config:       config,
		localization: localization,
		metrics:      metrics,
	}
}

// Reply answers in as many chunks as the text needs without pinging the author.
func (x *Diplomat) Reply(logger *tracing.Logger, in Inbound, text string) error {
	defer tracing.ProfilePoint(logger, "Diplomat reply completed", "diplomat.reply")()

	for _, chunk := range transform.Chunks(text, x.config.ChunkSize) {
		if err := x.messenger.Send(in.ChannelID, x.message(in, chunk)); err != nil {
			logger.E("Message chunk sending error", tracing.InnerError, err)
			x.metrics.RecordMessageSent("error")

			fallback := x.localization.LocalizeByTd(in.Locale, localization.MsgGenericError, map[string]interface{}{"Error": err.Error()})
			if err := x.messenger.Send(in.ChannelID, x.message(in, fallback)); err != nil {
				logger.E("Failed to send fallback message", tracing.InnerError, err)
			}
			return fmt.Errorf("failed to deliver reply: %w", err)
		}
		x.metrics.RecordMessageSent("success")
	}

	return nil
}

// Typing shows the typing indicator in the channel until the returned func is called.
func (x *Diplomat) Typing(channelID string) func() {
	return x.typing.Start(channelID)
}

func (x *Diplomat) message(in Inbound, content string) *discordgo.MessageSend {
	return &discordgo.MessageSend{
		Content: content,
		Reference: &discordgo.MessageReference{
			MessageID: in.MessageID,
			ChannelID: in.ChannelID,
			GuildID:   in.GuildID,
		},
		AllowedMentions: &discordgo.MessageAllowedMentions{
			Parse:       []discordgo.AllowedMentionType{discordgo.AllowedMentionTypeUsers},
			RepliedUser: false,
		},
	}
}
