package discord

import (
	"context"

	"grokcord/sources/platform"
	"grokcord/sources/tracing"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
)

// Gateway turns Discord gateway events into handler calls.
type Gateway struct {
	session *discordgo.Session
	handler *Handler
	config  *BotConfig
	log     *tracing.Logger
	removes []func()

	// ctx bounds every handled message and is canceled by Stop.
	ctx    context.Context
	cancel context.CancelFunc
}

func NewGateway(session *discordgo.Session, handler *Handler, config *BotConfig, log *tracing.Logger) *Gateway {
	ctx, cancel := context.WithCancel(context.Background())
	return &Gateway{session: session, handler: handler, config: config, log: log, ctx: ctx, cancel: cancel}
}

func (x *Gateway) Start() error {
	x.removes = append(x.removes,
		x.session.AddHandler(x.onReady),
		x.session.AddHandler(x.onMessageCreate),
	)
	return x.session.Open()
}

func (x *Gateway) Stop() error {
	x.cancel()
	for _, remove := range x.removes {
		remove()
	}
	x.removes = nil
	return x.session.Close()
}

func (x *Gateway) onReady(s *discordgo.Session, r *discordgo.Ready) {
	x.handler.SetSelf(r.User.ID)
	x.log.I("Logged in", tracing.UserName, r.User.Username, tracing.UserId, r.User.ID, "guilds", len(r.Guilds))

	if x.config.Status == "" {
		return
	}
	if err := s.UpdateCustomStatus(x.config.Status); err != nil {
		x.log.W("Failed to set custom status", tracing.InnerError, err)
	}
}

func (x *Gateway) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Message == nil || m.Author == nil {
		return
	}

	in := inbound(s, m.Message)

	log := x.log.With(
		tracing.CorrelationId, uuid.NewString(),
		tracing.UserId, in.AuthorID,
		tracing.UserName, in.AuthorName,
		tracing.GuildId, in.GuildID,
		tracing.ChannelId, in.ChannelID,
		tracing.MessageId, in.MessageID,
	)

	if err := x.handler.HandleMessage(x.ctx, log, in); err != nil {
		log.E("Failed to handle message", tracing.InnerError, err)
	}
}

func inbound(s *discordgo.Session, m *discordgo.Message) Inbound {
	in := Inbound{
		MessageID:  m.ID,
		ChannelID:  m.ChannelID,
		GuildID:    m.GuildID,
		AuthorID:   m.Author.ID,
		AuthorName: platform.FirstNonEmpty(m.Author.GlobalName, m.Author.Username),
		Content:    m.Content,
	}

	if m.ReferencedMessage != nil && m.ReferencedMessage.Author != nil {
		in.ReplyToAuthorID = m.ReferencedMessage.Author.ID
	}

	for _, attachment := range m.Attachments {
		if attachment == nil {
			continue
		}
		in.Attachments = append(in.Attachments, Attachment{Filename: attachment.Filename, URL: attachment.URL, Size: attachment.Size})
	}

	if m.GuildID != "" && s != nil && s.State != nil {
		if guild, err := s.State.Guild(m.GuildID); err == nil {
			in.Locale = guild.PreferredLocale
		}
	}

	return in
}
