package discord

import (
	"context"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGatewayStopCancelsMessageContext(t *testing.T) {
	f := newFixture(t, nil)

	session, err := discordgo.New("Bot test")
	require.NoError(t, err)

	gateway := NewGateway(session, f.handler, &BotConfig{}, testLog)
	message := func(id string) *discordgo.MessageCreate {
		return &discordgo.MessageCreate{Message: &discordgo.Message{
			ID:        id,
			ChannelID: "c1",
			Content:   "<@1000> hi",
			Author:    &discordgo.User{ID: "u1", Username: "ada"},
		}}
	}

	gateway.onMessageCreate(session, message("m1"))
	require.NoError(t, gateway.Stop())
	gateway.onMessageCreate(session, message("m2"))

	require.Len(t, f.completer.ctxErrs, 2)
	assert.NoError(t, f.completer.ctxErrs[0])
	assert.ErrorIs(t, f.completer.ctxErrs[1], context.Canceled)
}

func TestGatewayIgnoresAuthorlessMessages(t *testing.T) {
	f := newFixture(t, nil)
	gateway := NewGateway(nil, f.handler, &BotConfig{}, testLog)

	gateway.onMessageCreate(nil, &discordgo.MessageCreate{})
	gateway.onMessageCreate(nil, &discordgo.MessageCreate{Message: &discordgo.Message{Content: "<@1000> hi"}})

	assert.Empty(t, f.completer.requests)
	assert.Empty(t, f.responder.replies)
}
