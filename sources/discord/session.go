package discord

import (
	"fmt"
	"net/http"

	"grokcord/sources/tracing"

	"github.com/bwmarrin/discordgo"
)

const intents = discordgo.IntentsGuilds |
	discordgo.IntentsGuildMessages |
	discordgo.IntentsDirectMessages |
	discordgo.IntentsMessageContent

func NewSession(config *BotConfig, client *http.Client, log *tracing.Logger) (*discordgo.Session, error) {
	session, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		log.E("Failed to initialize discord session", tracing.InnerError, err)
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}

	session.Identify.Intents = intents
	session.Client = client
	session.StateEnabled = true

	log.I("Discord session initialized", "intents", int(intents))
	return session, nil
}
