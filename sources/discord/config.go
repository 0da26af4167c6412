package discord

import (
	"grokcord/sources/configuration"
)

type BotConfig struct {
	Token  string
	Status string
}

type DiplomatConfig struct {
	ChunkSize int
}

type HandlerConfig struct {
	CommandPrefix string
}

func NewBotConfig(config *configuration.Config) *BotConfig {
	return &BotConfig{Token: config.Discord.BotToken, Status: config.Discord.Status}
}

func NewDiplomatConfig(config *configuration.Config) *DiplomatConfig {
	size := config.Discord.ReplyChunkSize
	if size <= 0 {
		size = 1800
	}
	return &DiplomatConfig{ChunkSize: size}
}

func NewHandlerConfig(config *configuration.Config) *HandlerConfig {
	prefix := config.Discord.CommandPrefix
	if prefix == "" {
		prefix = "!"
	}
	return &HandlerConfig{CommandPrefix: prefix}
}
