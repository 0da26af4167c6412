package platform

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	DiscordBotTokenPattern = regexp.MustCompile(`^[A-Za-z0-9_\-]{20,}\.[A-Za-z0-9_\-]{5,}\.[A-Za-z0-9_\-]{20,}$`)
)

func ValidateDiscordBotToken(token string) error {
	if token == "" {
		return fmt.Errorf("Discord bot token is required")
	}

	if !DiscordBotTokenPattern.MatchString(token) {
		return fmt.Errorf("invalid Discord bot token format: expected three dot-separated segments")
	}

	return nil
}

func ValidateXAIToken(token string) error {
	if token == "" {
		return fmt.Errorf("xAI API key is required")
	}

	if !strings.HasPrefix(token, "xai-") {
		return fmt.Errorf("invalid xAI API key format: expected xai- prefix")
	}

	return nil
}

func ValidateNotEmpty(value string, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required", fieldName)
	}
	return nil
}
