package configuration

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strings"

	"grokcord/sources/platform"
	"grokcord/sources/tracing"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYaml string

var envPattern = regexp.MustCompile(`\$\{([a-zA-Z_][a-zA-Z0-9_]*)(?::([^}]*))?\}`)

// NewYaml reads the configuration from the given path. When the file does not exist the
// embedded defaults are used, so the bot can run from environment variables alone.
// Both sources support ${VAR} and ${VAR:default} expansion.
func NewYaml(path Path, log *tracing.Logger) (*Config, error) {
	defer tracing.ProfilePoint(log, "Configuration loaded", "configuration.load")()

	filePath := string(path)
	if filePath == "" {
		filePath = platform.Get("CONFIG_PATH", "config.yaml")
	}

	content, err := os.ReadFile(filePath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		log.W("configuration file not found, using embedded defaults", "path", filePath)
		content = []byte(defaultsYaml)
	case err != nil:
		log.E("failed to read configuration file", tracing.InnerError, err, "path", filePath)
		return nil, fmt.Errorf("failed to read configuration file: %w", err)
	default:
		log.I("reading configuration", "path", filePath)
	}

	config, err := Parse(content)
	if err != nil {
		log.E("failed to parse configuration", tracing.InnerError, err, "path", filePath)
		return nil, err
	}

	if err := config.Validate(log); err != nil {
		log.E("configuration is invalid", tracing.InnerError, err)
		return nil, err
	}

	return config, nil
}

// Parse expands environment references in content, decodes it and fills unset values with defaults.
func Parse(content []byte) (*Config, error) {
	var config Config
	if err := yaml.Unmarshal([]byte(expandEnv(string(content))), &config); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file: %w", err)
	}

	config.applyDefaults()
	return &config, nil
}

// Validate checks the secrets required by the selected provider and the Discord token.
func (c *Config) Validate(log *tracing.Logger) error {
	var errs []error

	if err := platform.ValidateNotEmpty(c.Discord.BotToken, "discord.bot_token (DISCORD_TOKEN)"); err != nil {
		errs = append(errs, err)
	} else if err := platform.ValidateDiscordBotToken(c.Discord.BotToken); err != nil {
		log.W("Discord token looks unusual", tracing.InnerError, err)
	}

	switch c.AI.Provider {
	case ProviderXAI:
		if err := platform.ValidateNotEmpty(c.AI.XAIToken, "ai.xai_token (GROK_API_KEY)"); err != nil {
			errs = append(errs, err)
		} else if err := platform.ValidateXAIToken(c.AI.XAIToken); err != nil {
			log.W("xAI key looks unusual", tracing.InnerError, err)
		}
	case ProviderOpenRouter:
		if err := platform.ValidateNotEmpty(c.AI.OpenRouterToken, "ai.open_router_token (OPENROUTER_API_KEY)"); err != nil {
			errs = append(errs, err)
		}
	default:
		errs = append(errs, fmt.Errorf("unknown ai.provider %q", c.AI.Provider))
	}

	if err := platform.ValidateNotEmpty(c.AI.Model, "ai.model"); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

const (
	ProviderXAI        = "xai"
	ProviderOpenRouter = "openrouter"
)

func (c *Config) applyDefaults() {
	c.AI.Provider = strings.ToLower(strings.TrimSpace(c.AI.Provider))
	if c.AI.Provider == "" {
		c.AI.Provider = ProviderXAI
	}
	if c.AI.XAIBaseURL == "" {
		c.AI.XAIBaseURL = "https://api.x.ai/v1"
	}
	if c.AI.SimpleMaxTokens <= 0 {
		c.AI.SimpleMaxTokens = 70
	}
	if c.AI.DetailedMaxTokens <= 0 {
		c.AI.DetailedMaxTokens = 400
	}
	if c.AI.Retry.MaxAttempts <= 0 {
		c.AI.Retry.MaxAttempts = 1
	}
	if c.Discord.ReplyChunkSize <= 0 {
		c.Discord.ReplyChunkSize = 1800
	}
	if c.Discord.CommandPrefix == "" {
		c.Discord.CommandPrefix = "!"
	}
	if c.Conversation.MaxSize <= 0 {
		c.Conversation.MaxSize = 100000
	}
	if c.Conversation.SimpleWordThreshold <= 0 {
		c.Conversation.SimpleWordThreshold = 8
	}
	if c.Conversation.ShortQuestionWords <= 0 {
		c.Conversation.ShortQuestionWords = 5
	}
	if c.Documents.MaxPages <= 0 {
		c.Documents.MaxPages = 5
	}
	if c.Documents.MaxChars <= 0 {
		c.Documents.MaxChars = 3000
	}
	if c.Throttler.Backend == "" {
		c.Throttler.Backend = "memory"
	}
	if c.Localization.DefaultLanguage == "" {
		c.Localization.DefaultLanguage = "en"
	}
	if len(c.Localization.SupportedLanguages) == 0 {
		c.Localization.SupportedLanguages = []string{c.Localization.DefaultLanguage}
	}
}

// expandEnv replaces ${VAR} or ${VAR:default} with environment values.
func expandEnv(content string) string {
	return envPattern.ReplaceAllStringFunc(content, func(match string) string {
		matches := envPattern.FindStringSubmatch(match)
		key := matches[1]
		defaultValue := ""
		if len(matches) > 2 {
			defaultValue = matches[2]
		}

		value, exists := os.LookupEnv(key)
		if !exists {
			return defaultValue
		}
		return value
	})
}
