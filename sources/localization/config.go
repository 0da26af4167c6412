package localization

import (
	"grokcord/sources/configuration"
)

type LocalizationConfig struct {
	DefaultLanguage    string
	SupportedLanguages []string
}

func NewLocalizationConfig(config *configuration.Config) *LocalizationConfig {
	supported := config.Localization.SupportedLanguages
	if len(supported) == 0 {
		supported = []string{"en", "ru"}
	}

	fallback := config.Localization.DefaultLanguage
	if fallback == "" {
		fallback = supported[0]
	}

	return &LocalizationConfig{
		DefaultLanguage:    fallback,
		SupportedLanguages: supported,
	}
}
