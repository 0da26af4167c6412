package localization

import (
	"embed"
	"fmt"

	"grokcord/sources/tracing"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.toml
var localesFS embed.FS

const (
	MsgImageHandlingUnsupported   = "MsgImageHandlingUnsupported"
	MsgImageGenerationUnsupported = "MsgImageGenerationUnsupported"
	MsgImageGenerated             = "MsgImageGenerated"
	MsgPDFError                   = "MsgPDFError"
	MsgGrokError                  = "MsgGrokError"
	MsgGenericError               = "MsgGenericError"
	MsgProviderUnavailable        = "MsgProviderUnavailable"
	MsgRateLimited                = "MsgRateLimited"
	MsgContextReset               = "MsgContextReset"
	MsgContextEmpty               = "MsgContextEmpty"
	MsgContextStats               = "MsgContextStats"
	MsgContextSpent               = "MsgContextSpent"
	MsgHelp                       = "MsgHelp"
	MsgUnknownCommand             = "MsgUnknownCommand"
)

type LocalizationManager struct {
	bundle  *i18n.Bundle
	matcher *LanguageMatcher
	config  *LocalizationConfig
	log     *tracing.Logger
}

func NewLocalizationManager(
	config *LocalizationConfig,
	matcher *LanguageMatcher,
	log *tracing.Logger,
) (*LocalizationManager, error) {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	for _, lang := range config.SupportedLanguages {
		filename := fmt.Sprintf("locales/active.%s.toml", lang)

		data, err := localesFS.ReadFile(filename)
		if err != nil {
			log.E("Failed to read locale file", "filename", filename, tracing.InnerError, err)
			return nil, fmt.Errorf("failed to read locale file %s: %w", filename, err)
		}

		if _, err := bundle.ParseMessageFileBytes(data, filename); err != nil {
			log.E("Failed to parse locale file", "filename", filename, tracing.InnerError, err)
			return nil, fmt.Errorf("failed to parse locale file %s: %w", filename, err)
		}

		log.D("Loaded locale file", "filename", filename)
	}

	log.I("LocalizationManager initialized successfully", "default_language", config.DefaultLanguage, "languages", config.SupportedLanguages)
	return &LocalizationManager{bundle: bundle, matcher: matcher, config: config, log: log}, nil
}

// GetLocalizer picks the language for a Discord locale and falls back to English for missing messages.
func (x *LocalizationManager) GetLocalizer(locale string) *i18n.Localizer {
	return i18n.NewLocalizer(x.bundle, x.matcher.Match(locale), "en")
}

func (x *LocalizationManager) Localize(localizer *i18n.Localizer, messageID string) string {
	return x.LocalizeTd(localizer, messageID, nil)
}

func (x *LocalizationManager) LocalizeTd(localizer *i18n.Localizer, messageID string, templateData map[string]interface{}) string {
	config := &i18n.LocalizeConfig{MessageID: messageID, TemplateData: templateData}
	if count, ok := templateData["Count"]; ok {
		config.PluralCount = count
	}

	msg, err := localizer.Localize(config)
	if err != nil {
		x.log.E("Failed to localize message", "message_id", messageID, tracing.InnerError, err)
		return messageID
	}

	return msg
}

func (x *LocalizationManager) LocalizeBy(locale string, messageID string) string {
	return x.LocalizeByTd(locale, messageID, nil)
}

func (x *LocalizationManager) LocalizeByTd(locale string, messageID string, templateData map[string]interface{}) string {
	return x.LocalizeTd(x.GetLocalizer(locale), messageID, templateData)
}
