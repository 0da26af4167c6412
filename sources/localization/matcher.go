package localization

import (
	"golang.org/x/text/language"
)

// LanguageMatcher maps a Discord locale such as "en-US" or "ru" onto one of the supported languages.
type LanguageMatcher struct {
	matcher   language.Matcher
	supported []string
	fallback  string
}

func NewLanguageMatcher(config *LocalizationConfig) *LanguageMatcher {
	tags := make([]language.Tag, 0, len(config.SupportedLanguages)+1)
	supported := make([]string, 0, len(config.SupportedLanguages)+1)

	// the first tag is what the matcher falls back to
	tags = append(tags, language.Make(config.DefaultLanguage))
	supported = append(supported, config.DefaultLanguage)

	for _, lang := range config.SupportedLanguages {
		if lang == config.DefaultLanguage {
			continue
		}
		tags = append(tags, language.Make(lang))
		supported = append(supported, lang)
	}

	return &LanguageMatcher{matcher: language.NewMatcher(tags), supported: supported, fallback: config.DefaultLanguage}
}

func (x *LanguageMatcher) Match(locale string) string {
	if locale == "" {
		return x.fallback
	}

	tag, err := language.Parse(locale)
	if err != nil {
		return x.fallback
	}

	_, index, confidence := x.matcher.Match(tag)
	if confidence == language.No {
		return x.fallback
	}

	return x.supported[index]
}
