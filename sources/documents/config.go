package documents

import (
	"grokcord/sources/configuration"
)

type DocumentsConfig struct {
	MaxPages int
	MaxChars int
	MaxBytes int64
}

func NewDocumentsConfig(config *configuration.Config) *DocumentsConfig {
	return &DocumentsConfig{
		MaxPages: config.Documents.MaxPages,
		MaxChars: config.Documents.MaxChars,
		MaxBytes: config.Documents.MaxBytes,
	}
}
