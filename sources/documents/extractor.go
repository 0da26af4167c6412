package documents

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

// Extractor pulls plain text out of PDF attachments.
type Extractor struct {
	config *DocumentsConfig
}

func NewExtractor(config *DocumentsConfig) *Extractor {
	return &Extractor{config: config}
}

// Extract reads at most MaxPages pages, stops once MaxChars characters were
// collected and caps the result at MaxChars.
func (x *Extractor) Extract(data []byte) (text string, err error) {
	if x.config.MaxBytes > 0 && int64(len(data)) > x.config.MaxBytes {
		return "", &TooLargeError{Size: int64(len(data)), Limit: x.config.MaxBytes}
	}

	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("malformed PDF: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	pages := reader.NumPage()
	if x.config.MaxPages > 0 && pages > x.config.MaxPages {
		pages = x.config.MaxPages
	}

	var builder strings.Builder
	collected := 0

	for number := 1; number <= pages; number++ {
		if x.config.MaxChars > 0 && collected >= x.config.MaxChars {
			break
		}

		page := reader.Page(number)
		if page.V.IsNull() {
			continue
		}

		extracted, err := page.GetPlainText(nil)
		if err != nil || extracted == "" {
			continue
		}

		builder.WriteString(extracted)
		collected += utf8.RuneCountInString(extracted)
	}

	text = builder.String()
	if strings.TrimSpace(text) == "" {
		return "", ErrNoText
	}

	return capRunes(text, x.config.MaxChars), nil
}

func capRunes(text string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return text
	}
	return string([]rune(text)[:limit])
}
