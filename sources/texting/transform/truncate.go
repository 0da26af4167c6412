package transform

import "unicode"

// SmartTruncate shortens text to at most maxLen runes, preferring to end on a word boundary.
func SmartTruncate(text string, maxLen int) string {
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	if maxLen <= 0 {
		return ""
	}

	truncated := runes[:maxLen]

	for i := len(truncated) - 1; i > 0; i-- {
		if unicode.IsSpace(truncated[i]) {
			return string(truncated[:i])
		}
	}

	return string(truncated)
}
