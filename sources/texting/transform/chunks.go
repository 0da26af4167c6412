package transform

import (
	"strings"
	"unicode"
)

// Chunks splits text into pieces of at most cs runes. A piece is cut at the
// last newline or space inside the window when there is one, otherwise hard.
func Chunks(text string, cs int) []string {
	if cs <= 0 {
		return []string{text}
	}

	runes := []rune(text)
	var chunks []string

	for len(runes) > 0 {
		if len(runes) <= cs {
			chunks = appendChunk(chunks, string(runes))
			break
		}

		cut := boundary(runes[:cs])
		if cut <= 0 {
			cut = cs
		}

		chunks = appendChunk(chunks, string(runes[:cut]))
		runes = runes[cut:]
	}

	return chunks
}

func boundary(window []rune) int {
	newline, space := -1, -1
	for i := len(window) - 1; i > 0; i-- {
		if window[i] == '\n' && newline < 0 {
			newline = i
			break
		}
		if unicode.IsSpace(window[i]) && space < 0 {
			space = i
		}
	}

	// a newline in the upper half wins over the closest space
	if newline >= len(window)/2 {
		return newline + 1
	}
	if space > 0 {
		return space + 1
	}
	return newline + 1
}

func appendChunk(chunks []string, chunk string) []string {
	if strings.TrimSpace(chunk) == "" {
		return chunks
	}
	return append(chunks, chunk)
}
