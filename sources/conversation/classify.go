package conversation

import (
	"strings"
)

type Brevity int

const (
	Simple Brevity = iota
	Detailed
)

func (b Brevity) String() string {
	if b == Simple {
		return "simple"
	}
	return "detailed"
}

var simplePrefixes = []string{
	"what is", "who is", "when is", "where is", "how many", "define",
	"explain", "tell me about", "what are", "can you tell me", "is it",
	"what's", "who's", "why is", "how does", "what's the",
}

// Classifier decides whether a message deserves a short or a detailed answer.
type Classifier struct {
	// WordThreshold: messages with fewer words are simple.
	WordThreshold int
	// QuestionWords: questions ending in '?' with at most this many words are simple.
	QuestionWords int
}

func NewClassifier(wordThreshold, questionWords int) Classifier {
	return Classifier{WordThreshold: wordThreshold, QuestionWords: questionWords}
}

func (c Classifier) Classify(text string) Brevity {
	content := strings.ToLower(strings.TrimSpace(text))
	words := len(strings.Fields(content))

	if words < c.WordThreshold {
		return Simple
	}

	for _, prefix := range simplePrefixes {
		if strings.HasPrefix(content, prefix) {
			return Simple
		}
	}

	if words <= c.QuestionWords && strings.HasSuffix(content, "?") {
		return Simple
	}

	return Detailed
}
