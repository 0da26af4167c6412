package conversation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	classifier := NewClassifier(8, 5)

	tests := []struct {
		name     string
		input    string
		expected Brevity
	}{
		{name: "short factual question", input: "What is gravity?", expected: Simple},
		{name: "long essay request", input: "Write a detailed 500-word essay comparing two economic theories", expected: Detailed},
		{name: "empty text", input: "", expected: Simple},
		{name: "whitespace only", input: "   \n\t", expected: Simple},
		{name: "seven words", input: "one two three four five six seven", expected: Simple},
		{name: "eight words without signals", input: "one two three four five six seven eight", expected: Detailed},
		{name: "long text with factual prefix", input: "Explain how the immune system recognizes and fights off novel viral infections", expected: Simple},
		{name: "prefix matched case insensitively", input: "  TELL ME ABOUT the causes and consequences of the french revolution please", expected: Simple},
		{name: "apostrophe prefix", input: "what's the deal with airline food and why is it always so bland", expected: Simple},
		{name: "long question without prefix", input: "Could you compare the architectures of these three database engines for me?", expected: Detailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, classifier.Classify(tt.input))
		})
	}
}

func TestClassifyBelowThresholdIsAlwaysSimple(t *testing.T) {
	classifier := NewClassifier(8, 5)
	vocabulary := []string{"compare", "essay", "write", "detailed", "analysis", "Code", "review", "plan"}

	for words := 0; words < classifier.WordThreshold; words++ {
		text := strings.Join(vocabulary[:words], " ")
		assert.Equal(t, Simple, classifier.Classify(text), "text %q", text)
	}
}

func TestClassifyShortQuestionRule(t *testing.T) {
	classifier := NewClassifier(3, 5)

	assert.Equal(t, Simple, classifier.Classify("does this really work?"))
	assert.Equal(t, Detailed, classifier.Classify("does this really work"))
	assert.Equal(t, Detailed, classifier.Classify("does this really work for everyone?"))
}

func TestBrevityString(t *testing.T) {
	assert.Equal(t, "simple", Simple.String())
	assert.Equal(t, "detailed", Detailed.String())
}
