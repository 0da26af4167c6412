package conversation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPoliciesSelect(t *testing.T) {
	policies := NewPolicies(70, 400)

	simple := policies.Select(Simple)
	assert.Equal(t, Simple, simple.Brevity)
	assert.Equal(t, SimpleInstruction, simple.Instruction)
	assert.Equal(t, 70, simple.MaxTokens)

	detailed := policies.Select(Detailed)
	assert.Equal(t, Detailed, detailed.Brevity)
	assert.Equal(t, DetailedInstruction, detailed.Instruction)
	assert.Equal(t, 400, detailed.MaxTokens)
}

func TestRequestMessagesPrefixesInstruction(t *testing.T) {
	request := Request{
		Policy: NewPolicies(70, 400).Select(Simple),
		Turns: []Turn{
			{Role: RoleUser, Text: "hi"},
			{Role: RoleAssistant, Text: "hello"},
		},
	}

	messages := request.Messages()
	assert.Equal(t, []Turn{
		{Role: RoleSystem, Text: SimpleInstruction},
		{Role: RoleUser, Text: "hi"},
		{Role: RoleAssistant, Text: "hello"},
	}, messages)
}

func TestKeyString(t *testing.T) {
	assert.Equal(t, "42_7", Key{UserID: "42", ChannelID: "7"}.String())
}
