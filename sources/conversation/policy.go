package conversation

const (
	SimpleInstruction   = "Provide a very brief, direct answer (1-2 sentences, max 200 characters). Use plain language."
	DetailedInstruction = "Answer concisely, under 1800 chars. Focus on main points."
)

type Policy struct {
	Brevity     Brevity
	Instruction string
	MaxTokens   int
}

// Policies is the two-entry brevity table.
type Policies struct {
	Simple   Policy
	Detailed Policy
}

func NewPolicies(simpleMaxTokens, detailedMaxTokens int) Policies {
	return Policies{
		Simple:   Policy{Brevity: Simple, Instruction: SimpleInstruction, MaxTokens: simpleMaxTokens},
		Detailed: Policy{Brevity: Detailed, Instruction: DetailedInstruction, MaxTokens: detailedMaxTokens},
	}
}

func (p Policies) Select(brevity Brevity) Policy {
	if brevity == Simple {
		return p.Simple
	}
	return p.Detailed
}
