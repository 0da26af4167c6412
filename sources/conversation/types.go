package conversation

import "fmt"

// Key identifies one transcript: a user talking in a channel.
type Key struct {
	UserID    string
	ChannelID string
}

func (k Key) String() string {
	return fmt.Sprintf("%s_%s", k.UserID, k.ChannelID)
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

func (r Role) valid() bool {
	return r == RoleUser || r == RoleAssistant
}

type Turn struct {
	Role Role
	Text string
}

// Request is what gets handed to the completion provider.
type Request struct {
	Policy Policy
	Turns  []Turn
}

// Messages returns the policy instruction as a leading system message followed by the turns.
func (r Request) Messages() []Turn {
	messages := make([]Turn, 0, len(r.Turns)+1)
	if r.Policy.Instruction != "" {
		messages = append(messages, Turn{Role: RoleSystem, Text: r.Policy.Instruction})
	}
	return append(messages, r.Turns...)
}
