package models

// Role identifies who produced a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Message is a single conversation turn. The role is tagged explicitly at
// append time; history always holds alternating user/assistant pairs.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}
