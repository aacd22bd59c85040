package models

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of a conversation. Order in a slice is chronological.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}
