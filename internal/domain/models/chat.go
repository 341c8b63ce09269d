package models

import "time"

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether the role is one of the two known values.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// Message is a single turn in a conversation. Role is immutable after
// creation; content and timestamp may be rewritten in place (editing,
// reconciliation) without changing identity or position.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Session is a named, ordered conversation bound to a model. Message order
// is insertion order and is the canonical conversation order.
type Session struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"created_at"`
	Model     string    `json:"model"`
}

// EditingState marks a user message being revised prior to resubmission.
// At most one exists per store, scoped to the current session; only
// user-role messages may enter it. Content is the snapshot taken at
// edit start, so a cancelled edit can restore the composer.
type EditingState struct {
	MessageID string `json:"message_id"`
	Content   string `json:"content"`
}
