package domain

import "time"

type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// DefaultSessionTitle is assigned to new sessions until the first user
// message replaces it.
const DefaultSessionTitle = "New Chat"

// ChatSession groups the messages of one conversation with the responder.
type ChatSession struct {
	ID           int64
	UUID         string
	UserID       int64
	Title        string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
	MessageCount int
	Messages     []ChatMessage
}

// ChatMessage is a single turn in a session. Metadata carries classification
// and provenance details (triage severity, automated flags).
type ChatMessage struct {
	ID        int64
	SessionID int64
	Role      MessageRole
	Content   string
	Metadata  map[string]any
	CreatedAt time.Time
}
