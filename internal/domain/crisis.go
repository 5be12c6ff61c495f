package domain

import "time"

// CrisisLog records a crisis intervention. UserID is nil for anonymous
// reports so help can be reached without an account.
type CrisisLog struct {
	ID             int64
	UserID         *int64
	CrisisType     string
	ServiceUsed    string
	Resolved       bool
	FollowUpNeeded bool
	CreatedAt      time.Time
}

// Recognized crisis intervention types.
const (
	CrisisTypeCall      = "call"
	CrisisTypeText      = "text"
	CrisisTypeEmergency = "emergency"
	CrisisTypeAIChat    = "ai_chat"
)

// Services a crisis log can reference.
const (
	CrisisServiceLifeline    = "988"
	CrisisServiceTextLine    = "741741"
	CrisisServiceEmergency   = "911"
	CrisisServiceAIAssistant = "ai_assistant"
)

// ValidCrisisType reports whether t is a recognized crisis type.
func ValidCrisisType(t string) bool {
	switch t {
	case CrisisTypeCall, CrisisTypeText, CrisisTypeEmergency, CrisisTypeAIChat:
		return true
	}
	return false
}
