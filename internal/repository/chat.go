package repository

import (
	"context"
	"time"

	"sergeai-server/internal/domain"
)

// ChatSessionRepository defines persistence operations for chat sessions.
type ChatSessionRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, session *domain.ChatSession) (int64, error)
	// GetForUser returns the session regardless of active flag; callers decide
	// whether soft-deleted sessions are visible.
	GetForUser(ctx context.Context, id, userID int64) (*domain.ChatSession, error)
	ListActiveByUser(ctx context.Context, userID int64, offset, limit int) ([]domain.ChatSession, error)
	MostRecentActiveByUser(ctx context.Context, userID int64) (*domain.ChatSession, error)
	UpdateTitle(ctx context.Context, id int64, title string) error
	// Touch bumps the session's updated_at to now.
	Touch(ctx context.Context, id int64) error
	Deactivate(ctx context.Context, id int64) error
	CountActiveByUser(ctx context.Context, userID int64) (int, error)
	CountAll(ctx context.Context) (int, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int, error)
}

// ChatMessageRepository defines persistence operations for chat messages.
type ChatMessageRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, message *domain.ChatMessage) (int64, error)
	ListBySession(ctx context.Context, sessionID int64) ([]domain.ChatMessage, error)
	// RecentBySession returns up to limit messages, newest first.
	RecentBySession(ctx context.Context, sessionID int64, limit int) ([]domain.ChatMessage, error)
	CountBySession(ctx context.Context, sessionID int64) (int, error)
	// CountUserMessagesByUser counts role=user messages across the user's
	// active sessions.
	CountUserMessagesByUser(ctx context.Context, userID int64) (int, error)
	CountUserMessagesSince(ctx context.Context, since time.Time) (int, error)
}
