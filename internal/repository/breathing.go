package repository

import (
	"context"
	"time"

	"sergeai-server/internal/domain"
)

// BreathingSessionRepository defines persistence operations for breathing
// exercise sessions.
type BreathingSessionRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, session *domain.BreathingSession) (int64, error)
	GetForUser(ctx context.Context, id, userID int64) (*domain.BreathingSession, error)
	Complete(ctx context.Context, id int64) error
	ListByUser(ctx context.Context, userID int64, offset, limit int) ([]domain.BreathingSession, error)
	ListAllByUser(ctx context.Context, userID int64) ([]domain.BreathingSession, error)
	CountByUser(ctx context.Context, userID int64) (int, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int, error)
	CountCompletedSince(ctx context.Context, since time.Time) (int, error)
}
