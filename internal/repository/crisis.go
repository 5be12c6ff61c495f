package repository

import (
	"context"
	"time"

	"sergeai-server/internal/domain"
)

// CrisisLogRepository defines persistence operations for crisis logs.
type CrisisLogRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, log *domain.CrisisLog) (int64, error)
	List(ctx context.Context, offset, limit int, unresolvedOnly bool) ([]domain.CrisisLog, error)
	ListRecent(ctx context.Context, limit int) ([]domain.CrisisLog, error)
	Count(ctx context.Context, unresolvedOnly bool) (int, error)
	CountResolved(ctx context.Context) (int, error)
	CountFollowUpNeeded(ctx context.Context) (int, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int, error)
	// Resolve marks the log resolved and clears the follow-up flag.
	Resolve(ctx context.Context, id int64) error
}
