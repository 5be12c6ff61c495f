package repository

import (
	"context"
	"time"

	"sergeai-server/internal/domain"
)

// MoodEntryRepository defines persistence operations for mood entries.
type MoodEntryRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, entry *domain.MoodEntry) (int64, error)
	Update(ctx context.Context, entry *domain.MoodEntry) error
	Delete(ctx context.Context, id int64) error
	GetForUser(ctx context.Context, id, userID int64) (*domain.MoodEntry, error)
	// GetByUserAndDate returns the entry whose created_at falls on the given
	// UTC calendar day.
	GetByUserAndDate(ctx context.Context, userID int64, day time.Time) (*domain.MoodEntry, error)
	ListByUser(ctx context.Context, userID int64, offset, limit int, since *time.Time) ([]domain.MoodEntry, error)
	ListByUserSince(ctx context.Context, userID int64, since time.Time) ([]domain.MoodEntry, error)
	ListSince(ctx context.Context, since time.Time) ([]domain.MoodEntry, error)
	CountByUser(ctx context.Context, userID int64) (int, error)
	AverageByDay(ctx context.Context, days int) ([]DayAverage, error)
}
