package repository

import (
	"context"
	"time"

	"sergeai-server/internal/domain"
)

// UserRepository defines persistence operations for User entities.
type UserRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, user *domain.User) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	// GetByLogin matches either username or email.
	GetByLogin(ctx context.Context, login string) (*domain.User, error)
	UpdateSettings(ctx context.Context, user *domain.User) error
	// UpdatePassword stores a new credential hash and clears any reset token.
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	SetResetToken(ctx context.Context, id int64, token string, expires time.Time) error
	SetActive(ctx context.Context, id int64, active bool) error
	ListActive(ctx context.Context, offset, limit int) ([]domain.User, error)
	List(ctx context.Context, offset, limit int) ([]domain.User, error)
	ListRecent(ctx context.Context, limit int) ([]domain.User, error)
	Count(ctx context.Context) (int, error)
	CountActive(ctx context.Context) (int, error)
	CountActiveUpdatedSince(ctx context.Context, since time.Time) (int, error)
	NewUsersByDay(ctx context.Context, days int) ([]DayCount, error)
}
