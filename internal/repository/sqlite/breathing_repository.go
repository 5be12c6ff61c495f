package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"sergeai-server/internal/domain"
	"sergeai-server/internal/repository"
)

const createBreathingSessionsTable = `
CREATE TABLE IF NOT EXISTS breathing_sessions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL REFERENCES users(id),
	technique TEXT NOT NULL DEFAULT '4-7-8',
	duration_minutes INTEGER NOT NULL,
	completed INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL
);
`

const breathingColumns = `id, user_id, technique, duration_minutes, completed, created_at`

type BreathingSessionRepository struct {
	db *sql.DB
}

func NewBreathingSessionRepository(db *sql.DB) repository.BreathingSessionRepository {
	return &BreathingSessionRepository{db: db}
}

func (r *BreathingSessionRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createBreathingSessionsTable); err != nil {
		return fmt.Errorf("create breathing sessions table: %w", err)
	}
	return nil
}

func (r *BreathingSessionRepository) Create(ctx context.Context, session *domain.BreathingSession) (int64, error) {
	session.CreatedAt = time.Now().UTC()

	res, err := r.db.ExecContext(ctx, `
INSERT INTO breathing_sessions (user_id, technique, duration_minutes, completed, created_at)
VALUES (?, ?, ?, ?, ?)`,
		session.UserID,
		session.Technique,
		session.DurationMinutes,
		session.Completed,
		session.CreatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert breathing session: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("breathing session last insert id: %w", err)
	}
	session.ID = id
	return id, nil
}

func (r *BreathingSessionRepository) GetForUser(ctx context.Context, id, userID int64) (*domain.BreathingSession, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT `+breathingColumns+`
FROM breathing_sessions
WHERE id = ? AND user_id = ?`,
		id,
		userID,
	)
	return scanBreathingSession(row)
}

func (r *BreathingSessionRepository) Complete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE breathing_sessions
SET completed=1
WHERE id=?`,
		id,
	)
	if err != nil {
		return fmt.Errorf("complete breathing session: %w", err)
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("breathing session complete rows affected: %w", err)
	}
	if aff == 0 {
		return fmt.Errorf("breathing session: %w", repository.ErrNotFound)
	}
	return nil
}

func (r *BreathingSessionRepository) ListByUser(ctx context.Context, userID int64, offset, limit int) ([]domain.BreathingSession, error) {
	return r.list(ctx, `
SELECT `+breathingColumns+`
FROM breathing_sessions
WHERE user_id = ?
ORDER BY created_at DESC
LIMIT ? OFFSET ?`, userID, limit, offset)
}

func (r *BreathingSessionRepository) ListAllByUser(ctx context.Context, userID int64) ([]domain.BreathingSession, error) {
	return r.list(ctx, `
SELECT `+breathingColumns+`
FROM breathing_sessions
WHERE user_id = ?
ORDER BY created_at DESC`, userID)
}

func (r *BreathingSessionRepository) list(ctx context.Context, query string, args ...any) ([]domain.BreathingSession, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query breathing sessions: %w", err)
	}
	defer rows.Close()

	var sessions []domain.BreathingSession
	for rows.Next() {
		session, err := scanBreathingSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *session)
	}
	return sessions, rows.Err()
}

func (r *BreathingSessionRepository) CountByUser(ctx context.Context, userID int64) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM breathing_sessions WHERE user_id = ?`, userID)
}

func (r *BreathingSessionRepository) CountCreatedSince(ctx context.Context, since time.Time) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM breathing_sessions WHERE created_at >= ?`, since.UTC())
}

func (r *BreathingSessionRepository) CountCompletedSince(ctx context.Context, since time.Time) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM breathing_sessions WHERE completed = 1 AND created_at >= ?`, since.UTC())
}

func (r *BreathingSessionRepository) count(ctx context.Context, query string, args ...any) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count breathing sessions: %w", err)
	}
	return n, nil
}

func scanBreathingSession(row interface {
	Scan(dest ...any) error
}) (*domain.BreathingSession, error) {
	var session domain.BreathingSession
	if err := row.Scan(
		&session.ID,
		&session.UserID,
		&session.Technique,
		&session.DurationMinutes,
		&session.Completed,
		&session.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("breathing session: %w", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("scan breathing session: %w", err)
	}
	return &session, nil
}
