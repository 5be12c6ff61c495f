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

const createChatSessionsTable = `
CREATE TABLE IF NOT EXISTS chat_sessions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	session_uuid TEXT NOT NULL UNIQUE,
	user_id INTEGER NOT NULL REFERENCES users(id),
	title TEXT NOT NULL DEFAULT 'New Chat',
	is_active INTEGER NOT NULL DEFAULT 1,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
`

const chatSessionColumns = `id, session_uuid, user_id, title, is_active, created_at, updated_at`

type ChatSessionRepository struct {
	db *sql.DB
}

func NewChatSessionRepository(db *sql.DB) repository.ChatSessionRepository {
	return &ChatSessionRepository{db: db}
}

func (r *ChatSessionRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createChatSessionsTable); err != nil {
		return fmt.Errorf("create chat sessions table: %w", err)
	}
	return nil
}

func (r *ChatSessionRepository) Create(ctx context.Context, session *domain.ChatSession) (int64, error) {
	now := time.Now().UTC()
	session.CreatedAt = now
	session.UpdatedAt = now

	res, err := r.db.ExecContext(ctx, `
INSERT INTO chat_sessions (session_uuid, user_id, title, is_active, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)`,
		session.UUID,
		session.UserID,
		session.Title,
		session.IsActive,
		session.CreatedAt,
		session.UpdatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert chat session: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("chat session last insert id: %w", err)
	}
	session.ID = id
	return id, nil
}

func (r *ChatSessionRepository) GetForUser(ctx context.Context, id, userID int64) (*domain.ChatSession, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT `+chatSessionColumns+`
FROM chat_sessions
WHERE id = ? AND user_id = ?`,
		id,
		userID,
	)
	return scanChatSession(row)
}

func (r *ChatSessionRepository) ListActiveByUser(ctx context.Context, userID int64, offset, limit int) ([]domain.ChatSession, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT `+chatSessionColumns+`
FROM chat_sessions
WHERE user_id = ? AND is_active = 1
ORDER BY updated_at DESC
LIMIT ? OFFSET ?`,
		userID,
		limit,
		offset,
	)
	if err != nil {
		return nil, fmt.Errorf("query chat sessions: %w", err)
	}
	defer rows.Close()

	var sessions []domain.ChatSession
	for rows.Next() {
		session, err := scanChatSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *session)
	}
	return sessions, rows.Err()
}

func (r *ChatSessionRepository) MostRecentActiveByUser(ctx context.Context, userID int64) (*domain.ChatSession, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT `+chatSessionColumns+`
FROM chat_sessions
WHERE user_id = ? AND is_active = 1
ORDER BY updated_at DESC
LIMIT 1`,
		userID,
	)
	return scanChatSession(row)
}

func (r *ChatSessionRepository) UpdateTitle(ctx context.Context, id int64, title string) error {
	_, err := r.db.ExecContext(ctx, `
UPDATE chat_sessions
SET title=?, updated_at=?
WHERE id=?`,
		title,
		time.Now().UTC(),
		id,
	)
	if err != nil {
		return fmt.Errorf("update chat session title: %w", err)
	}
	return nil
}

func (r *ChatSessionRepository) Touch(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `
UPDATE chat_sessions
SET updated_at=?
WHERE id=?`,
		time.Now().UTC(),
		id,
	)
	if err != nil {
		return fmt.Errorf("touch chat session: %w", err)
	}
	return nil
}

func (r *ChatSessionRepository) Deactivate(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `
UPDATE chat_sessions
SET is_active=0, updated_at=?
WHERE id=?`,
		time.Now().UTC(),
		id,
	)
	if err != nil {
		return fmt.Errorf("deactivate chat session: %w", err)
	}
	return nil
}

func (r *ChatSessionRepository) CountActiveByUser(ctx context.Context, userID int64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
SELECT COUNT(*) FROM chat_sessions WHERE user_id = ? AND is_active = 1`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count chat sessions: %w", err)
	}
	return n, nil
}

func (r *ChatSessionRepository) CountAll(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM chat_sessions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count chat sessions: %w", err)
	}
	return n, nil
}

func (r *ChatSessionRepository) CountCreatedSince(ctx context.Context, since time.Time) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
SELECT COUNT(*) FROM chat_sessions WHERE created_at >= ?`, since.UTC()).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count chat sessions since: %w", err)
	}
	return n, nil
}

func scanChatSession(row interface {
	Scan(dest ...any) error
}) (*domain.ChatSession, error) {
	var session domain.ChatSession
	if err := row.Scan(
		&session.ID,
		&session.UUID,
		&session.UserID,
		&session.Title,
		&session.IsActive,
		&session.CreatedAt,
		&session.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("chat session: %w", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("scan chat session: %w", err)
	}
	return &session, nil
}
