package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"sergeai-server/internal/domain"
	"sergeai-server/internal/repository"
)

const createChatMessagesTable = `
CREATE TABLE IF NOT EXISTS chat_messages (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id INTEGER NOT NULL REFERENCES chat_sessions(id),
	role TEXT NOT NULL,
	content TEXT NOT NULL,
	metadata TEXT NULL,
	created_at DATETIME NOT NULL
);
`

type ChatMessageRepository struct {
	db *sql.DB
}

func NewChatMessageRepository(db *sql.DB) repository.ChatMessageRepository {
	return &ChatMessageRepository{db: db}
}

func (r *ChatMessageRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createChatMessagesTable); err != nil {
		return fmt.Errorf("create chat messages table: %w", err)
	}
	return nil
}

func (r *ChatMessageRepository) Create(ctx context.Context, message *domain.ChatMessage) (int64, error) {
	message.CreatedAt = time.Now().UTC()

	var metadata any
	if message.Metadata != nil {
		encoded, err := json.Marshal(message.Metadata)
		if err != nil {
			return 0, fmt.Errorf("encode message metadata: %w", err)
		}
		metadata = string(encoded)
	}

	res, err := r.db.ExecContext(ctx, `
INSERT INTO chat_messages (session_id, role, content, metadata, created_at)
VALUES (?, ?, ?, ?, ?)`,
		message.SessionID,
		string(message.Role),
		message.Content,
		metadata,
		message.CreatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert chat message: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("chat message last insert id: %w", err)
	}
	message.ID = id
	return id, nil
}

func (r *ChatMessageRepository) ListBySession(ctx context.Context, sessionID int64) ([]domain.ChatMessage, error) {
	return r.list(ctx, `
SELECT id, session_id, role, content, metadata, created_at
FROM chat_messages
WHERE session_id = ?
ORDER BY created_at ASC, id ASC`, sessionID)
}

func (r *ChatMessageRepository) RecentBySession(ctx context.Context, sessionID int64, limit int) ([]domain.ChatMessage, error) {
	return r.list(ctx, `
SELECT id, session_id, role, content, metadata, created_at
FROM chat_messages
WHERE session_id = ?
ORDER BY created_at DESC, id DESC
LIMIT ?`, sessionID, limit)
}

func (r *ChatMessageRepository) list(ctx context.Context, query string, args ...any) ([]domain.ChatMessage, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query chat messages: %w", err)
	}
	defer rows.Close()

	var messages []domain.ChatMessage
	for rows.Next() {
		message, err := scanChatMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, *message)
	}
	return messages, rows.Err()
}

func (r *ChatMessageRepository) CountBySession(ctx context.Context, sessionID int64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
SELECT COUNT(*) FROM chat_messages WHERE session_id = ?`, sessionID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count chat messages: %w", err)
	}
	return n, nil
}

func (r *ChatMessageRepository) CountUserMessagesByUser(ctx context.Context, userID int64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
SELECT COUNT(*)
FROM chat_messages m
JOIN chat_sessions s ON s.id = m.session_id
WHERE s.user_id = ? AND s.is_active = 1 AND m.role = ?`,
		userID,
		string(domain.RoleUser),
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count user messages: %w", err)
	}
	return n, nil
}

func (r *ChatMessageRepository) CountUserMessagesSince(ctx context.Context, since time.Time) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
SELECT COUNT(*)
FROM chat_messages
WHERE role = ? AND created_at >= ?`,
		string(domain.RoleUser),
		since.UTC(),
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count user messages since: %w", err)
	}
	return n, nil
}

func scanChatMessage(row interface {
	Scan(dest ...any) error
}) (*domain.ChatMessage, error) {
	var (
		message  domain.ChatMessage
		role     string
		metadata sql.NullString
	)
	if err := row.Scan(
		&message.ID,
		&message.SessionID,
		&role,
		&message.Content,
		&metadata,
		&message.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("chat message: %w", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("scan chat message: %w", err)
	}
	message.Role = domain.MessageRole(role)
	if metadata.Valid && metadata.String != "" {
		if err := json.Unmarshal([]byte(metadata.String), &message.Metadata); err != nil {
			return nil, fmt.Errorf("decode message metadata: %w", err)
		}
	}
	return &message, nil
}
