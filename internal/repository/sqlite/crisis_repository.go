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

const createCrisisLogsTable = `
CREATE TABLE IF NOT EXISTS crisis_logs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NULL REFERENCES users(id),
	crisis_type TEXT NOT NULL,
	service_used TEXT NOT NULL,
	resolved INTEGER NOT NULL DEFAULT 0,
	follow_up_needed INTEGER NOT NULL DEFAULT 1,
	created_at DATETIME NOT NULL
);
`

const crisisColumns = `id, user_id, crisis_type, service_used, resolved, follow_up_needed, created_at`

type CrisisLogRepository struct {
	db *sql.DB
}

func NewCrisisLogRepository(db *sql.DB) repository.CrisisLogRepository {
	return &CrisisLogRepository{db: db}
}

func (r *CrisisLogRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createCrisisLogsTable); err != nil {
		return fmt.Errorf("create crisis logs table: %w", err)
	}
	return nil
}

func (r *CrisisLogRepository) Create(ctx context.Context, log *domain.CrisisLog) (int64, error) {
	log.CreatedAt = time.Now().UTC()

	var userID any
	if log.UserID != nil {
		userID = *log.UserID
	}

	res, err := r.db.ExecContext(ctx, `
INSERT INTO crisis_logs (user_id, crisis_type, service_used, resolved, follow_up_needed, created_at)
VALUES (?, ?, ?, ?, ?, ?)`,
		userID,
		log.CrisisType,
		log.ServiceUsed,
		log.Resolved,
		log.FollowUpNeeded,
		log.CreatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert crisis log: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("crisis log last insert id: %w", err)
	}
	log.ID = id
	return id, nil
}

func (r *CrisisLogRepository) List(ctx context.Context, offset, limit int, unresolvedOnly bool) ([]domain.CrisisLog, error) {
	query := `
SELECT ` + crisisColumns + `
FROM crisis_logs`
	if unresolvedOnly {
		query += `
WHERE resolved = 0`
	}
	query += `
ORDER BY created_at DESC
LIMIT ? OFFSET ?`

	return r.list(ctx, query, limit, offset)
}

func (r *CrisisLogRepository) ListRecent(ctx context.Context, limit int) ([]domain.CrisisLog, error) {
	return r.list(ctx, `
SELECT `+crisisColumns+`
FROM crisis_logs
ORDER BY created_at DESC
LIMIT ?`, limit)
}

func (r *CrisisLogRepository) list(ctx context.Context, query string, args ...any) ([]domain.CrisisLog, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query crisis logs: %w", err)
	}
	defer rows.Close()

	var logs []domain.CrisisLog
	for rows.Next() {
		log, err := scanCrisisLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, *log)
	}
	return logs, rows.Err()
}

func (r *CrisisLogRepository) Count(ctx context.Context, unresolvedOnly bool) (int, error) {
	query := `SELECT COUNT(*) FROM crisis_logs`
	if unresolvedOnly {
		query += ` WHERE resolved = 0`
	}
	return r.count(ctx, query)
}

func (r *CrisisLogRepository) CountResolved(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM crisis_logs WHERE resolved = 1`)
}

func (r *CrisisLogRepository) CountFollowUpNeeded(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM crisis_logs WHERE follow_up_needed = 1`)
}

func (r *CrisisLogRepository) CountCreatedSince(ctx context.Context, since time.Time) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM crisis_logs WHERE created_at >= ?`, since.UTC())
}

func (r *CrisisLogRepository) count(ctx context.Context, query string, args ...any) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count crisis logs: %w", err)
	}
	return n, nil
}

func (r *CrisisLogRepository) Resolve(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE crisis_logs
SET resolved=1, follow_up_needed=0
WHERE id=?`,
		id,
	)
	if err != nil {
		return fmt.Errorf("resolve crisis log: %w", err)
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("crisis log resolve rows affected: %w", err)
	}
	if aff == 0 {
		return fmt.Errorf("crisis log: %w", repository.ErrNotFound)
	}
	return nil
}

func scanCrisisLog(row interface {
	Scan(dest ...any) error
}) (*domain.CrisisLog, error) {
	var (
		log    domain.CrisisLog
		userID sql.NullInt64
	)
	if err := row.Scan(
		&log.ID,
		&userID,
		&log.CrisisType,
		&log.ServiceUsed,
		&log.Resolved,
		&log.FollowUpNeeded,
		&log.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("crisis log: %w", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("scan crisis log: %w", err)
	}
	if userID.Valid {
		v := userID.Int64
		log.UserID = &v
	}
	return &log, nil
}
