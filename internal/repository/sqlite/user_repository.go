package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"sergeai-server/internal/domain"
	"sergeai-server/internal/repository"
)

const createUsersTable = `
CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_uuid TEXT NOT NULL UNIQUE,
	username TEXT NOT NULL UNIQUE,
	email TEXT NOT NULL UNIQUE,
	full_name TEXT NOT NULL DEFAULT '',
	password_hash TEXT NOT NULL,
	is_active INTEGER NOT NULL DEFAULT 1,
	theme_preference TEXT NOT NULL DEFAULT 'light',
	notifications_enabled INTEGER NOT NULL DEFAULT 1,
	daily_checkins INTEGER NOT NULL DEFAULT 1,
	wellness_tips INTEGER NOT NULL DEFAULT 1,
	breathing_reminders INTEGER NOT NULL DEFAULT 0,
	biometric_lock INTEGER NOT NULL DEFAULT 0,
	reset_token TEXT NULL,
	reset_token_expires DATETIME NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
`

const userColumns = `id, user_uuid, username, email, full_name, password_hash, is_active,
theme_preference, notifications_enabled, daily_checkins, wellness_tips, breathing_reminders, biometric_lock,
reset_token, reset_token_expires, created_at, updated_at`

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createUsersTable); err != nil {
		return fmt.Errorf("create users table: %w", err)
	}
	return nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (int64, error) {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	res, err := r.db.ExecContext(ctx, `
INSERT INTO users (user_uuid, username, email, full_name, password_hash, is_active,
	theme_preference, notifications_enabled, daily_checkins, wellness_tips, breathing_reminders, biometric_lock,
	created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.UUID,
		user.Username,
		user.Email,
		user.FullName,
		user.PasswordHash,
		user.IsActive,
		user.ThemePreference,
		user.NotificationsEnabled,
		user.DailyCheckins,
		user.WellnessTips,
		user.BreathingReminders,
		user.BiometricLock,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") {
			return 0, fmt.Errorf("user: %w", repository.ErrDuplicate)
		}
		return 0, fmt.Errorf("insert user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("user last insert id: %w", err)
	}
	user.ID = id
	return id, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT `+userColumns+`
FROM users
WHERE id = ?`,
		id,
	)
	return scanUser(row)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT `+userColumns+`
FROM users
WHERE email = ?`,
		email,
	)
	return scanUser(row)
}

func (r *UserRepository) GetByLogin(ctx context.Context, login string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT `+userColumns+`
FROM users
WHERE username = ? OR email = ?`,
		login,
		login,
	)
	return scanUser(row)
}

func (r *UserRepository) UpdateSettings(ctx context.Context, user *domain.User) error {
	user.UpdatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
UPDATE users
SET full_name=?, theme_preference=?, notifications_enabled=?, daily_checkins=?, wellness_tips=?, breathing_reminders=?, biometric_lock=?, updated_at=?
WHERE id=?`,
		user.FullName,
		user.ThemePreference,
		user.NotificationsEnabled,
		user.DailyCheckins,
		user.WellnessTips,
		user.BreathingReminders,
		user.BiometricLock,
		user.UpdatedAt,
		user.ID,
	)
	if err != nil {
		return fmt.Errorf("update user settings: %w", err)
	}
	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	_, err := r.db.ExecContext(ctx, `
UPDATE users
SET password_hash=?, reset_token=NULL, reset_token_expires=NULL, updated_at=?
WHERE id=?`,
		passwordHash,
		time.Now().UTC(),
		id,
	)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

func (r *UserRepository) SetResetToken(ctx context.Context, id int64, token string, expires time.Time) error {
	_, err := r.db.ExecContext(ctx, `
UPDATE users
SET reset_token=?, reset_token_expires=?, updated_at=?
WHERE id=?`,
		token,
		expires.UTC(),
		time.Now().UTC(),
		id,
	)
	if err != nil {
		return fmt.Errorf("set reset token: %w", err)
	}
	return nil
}

func (r *UserRepository) SetActive(ctx context.Context, id int64, active bool) error {
	_, err := r.db.ExecContext(ctx, `
UPDATE users
SET is_active=?, updated_at=?
WHERE id=?`,
		active,
		time.Now().UTC(),
		id,
	)
	if err != nil {
		return fmt.Errorf("set user active: %w", err)
	}
	return nil
}

func (r *UserRepository) ListActive(ctx context.Context, offset, limit int) ([]domain.User, error) {
	return r.list(ctx, `
SELECT `+userColumns+`
FROM users
WHERE is_active = 1
ORDER BY id ASC
LIMIT ? OFFSET ?`, limit, offset)
}

func (r *UserRepository) List(ctx context.Context, offset, limit int) ([]domain.User, error) {
	return r.list(ctx, `
SELECT `+userColumns+`
FROM users
ORDER BY created_at DESC
LIMIT ? OFFSET ?`, limit, offset)
}

func (r *UserRepository) ListRecent(ctx context.Context, limit int) ([]domain.User, error) {
	return r.list(ctx, `
SELECT `+userColumns+`
FROM users
ORDER BY created_at DESC
LIMIT ?`, limit)
}

func (r *UserRepository) list(ctx context.Context, query string, args ...any) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

func (r *UserRepository) Count(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM users`)
}

func (r *UserRepository) CountActive(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM users WHERE is_active = 1`)
}

func (r *UserRepository) CountActiveUpdatedSince(ctx context.Context, since time.Time) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM users WHERE is_active = 1 AND updated_at >= ?`, since.UTC())
}

func (r *UserRepository) count(ctx context.Context, query string, args ...any) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

func (r *UserRepository) NewUsersByDay(ctx context.Context, days int) ([]repository.DayCount, error) {
	since := time.Now().UTC().AddDate(0, 0, -days)
	rows, err := r.db.QueryContext(ctx, `
SELECT date(created_at) AS day, COUNT(*)
FROM users
WHERE created_at >= ?
GROUP BY day
ORDER BY day ASC`,
		since,
	)
	if err != nil {
		return nil, fmt.Errorf("query new users by day: %w", err)
	}
	defer rows.Close()

	var counts []repository.DayCount
	for rows.Next() {
		var (
			day string
			n   int
		)
		if err := rows.Scan(&day, &n); err != nil {
			return nil, fmt.Errorf("scan new users by day: %w", err)
		}
		date, err := time.Parse("2006-01-02", day)
		if err != nil {
			return nil, fmt.Errorf("parse day %q: %w", day, err)
		}
		counts = append(counts, repository.DayCount{Date: date, Count: n})
	}
	return counts, rows.Err()
}

func scanUser(row interface {
	Scan(dest ...any) error
}) (*domain.User, error) {
	var (
		user       domain.User
		resetToken sql.NullString
		resetExp   sql.NullTime
	)
	if err := row.Scan(
		&user.ID,
		&user.UUID,
		&user.Username,
		&user.Email,
		&user.FullName,
		&user.PasswordHash,
		&user.IsActive,
		&user.ThemePreference,
		&user.NotificationsEnabled,
		&user.DailyCheckins,
		&user.WellnessTips,
		&user.BreathingReminders,
		&user.BiometricLock,
		&resetToken,
		&resetExp,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user: %w", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	if resetToken.Valid {
		user.ResetToken = &resetToken.String
	}
	if resetExp.Valid {
		t := resetExp.Time
		user.ResetTokenExpires = &t
	}
	return &user, nil
}
