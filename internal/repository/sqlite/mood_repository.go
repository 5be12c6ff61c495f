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

const createMoodEntriesTable = `
CREATE TABLE IF NOT EXISTS mood_entries (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL REFERENCES users(id),
	mood_score INTEGER NOT NULL,
	energy_level TEXT NOT NULL DEFAULT '',
	affecting_factors TEXT NULL,
	notes TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL
);
`

const moodColumns = `id, user_id, mood_score, energy_level, affecting_factors, notes, created_at`

type MoodEntryRepository struct {
	db *sql.DB
}

func NewMoodEntryRepository(db *sql.DB) repository.MoodEntryRepository {
	return &MoodEntryRepository{db: db}
}

func (r *MoodEntryRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createMoodEntriesTable); err != nil {
		return fmt.Errorf("create mood entries table: %w", err)
	}
	return nil
}

func (r *MoodEntryRepository) Create(ctx context.Context, entry *domain.MoodEntry) (int64, error) {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	factors, err := encodeFactors(entry.AffectingFactors)
	if err != nil {
		return 0, err
	}

	res, err := r.db.ExecContext(ctx, `
INSERT INTO mood_entries (user_id, mood_score, energy_level, affecting_factors, notes, created_at)
VALUES (?, ?, ?, ?, ?, ?)`,
		entry.UserID,
		entry.MoodScore,
		entry.EnergyLevel,
		factors,
		entry.Notes,
		entry.CreatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert mood entry: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("mood entry last insert id: %w", err)
	}
	entry.ID = id
	return id, nil
}

func (r *MoodEntryRepository) Update(ctx context.Context, entry *domain.MoodEntry) error {
	factors, err := encodeFactors(entry.AffectingFactors)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
UPDATE mood_entries
SET mood_score=?, energy_level=?, affecting_factors=?, notes=?, created_at=?
WHERE id=?`,
		entry.MoodScore,
		entry.EnergyLevel,
		factors,
		entry.Notes,
		entry.CreatedAt.UTC(),
		entry.ID,
	)
	if err != nil {
		return fmt.Errorf("update mood entry: %w", err)
	}
	return nil
}

func (r *MoodEntryRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM mood_entries WHERE id=?`, id)
	if err != nil {
		return fmt.Errorf("delete mood entry: %w", err)
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mood entry delete rows affected: %w", err)
	}
	if aff == 0 {
		return fmt.Errorf("mood entry: %w", repository.ErrNotFound)
	}
	return nil
}

func (r *MoodEntryRepository) GetForUser(ctx context.Context, id, userID int64) (*domain.MoodEntry, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT `+moodColumns+`
FROM mood_entries
WHERE id = ? AND user_id = ?`,
		id,
		userID,
	)
	return scanMoodEntry(row)
}

func (r *MoodEntryRepository) GetByUserAndDate(ctx context.Context, userID int64, day time.Time) (*domain.MoodEntry, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT `+moodColumns+`
FROM mood_entries
WHERE user_id = ? AND date(created_at) = date(?)`,
		userID,
		day.UTC(),
	)
	return scanMoodEntry(row)
}

func (r *MoodEntryRepository) ListByUser(ctx context.Context, userID int64, offset, limit int, since *time.Time) ([]domain.MoodEntry, error) {
	query := `
SELECT ` + moodColumns + `
FROM mood_entries
WHERE user_id = ?`
	args := []any{userID}
	if since != nil {
		query += ` AND created_at >= ?`
		args = append(args, since.UTC())
	}
	query += `
ORDER BY created_at DESC
LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	return r.list(ctx, query, args...)
}

func (r *MoodEntryRepository) ListByUserSince(ctx context.Context, userID int64, since time.Time) ([]domain.MoodEntry, error) {
	return r.list(ctx, `
SELECT `+moodColumns+`
FROM mood_entries
WHERE user_id = ? AND created_at >= ?
ORDER BY created_at DESC`, userID, since.UTC())
}

func (r *MoodEntryRepository) ListSince(ctx context.Context, since time.Time) ([]domain.MoodEntry, error) {
	return r.list(ctx, `
SELECT `+moodColumns+`
FROM mood_entries
WHERE created_at >= ?
ORDER BY created_at DESC`, since.UTC())
}

func (r *MoodEntryRepository) list(ctx context.Context, query string, args ...any) ([]domain.MoodEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query mood entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.MoodEntry
	for rows.Next() {
		entry, err := scanMoodEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	return entries, rows.Err()
}

func (r *MoodEntryRepository) CountByUser(ctx context.Context, userID int64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
SELECT COUNT(*) FROM mood_entries WHERE user_id = ?`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count mood entries: %w", err)
	}
	return n, nil
}

func (r *MoodEntryRepository) AverageByDay(ctx context.Context, days int) ([]repository.DayAverage, error) {
	since := time.Now().UTC().AddDate(0, 0, -days)
	rows, err := r.db.QueryContext(ctx, `
SELECT date(created_at) AS day, AVG(mood_score), COUNT(*)
FROM mood_entries
WHERE created_at >= ?
GROUP BY day
ORDER BY day ASC`,
		since,
	)
	if err != nil {
		return nil, fmt.Errorf("query mood averages by day: %w", err)
	}
	defer rows.Close()

	var averages []repository.DayAverage
	for rows.Next() {
		var (
			day string
			avg float64
			n   int
		)
		if err := rows.Scan(&day, &avg, &n); err != nil {
			return nil, fmt.Errorf("scan mood average by day: %w", err)
		}
		date, err := time.Parse("2006-01-02", day)
		if err != nil {
			return nil, fmt.Errorf("parse day %q: %w", day, err)
		}
		averages = append(averages, repository.DayAverage{Date: date, Average: avg, Count: n})
	}
	return averages, rows.Err()
}

func encodeFactors(factors []string) (any, error) {
	if factors == nil {
		return nil, nil
	}
	encoded, err := json.Marshal(factors)
	if err != nil {
		return nil, fmt.Errorf("encode affecting factors: %w", err)
	}
	return string(encoded), nil
}

func scanMoodEntry(row interface {
	Scan(dest ...any) error
}) (*domain.MoodEntry, error) {
	var (
		entry   domain.MoodEntry
		factors sql.NullString
	)
	if err := row.Scan(
		&entry.ID,
		&entry.UserID,
		&entry.MoodScore,
		&entry.EnergyLevel,
		&factors,
		&entry.Notes,
		&entry.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("mood entry: %w", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("scan mood entry: %w", err)
	}
	if factors.Valid && factors.String != "" {
		if err := json.Unmarshal([]byte(factors.String), &entry.AffectingFactors); err != nil {
			return nil, fmt.Errorf("decode affecting factors: %w", err)
		}
	}
	return &entry, nil
}
