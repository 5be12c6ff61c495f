package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"sergeai-server/internal/domain"
	"sergeai-server/internal/repository"
)

const (
	trendWindow = 7
	// streakLookback bounds how far back the check-in streak is computed.
	streakLookback = 365
)

// FactorCount pairs an affecting factor with how often it was reported.
type FactorCount struct {
	Factor string `json:"factor"`
	Count  int    `json:"count"`
}

// MoodAnalytics aggregates a user's mood history over a window of days.
type MoodAnalytics struct {
	AverageMood   float64            `json:"average_mood"`
	Trend         string             `json:"trend"`
	EntryCount    int                `json:"entry_count"`
	CommonFactors []FactorCount      `json:"common_factors"`
	Recent        []domain.MoodEntry `json:"recent_entries"`
}

// MoodOverview summarizes a user's tracking activity.
type MoodOverview struct {
	TotalEntries int
	Streak       int
	Today        *domain.MoodEntry
}

// MoodService manages daily mood check-ins and their analytics.
type MoodService interface {
	// UpsertToday records today's check-in, replacing an earlier one from
	// the same calendar day.
	UpsertToday(ctx context.Context, userID int64, score int, energy string, factors []string, notes string) (*domain.MoodEntry, error)
	List(ctx context.Context, userID int64, offset, limit, days int) ([]domain.MoodEntry, error)
	Get(ctx context.Context, id, userID int64) (*domain.MoodEntry, error)
	Update(ctx context.Context, id, userID int64, score int, energy string, factors []string, notes string) (*domain.MoodEntry, error)
	Delete(ctx context.Context, id, userID int64) error
	Analytics(ctx context.Context, userID int64, days int) (*MoodAnalytics, error)
	Today(ctx context.Context, userID int64) (*domain.MoodEntry, error)
	Streak(ctx context.Context, userID int64) (int, error)
	Overview(ctx context.Context, userID int64) (*MoodOverview, error)
}

type moodService struct {
	entries repository.MoodEntryRepository
	now     func() time.Time
}

func NewMoodService(entries repository.MoodEntryRepository) MoodService {
	return &moodService{entries: entries, now: time.Now}
}

func (s *moodService) UpsertToday(ctx context.Context, userID int64, score int, energy string, factors []string, notes string) (*domain.MoodEntry, error) {
	if err := validateMoodInput(score, energy); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	existing, err := s.entries.GetByUserAndDate(ctx, userID, now)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	if existing != nil {
		existing.MoodScore = score
		existing.EnergyLevel = energy
		existing.AffectingFactors = factors
		existing.Notes = notes
		existing.CreatedAt = now
		if err := s.entries.Update(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	entry := &domain.MoodEntry{
		UserID:           userID,
		MoodScore:        score,
		EnergyLevel:      energy,
		AffectingFactors: factors,
		Notes:            notes,
		CreatedAt:        now,
	}
	if _, err := s.entries.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *moodService) List(ctx context.Context, userID int64, offset, limit, days int) ([]domain.MoodEntry, error) {
	var since *time.Time
	if days > 0 {
		t := s.now().UTC().AddDate(0, 0, -days)
		since = &t
	}
	return s.entries.ListByUser(ctx, userID, offset, limit, since)
}

func (s *moodService) Get(ctx context.Context, id, userID int64) (*domain.MoodEntry, error) {
	return s.entries.GetForUser(ctx, id, userID)
}

func (s *moodService) Update(ctx context.Context, id, userID int64, score int, energy string, factors []string, notes string) (*domain.MoodEntry, error) {
	if err := validateMoodInput(score, energy); err != nil {
		return nil, err
	}

	entry, err := s.entries.GetForUser(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	entry.MoodScore = score
	entry.EnergyLevel = energy
	entry.AffectingFactors = factors
	entry.Notes = notes
	if err := s.entries.Update(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *moodService) Delete(ctx context.Context, id, userID int64) error {
	if _, err := s.entries.GetForUser(ctx, id, userID); err != nil {
		return err
	}
	return s.entries.Delete(ctx, id)
}

func (s *moodService) Analytics(ctx context.Context, userID int64, days int) (*MoodAnalytics, error) {
	if days <= 0 {
		days = 30
	}
	since := s.now().UTC().AddDate(0, 0, -days)

	// Newest first.
	entries, err := s.entries.ListByUserSince(ctx, userID, since)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return &MoodAnalytics{Trend: "stable"}, nil
	}

	var sum int
	factorCounts := map[string]int{}
	for _, entry := range entries {
		sum += entry.MoodScore
		for _, factor := range entry.AffectingFactors {
			factorCounts[factor]++
		}
	}

	analytics := &MoodAnalytics{
		AverageMood:   round1(float64(sum) / float64(len(entries))),
		Trend:         moodTrend(entries),
		EntryCount:    len(entries),
		CommonFactors: topFactors(factorCounts, 5),
		Recent:        entries,
	}
	if len(analytics.Recent) > 10 {
		analytics.Recent = analytics.Recent[:10]
	}
	return analytics, nil
}

func (s *moodService) Today(ctx context.Context, userID int64) (*domain.MoodEntry, error) {
	return s.entries.GetByUserAndDate(ctx, userID, s.now().UTC())
}

func (s *moodService) Streak(ctx context.Context, userID int64) (int, error) {
	since := s.now().UTC().AddDate(0, 0, -streakLookback)
	entries, err := s.entries.ListByUserSince(ctx, userID, since)
	if err != nil {
		return 0, err
	}

	days := map[string]bool{}
	for _, entry := range entries {
		days[entry.CreatedAt.UTC().Format("2006-01-02")] = true
	}

	streak := 0
	day := s.now().UTC()
	// A missing entry for today does not break the streak yet.
	if !days[day.Format("2006-01-02")] {
		day = day.AddDate(0, 0, -1)
	}
	for days[day.Format("2006-01-02")] {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak, nil
}

func (s *moodService) Overview(ctx context.Context, userID int64) (*MoodOverview, error) {
	total, err := s.entries.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	streak, err := s.Streak(ctx, userID)
	if err != nil {
		return nil, err
	}

	overview := &MoodOverview{TotalEntries: total, Streak: streak}

	today, err := s.Today(ctx, userID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if err == nil {
		overview.Today = today
	}
	return overview, nil
}

func validateMoodInput(score int, energy string) error {
	if score < 1 || score > 5 {
		return ValidationError("mood score must be between 1 and 5")
	}
	if energy != "" && !domain.ValidEnergyLevel(energy) {
		return ValidationError(fmt.Sprintf("invalid energy level %q", energy))
	}
	return nil
}

// moodTrend compares the most recent entries against the preceding window.
// Entries must be sorted newest first.
func moodTrend(entries []domain.MoodEntry) string {
	if len(entries) <= trendWindow {
		return "stable"
	}

	recent := entries[:trendWindow]
	previous := entries[trendWindow:]
	if len(previous) > trendWindow {
		previous = previous[:trendWindow]
	}

	diff := averageScore(recent) - averageScore(previous)
	switch {
	case diff > 0.5:
		return "improving"
	case diff < -0.5:
		return "declining"
	default:
		return "stable"
	}
}

func averageScore(entries []domain.MoodEntry) float64 {
	if len(entries) == 0 {
		return 0
	}
	var sum int
	for _, entry := range entries {
		sum += entry.MoodScore
	}
	return float64(sum) / float64(len(entries))
}

func topFactors(counts map[string]int, n int) []FactorCount {
	factors := make([]FactorCount, 0, len(counts))
	for factor, count := range counts {
		factors = append(factors, FactorCount{Factor: factor, Count: count})
	}
	sort.Slice(factors, func(i, j int) bool {
		if factors[i].Count != factors[j].Count {
			return factors[i].Count > factors[j].Count
		}
		return factors[i].Factor < factors[j].Factor
	})
	if len(factors) > n {
		factors = factors[:n]
	}
	return factors
}

func round1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}
