package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sergeai-server/internal/domain"
)

func newTestMoodService(t *testing.T, now time.Time) (*fakeMoodRepo, *moodService) {
	t.Helper()
	repo := newFakeMoodRepo()
	svc := &moodService{entries: repo, now: func() time.Time { return now }}
	return repo, svc
}

func seedMood(t *testing.T, repo *fakeMoodRepo, userID int64, score int, at time.Time, factors ...string) {
	t.Helper()
	_, err := repo.Create(context.Background(), &domain.MoodEntry{
		UserID:           userID,
		MoodScore:        score,
		AffectingFactors: factors,
		CreatedAt:        at,
	})
	require.NoError(t, err)
}

func TestUpsertToday(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 15, 14, 0, 0, 0, time.UTC)
	repo, svc := newTestMoodService(t, now)

	entry, err := svc.UpsertToday(ctx, 1, 4, domain.EnergyHigh, []string{"sleep"}, "good day")
	require.NoError(t, err)
	assert.Equal(t, 4, entry.MoodScore)

	// Same calendar day replaces instead of inserting.
	updated, err := svc.UpsertToday(ctx, 1, 2, domain.EnergyLow, nil, "worse now")
	require.NoError(t, err)
	assert.Equal(t, entry.ID, updated.ID)
	assert.Equal(t, 2, updated.MoodScore)

	total, err := repo.CountByUser(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	_, err = svc.UpsertToday(ctx, 1, 9, "", nil, "")
	var verr ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = svc.UpsertToday(ctx, 1, 3, "turbo", nil, "")
	assert.ErrorAs(t, err, &verr)
}

func TestMoodAnalyticsTrend(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name    string
		recent  int // score for the most recent 7 days
		earlier int // score for the 7 days before that
		want    string
	}{
		{"improving", 5, 2, "improving"},
		{"declining", 1, 4, "declining"},
		{"stable", 3, 3, "stable"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo, svc := newTestMoodService(t, now)
			for i := 0; i < 7; i++ {
				seedMood(t, repo, 1, tc.recent, now.AddDate(0, 0, -i), "work")
			}
			for i := 7; i < 14; i++ {
				seedMood(t, repo, 1, tc.earlier, now.AddDate(0, 0, -i))
			}

			analytics, err := svc.Analytics(ctx, 1, 30)
			require.NoError(t, err)
			assert.Equal(t, tc.want, analytics.Trend)
			assert.Equal(t, 14, analytics.EntryCount)
			assert.Len(t, analytics.Recent, 10)
			require.NotEmpty(t, analytics.CommonFactors)
			assert.Equal(t, "work", analytics.CommonFactors[0].Factor)
			assert.Equal(t, 7, analytics.CommonFactors[0].Count)
		})
	}
}

func TestMoodAnalyticsEmpty(t *testing.T) {
	_, svc := newTestMoodService(t, time.Now().UTC())

	analytics, err := svc.Analytics(context.Background(), 1, 30)
	require.NoError(t, err)
	assert.Equal(t, "stable", analytics.Trend)
	assert.Zero(t, analytics.EntryCount)
	assert.Zero(t, analytics.AverageMood)
}

func TestMoodStreak(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)
	repo, svc := newTestMoodService(t, now)

	// Three consecutive days ending yesterday; today not logged yet.
	for i := 1; i <= 3; i++ {
		seedMood(t, repo, 1, 3, now.AddDate(0, 0, -i))
	}
	// A gap, then an older entry that must not count.
	seedMood(t, repo, 1, 3, now.AddDate(0, 0, -6))

	streak, err := svc.Streak(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, streak)

	// Logging today extends the streak.
	seedMood(t, repo, 1, 4, now)
	streak, err = svc.Streak(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 4, streak)
}

func TestMoodOverview(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)
	repo, svc := newTestMoodService(t, now)

	seedMood(t, repo, 1, 3, now.AddDate(0, 0, -2))
	seedMood(t, repo, 1, 4, now.AddDate(0, 0, -1))

	overview, err := svc.Overview(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, overview.TotalEntries)
	assert.Equal(t, 2, overview.Streak)
	assert.Nil(t, overview.Today)

	seedMood(t, repo, 1, 5, now)
	overview, err = svc.Overview(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, overview.Today)
	assert.Equal(t, 5, overview.Today.MoodScore)
}

func TestMoodStreakEmpty(t *testing.T) {
	_, svc := newTestMoodService(t, time.Now().UTC())
	streak, err := svc.Streak(context.Background(), 1)
	require.NoError(t, err)
	assert.Zero(t, streak)
}

func TestMoodListAndDelete(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)
	repo, svc := newTestMoodService(t, now)

	seedMood(t, repo, 1, 3, now.AddDate(0, 0, -1))
	seedMood(t, repo, 1, 4, now.AddDate(0, 0, -40))
	seedMood(t, repo, 2, 5, now)

	all, err := svc.List(ctx, 1, 0, 50, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	recent, err := svc.List(ctx, 1, 0, 50, 7)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, 3, recent[0].MoodScore)

	// Ownership is enforced on delete.
	assert.Error(t, svc.Delete(ctx, recent[0].ID, 2))
	require.NoError(t, svc.Delete(ctx, recent[0].ID, 1))

	all, err = svc.List(ctx, 1, 0, 50, 0)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
