package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sergeai-server/internal/domain"
)

func TestBreathingStartAndComplete(t *testing.T) {
	ctx := context.Background()
	repo := newFakeBreathingRepo()
	svc := NewBreathingService(repo)

	session, err := svc.Start(ctx, 1, "", 5)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultBreathingTechnique, session.Technique)
	assert.False(t, session.Completed)

	_, err = svc.Start(ctx, 1, "box", 0)
	var verr ValidationError
	assert.ErrorAs(t, err, &verr)

	completed, err := svc.Complete(ctx, session.ID, 1)
	require.NoError(t, err)
	assert.True(t, completed.Completed)

	_, err = svc.Complete(ctx, session.ID, 99)
	assert.Error(t, err)
}

func TestBreathingStats(t *testing.T) {
	ctx := context.Background()
	repo := newFakeBreathingRepo()
	now := time.Now().UTC()
	svc := &breathingService{sessions: repo, now: func() time.Time { return now }}

	seed := []struct {
		minutes   int
		completed bool
		at        time.Time
	}{
		{5, true, now.AddDate(0, 0, -1)},
		{10, false, now.AddDate(0, 0, -2)},
		{3, true, now.AddDate(0, 0, -20)},
	}
	for _, s := range seed {
		_, err := repo.Create(ctx, &domain.BreathingSession{
			UserID:          1,
			Technique:       "4-7-8",
			DurationMinutes: s.minutes,
			Completed:       s.completed,
			CreatedAt:       s.at,
		})
		require.NoError(t, err)
	}

	stats, err := svc.Stats(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalSessions)
	assert.Equal(t, 18, stats.TotalMinutes)
	assert.Equal(t, 2, stats.CompletedCount)
	assert.Equal(t, 2, stats.SessionsThisWeek)
	assert.Equal(t, 6.0, stats.AverageMinutes)
}
