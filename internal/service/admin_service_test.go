package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sergeai-server/internal/domain"
)

func newTestAdminService(t *testing.T) (*fakeUserRepo, *fakeSessionRepo, *fakeCrisisRepo, AdminService) {
	t.Helper()
	users := newFakeUserRepo()
	sessions := newFakeSessionRepo()
	messages := newFakeMessageRepo(sessions)
	moods := newFakeMoodRepo()
	crisis := &fakeCrisisRepo{}
	breathing := newFakeBreathingRepo()
	return users, sessions, crisis, NewAdminService(users, sessions, messages, moods, crisis, breathing)
}

func TestAdminDashboard(t *testing.T) {
	ctx := context.Background()
	users, sessions, crisis, svc := newTestAdminService(t)

	for _, name := range []string{"ada", "grace"} {
		_, err := users.Create(ctx, &domain.User{
			Username: name, Email: name + "@example.com", IsActive: true,
		})
		require.NoError(t, err)
	}
	_, err := sessions.Create(ctx, &domain.ChatSession{UserID: 1, Title: "t", IsActive: true})
	require.NoError(t, err)
	_, err = crisis.Create(ctx, &domain.CrisisLog{CrisisType: domain.CrisisTypeCall, ServiceUsed: domain.CrisisServiceLifeline, FollowUpNeeded: true})
	require.NoError(t, err)

	dashboard, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, dashboard.TotalUsers)
	assert.Equal(t, 2, dashboard.ActiveUsers)
	assert.Equal(t, 1, dashboard.SessionsToday)
	assert.Equal(t, 1, dashboard.CrisisInterventionsToday)
	assert.Equal(t, 1, dashboard.Crisis.Total)
	assert.Equal(t, 1, dashboard.Crisis.FollowUpNeeded)
	assert.Equal(t, "healthy", dashboard.SystemHealth)
}

func TestAdminCrisisLogs(t *testing.T) {
	ctx := context.Background()
	users, _, crisis, svc := newTestAdminService(t)

	id, err := users.Create(ctx, &domain.User{Username: "ada", Email: "ada@example.com", IsActive: true})
	require.NoError(t, err)

	_, err = crisis.Create(ctx, &domain.CrisisLog{UserID: &id, CrisisType: domain.CrisisTypeText, ServiceUsed: domain.CrisisServiceTextLine})
	require.NoError(t, err)
	_, err = crisis.Create(ctx, &domain.CrisisLog{CrisisType: domain.CrisisTypeEmergency, ServiceUsed: domain.CrisisServiceEmergency})
	require.NoError(t, err)

	logs, total, err := svc.CrisisLogs(ctx, 0, 10, false)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, logs, 2)
	assert.Equal(t, "ada", logs[0].Username)
	assert.Equal(t, "ada@example.com", logs[0].Email)
	assert.Empty(t, logs[1].Username, "anonymous log carries no account info")
}

func TestAdminAnalyticsWindow(t *testing.T) {
	ctx := context.Background()
	_, sessions, _, svc := newTestAdminService(t)

	_, err := sessions.Create(ctx, &domain.ChatSession{UserID: 1, Title: "t", IsActive: true})
	require.NoError(t, err)

	analytics, err := svc.Analytics(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 30, analytics.Days, "zero days falls back to the default window")
	assert.Equal(t, 1, analytics.ChatSessions)
}

func TestAdminUsersCounts(t *testing.T) {
	ctx := context.Background()
	users, sessions, _, svc := newTestAdminService(t)

	id, err := users.Create(ctx, &domain.User{Username: "ada", Email: "ada@example.com", IsActive: true, PasswordHash: "secret"})
	require.NoError(t, err)
	_, err = sessions.Create(ctx, &domain.ChatSession{UserID: id, Title: "t", IsActive: true})
	require.NoError(t, err)

	list, total, err := svc.Users(ctx, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, list, 1)
	assert.Equal(t, 1, list[0].ChatSessionCount)
	assert.Empty(t, list[0].PasswordHash, "hash must not leak into admin listings")
}
