package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUserService(t *testing.T) (*fakeUserRepo, UserService) {
	t.Helper()
	repo := newFakeUserRepo()
	return repo, NewUserService(repo, time.Hour)
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	_, svc := newTestUserService(t)

	user, err := svc.Register(ctx, "ada", "ada@example.com", "Ada Lovelace", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, "ada", user.Username)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.True(t, user.IsActive)
	assert.Equal(t, "light", user.ThemePreference)
	assert.NotEmpty(t, user.UUID)
	assert.Empty(t, user.PasswordHash, "hash must not leak out of the service")

	_, err = svc.Register(ctx, "ada", "other@example.com", "", "correct horse")
	assert.ErrorIs(t, err, ErrUsernameTaken)

	_, err = svc.Register(ctx, "grace", "ada@example.com", "", "correct horse")
	assert.ErrorIs(t, err, ErrEmailRegistered)

	_, err = svc.Register(ctx, "grace", "grace@example.com", "", "short")
	var verr ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	repo, svc := newTestUserService(t)

	registered, err := svc.Register(ctx, "ada", "ada@example.com", "Ada", "correct horse")
	require.NoError(t, err)

	user, err := svc.Authenticate(ctx, "ada", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)

	// Email works as the login too.
	_, err = svc.Authenticate(ctx, "ada@example.com", "correct horse")
	assert.NoError(t, err)

	_, err = svc.Authenticate(ctx, "ada", "wrong password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "nobody", "correct horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, repo.SetActive(ctx, registered.ID, false))
	_, err = svc.Authenticate(ctx, "ada", "correct horse")
	assert.ErrorIs(t, err, ErrInactiveUser)
}

func TestUpdateSettings(t *testing.T) {
	ctx := context.Background()
	_, svc := newTestUserService(t)

	registered, err := svc.Register(ctx, "ada", "ada@example.com", "Ada", "correct horse")
	require.NoError(t, err)

	dark := "dark"
	off := false
	user, err := svc.UpdateSettings(ctx, registered.ID, SettingsUpdate{
		ThemePreference:      &dark,
		NotificationsEnabled: &off,
	})
	require.NoError(t, err)
	assert.Equal(t, "dark", user.ThemePreference)
	assert.False(t, user.NotificationsEnabled)
	// Untouched fields keep their defaults.
	assert.True(t, user.DailyCheckins)

	_, err = svc.UpdateSettings(ctx, registered.ID, SettingsUpdate{})
	assert.Error(t, err)

	neon := "neon"
	_, err = svc.UpdateSettings(ctx, registered.ID, SettingsUpdate{ThemePreference: &neon})
	assert.Error(t, err)
}

func TestPasswordResetLifecycle(t *testing.T) {
	ctx := context.Background()
	repo, svc := newTestUserService(t)

	registered, err := svc.Register(ctx, "ada", "ada@example.com", "Ada", "correct horse")
	require.NoError(t, err)

	token, user, err := svc.RequestPasswordReset(ctx, "ADA@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, registered.ID, user.ID)

	require.NoError(t, svc.VerifyResetToken(ctx, "ada@example.com", token))
	assert.ErrorIs(t, svc.VerifyResetToken(ctx, "ada@example.com", "bogus"), ErrInvalidResetToken)
	assert.ErrorIs(t, svc.VerifyResetToken(ctx, "other@example.com", token), ErrInvalidResetToken)

	require.NoError(t, svc.ResetPassword(ctx, "ada@example.com", token, "brand new pass"))

	// The token is single use.
	assert.ErrorIs(t, svc.ResetPassword(ctx, "ada@example.com", token, "another pass"), ErrInvalidResetToken)

	_, err = svc.Authenticate(ctx, "ada", "correct horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Authenticate(ctx, "ada", "brand new pass")
	assert.NoError(t, err)

	// A fresh token replaces the old one and honors expiry.
	token, _, err = svc.RequestPasswordReset(ctx, "ada@example.com")
	require.NoError(t, err)
	expired := time.Now().UTC().Add(-time.Minute)
	repo.users[registered.ID].ResetTokenExpires = &expired
	assert.ErrorIs(t, svc.VerifyResetToken(ctx, "ada@example.com", token), ErrInvalidResetToken)
}

func TestRequestPasswordResetUnknownEmail(t *testing.T) {
	_, svc := newTestUserService(t)

	_, _, err := svc.RequestPasswordReset(context.Background(), "ghost@example.com")
	assert.Error(t, err)
}

func TestDeactivate(t *testing.T) {
	ctx := context.Background()
	_, svc := newTestUserService(t)

	registered, err := svc.Register(ctx, "ada", "ada@example.com", "Ada", "correct horse")
	require.NoError(t, err)

	require.NoError(t, svc.Deactivate(ctx, registered.ID))
	user, err := svc.GetByID(ctx, registered.ID)
	require.NoError(t, err)
	assert.False(t, user.IsActive)

	active, err := svc.ListActive(ctx, 0, 10)
	require.NoError(t, err)
	assert.Empty(t, active)
}
