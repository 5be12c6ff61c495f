package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"sergeai-server/internal/domain"
	"sergeai-server/internal/repository"
)

var (
	// ErrInvalidCredentials indicates that provided login credentials are incorrect.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInactiveUser indicates the account has been deactivated.
	ErrInactiveUser = errors.New("inactive user account")
	// ErrUsernameTaken is returned when registering with an existing username.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrEmailRegistered is returned when registering with an existing email.
	ErrEmailRegistered = errors.New("email already registered")
	// ErrInvalidResetToken indicates a reset token mismatch or expiry.
	ErrInvalidResetToken = errors.New("invalid or expired token")
)

// SettingsUpdate carries optional profile/settings changes; nil fields are
// left untouched.
type SettingsUpdate struct {
	FullName             *string
	ThemePreference      *string
	NotificationsEnabled *bool
	DailyCheckins        *bool
	WellnessTips         *bool
	BreathingReminders   *bool
	BiometricLock        *bool
}

// UserService describes user lifecycle operations.
type UserService interface {
	Register(ctx context.Context, username, email, fullName, password string) (*domain.User, error)
	Authenticate(ctx context.Context, login, password string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	UpdateSettings(ctx context.Context, userID int64, update SettingsUpdate) (*domain.User, error)
	Deactivate(ctx context.Context, userID int64) error
	ListActive(ctx context.Context, offset, limit int) ([]domain.User, error)

	// RequestPasswordReset stores a fresh single-use reset token on the
	// account and returns it so the caller can deliver it by mail. Returns a
	// repository.ErrNotFound-wrapping error for unknown emails; callers must
	// not reveal that to clients.
	RequestPasswordReset(ctx context.Context, email string) (string, *domain.User, error)
	VerifyResetToken(ctx context.Context, email, token string) error
	ResetPassword(ctx context.Context, email, token, newPassword string) error
}

type userService struct {
	users    repository.UserRepository
	resetTTL time.Duration
	now      func() time.Time
}

func NewUserService(users repository.UserRepository, resetTTL time.Duration) UserService {
	return &userService{
		users:    users,
		resetTTL: resetTTL,
		now:      time.Now,
	}
}

func (s *userService) Register(ctx context.Context, username, email, fullName, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(strings.ToLower(email))
	fullName = strings.TrimSpace(fullName)

	if username == "" {
		return nil, ValidationError("username is required")
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, ValidationError("a valid email is required")
	}
	if password == "" {
		return nil, ValidationError("password is required")
	}
	if len(password) < 8 {
		return nil, ValidationError("password must be at least 8 characters")
	}

	if existing, err := s.users.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, ErrEmailRegistered
	} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if existing, err := s.users.GetByLogin(ctx, username); err == nil && existing != nil {
		return nil, ErrUsernameTaken
	} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		UUID:                 uuid.NewString(),
		Username:             username,
		Email:                email,
		FullName:             fullName,
		PasswordHash:         string(hash),
		IsActive:             true,
		ThemePreference:      "light",
		NotificationsEnabled: true,
		DailyCheckins:        true,
		WellnessTips:         true,
	}

	if _, err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}

	return sanitizeUser(user), nil
}

func (s *userService) Authenticate(ctx context.Context, login, password string) (*domain.User, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrInactiveUser
	}

	return sanitizeUser(user), nil
}

func (s *userService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return sanitizeUser(user), nil
}

func (s *userService) UpdateSettings(ctx context.Context, userID int64, update SettingsUpdate) (*domain.User, error) {
	if update == (SettingsUpdate{}) {
		return nil, ValidationError("no valid settings provided")
	}
	if update.ThemePreference != nil && *update.ThemePreference != "light" && *update.ThemePreference != "dark" {
		return nil, ValidationError("theme must be 'light' or 'dark'")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if update.FullName != nil {
		user.FullName = strings.TrimSpace(*update.FullName)
	}
	if update.ThemePreference != nil {
		user.ThemePreference = *update.ThemePreference
	}
	if update.NotificationsEnabled != nil {
		user.NotificationsEnabled = *update.NotificationsEnabled
	}
	if update.DailyCheckins != nil {
		user.DailyCheckins = *update.DailyCheckins
	}
	if update.WellnessTips != nil {
		user.WellnessTips = *update.WellnessTips
	}
	if update.BreathingReminders != nil {
		user.BreathingReminders = *update.BreathingReminders
	}
	if update.BiometricLock != nil {
		user.BiometricLock = *update.BiometricLock
	}

	if err := s.users.UpdateSettings(ctx, user); err != nil {
		return nil, err
	}
	return sanitizeUser(user), nil
}

func (s *userService) Deactivate(ctx context.Context, userID int64) error {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return err
	}
	return s.users.SetActive(ctx, userID, false)
}

func (s *userService) ListActive(ctx context.Context, offset, limit int) ([]domain.User, error) {
	users, err := s.users.ListActive(ctx, offset, limit)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i] = *sanitizeUser(&users[i])
	}
	return users, nil
}

func (s *userService) RequestPasswordReset(ctx context.Context, email string) (string, *domain.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}

	token := uuid.NewString()
	expires := s.now().UTC().Add(s.resetTTL)
	if err := s.users.SetResetToken(ctx, user.ID, token, expires); err != nil {
		return "", nil, err
	}

	return token, sanitizeUser(user), nil
}

func (s *userService) VerifyResetToken(ctx context.Context, email, token string) error {
	_, err := s.userForResetToken(ctx, email, token)
	return err
}

func (s *userService) ResetPassword(ctx context.Context, email, token, newPassword string) error {
	if len(newPassword) < 8 {
		return ValidationError("password must be at least 8 characters")
	}

	user, err := s.userForResetToken(ctx, email, token)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	// UpdatePassword also clears the stored token, consuming it.
	return s.users.UpdatePassword(ctx, user.ID, string(hash))
}

func (s *userService) userForResetToken(ctx context.Context, email, token string) (*domain.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidResetToken
		}
		return nil, err
	}
	if !user.HasValidResetToken(token, s.now().UTC()) {
		return nil, ErrInvalidResetToken
	}
	return user, nil
}

func sanitizeUser(user *domain.User) *domain.User {
	if user == nil {
		return nil
	}
	clean := *user
	clean.PasswordHash = ""
	clean.ResetToken = nil
	clean.ResetTokenExpires = nil
	return &clean
}
