package domain

import "time"

// User represents a registered account, including profile settings and the
// password-reset state (at most one active reset token at a time).
type User struct {
	ID           int64
	UUID         string
	Username     string
	Email        string
	FullName     string
	PasswordHash string
	IsActive     bool

	ThemePreference      string
	NotificationsEnabled bool
	DailyCheckins        bool
	WellnessTips         bool
	BreathingReminders   bool
	BiometricLock        bool

	ResetToken        *string
	ResetTokenExpires *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasValidResetToken reports whether token matches the stored reset token and
// the stored expiry has not passed.
func (u *User) HasValidResetToken(token string, now time.Time) bool {
	if u.ResetToken == nil || u.ResetTokenExpires == nil {
		return false
	}
	if token == "" || *u.ResetToken != token {
		return false
	}
	return now.Before(*u.ResetTokenExpires)
}
