package http

import (
	"time"

	"sergeai-server/internal/domain"
	"sergeai-server/internal/service"
)

type UserResponse struct {
	ID                   int64     `json:"id"`
	UUID                 string    `json:"uuid"`
	Username             string    `json:"username"`
	Email                string    `json:"email"`
	FullName             string    `json:"full_name"`
	IsActive             bool      `json:"is_active"`
	ThemePreference      string    `json:"theme_preference"`
	NotificationsEnabled bool      `json:"notifications_enabled"`
	DailyCheckins        bool      `json:"daily_checkins"`
	WellnessTips         bool      `json:"wellness_tips"`
	BreathingReminders   bool      `json:"breathing_reminders"`
	BiometricLock        bool      `json:"biometric_lock"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

func userToResponse(u domain.User) UserResponse {
	return UserResponse{
		ID:                   u.ID,
		UUID:                 u.UUID,
		Username:             u.Username,
		Email:                u.Email,
		FullName:             u.FullName,
		IsActive:             u.IsActive,
		ThemePreference:      u.ThemePreference,
		NotificationsEnabled: u.NotificationsEnabled,
		DailyCheckins:        u.DailyCheckins,
		WellnessTips:         u.WellnessTips,
		BreathingReminders:   u.BreathingReminders,
		BiometricLock:        u.BiometricLock,
		CreatedAt:            u.CreatedAt,
		UpdatedAt:            u.UpdatedAt,
	}
}

type MessageResponse struct {
	ID        int64          `json:"id"`
	SessionID int64          `json:"session_id"`
	Role      string         `json:"role"`
	Content   string         `json:"content"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

func messageToResponse(m domain.ChatMessage) MessageResponse {
	return MessageResponse{
		ID:        m.ID,
		SessionID: m.SessionID,
		Role:      string(m.Role),
		Content:   m.Content,
		Metadata:  m.Metadata,
		CreatedAt: m.CreatedAt,
	}
}

type SessionResponse struct {
	ID           int64             `json:"id"`
	UUID         string            `json:"uuid"`
	Title        string            `json:"title"`
	MessageCount int               `json:"message_count"`
	Messages     []MessageResponse `json:"messages,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

func sessionToResponse(s domain.ChatSession) SessionResponse {
	resp := SessionResponse{
		ID:           s.ID,
		UUID:         s.UUID,
		Title:        s.Title,
		MessageCount: s.MessageCount,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
	for _, m := range s.Messages {
		resp.Messages = append(resp.Messages, messageToResponse(m))
	}
	return resp
}

type MoodResponse struct {
	ID               int64     `json:"id"`
	MoodScore        int       `json:"mood_score"`
	EnergyLevel      string    `json:"energy_level,omitempty"`
	AffectingFactors []string  `json:"affecting_factors,omitempty"`
	Notes            string    `json:"notes,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

func moodToResponse(e domain.MoodEntry) MoodResponse {
	return MoodResponse{
		ID:               e.ID,
		MoodScore:        e.MoodScore,
		EnergyLevel:      e.EnergyLevel,
		AffectingFactors: e.AffectingFactors,
		Notes:            e.Notes,
		CreatedAt:        e.CreatedAt,
	}
}

func moodsToResponse(entries []domain.MoodEntry) []MoodResponse {
	resp := make([]MoodResponse, len(entries))
	for i := range entries {
		resp[i] = moodToResponse(entries[i])
	}
	return resp
}

type BreathingResponse struct {
	ID              int64     `json:"id"`
	Technique       string    `json:"technique"`
	DurationMinutes int       `json:"duration_minutes"`
	Completed       bool      `json:"completed"`
	CreatedAt       time.Time `json:"created_at"`
}

func breathingToResponse(s domain.BreathingSession) BreathingResponse {
	return BreathingResponse{
		ID:              s.ID,
		Technique:       s.Technique,
		DurationMinutes: s.DurationMinutes,
		Completed:       s.Completed,
		CreatedAt:       s.CreatedAt,
	}
}

type CrisisLogResponse struct {
	ID             int64     `json:"id"`
	UserID         *int64    `json:"user_id,omitempty"`
	CrisisType     string    `json:"crisis_type"`
	ServiceUsed    string    `json:"service_used"`
	Resolved       bool      `json:"resolved"`
	FollowUpNeeded bool      `json:"follow_up_needed"`
	CreatedAt      time.Time `json:"created_at"`
}

func crisisLogToResponse(l domain.CrisisLog) CrisisLogResponse {
	return CrisisLogResponse{
		ID:             l.ID,
		UserID:         l.UserID,
		CrisisType:     l.CrisisType,
		ServiceUsed:    l.ServiceUsed,
		Resolved:       l.Resolved,
		FollowUpNeeded: l.FollowUpNeeded,
		CreatedAt:      l.CreatedAt,
	}
}

type factorResponse struct {
	Factor string `json:"factor"`
	Count  int    `json:"count"`
}

func factorsToResponse(factors []service.FactorCount) []factorResponse {
	resp := make([]factorResponse, len(factors))
	for i, f := range factors {
		resp[i] = factorResponse{Factor: f.Factor, Count: f.Count}
	}
	return resp
}
