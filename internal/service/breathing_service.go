package service

import (
	"context"
	"time"

	"sergeai-server/internal/domain"
	"sergeai-server/internal/repository"
)

// BreathingStats summarizes a user's breathing exercise history.
type BreathingStats struct {
	TotalSessions    int     `json:"total_sessions"`
	TotalMinutes     int     `json:"total_minutes"`
	CompletedCount   int     `json:"completed_count"`
	SessionsThisWeek int     `json:"sessions_this_week"`
	AverageMinutes   float64 `json:"average_minutes"`
}

// BreathingService tracks guided breathing sessions.
type BreathingService interface {
	Start(ctx context.Context, userID int64, technique string, durationMinutes int) (*domain.BreathingSession, error)
	Complete(ctx context.Context, id, userID int64) (*domain.BreathingSession, error)
	List(ctx context.Context, userID int64, offset, limit int) ([]domain.BreathingSession, error)
	Stats(ctx context.Context, userID int64) (*BreathingStats, error)
}

type breathingService struct {
	sessions repository.BreathingSessionRepository
	now      func() time.Time
}

func NewBreathingService(sessions repository.BreathingSessionRepository) BreathingService {
	return &breathingService{sessions: sessions, now: time.Now}
}

func (s *breathingService) Start(ctx context.Context, userID int64, technique string, durationMinutes int) (*domain.BreathingSession, error) {
	if durationMinutes <= 0 {
		return nil, ValidationError("duration must be positive")
	}
	if technique == "" {
		technique = domain.DefaultBreathingTechnique
	}

	session := &domain.BreathingSession{
		UserID:          userID,
		Technique:       technique,
		DurationMinutes: durationMinutes,
	}
	if _, err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *breathingService) Complete(ctx context.Context, id, userID int64) (*domain.BreathingSession, error) {
	session, err := s.sessions.GetForUser(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Complete(ctx, id); err != nil {
		return nil, err
	}
	session.Completed = true
	return session, nil
}

func (s *breathingService) List(ctx context.Context, userID int64, offset, limit int) ([]domain.BreathingSession, error) {
	return s.sessions.ListByUser(ctx, userID, offset, limit)
}

func (s *breathingService) Stats(ctx context.Context, userID int64) (*BreathingStats, error) {
	sessions, err := s.sessions.ListAllByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := &BreathingStats{TotalSessions: len(sessions)}
	weekAgo := s.now().UTC().AddDate(0, 0, -7)
	for _, session := range sessions {
		stats.TotalMinutes += session.DurationMinutes
		if session.Completed {
			stats.CompletedCount++
		}
		if session.CreatedAt.After(weekAgo) {
			stats.SessionsThisWeek++
		}
	}
	if len(sessions) > 0 {
		stats.AverageMinutes = round1(float64(stats.TotalMinutes) / float64(len(sessions)))
	}
	return stats, nil
}
