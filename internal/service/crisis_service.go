package service

import (
	"context"
	"fmt"

	"sergeai-server/internal/domain"
	"sergeai-server/internal/repository"
)

// EmergencyResources lists the hotlines returned with every crisis response.
type EmergencyResources struct {
	CrisisLifeline string `json:"crisis_lifeline"`
	CrisisText     string `json:"crisis_text"`
	Emergency      string `json:"emergency"`
}

// DefaultEmergencyResources returns the US hotline numbers.
func DefaultEmergencyResources() EmergencyResources {
	return EmergencyResources{
		CrisisLifeline: domain.CrisisServiceLifeline,
		CrisisText:     domain.CrisisServiceTextLine,
		Emergency:      domain.CrisisServiceEmergency,
	}
}

// CrisisService records and manages crisis support usage.
type CrisisService interface {
	// Log records use of a crisis resource. userID is nil for anonymous use.
	Log(ctx context.Context, userID *int64, crisisType string) (*domain.CrisisLog, error)
	List(ctx context.Context, offset, limit int, unresolvedOnly bool) ([]domain.CrisisLog, error)
	Resolve(ctx context.Context, id int64) error
}

type crisisService struct {
	logs repository.CrisisLogRepository
}

func NewCrisisService(logs repository.CrisisLogRepository) CrisisService {
	return &crisisService{logs: logs}
}

func (s *crisisService) Log(ctx context.Context, userID *int64, crisisType string) (*domain.CrisisLog, error) {
	if !domain.ValidCrisisType(crisisType) {
		return nil, ValidationError(fmt.Sprintf("invalid crisis type %q", crisisType))
	}

	log := &domain.CrisisLog{
		UserID:         userID,
		CrisisType:     crisisType,
		ServiceUsed:    serviceFor(crisisType),
		FollowUpNeeded: true,
	}
	if _, err := s.logs.Create(ctx, log); err != nil {
		return nil, err
	}
	return log, nil
}

func (s *crisisService) List(ctx context.Context, offset, limit int, unresolvedOnly bool) ([]domain.CrisisLog, error) {
	return s.logs.List(ctx, offset, limit, unresolvedOnly)
}

func (s *crisisService) Resolve(ctx context.Context, id int64) error {
	return s.logs.Resolve(ctx, id)
}

func serviceFor(crisisType string) string {
	switch crisisType {
	case domain.CrisisTypeCall:
		return domain.CrisisServiceLifeline
	case domain.CrisisTypeText:
		return domain.CrisisServiceTextLine
	case domain.CrisisTypeEmergency:
		return domain.CrisisServiceEmergency
	default:
		return domain.CrisisServiceAIAssistant
	}
}
