package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"sergeai-server/internal/domain"
	"sergeai-server/internal/repository"
	"sergeai-server/internal/storage"
)

// exportPageSize caps per-collection fetch sizes during an export.
const exportPageSize = 1000

// UserExport is the full takeout document for one account.
type UserExport struct {
	ExportedAt        time.Time                 `json:"exported_at"`
	User              *domain.User              `json:"user"`
	MoodEntries       []domain.MoodEntry        `json:"mood_entries"`
	ChatSessions      []domain.ChatSession      `json:"chat_sessions"`
	BreathingSessions []domain.BreathingSession `json:"breathing_sessions"`
}

// ExportService assembles account data exports and manages their archives.
type ExportService interface {
	// Export gathers all data for the account. When object storage is
	// configured the document is also archived and its URI returned.
	Export(ctx context.Context, userID int64) (*UserExport, string, error)
	// PurgeArchives removes any stored export archives for the account.
	PurgeArchives(ctx context.Context, userUUID string) error
}

type exportService struct {
	users     repository.UserRepository
	sessions  repository.ChatSessionRepository
	messages  repository.ChatMessageRepository
	moods     repository.MoodEntryRepository
	breathing repository.BreathingSessionRepository

	archive   storage.Service
	bucket    string
	keyPrefix string
	logger    *logrus.Logger
	now       func() time.Time
}

// NewExportService builds an export service. archive may be nil when no
// object storage is configured; exports are then returned inline only.
func NewExportService(
	users repository.UserRepository,
	sessions repository.ChatSessionRepository,
	messages repository.ChatMessageRepository,
	moods repository.MoodEntryRepository,
	breathing repository.BreathingSessionRepository,
	archive storage.Service,
	bucket, keyPrefix string,
	logger *logrus.Logger,
) ExportService {
	return &exportService{
		users:     users,
		sessions:  sessions,
		messages:  messages,
		moods:     moods,
		breathing: breathing,
		archive:   archive,
		bucket:    bucket,
		keyPrefix: strings.Trim(keyPrefix, "/"),
		logger:    logger,
		now:       time.Now,
	}
}

func (s *exportService) Export(ctx context.Context, userID int64) (*UserExport, string, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, "", err
	}

	moods, err := s.moods.ListByUser(ctx, userID, 0, exportPageSize, nil)
	if err != nil {
		return nil, "", err
	}

	sessions, err := s.sessions.ListActiveByUser(ctx, userID, 0, exportPageSize)
	if err != nil {
		return nil, "", err
	}
	for i := range sessions {
		messages, err := s.messages.ListBySession(ctx, sessions[i].ID)
		if err != nil {
			return nil, "", err
		}
		sessions[i].Messages = messages
		sessions[i].MessageCount = len(messages)
	}

	breathing, err := s.breathing.ListAllByUser(ctx, userID)
	if err != nil {
		return nil, "", err
	}

	export := &UserExport{
		ExportedAt:        s.now().UTC(),
		User:              sanitizeUser(user),
		MoodEntries:       moods,
		ChatSessions:      sessions,
		BreathingSessions: breathing,
	}

	if s.archive == nil || s.bucket == "" {
		return export, "", nil
	}

	key := s.archiveKey(user.UUID, export.ExportedAt)
	uri, err := s.archive.PutJSON(ctx, s.bucket, key, export)
	if err != nil {
		// The export itself succeeded; archival is best effort.
		s.logger.Warnf("archive export for user %d: %v", userID, err)
		return export, "", nil
	}
	return export, uri, nil
}

func (s *exportService) PurgeArchives(ctx context.Context, userUUID string) error {
	if s.archive == nil || s.bucket == "" {
		return nil
	}
	prefix := userUUID
	if s.keyPrefix != "" {
		prefix = s.keyPrefix + "/" + userUUID
	}
	if err := s.archive.DeletePrefix(ctx, s.bucket, prefix); err != nil {
		return fmt.Errorf("purge export archives: %w", err)
	}
	return nil
}

func (s *exportService) archiveKey(userUUID string, at time.Time) string {
	name := fmt.Sprintf("%s/export-%s.json", userUUID, at.Format("20060102T150405Z"))
	if s.keyPrefix == "" {
		return name
	}
	return s.keyPrefix + "/" + name
}
