package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"sergeai-server/internal/domain"
	"sergeai-server/internal/repository"
	"sergeai-server/internal/responder"
	"sergeai-server/internal/triage"
)

// historyWindow bounds how much conversation context is handed to the
// external model.
const historyWindow = 10

// ReplyGenerator produces assistant replies; satisfied by responder.Responder.
type ReplyGenerator interface {
	Respond(ctx context.Context, userMessage string, history []domain.ChatMessage) responder.Reply
}

// ChatOverview summarizes a user's chat activity.
type ChatOverview struct {
	TotalSessions int
	TotalMessages int
	Recent        *domain.ChatSession
}

// ChatService coordinates chat sessions, messages and response generation.
type ChatService interface {
	CreateSession(ctx context.Context, user *domain.User) (*domain.ChatSession, error)
	ListSessions(ctx context.Context, userID int64, offset, limit int) ([]domain.ChatSession, error)
	GetSession(ctx context.Context, id, userID int64) (*domain.ChatSession, error)
	SendMessage(ctx context.Context, sessionID, userID int64, content string) (*domain.ChatMessage, error)
	DeleteSession(ctx context.Context, id, userID int64) error
	Overview(ctx context.Context, userID int64) (*ChatOverview, error)
}

type chatService struct {
	sessions  repository.ChatSessionRepository
	messages  repository.ChatMessageRepository
	crisisLog repository.CrisisLogRepository
	replies   ReplyGenerator
	logger    *logrus.Logger
}

func NewChatService(
	sessions repository.ChatSessionRepository,
	messages repository.ChatMessageRepository,
	crisisLog repository.CrisisLogRepository,
	replies ReplyGenerator,
	logger *logrus.Logger,
) ChatService {
	return &chatService{
		sessions:  sessions,
		messages:  messages,
		crisisLog: crisisLog,
		replies:   replies,
		logger:    logger,
	}
}

func (s *chatService) CreateSession(ctx context.Context, user *domain.User) (*domain.ChatSession, error) {
	session := &domain.ChatSession{
		UUID:     uuid.NewString(),
		UserID:   user.ID,
		Title:    domain.DefaultSessionTitle,
		IsActive: true,
	}
	if _, err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	welcome := &domain.ChatMessage{
		SessionID: session.ID,
		Role:      domain.RoleAssistant,
		Content:   responder.WelcomeMessage(user.FullName),
		Metadata:  map[string]any{"type": "welcome", "automated": true},
	}
	if _, err := s.messages.Create(ctx, welcome); err != nil {
		return nil, err
	}
	session.MessageCount = 1

	return session, nil
}

func (s *chatService) ListSessions(ctx context.Context, userID int64, offset, limit int) ([]domain.ChatSession, error) {
	sessions, err := s.sessions.ListActiveByUser(ctx, userID, offset, limit)
	if err != nil {
		return nil, err
	}
	for i := range sessions {
		count, err := s.messages.CountBySession(ctx, sessions[i].ID)
		if err != nil {
			return nil, err
		}
		sessions[i].MessageCount = count
	}
	return sessions, nil
}

func (s *chatService) GetSession(ctx context.Context, id, userID int64) (*domain.ChatSession, error) {
	session, err := s.activeSession(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	messages, err := s.messages.ListBySession(ctx, id)
	if err != nil {
		return nil, err
	}
	session.Messages = messages
	session.MessageCount = len(messages)
	return session, nil
}

func (s *chatService) SendMessage(ctx context.Context, sessionID, userID int64, content string) (*domain.ChatMessage, error) {
	if content == "" {
		return nil, ValidationError("message content is required")
	}

	session, err := s.activeSession(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}

	history, err := s.messages.RecentBySession(ctx, sessionID, historyWindow)
	if err != nil {
		return nil, err
	}
	reverseMessages(history)

	userMessage := &domain.ChatMessage{
		SessionID: sessionID,
		Role:      domain.RoleUser,
		Content:   content,
		Metadata:  map[string]any{"user_id": userID},
	}
	if _, err := s.messages.Create(ctx, userMessage); err != nil {
		return nil, err
	}

	reply := s.replies.Respond(ctx, content, history)

	if reply.Severity == triage.SeverityCrisis {
		// Intervention record so crisis chats surface on the admin dashboard;
		// failure to write it must not block the safety response.
		uid := userID
		if _, err := s.crisisLog.Create(ctx, &domain.CrisisLog{
			UserID:         &uid,
			CrisisType:     domain.CrisisTypeAIChat,
			ServiceUsed:    domain.CrisisServiceAIAssistant,
			FollowUpNeeded: true,
		}); err != nil {
			s.logger.Errorf("record crisis intervention for session %d: %v", sessionID, err)
		}
	}

	metadata := map[string]any{"type": "response", "automated": true}
	if reply.Severity != triage.SeverityNone {
		metadata["severity"] = string(reply.Severity)
		metadata["keyword"] = reply.Keyword
	}
	if reply.FromModel {
		metadata["model"] = true
	}

	assistantMessage := &domain.ChatMessage{
		SessionID: sessionID,
		Role:      domain.RoleAssistant,
		Content:   reply.Content,
		Metadata:  metadata,
	}
	if _, err := s.messages.Create(ctx, assistantMessage); err != nil {
		return nil, err
	}

	if session.Title == domain.DefaultSessionTitle {
		if err := s.sessions.UpdateTitle(ctx, sessionID, sessionTitle(content)); err != nil {
			return nil, err
		}
	} else if err := s.sessions.Touch(ctx, sessionID); err != nil {
		return nil, err
	}

	return assistantMessage, nil
}

func (s *chatService) DeleteSession(ctx context.Context, id, userID int64) error {
	if _, err := s.sessions.GetForUser(ctx, id, userID); err != nil {
		return err
	}
	return s.sessions.Deactivate(ctx, id)
}

func (s *chatService) Overview(ctx context.Context, userID int64) (*ChatOverview, error) {
	totalSessions, err := s.sessions.CountActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	totalMessages, err := s.messages.CountUserMessagesByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	overview := &ChatOverview{
		TotalSessions: totalSessions,
		TotalMessages: totalMessages,
	}

	recent, err := s.sessions.MostRecentActiveByUser(ctx, userID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if err == nil {
		overview.Recent = recent
	}

	return overview, nil
}

func (s *chatService) activeSession(ctx context.Context, id, userID int64) (*domain.ChatSession, error) {
	session, err := s.sessions.GetForUser(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if !session.IsActive {
		return nil, fmt.Errorf("chat session: %w", repository.ErrNotFound)
	}
	return session, nil
}

func sessionTitle(content string) string {
	const maxTitle = 50
	runes := []rune(content)
	if len(runes) <= maxTitle {
		return content
	}
	return string(runes[:maxTitle]) + "..."
}

func reverseMessages(messages []domain.ChatMessage) {
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
}
