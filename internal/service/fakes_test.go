package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"sergeai-server/internal/domain"
	"sergeai-server/internal/repository"
)

// In-memory repository fakes shared by the service tests.

type fakeUserRepo struct {
	nextID int64
	users  map[int64]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[int64]*domain.User{}}
}

func (r *fakeUserRepo) Init(context.Context) error { return nil }

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) (int64, error) {
	for _, existing := range r.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return 0, fmt.Errorf("user: %w", repository.ErrDuplicate)
		}
	}
	r.nextID++
	user.ID = r.nextID
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt
	clone := *user
	r.users[user.ID] = &clone
	return user.ID, nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("user: %w", repository.ErrNotFound)
	}
	clone := *user
	return &clone, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, fmt.Errorf("user: %w", repository.ErrNotFound)
}

func (r *fakeUserRepo) GetByLogin(_ context.Context, login string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Username == login || user.Email == strings.ToLower(login) {
			clone := *user
			return &clone, nil
		}
	}
	return nil, fmt.Errorf("user: %w", repository.ErrNotFound)
}

func (r *fakeUserRepo) UpdateSettings(_ context.Context, user *domain.User) error {
	stored, ok := r.users[user.ID]
	if !ok {
		return fmt.Errorf("user: %w", repository.ErrNotFound)
	}
	stored.FullName = user.FullName
	stored.ThemePreference = user.ThemePreference
	stored.NotificationsEnabled = user.NotificationsEnabled
	stored.DailyCheckins = user.DailyCheckins
	stored.WellnessTips = user.WellnessTips
	stored.BreathingReminders = user.BreathingReminders
	stored.BiometricLock = user.BiometricLock
	stored.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, id int64, passwordHash string) error {
	user, ok := r.users[id]
	if !ok {
		return fmt.Errorf("user: %w", repository.ErrNotFound)
	}
	user.PasswordHash = passwordHash
	user.ResetToken = nil
	user.ResetTokenExpires = nil
	user.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *fakeUserRepo) SetResetToken(_ context.Context, id int64, token string, expires time.Time) error {
	user, ok := r.users[id]
	if !ok {
		return fmt.Errorf("user: %w", repository.ErrNotFound)
	}
	user.ResetToken = &token
	user.ResetTokenExpires = &expires
	return nil
}

func (r *fakeUserRepo) SetActive(_ context.Context, id int64, active bool) error {
	user, ok := r.users[id]
	if !ok {
		return fmt.Errorf("user: %w", repository.ErrNotFound)
	}
	user.IsActive = active
	return nil
}

func (r *fakeUserRepo) list(filter func(*domain.User) bool) []domain.User {
	var users []domain.User
	for _, user := range r.users {
		if filter == nil || filter(user) {
			users = append(users, *user)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users
}

func (r *fakeUserRepo) ListActive(_ context.Context, offset, limit int) ([]domain.User, error) {
	return page(r.list(func(u *domain.User) bool { return u.IsActive }), offset, limit), nil
}

func (r *fakeUserRepo) List(_ context.Context, offset, limit int) ([]domain.User, error) {
	return page(r.list(nil), offset, limit), nil
}

func (r *fakeUserRepo) ListRecent(_ context.Context, limit int) ([]domain.User, error) {
	return page(r.list(nil), 0, limit), nil
}

func (r *fakeUserRepo) Count(context.Context) (int, error) { return len(r.users), nil }

func (r *fakeUserRepo) CountActive(context.Context) (int, error) {
	return len(r.list(func(u *domain.User) bool { return u.IsActive })), nil
}

func (r *fakeUserRepo) CountActiveUpdatedSince(_ context.Context, since time.Time) (int, error) {
	return len(r.list(func(u *domain.User) bool { return u.IsActive && !u.UpdatedAt.Before(since) })), nil
}

func (r *fakeUserRepo) NewUsersByDay(context.Context, int) ([]repository.DayCount, error) {
	return nil, nil
}

type fakeSessionRepo struct {
	nextID   int64
	sessions map[int64]*domain.ChatSession
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: map[int64]*domain.ChatSession{}}
}

func (r *fakeSessionRepo) Init(context.Context) error { return nil }

func (r *fakeSessionRepo) Create(_ context.Context, session *domain.ChatSession) (int64, error) {
	r.nextID++
	session.ID = r.nextID
	session.CreatedAt = time.Now().UTC()
	session.UpdatedAt = session.CreatedAt
	clone := *session
	r.sessions[session.ID] = &clone
	return session.ID, nil
}

func (r *fakeSessionRepo) GetForUser(_ context.Context, id, userID int64) (*domain.ChatSession, error) {
	session, ok := r.sessions[id]
	if !ok || session.UserID != userID {
		return nil, fmt.Errorf("chat session: %w", repository.ErrNotFound)
	}
	clone := *session
	return &clone, nil
}

func (r *fakeSessionRepo) active(userID int64) []domain.ChatSession {
	var sessions []domain.ChatSession
	for _, session := range r.sessions {
		if session.UserID == userID && session.IsActive {
			sessions = append(sessions, *session)
		}
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].UpdatedAt.After(sessions[j].UpdatedAt)
	})
	return sessions
}

func (r *fakeSessionRepo) ListActiveByUser(_ context.Context, userID int64, offset, limit int) ([]domain.ChatSession, error) {
	return page(r.active(userID), offset, limit), nil
}

func (r *fakeSessionRepo) MostRecentActiveByUser(_ context.Context, userID int64) (*domain.ChatSession, error) {
	sessions := r.active(userID)
	if len(sessions) == 0 {
		return nil, fmt.Errorf("chat session: %w", repository.ErrNotFound)
	}
	return &sessions[0], nil
}

func (r *fakeSessionRepo) UpdateTitle(_ context.Context, id int64, title string) error {
	session, ok := r.sessions[id]
	if !ok {
		return fmt.Errorf("chat session: %w", repository.ErrNotFound)
	}
	session.Title = title
	session.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *fakeSessionRepo) Touch(_ context.Context, id int64) error {
	session, ok := r.sessions[id]
	if !ok {
		return fmt.Errorf("chat session: %w", repository.ErrNotFound)
	}
	session.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *fakeSessionRepo) Deactivate(_ context.Context, id int64) error {
	session, ok := r.sessions[id]
	if !ok {
		return fmt.Errorf("chat session: %w", repository.ErrNotFound)
	}
	session.IsActive = false
	return nil
}

func (r *fakeSessionRepo) CountActiveByUser(_ context.Context, userID int64) (int, error) {
	return len(r.active(userID)), nil
}

func (r *fakeSessionRepo) CountAll(context.Context) (int, error) { return len(r.sessions), nil }

func (r *fakeSessionRepo) CountCreatedSince(_ context.Context, since time.Time) (int, error) {
	n := 0
	for _, session := range r.sessions {
		if !session.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

type fakeMessageRepo struct {
	nextID   int64
	messages []domain.ChatMessage
	sessions *fakeSessionRepo
}

func newFakeMessageRepo(sessions *fakeSessionRepo) *fakeMessageRepo {
	return &fakeMessageRepo{sessions: sessions}
}

func (r *fakeMessageRepo) Init(context.Context) error { return nil }

func (r *fakeMessageRepo) Create(_ context.Context, message *domain.ChatMessage) (int64, error) {
	r.nextID++
	message.ID = r.nextID
	message.CreatedAt = time.Now().UTC()
	r.messages = append(r.messages, *message)
	return message.ID, nil
}

func (r *fakeMessageRepo) ListBySession(_ context.Context, sessionID int64) ([]domain.ChatMessage, error) {
	var messages []domain.ChatMessage
	for _, message := range r.messages {
		if message.SessionID == sessionID {
			messages = append(messages, message)
		}
	}
	return messages, nil
}

func (r *fakeMessageRepo) RecentBySession(ctx context.Context, sessionID int64, limit int) ([]domain.ChatMessage, error) {
	messages, _ := r.ListBySession(ctx, sessionID)
	// Newest first.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	if len(messages) > limit {
		messages = messages[:limit]
	}
	return messages, nil
}

func (r *fakeMessageRepo) CountBySession(ctx context.Context, sessionID int64) (int, error) {
	messages, _ := r.ListBySession(ctx, sessionID)
	return len(messages), nil
}

func (r *fakeMessageRepo) CountUserMessagesByUser(_ context.Context, userID int64) (int, error) {
	n := 0
	for _, message := range r.messages {
		if message.Role != domain.RoleUser {
			continue
		}
		session, ok := r.sessions.sessions[message.SessionID]
		if ok && session.UserID == userID && session.IsActive {
			n++
		}
	}
	return n, nil
}

func (r *fakeMessageRepo) CountUserMessagesSince(_ context.Context, since time.Time) (int, error) {
	n := 0
	for _, message := range r.messages {
		if message.Role == domain.RoleUser && !message.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

type fakeCrisisRepo struct {
	nextID int64
	logs   []domain.CrisisLog
}

func (r *fakeCrisisRepo) Init(context.Context) error { return nil }

func (r *fakeCrisisRepo) Create(_ context.Context, log *domain.CrisisLog) (int64, error) {
	r.nextID++
	log.ID = r.nextID
	log.CreatedAt = time.Now().UTC()
	r.logs = append(r.logs, *log)
	return log.ID, nil
}

func (r *fakeCrisisRepo) List(_ context.Context, offset, limit int, unresolvedOnly bool) ([]domain.CrisisLog, error) {
	var logs []domain.CrisisLog
	for _, log := range r.logs {
		if !unresolvedOnly || !log.Resolved {
			logs = append(logs, log)
		}
	}
	return page(logs, offset, limit), nil
}

func (r *fakeCrisisRepo) ListRecent(ctx context.Context, limit int) ([]domain.CrisisLog, error) {
	return r.List(ctx, 0, limit, false)
}

func (r *fakeCrisisRepo) Count(_ context.Context, unresolvedOnly bool) (int, error) {
	n := 0
	for _, log := range r.logs {
		if !unresolvedOnly || !log.Resolved {
			n++
		}
	}
	return n, nil
}

func (r *fakeCrisisRepo) CountResolved(context.Context) (int, error) {
	n := 0
	for _, log := range r.logs {
		if log.Resolved {
			n++
		}
	}
	return n, nil
}

func (r *fakeCrisisRepo) CountFollowUpNeeded(context.Context) (int, error) {
	n := 0
	for _, log := range r.logs {
		if log.FollowUpNeeded {
			n++
		}
	}
	return n, nil
}

func (r *fakeCrisisRepo) CountCreatedSince(_ context.Context, since time.Time) (int, error) {
	n := 0
	for _, log := range r.logs {
		if !log.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (r *fakeCrisisRepo) Resolve(_ context.Context, id int64) error {
	for i := range r.logs {
		if r.logs[i].ID == id {
			r.logs[i].Resolved = true
			r.logs[i].FollowUpNeeded = false
			return nil
		}
	}
	return fmt.Errorf("crisis log: %w", repository.ErrNotFound)
}

type fakeMoodRepo struct {
	nextID  int64
	entries map[int64]*domain.MoodEntry
}

func newFakeMoodRepo() *fakeMoodRepo {
	return &fakeMoodRepo{entries: map[int64]*domain.MoodEntry{}}
}

func (r *fakeMoodRepo) Init(context.Context) error { return nil }

func (r *fakeMoodRepo) Create(_ context.Context, entry *domain.MoodEntry) (int64, error) {
	r.nextID++
	entry.ID = r.nextID
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	clone := *entry
	r.entries[entry.ID] = &clone
	return entry.ID, nil
}

func (r *fakeMoodRepo) Update(_ context.Context, entry *domain.MoodEntry) error {
	if _, ok := r.entries[entry.ID]; !ok {
		return fmt.Errorf("mood entry: %w", repository.ErrNotFound)
	}
	clone := *entry
	r.entries[entry.ID] = &clone
	return nil
}

func (r *fakeMoodRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.entries[id]; !ok {
		return fmt.Errorf("mood entry: %w", repository.ErrNotFound)
	}
	delete(r.entries, id)
	return nil
}

func (r *fakeMoodRepo) GetForUser(_ context.Context, id, userID int64) (*domain.MoodEntry, error) {
	entry, ok := r.entries[id]
	if !ok || entry.UserID != userID {
		return nil, fmt.Errorf("mood entry: %w", repository.ErrNotFound)
	}
	clone := *entry
	return &clone, nil
}

func (r *fakeMoodRepo) GetByUserAndDate(_ context.Context, userID int64, day time.Time) (*domain.MoodEntry, error) {
	want := day.UTC().Format("2006-01-02")
	for _, entry := range r.entries {
		if entry.UserID == userID && entry.CreatedAt.UTC().Format("2006-01-02") == want {
			clone := *entry
			return &clone, nil
		}
	}
	return nil, fmt.Errorf("mood entry: %w", repository.ErrNotFound)
}

func (r *fakeMoodRepo) byUser(userID int64, since *time.Time) []domain.MoodEntry {
	var entries []domain.MoodEntry
	for _, entry := range r.entries {
		if userID != 0 && entry.UserID != userID {
			continue
		}
		if since != nil && entry.CreatedAt.Before(*since) {
			continue
		}
		entries = append(entries, *entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
	return entries
}

func (r *fakeMoodRepo) ListByUser(_ context.Context, userID int64, offset, limit int, since *time.Time) ([]domain.MoodEntry, error) {
	return page(r.byUser(userID, since), offset, limit), nil
}

func (r *fakeMoodRepo) ListByUserSince(_ context.Context, userID int64, since time.Time) ([]domain.MoodEntry, error) {
	return r.byUser(userID, &since), nil
}

func (r *fakeMoodRepo) ListSince(_ context.Context, since time.Time) ([]domain.MoodEntry, error) {
	return r.byUser(0, &since), nil
}

func (r *fakeMoodRepo) CountByUser(_ context.Context, userID int64) (int, error) {
	return len(r.byUser(userID, nil)), nil
}

func (r *fakeMoodRepo) AverageByDay(context.Context, int) ([]repository.DayAverage, error) {
	return nil, nil
}

type fakeBreathingRepo struct {
	nextID   int64
	sessions map[int64]*domain.BreathingSession
}

func newFakeBreathingRepo() *fakeBreathingRepo {
	return &fakeBreathingRepo{sessions: map[int64]*domain.BreathingSession{}}
}

func (r *fakeBreathingRepo) Init(context.Context) error { return nil }

func (r *fakeBreathingRepo) Create(_ context.Context, session *domain.BreathingSession) (int64, error) {
	r.nextID++
	session.ID = r.nextID
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now().UTC()
	}
	clone := *session
	r.sessions[session.ID] = &clone
	return session.ID, nil
}

func (r *fakeBreathingRepo) GetForUser(_ context.Context, id, userID int64) (*domain.BreathingSession, error) {
	session, ok := r.sessions[id]
	if !ok || session.UserID != userID {
		return nil, fmt.Errorf("breathing session: %w", repository.ErrNotFound)
	}
	clone := *session
	return &clone, nil
}

func (r *fakeBreathingRepo) Complete(_ context.Context, id int64) error {
	session, ok := r.sessions[id]
	if !ok {
		return fmt.Errorf("breathing session: %w", repository.ErrNotFound)
	}
	session.Completed = true
	return nil
}

func (r *fakeBreathingRepo) byUser(userID int64) []domain.BreathingSession {
	var sessions []domain.BreathingSession
	for _, session := range r.sessions {
		if session.UserID == userID {
			sessions = append(sessions, *session)
		}
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].CreatedAt.After(sessions[j].CreatedAt)
	})
	return sessions
}

func (r *fakeBreathingRepo) ListByUser(_ context.Context, userID int64, offset, limit int) ([]domain.BreathingSession, error) {
	return page(r.byUser(userID), offset, limit), nil
}

func (r *fakeBreathingRepo) ListAllByUser(_ context.Context, userID int64) ([]domain.BreathingSession, error) {
	return r.byUser(userID), nil
}

func (r *fakeBreathingRepo) CountByUser(_ context.Context, userID int64) (int, error) {
	return len(r.byUser(userID)), nil
}

func (r *fakeBreathingRepo) CountCreatedSince(_ context.Context, since time.Time) (int, error) {
	n := 0
	for _, session := range r.sessions {
		if !session.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (r *fakeBreathingRepo) CountCompletedSince(_ context.Context, since time.Time) (int, error) {
	n := 0
	for _, session := range r.sessions {
		if session.Completed && !session.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func page[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}
