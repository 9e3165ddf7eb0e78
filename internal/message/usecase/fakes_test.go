package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	authdomain "triago-backend/internal/auth/domain"
	messagedomain "triago-backend/internal/message/domain"
	"triago-backend/internal/message/repository"
	settingsdomain "triago-backend/internal/settings/domain"
	"triago-backend/pkg/ai"
)

type fakeMessageRepo struct {
	messages []*messagedomain.Message
	nextID   int

	// dupOn forces Create to fail with ErrDuplicateMessage for these
	// external IDs, simulating a lost insert race.
	dupOn map[string]bool
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{dupOn: map[string]bool{}}
}

func (r *fakeMessageRepo) Create(msg *messagedomain.Message) error {
	if r.dupOn[msg.ExternalID] {
		return messagedomain.ErrDuplicateMessage
	}
	for _, m := range r.messages {
		if m.UserID == msg.UserID && m.Source == msg.Source && m.ExternalID == msg.ExternalID {
			return messagedomain.ErrDuplicateMessage
		}
	}
	r.nextID++
	msg.ID = fmt.Sprintf("msg-%d", r.nextID)
	r.messages = append(r.messages, msg)
	return nil
}

func (r *fakeMessageRepo) Exists(userID string, source authdomain.Provider, externalID string) (bool, error) {
	for _, m := range r.messages {
		if m.UserID == userID && m.Source == source && m.ExternalID == externalID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeMessageRepo) LatestReceivedAt(userID string, source authdomain.Provider) (*time.Time, error) {
	var latest *time.Time
	for _, m := range r.messages {
		if m.UserID != userID || m.Source != source {
			continue
		}
		if latest == nil || m.ReceivedAt.After(*latest) {
			t := m.ReceivedAt
			latest = &t
		}
	}
	return latest, nil
}

func (r *fakeMessageRepo) FindByID(userID, id string) (*messagedomain.Message, error) {
	for _, m := range r.messages {
		if m.UserID == userID && m.ID == id {
			return m, nil
		}
	}
	return nil, messagedomain.ErrMessageNotFound
}

func (r *fakeMessageRepo) List(userID string, filter repository.ListFilter) ([]*messagedomain.Message, int64, error) {
	var matched []*messagedomain.Message
	for _, m := range r.messages {
		if m.UserID != userID {
			continue
		}
		if filter.Status != nil && m.Status != *filter.Status {
			continue
		}
		if filter.Source != nil && m.Source != *filter.Source {
			continue
		}
		matched = append(matched, m)
	}
	total := int64(len(matched))
	if filter.Offset >= len(matched) {
		return nil, total, nil
	}
	matched = matched[filter.Offset:]
	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}
	return matched, total, nil
}

func (r *fakeMessageRepo) MarkRead(userID, id string) error {
	for _, m := range r.messages {
		if m.UserID == userID && m.ID == id && m.Status == messagedomain.StatusUnread {
			m.Status = messagedomain.StatusRead
		}
	}
	return nil
}

func (r *fakeMessageRepo) SetStatus(userID, id string, status messagedomain.Status) error {
	for _, m := range r.messages {
		if m.UserID == userID && m.ID == id {
			m.Status = status
		}
	}
	return nil
}

func (r *fakeMessageRepo) MarkAutoReplied(id string, at time.Time) error {
	for _, m := range r.messages {
		if m.ID == id {
			m.AutoReplySent = true
			t := at
			m.AutoReplySentAt = &t
			m.Status = messagedomain.StatusReplied
		}
	}
	return nil
}

func (r *fakeMessageRepo) Stats(userID string, now time.Time) (*messagedomain.Stats, error) {
	stats := &messagedomain.Stats{}
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	for _, m := range r.messages {
		if m.UserID != userID {
			continue
		}
		stats.Total++
		if m.Status == messagedomain.StatusUnread {
			stats.Unread++
		}
		if m.Status == messagedomain.StatusReplied {
			stats.RepliedCount++
		}
		if !m.ReceivedAt.Before(startOfDay) {
			stats.TodayCount++
		}
	}
	if stats.Total > 0 {
		stats.ReadRate = float64(stats.Total-stats.Unread) / float64(stats.Total) * 100
	}
	return stats, nil
}

type fakeReplyRepo struct {
	replies []*messagedomain.Reply
	err     error
}

func (r *fakeReplyRepo) Create(reply *messagedomain.Reply) error {
	if r.err != nil {
		return r.err
	}
	reply.ID = fmt.Sprintf("reply-%d", len(r.replies)+1)
	r.replies = append(r.replies, reply)
	return nil
}

type fakeConnRepo struct {
	conns []*authdomain.Connection
}

func (r *fakeConnRepo) Upsert(conn *authdomain.Connection) error {
	for _, c := range r.conns {
		if c.UserID == conn.UserID && c.Provider == conn.Provider {
			c.AccessToken = conn.AccessToken
			if conn.RefreshToken != "" {
				c.RefreshToken = conn.RefreshToken
			}
			c.ExpiresAt = conn.ExpiresAt
			return nil
		}
	}
	if conn.ID == "" {
		conn.ID = fmt.Sprintf("conn-%d", len(r.conns)+1)
	}
	r.conns = append(r.conns, conn)
	return nil
}

func (r *fakeConnRepo) FindByUserAndProvider(userID string, provider authdomain.Provider) (*authdomain.Connection, error) {
	for _, c := range r.conns {
		if c.UserID == userID && c.Provider == provider {
			clone := *c
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeConnRepo) ListByUser(userID string) ([]*authdomain.Connection, error) {
	var out []*authdomain.Connection
	for _, c := range r.conns {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeConnRepo) UpdateTokens(id, accessToken string, expiresAt time.Time) error {
	for _, c := range r.conns {
		if c.ID == id {
			c.AccessToken = accessToken
			t := expiresAt
			c.ExpiresAt = &t
			return nil
		}
	}
	return errors.New("connection not found")
}

func (r *fakeConnRepo) Delete(userID string, provider authdomain.Provider) error {
	for i, c := range r.conns {
		if c.UserID == userID && c.Provider == provider {
			r.conns = append(r.conns[:i], r.conns[i+1:]...)
			return nil
		}
	}
	return nil
}

type fakeUserRepo struct {
	users []*authdomain.User
}

func (r *fakeUserRepo) Create(user *authdomain.User) error {
	if user.ID == "" {
		user.ID = fmt.Sprintf("user-%d", len(r.users)+1)
	}
	r.users = append(r.users, user)
	return nil
}

func (r *fakeUserRepo) FindByEmail(email string) (*authdomain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByID(id string) (*authdomain.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Update(user *authdomain.User) error {
	for i, u := range r.users {
		if u.ID == user.ID {
			r.users[i] = user
			return nil
		}
	}
	return errors.New("user not found")
}

type fakeSettingsRepo struct {
	settings map[string]*settingsdomain.AutoReplySettings
	err      error
}

func newFakeSettingsRepo() *fakeSettingsRepo {
	return &fakeSettingsRepo{settings: map[string]*settingsdomain.AutoReplySettings{}}
}

func (r *fakeSettingsRepo) FindByUser(userID string) (*settingsdomain.AutoReplySettings, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.settings[userID], nil
}

func (r *fakeSettingsRepo) Create(settings *settingsdomain.AutoReplySettings) error {
	if settings.ID == "" {
		settings.ID = fmt.Sprintf("settings-%d", len(r.settings)+1)
	}
	r.settings[settings.UserID] = settings
	return nil
}

func (r *fakeSettingsRepo) Update(settings *settingsdomain.AutoReplySettings) error {
	r.settings[settings.UserID] = settings
	return nil
}

type sentMessage struct {
	accessToken string
	to          string
	subject     string
	body        string
	threadID    string
}

type fakeProvider struct {
	inbox   []*messagedomain.ProviderMessage
	sent    []sentMessage
	listErr error
	sendErr error

	listCalls int
	lastSince *time.Time
}

func (p *fakeProvider) ListMessagesSince(_ context.Context, _ string, since *time.Time, _ int64) ([]*messagedomain.ProviderMessage, error) {
	p.listCalls++
	p.lastSince = since
	if p.listErr != nil {
		return nil, p.listErr
	}
	return p.inbox, nil
}

func (p *fakeProvider) SendMessage(_ context.Context, accessToken, to, subject, body, threadID string) (string, error) {
	if p.sendErr != nil {
		return "", p.sendErr
	}
	p.sent = append(p.sent, sentMessage{accessToken, to, subject, body, threadID})
	return fmt.Sprintf("sent-%d", len(p.sent)), nil
}

type fakeSummarizer struct {
	result *ai.SummaryResult
	err    error
	calls  int
}

func (s *fakeSummarizer) Summarize(_ context.Context, content string, _ ai.SummaryContext) (*ai.SummaryResult, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if s.result != nil {
		return s.result, nil
	}
	return &ai.SummaryResult{Summary: "resumo: " + content, Urgency: ai.UrgencyLow, TokensUsed: 10}, nil
}

type fakeRefresher struct {
	token string
	err   error
	calls int
}

func (r *fakeRefresher) RefreshAccessToken(_ context.Context, _ string) (string, error) {
	r.calls++
	if r.err != nil {
		return "", r.err
	}
	return r.token, nil
}

type noopLocker struct {
	acquired []string
	released []string
}

func (l *noopLocker) Acquire(_ context.Context, key string) error {
	l.acquired = append(l.acquired, key)
	return nil
}

func (l *noopLocker) Release(_ context.Context, key string) error {
	l.released = append(l.released, key)
	return nil
}
