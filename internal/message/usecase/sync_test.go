package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	authdomain "triago-backend/internal/auth/domain"
	messagedomain "triago-backend/internal/message/domain"
	settingsdomain "triago-backend/internal/settings/domain"
)

type syncFixture struct {
	uc          *messageUsecase
	messageRepo *fakeMessageRepo
	replyRepo   *fakeReplyRepo
	connRepo    *fakeConnRepo
	userRepo    *fakeUserRepo
	settings    *fakeSettingsRepo
	provider    *fakeProvider
	summarizer  *fakeSummarizer
}

// newSyncFixture wires a usecase over fakes with a valid Gmail connection
// for user-1 and the clock pinned inside the default auto-reply window.
func newSyncFixture() *syncFixture {
	now := tuesdayAt(10, 0)
	expiry := now.Add(30 * time.Minute)

	connRepo := &fakeConnRepo{conns: []*authdomain.Connection{{
		ID:           "conn-1",
		UserID:       "user-1",
		Provider:     authdomain.ProviderGmail,
		AccessToken:  "valid-token",
		RefreshToken: "refresh-token",
		ExpiresAt:    &expiry,
	}}}
	userRepo := &fakeUserRepo{users: []*authdomain.User{{
		ID:         "user-1",
		Email:      "doc@example.com",
		Profession: "médica",
	}}}

	f := &syncFixture{
		messageRepo: newFakeMessageRepo(),
		replyRepo:   &fakeReplyRepo{},
		connRepo:    connRepo,
		userRepo:    userRepo,
		settings:    newFakeSettingsRepo(),
		provider:    &fakeProvider{},
		summarizer:  &fakeSummarizer{},
	}

	creds := NewCredentialManager(connRepo, &fakeRefresher{token: "unused"}, &noopLocker{})
	creds.now = func() time.Time { return now }

	f.uc = &messageUsecase{
		messageRepo:  f.messageRepo,
		replyRepo:    f.replyRepo,
		connRepo:     f.connRepo,
		userRepo:     f.userRepo,
		settingsRepo: f.settings,
		provider:     f.provider,
		summarizer:   f.summarizer,
		creds:        creds,
		maxResults:   20,
		now:          func() time.Time { return now },
	}
	return f
}

func inboxMessage(externalID string) *messagedomain.ProviderMessage {
	return &messagedomain.ProviderMessage{
		ExternalID: externalID,
		ThreadID:   "thread-" + externalID,
		From:       "paciente@example.com",
		FromName:   "Paciente",
		Subject:    "Consulta",
		Body:       "Gostaria de remarcar a consulta de amanhã.",
		ReceivedAt: tuesdayAt(9, 30),
	}
}

func TestSyncMessagesPersistsAndAutoReplies(t *testing.T) {
	f := newSyncFixture()
	f.settings.settings["user-1"] = settingsdomain.Defaults("user-1")
	f.provider.inbox = []*messagedomain.ProviderMessage{inboxMessage("ext-1"), inboxMessage("ext-2")}

	processed, err := f.uc.SyncMessages(context.Background(), "user-1", authdomain.ProviderGmail)
	if err != nil {
		t.Fatalf("SyncMessages: %v", err)
	}

	if len(processed) != 2 {
		t.Fatalf("processed %d messages, want 2", len(processed))
	}
	if len(f.messageRepo.messages) != 2 {
		t.Fatalf("persisted %d messages, want 2", len(f.messageRepo.messages))
	}
	if len(f.provider.sent) != 2 {
		t.Fatalf("sent %d auto-replies, want 2", len(f.provider.sent))
	}
	if f.provider.sent[0].subject != "Re: Consulta" {
		t.Errorf("auto-reply subject = %q, want %q", f.provider.sent[0].subject, "Re: Consulta")
	}
	for _, p := range processed {
		if !p.AutoReplySent {
			t.Errorf("message %s: autoReplySent = false, want true", p.ID)
		}
		if p.Status != messagedomain.StatusReplied {
			t.Errorf("message %s: status = %s, want REPLIED", p.ID, p.Status)
		}
	}
	for _, m := range f.messageRepo.messages {
		if m.Status != messagedomain.StatusReplied || !m.AutoReplySent {
			t.Errorf("persisted message %s not marked auto-replied", m.ID)
		}
	}
	for _, r := range f.replyRepo.replies {
		if !r.IsAutoReply {
			t.Errorf("reply %s not flagged as auto-reply", r.ID)
		}
	}
}

func TestSyncMessagesIsIdempotent(t *testing.T) {
	f := newSyncFixture()
	f.provider.inbox = []*messagedomain.ProviderMessage{inboxMessage("ext-1")}

	if _, err := f.uc.SyncMessages(context.Background(), "user-1", authdomain.ProviderGmail); err != nil {
		t.Fatalf("first pass: %v", err)
	}
	processed, err := f.uc.SyncMessages(context.Background(), "user-1", authdomain.ProviderGmail)
	if err != nil {
		t.Fatalf("second pass: %v", err)
	}

	if len(processed) != 0 {
		t.Errorf("second pass processed %d messages, want 0", len(processed))
	}
	if len(f.messageRepo.messages) != 1 {
		t.Errorf("store holds %d messages, want 1", len(f.messageRepo.messages))
	}
}

func TestSyncMessagesSkipsLostInsertRace(t *testing.T) {
	f := newSyncFixture()
	f.provider.inbox = []*messagedomain.ProviderMessage{inboxMessage("ext-1"), inboxMessage("ext-2")}
	f.messageRepo.dupOn["ext-1"] = true

	processed, err := f.uc.SyncMessages(context.Background(), "user-1", authdomain.ProviderGmail)
	if err != nil {
		t.Fatalf("SyncMessages: %v", err)
	}

	if len(processed) != 1 {
		t.Fatalf("processed %d messages, want 1", len(processed))
	}
	if processed[0].ID == "" || f.messageRepo.messages[0].ExternalID != "ext-2" {
		t.Errorf("surviving message should be ext-2, got %+v", f.messageRepo.messages[0])
	}
}

func TestSyncMessagesUsesWatermark(t *testing.T) {
	f := newSyncFixture()
	f.provider.inbox = []*messagedomain.ProviderMessage{inboxMessage("ext-1")}

	if _, err := f.uc.SyncMessages(context.Background(), "user-1", authdomain.ProviderGmail); err != nil {
		t.Fatalf("first pass: %v", err)
	}
	if f.provider.lastSince != nil {
		t.Errorf("first pass must list without a watermark, got %v", f.provider.lastSince)
	}

	if _, err := f.uc.SyncMessages(context.Background(), "user-1", authdomain.ProviderGmail); err != nil {
		t.Fatalf("second pass: %v", err)
	}
	if f.provider.lastSince == nil || !f.provider.lastSince.Equal(tuesdayAt(9, 30)) {
		t.Errorf("second pass watermark = %v, want %v", f.provider.lastSince, tuesdayAt(9, 30))
	}
}

func TestSyncMessagesFallbackOnSummarizerFailure(t *testing.T) {
	f := newSyncFixture()
	f.summarizer.err = errors.New("model overloaded")
	f.provider.inbox = []*messagedomain.ProviderMessage{inboxMessage("ext-1")}

	processed, err := f.uc.SyncMessages(context.Background(), "user-1", authdomain.ProviderGmail)
	if err != nil {
		t.Fatalf("SyncMessages: %v", err)
	}

	if len(processed) != 1 {
		t.Fatalf("processed %d messages, want 1", len(processed))
	}
	want := "Gostaria de remarcar a consulta de amanhã."
	if processed[0].Summary != want {
		t.Errorf("fallback summary = %q, want %q", processed[0].Summary, want)
	}
	if processed[0].Urgency != "média" {
		t.Errorf("fallback urgency = %q, want média", processed[0].Urgency)
	}
}

func TestSyncMessagesAutoReplyFailureDoesNotAbort(t *testing.T) {
	f := newSyncFixture()
	f.settings.settings["user-1"] = settingsdomain.Defaults("user-1")
	f.provider.inbox = []*messagedomain.ProviderMessage{inboxMessage("ext-1")}
	f.provider.sendErr = errors.New("gmail send quota exceeded")

	processed, err := f.uc.SyncMessages(context.Background(), "user-1", authdomain.ProviderGmail)
	if err != nil {
		t.Fatalf("SyncMessages: %v", err)
	}

	if len(processed) != 1 {
		t.Fatalf("processed %d messages, want 1", len(processed))
	}
	if processed[0].AutoReplySent {
		t.Error("autoReplySent must be false when the send fails")
	}
	if processed[0].Status != messagedomain.StatusUnread {
		t.Errorf("status = %s, want UNREAD", processed[0].Status)
	}
	if len(f.replyRepo.replies) != 0 {
		t.Errorf("recorded %d replies after failed send, want 0", len(f.replyRepo.replies))
	}
}

func TestSyncMessagesOutsideWindowSkipsAutoReply(t *testing.T) {
	f := newSyncFixture()
	f.settings.settings["user-1"] = settingsdomain.Defaults("user-1")
	late := tuesdayAt(22, 0)
	f.uc.now = func() time.Time { return late }
	f.provider.inbox = []*messagedomain.ProviderMessage{inboxMessage("ext-1")}

	processed, err := f.uc.SyncMessages(context.Background(), "user-1", authdomain.ProviderGmail)
	if err != nil {
		t.Fatalf("SyncMessages: %v", err)
	}

	if len(f.provider.sent) != 0 {
		t.Errorf("sent %d auto-replies outside the window, want 0", len(f.provider.sent))
	}
	if processed[0].Status != messagedomain.StatusUnread {
		t.Errorf("status = %s, want UNREAD", processed[0].Status)
	}
}

func TestSyncMessagesWithoutConnection(t *testing.T) {
	f := newSyncFixture()
	f.connRepo.conns = nil

	_, err := f.uc.SyncMessages(context.Background(), "user-1", authdomain.ProviderGmail)
	if !errors.Is(err, messagedomain.ErrConnectionNotFound) {
		t.Errorf("err = %v, want ErrConnectionNotFound", err)
	}
}
