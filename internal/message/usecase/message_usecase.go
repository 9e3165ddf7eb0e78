package usecase

import (
	"context"
	"strings"
	"time"

	authdomain "triago-backend/internal/auth/domain"
	authrepo "triago-backend/internal/auth/repository"
	messagedomain "triago-backend/internal/message/domain"
	messagedto "triago-backend/internal/message/dto"
	"triago-backend/internal/message/repository"
	settingsrepo "triago-backend/internal/settings/repository"
	"triago-backend/pkg/ai"
)

// messageUsecase implements MessageUsecase interface
type messageUsecase struct {
	messageRepo  repository.MessageRepository
	replyRepo    repository.ReplyRepository
	connRepo     authrepo.ConnectionRepository
	userRepo     authrepo.UserRepository
	settingsRepo settingsrepo.SettingsRepository
	provider     ProviderClient
	summarizer   ai.Summarizer
	creds        *CredentialManager
	maxResults   int64
	now          func() time.Time
}

// NewMessageUsecase creates a new instance of messageUsecase
func NewMessageUsecase(
	messageRepo repository.MessageRepository,
	replyRepo repository.ReplyRepository,
	connRepo authrepo.ConnectionRepository,
	userRepo authrepo.UserRepository,
	settingsRepo settingsrepo.SettingsRepository,
	provider ProviderClient,
	summarizer ai.Summarizer,
	creds *CredentialManager,
	maxResults int64,
) MessageUsecase {
	return &messageUsecase{
		messageRepo:  messageRepo,
		replyRepo:    replyRepo,
		connRepo:     connRepo,
		userRepo:     userRepo,
		settingsRepo: settingsRepo,
		provider:     provider,
		summarizer:   summarizer,
		creds:        creds,
		maxResults:   maxResults,
		now:          time.Now,
	}
}

func (u *messageUsecase) List(userID string, query messagedto.ListQuery) (*messagedto.ListResponse, error) {
	filter := repository.ListFilter{
		Limit:  query.Limit,
		Offset: query.Offset,
	}
	if query.Status != "" {
		status := messagedomain.Status(query.Status)
		filter.Status = &status
	}
	if query.Source != "" {
		source := authdomain.Provider(query.Source)
		filter.Source = &source
	}

	messages, total, err := u.messageRepo.List(userID, filter)
	if err != nil {
		return nil, err
	}

	rows := make([]*messagedto.MessageRow, 0, len(messages))
	for _, msg := range messages {
		row := &messagedto.MessageRow{
			ID:              msg.ID,
			Source:          msg.Source,
			SenderName:      msg.SenderName,
			SenderContact:   msg.SenderContact,
			Subject:         msg.Subject,
			Summary:         msg.Summary,
			IsAudio:         msg.IsAudio,
			AudioDuration:   msg.AudioDurationSecs,
			Status:          msg.Status,
			AutoReplySent:   msg.AutoReplySent,
			AutoReplySentAt: msg.AutoReplySentAt,
			ReceivedAt:      msg.ReceivedAt,
			HasReplies:      len(msg.Replies) > 0,
		}
		if len(msg.Replies) > 0 {
			// Replies are preloaded newest-first for list rows.
			row.LastReplyAt = &msg.Replies[0].SentAt
		}
		rows = append(rows, row)
	}

	return &messagedto.ListResponse{
		Messages: rows,
		Total:    total,
		HasMore:  int64(query.Offset+len(rows)) < total,
	}, nil
}

func (u *messageUsecase) GetAndMarkRead(userID, id string) (*messagedto.MessageDetail, error) {
	msg, err := u.messageRepo.FindByID(userID, id)
	if err != nil {
		return nil, err
	}

	if msg.Status == messagedomain.StatusUnread {
		if err := u.messageRepo.MarkRead(userID, id); err != nil {
			return nil, err
		}
		msg.Status = messagedomain.StatusRead
	}

	replies := make([]messagedto.ReplyView, 0, len(msg.Replies))
	for _, r := range msg.Replies {
		replies = append(replies, messagedto.ReplyView{
			ID:          r.ID,
			Content:     r.Content,
			IsAutoReply: r.IsAutoReply,
			SentAt:      r.SentAt,
		})
	}

	return &messagedto.MessageDetail{
		ID:              msg.ID,
		Source:          msg.Source,
		SenderName:      msg.SenderName,
		SenderContact:   msg.SenderContact,
		Subject:         msg.Subject,
		OriginalContent: msg.OriginalContent,
		Summary:         msg.Summary,
		IsAudio:         msg.IsAudio,
		AudioDuration:   msg.AudioDurationSecs,
		AudioURL:        msg.AudioURL,
		Status:          msg.Status,
		AutoReplySent:   msg.AutoReplySent,
		AutoReplySentAt: msg.AutoReplySentAt,
		ReceivedAt:      msg.ReceivedAt,
		Replies:         replies,
	}, nil
}

func (u *messageUsecase) MarkAsRead(userID, id string) error {
	return u.messageRepo.MarkRead(userID, id)
}

// SendReply sends a manual reply through the provider and records it.
// Replying is permitted regardless of the current status; the message ends
// up REPLIED either way.
func (u *messageUsecase) SendReply(ctx context.Context, userID, id, content string) error {
	msg, err := u.messageRepo.FindByID(userID, id)
	if err != nil {
		return err
	}

	conn, err := u.connRepo.FindByUserAndProvider(userID, msg.Source)
	if err != nil {
		return err
	}
	if conn == nil || conn.AccessToken == "" {
		return messagedomain.ErrConnectionNotFound
	}

	accessToken, err := u.creds.ValidAccessToken(ctx, conn)
	if err != nil {
		return err
	}

	threadID := msg.ThreadID
	if threadID == "" {
		threadID = msg.ExternalID
	}

	if _, err := u.provider.SendMessage(ctx, accessToken, msg.SenderContact, replySubject(msg.Subject), content, threadID); err != nil {
		return err
	}

	if err := u.replyRepo.Create(&messagedomain.Reply{
		MessageID:   msg.ID,
		UserID:      userID,
		Content:     content,
		IsAutoReply: false,
		SentAt:      u.now(),
	}); err != nil {
		return err
	}

	return u.messageRepo.SetStatus(userID, id, messagedomain.StatusReplied)
}

func (u *messageUsecase) Stats(userID string) (*messagedomain.Stats, error) {
	return u.messageRepo.Stats(userID, u.now())
}

// replySubject prefixes "Re:" unless the subject already carries it.
func replySubject(subject string) string {
	if subject == "" {
		subject = "Sem assunto"
	}
	if strings.HasPrefix(subject, "Re:") {
		return subject
	}
	return "Re: " + subject
}
