package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"

	authdomain "triago-backend/internal/auth/domain"
	messagedomain "triago-backend/internal/message/domain"
	messagedto "triago-backend/internal/message/dto"
	"triago-backend/pkg/ai"
)

// SyncMessages runs one synchronization pass for (user, provider): fetch
// candidates newer than the watermark, dedup against persisted state,
// summarize, persist, and evaluate auto-reply per message. Only messages
// created by this pass are returned.
//
// The watermark is derived from persisted messages, so partial progress is
// durable without separate bookkeeping.
func (u *messageUsecase) SyncMessages(ctx context.Context, userID string, provider authdomain.Provider) ([]*messagedto.ProcessedMessage, error) {
	conn, err := u.connRepo.FindByUserAndProvider(userID, provider)
	if err != nil {
		return nil, err
	}
	if conn == nil || conn.AccessToken == "" {
		return nil, messagedomain.ErrConnectionNotFound
	}

	accessToken, err := u.creds.ValidAccessToken(ctx, conn)
	if err != nil {
		return nil, err
	}

	since, err := u.messageRepo.LatestReceivedAt(userID, provider)
	if err != nil {
		return nil, err
	}

	candidates, err := u.provider.ListMessagesSince(ctx, accessToken, since, u.maxResults)
	if err != nil {
		return nil, fmt.Errorf("list provider messages: %w", err)
	}

	user, err := u.userRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}
	profession := ""
	if user != nil {
		profession = user.Profession
	}

	processed := make([]*messagedto.ProcessedMessage, 0, len(candidates))
	for _, candidate := range candidates {
		// The watermark bound is inclusive on the provider side, so
		// already-seen messages are expected here. The store-level unique
		// index stays authoritative for concurrent passes.
		exists, err := u.messageRepo.Exists(userID, provider, candidate.ExternalID)
		if err != nil {
			return nil, err
		}
		if exists {
			continue
		}

		summary := u.summarize(ctx, candidate, profession)

		msg := &messagedomain.Message{
			UserID:          userID,
			ConnectionID:    conn.ID,
			ExternalID:      candidate.ExternalID,
			ThreadID:        candidate.ThreadID,
			Source:          provider,
			SenderName:      candidate.FromName,
			SenderContact:   candidate.From,
			Subject:         candidate.Subject,
			OriginalContent: candidate.Body,
			Summary:         summary.Summary,
			Status:          messagedomain.StatusUnread,
			ReceivedAt:      candidate.ReceivedAt,
		}

		if err := u.messageRepo.Create(msg); err != nil {
			if errors.Is(err, messagedomain.ErrDuplicateMessage) {
				// A concurrent pass won the insert race; already synced.
				log.Printf("[SYNC] duplicate %s/%s for user %s, skipping", provider, candidate.ExternalID, userID)
				continue
			}
			return nil, err
		}

		autoReplied := u.maybeAutoReply(ctx, accessToken, msg, candidate)

		status := messagedomain.StatusUnread
		if autoReplied {
			status = messagedomain.StatusReplied
		}

		processed = append(processed, &messagedto.ProcessedMessage{
			ID:             msg.ID,
			Source:         provider,
			SenderName:     candidate.FromName,
			SenderContact:  candidate.From,
			Subject:        candidate.Subject,
			Summary:        summary.Summary,
			Urgency:        summary.Urgency,
			ActionRequired: summary.ActionRequired,
			Status:         status,
			AutoReplySent:  autoReplied,
			ReceivedAt:     candidate.ReceivedAt,
		})
	}

	return processed, nil
}

// summarize calls the summarizer and degrades to the deterministic excerpt
// on any failure. One bad message never aborts the rest of the batch.
func (u *messageUsecase) summarize(ctx context.Context, candidate *messagedomain.ProviderMessage, profession string) *ai.SummaryResult {
	result, err := u.summarizer.Summarize(ctx, candidate.Body, ai.SummaryContext{
		SenderName: candidate.FromName,
		Subject:    candidate.Subject,
		Profession: profession,
	})
	if err != nil {
		log.Printf("[AI] summarization failed for %s: %v, using fallback", candidate.ExternalID, err)
		return ai.FallbackResult(candidate.Body)
	}
	return result
}

// maybeAutoReply evaluates the policy at this instant and, when eligible,
// sends the configured reply and records it. Failures are logged and
// swallowed: the message still counts as processed, just without a reply.
func (u *messageUsecase) maybeAutoReply(ctx context.Context, accessToken string, msg *messagedomain.Message, candidate *messagedomain.ProviderMessage) bool {
	settings, err := u.settingsRepo.FindByUser(msg.UserID)
	if err != nil {
		log.Printf("[SYNC] load auto-reply settings for user %s: %v", msg.UserID, err)
		return false
	}
	if !ShouldAutoReply(settings, u.now()) {
		return false
	}

	if _, err := u.provider.SendMessage(ctx, accessToken, candidate.From, replySubject(candidate.Subject), settings.Message, candidate.ThreadID); err != nil {
		log.Printf("[SYNC] auto-reply send failed for message %s: %v", msg.ID, err)
		return false
	}

	now := u.now()
	if err := u.replyRepo.Create(&messagedomain.Reply{
		MessageID:   msg.ID,
		UserID:      msg.UserID,
		Content:     settings.Message,
		IsAutoReply: true,
		SentAt:      now,
	}); err != nil {
		log.Printf("[SYNC] record auto-reply for message %s: %v", msg.ID, err)
	}
	if err := u.messageRepo.MarkAutoReplied(msg.ID, now); err != nil {
		log.Printf("[SYNC] mark auto-replied for message %s: %v", msg.ID, err)
	}

	return true
}
