package usecase

import (
	"context"
	"time"

	authdomain "triago-backend/internal/auth/domain"
	messagedomain "triago-backend/internal/message/domain"
	messagedto "triago-backend/internal/message/dto"
)

// ProviderClient is the slice of a provider integration the sync pipeline
// needs: incremental listing and sending. pkg/gmail implements it; tests
// substitute fakes.
type ProviderClient interface {
	ListMessagesSince(ctx context.Context, accessToken string, since *time.Time, max int64) ([]*messagedomain.ProviderMessage, error)
	SendMessage(ctx context.Context, accessToken, to, subject, body, threadID string) (string, error)
}

// TokenRefresher exchanges a refresh token for a new access token.
type TokenRefresher interface {
	RefreshAccessToken(ctx context.Context, refreshToken string) (string, error)
}

// ConnectionLocker serializes credential refresh per connection across
// concurrent sync passes.
type ConnectionLocker interface {
	Acquire(ctx context.Context, key string) error
	Release(ctx context.Context, key string) error
}

// MessageUsecase defines the interface for message use cases
type MessageUsecase interface {
	SyncMessages(ctx context.Context, userID string, provider authdomain.Provider) ([]*messagedto.ProcessedMessage, error)
	List(userID string, query messagedto.ListQuery) (*messagedto.ListResponse, error)
	// GetAndMarkRead fetches the detail view and performs the UNREAD->READ
	// transition as part of the fetch; the returned status is the
	// post-transition one.
	GetAndMarkRead(userID, id string) (*messagedto.MessageDetail, error)
	MarkAsRead(userID, id string) error
	SendReply(ctx context.Context, userID, id, content string) error
	Stats(userID string) (*messagedomain.Stats, error)
}
