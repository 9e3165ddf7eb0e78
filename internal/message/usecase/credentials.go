package usecase

import (
	"context"
	"fmt"
	"time"

	authdomain "triago-backend/internal/auth/domain"
	authrepo "triago-backend/internal/auth/repository"
	messagedomain "triago-backend/internal/message/domain"
)

// tokenLease is the lifetime recorded for a refreshed access token. Google
// does not always surface the real expiry on refresh, so a fixed lease is
// used instead.
const tokenLease = time.Hour

// CredentialManager hands out usable access tokens, refreshing expired ones
// behind a per-connection lock so concurrent sync passes cannot invalidate
// each other's refresh at the provider.
type CredentialManager struct {
	connRepo  authrepo.ConnectionRepository
	refresher TokenRefresher
	locks     ConnectionLocker
	now       func() time.Time
}

func NewCredentialManager(connRepo authrepo.ConnectionRepository, refresher TokenRefresher, locks ConnectionLocker) *CredentialManager {
	return &CredentialManager{
		connRepo:  connRepo,
		refresher: refresher,
		locks:     locks,
		now:       time.Now,
	}
}

// ValidAccessToken returns an access token that is not past its lease,
// refreshing and persisting it first when needed. The refreshed token is
// stored before it is returned, so later calls in the same pass observe it.
func (m *CredentialManager) ValidAccessToken(ctx context.Context, conn *authdomain.Connection) (string, error) {
	if conn == nil || conn.AccessToken == "" {
		return "", messagedomain.ErrConnectionNotFound
	}
	if !conn.Expired(m.now()) {
		return conn.AccessToken, nil
	}
	if conn.RefreshToken == "" {
		return "", messagedomain.ErrCredentialExpired
	}

	lockKey := "cred:" + conn.ID
	if err := m.locks.Acquire(ctx, lockKey); err != nil {
		return "", fmt.Errorf("acquire refresh lock: %w", err)
	}
	defer m.locks.Release(ctx, lockKey)

	// A concurrent pass may have refreshed while we waited on the lock;
	// reuse its token instead of burning another refresh.
	current, err := m.connRepo.FindByUserAndProvider(conn.UserID, conn.Provider)
	if err != nil {
		return "", err
	}
	if current != nil && current.AccessToken != "" && !current.Expired(m.now()) {
		*conn = *current
		return current.AccessToken, nil
	}

	accessToken, err := m.refresher.RefreshAccessToken(ctx, conn.RefreshToken)
	if err != nil {
		return "", fmt.Errorf("refresh access token: %w", err)
	}

	expiresAt := m.now().Add(tokenLease)
	if err := m.connRepo.UpdateTokens(conn.ID, accessToken, expiresAt); err != nil {
		return "", fmt.Errorf("persist refreshed token: %w", err)
	}

	conn.AccessToken = accessToken
	conn.ExpiresAt = &expiresAt
	return accessToken, nil
}
