package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	authdomain "triago-backend/internal/auth/domain"
	messagedomain "triago-backend/internal/message/domain"
)

func testConnection(expiresAt *time.Time) *authdomain.Connection {
	return &authdomain.Connection{
		ID:           "conn-1",
		UserID:       "user-1",
		Provider:     authdomain.ProviderGmail,
		AccessToken:  "old-token",
		RefreshToken: "refresh-token",
		ExpiresAt:    expiresAt,
	}
}

func TestValidAccessTokenFreshTokenPassesThrough(t *testing.T) {
	now := tuesdayAt(10, 0)
	expiry := now.Add(30 * time.Minute)
	conn := testConnection(&expiry)

	refresher := &fakeRefresher{token: "new-token"}
	m := NewCredentialManager(&fakeConnRepo{conns: []*authdomain.Connection{conn}}, refresher, &noopLocker{})
	m.now = func() time.Time { return now }

	token, err := m.ValidAccessToken(context.Background(), conn)
	if err != nil {
		t.Fatalf("ValidAccessToken: %v", err)
	}
	if token != "old-token" {
		t.Errorf("token = %q, want old-token", token)
	}
	if refresher.calls != 0 {
		t.Errorf("refresher called %d times for a fresh token", refresher.calls)
	}
}

func TestValidAccessTokenRefreshesAndPersists(t *testing.T) {
	now := tuesdayAt(10, 0)
	expiry := now.Add(-time.Minute)
	stored := testConnection(&expiry)
	connRepo := &fakeConnRepo{conns: []*authdomain.Connection{stored}}
	locks := &noopLocker{}

	m := NewCredentialManager(connRepo, &fakeRefresher{token: "new-token"}, locks)
	m.now = func() time.Time { return now }

	conn := *stored
	token, err := m.ValidAccessToken(context.Background(), &conn)
	if err != nil {
		t.Fatalf("ValidAccessToken: %v", err)
	}
	if token != "new-token" {
		t.Errorf("token = %q, want new-token", token)
	}

	// The refreshed token must be persisted before it is handed out.
	if stored.AccessToken != "new-token" {
		t.Errorf("stored token = %q, want new-token", stored.AccessToken)
	}
	wantExpiry := now.Add(time.Hour)
	if stored.ExpiresAt == nil || !stored.ExpiresAt.Equal(wantExpiry) {
		t.Errorf("stored expiry = %v, want %v", stored.ExpiresAt, wantExpiry)
	}

	if len(locks.acquired) != 1 || locks.acquired[0] != "cred:conn-1" {
		t.Errorf("acquired locks = %v, want [cred:conn-1]", locks.acquired)
	}
	if len(locks.released) != 1 {
		t.Errorf("released %d locks, want 1", len(locks.released))
	}
}

func TestValidAccessTokenReusesConcurrentRefresh(t *testing.T) {
	now := tuesdayAt(10, 0)
	staleExpiry := now.Add(-time.Minute)
	freshExpiry := now.Add(45 * time.Minute)

	// The store already carries a fresh token, as if another pass refreshed
	// while this caller waited on the lock.
	stored := testConnection(&freshExpiry)
	stored.AccessToken = "racer-token"
	refresher := &fakeRefresher{token: "should-not-be-used"}

	m := NewCredentialManager(&fakeConnRepo{conns: []*authdomain.Connection{stored}}, refresher, &noopLocker{})
	m.now = func() time.Time { return now }

	conn := testConnection(&staleExpiry)
	token, err := m.ValidAccessToken(context.Background(), conn)
	if err != nil {
		t.Fatalf("ValidAccessToken: %v", err)
	}
	if token != "racer-token" {
		t.Errorf("token = %q, want racer-token", token)
	}
	if refresher.calls != 0 {
		t.Errorf("refresher called %d times, want 0", refresher.calls)
	}
	if conn.AccessToken != "racer-token" {
		t.Errorf("caller's connection not updated with the fresh token")
	}
}

func TestValidAccessTokenWithoutRefreshToken(t *testing.T) {
	now := tuesdayAt(10, 0)
	expiry := now.Add(-time.Minute)
	conn := testConnection(&expiry)
	conn.RefreshToken = ""

	m := NewCredentialManager(&fakeConnRepo{}, &fakeRefresher{}, &noopLocker{})
	m.now = func() time.Time { return now }

	_, err := m.ValidAccessToken(context.Background(), conn)
	if !errors.Is(err, messagedomain.ErrCredentialExpired) {
		t.Errorf("err = %v, want ErrCredentialExpired", err)
	}
}

func TestValidAccessTokenMissingConnection(t *testing.T) {
	m := NewCredentialManager(&fakeConnRepo{}, &fakeRefresher{}, &noopLocker{})

	if _, err := m.ValidAccessToken(context.Background(), nil); !errors.Is(err, messagedomain.ErrConnectionNotFound) {
		t.Errorf("nil connection: err = %v, want ErrConnectionNotFound", err)
	}
	if _, err := m.ValidAccessToken(context.Background(), &authdomain.Connection{}); !errors.Is(err, messagedomain.ErrConnectionNotFound) {
		t.Errorf("empty token: err = %v, want ErrConnectionNotFound", err)
	}
}
