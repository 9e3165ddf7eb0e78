package usecase

import (
	"context"

	authdomain "triago-backend/internal/auth/domain"
	authdto "triago-backend/internal/auth/dto"
	"triago-backend/pkg/gmail"

	"golang.org/x/oauth2"
)

// OAuthProvider is the slice of pkg/gmail the auth flow depends on.
type OAuthProvider interface {
	AuthURL(state string) string
	ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error)
	UserProfile(ctx context.Context, accessToken string) (*gmail.Profile, error)
}

// AuthUsecase defines the interface for auth use cases
type AuthUsecase interface {
	GoogleAuthURL(state string) string
	// HandleGoogleCallback exchanges the authorization code, provisions the
	// user on first sign-in and stores the Gmail connection.
	HandleGoogleCallback(ctx context.Context, code string) (*authdto.AuthResponse, error)
	Me(userID string) (*authdto.MeResponse, error)
	UpdateProfile(userID string, req *authdto.UpdateProfileRequest) (*authdomain.User, error)
	Disconnect(userID string, provider authdomain.Provider) error
	ValidateToken(tokenString string) (*authdomain.User, error)
}
