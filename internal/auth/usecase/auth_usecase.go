package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	authdomain "triago-backend/internal/auth/domain"
	authdto "triago-backend/internal/auth/dto"
	"triago-backend/internal/auth/repository"
	settingsdomain "triago-backend/internal/settings/domain"
	settingsdto "triago-backend/internal/settings/dto"
	settingsrepo "triago-backend/internal/settings/repository"
	"triago-backend/pkg/config"

	"github.com/golang-jwt/jwt/v5"
)

// authUsecase implements AuthUsecase interface
type authUsecase struct {
	userRepo     repository.UserRepository
	connRepo     repository.ConnectionRepository
	settingsRepo settingsrepo.SettingsRepository
	oauth        OAuthProvider
	config       *config.Config
}

// NewAuthUsecase creates a new instance of authUsecase
func NewAuthUsecase(
	userRepo repository.UserRepository,
	connRepo repository.ConnectionRepository,
	settingsRepo settingsrepo.SettingsRepository,
	oauth OAuthProvider,
	cfg *config.Config,
) AuthUsecase {
	return &authUsecase{
		userRepo:     userRepo,
		connRepo:     connRepo,
		settingsRepo: settingsRepo,
		oauth:        oauth,
		config:       cfg,
	}
}

func (u *authUsecase) GoogleAuthURL(state string) string {
	return u.oauth.AuthURL(state)
}

func (u *authUsecase) HandleGoogleCallback(ctx context.Context, code string) (*authdto.AuthResponse, error) {
	token, err := u.oauth.ExchangeCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}
	if token.AccessToken == "" {
		return nil, errors.New("google returned an empty access token")
	}

	profile, err := u.oauth.UserProfile(ctx, token.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("fetch google profile: %w", err)
	}
	if profile.Email == "" {
		return nil, errors.New("google profile has no email")
	}

	user, err := u.userRepo.FindByEmail(profile.Email)
	if err != nil {
		return nil, err
	}

	if user == nil {
		user = &authdomain.User{
			Email:     profile.Email,
			Name:      profile.Name,
			AvatarURL: profile.Picture,
		}
		if err := u.userRepo.Create(user); err != nil {
			return nil, err
		}
		// First sign-in also seeds auto-reply settings so the schedule is
		// visible before the user ever opens the settings screen.
		if err := u.settingsRepo.Create(settingsdomain.Defaults(user.ID)); err != nil {
			return nil, err
		}
	} else {
		user.Name = profile.Name
		user.AvatarURL = profile.Picture
		if err := u.userRepo.Update(user); err != nil {
			return nil, err
		}
	}

	conn := &authdomain.Connection{
		UserID:       user.ID,
		Provider:     authdomain.ProviderGmail,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
	}
	if !token.Expiry.IsZero() {
		expiry := token.Expiry
		conn.ExpiresAt = &expiry
	}
	if err := u.connRepo.Upsert(conn); err != nil {
		return nil, err
	}

	signed, err := u.generateAccessToken(user)
	if err != nil {
		return nil, err
	}

	return &authdto.AuthResponse{Success: true, Token: signed, User: user}, nil
}

func (u *authUsecase) Me(userID string) (*authdto.MeResponse, error) {
	user, err := u.userRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("user not found")
	}

	conns, err := u.connRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	views := make([]authdto.ConnectionView, 0, len(conns))
	for _, conn := range conns {
		views = append(views, authdto.ConnectionView{
			ID:          conn.ID,
			Provider:    string(conn.Provider),
			ConnectedAt: conn.CreatedAt,
		})
	}

	// The profile surface includes the auto-reply settings, seeding the
	// default row for accounts that predate the settings table.
	settings, err := u.settingsRepo.FindByUser(userID)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		settings = settingsdomain.Defaults(userID)
		if err := u.settingsRepo.Create(settings); err != nil {
			return nil, err
		}
	}

	return &authdto.MeResponse{
		User:        user,
		Connections: views,
		AutoReplySettings: &settingsdto.AutoReplyResponse{
			Enabled:          settings.Enabled,
			Message:          settings.Message,
			StartTime:        settings.StartTime,
			EndTime:          settings.EndTime,
			ActiveDays:       settings.ActiveDays,
			ActiveDaysLabels: settings.Labels(),
		},
	}, nil
}

func (u *authUsecase) UpdateProfile(userID string, req *authdto.UpdateProfileRequest) (*authdomain.User, error) {
	user, err := u.userRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("user not found")
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Profession != nil {
		user.Profession = *req.Profession
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}

	if err := u.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (u *authUsecase) Disconnect(userID string, provider authdomain.Provider) error {
	return u.connRepo.Delete(userID, provider)
}

func (u *authUsecase) generateAccessToken(user *authdomain.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"exp":     time.Now().Add(u.config.JWTAccessExpiry).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(u.config.JWTSecret))
}

func (u *authUsecase) ValidateToken(tokenString string) (*authdomain.User, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(u.config.JWTSecret), nil
	})

	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}

	userID, ok := claims["user_id"].(string)
	if !ok {
		return nil, errors.New("invalid token claims")
	}

	user, err := u.userRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}

	if user == nil {
		return nil, errors.New("user not found")
	}

	return user, nil
}
