package dto

import (
	"time"

	"triago-backend/internal/auth/domain"
	settingsdto "triago-backend/internal/settings/dto"
)

// AuthResponse is returned by the OAuth callback.
type AuthResponse struct {
	Success bool         `json:"success"`
	Token   string       `json:"token"`
	User    *domain.User `json:"user"`
}

type ConnectionView struct {
	ID          string    `json:"id"`
	Provider    string    `json:"provider"`
	ConnectedAt time.Time `json:"connectedAt"`
}

type MeResponse struct {
	User              *domain.User                   `json:"user"`
	Connections       []ConnectionView               `json:"connections"`
	AutoReplySettings *settingsdto.AutoReplyResponse `json:"autoReplySettings"`
}

// UpdateProfileRequest carries partial profile updates.
type UpdateProfileRequest struct {
	Name       *string `json:"name" binding:"omitempty,min=1,max=120"`
	Profession *string `json:"profession" binding:"omitempty,max=120"`
	Phone      *string `json:"phone" binding:"omitempty,max=32"`
}
