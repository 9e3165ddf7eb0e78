package domain

import "time"

type User struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	Email      string    `json:"email" gorm:"uniqueIndex;not null"`
	Name       string    `json:"name"`
	AvatarURL  string    `json:"avatar_url,omitempty"`
	Profession string    `json:"profession,omitempty"`
	Phone      string    `json:"phone,omitempty"`
	Plan       string    `json:"plan"` // "FREE" or "PRO"
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
