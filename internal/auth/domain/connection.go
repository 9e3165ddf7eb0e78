package domain

import "time"

// Provider identifies an external message source.
type Provider string

const (
	ProviderGmail    Provider = "GMAIL"
	ProviderOutlook  Provider = "OUTLOOK"
	ProviderWhatsApp Provider = "WHATSAPP"
)

// AllProviders is the availability matrix shown in settings. Only Gmail is
// wired to a real integration.
var AllProviders = []Provider{ProviderGmail, ProviderOutlook, ProviderWhatsApp}

func (p Provider) Valid() bool {
	switch p {
	case ProviderGmail, ProviderOutlook, ProviderWhatsApp:
		return true
	}
	return false
}

// Connection holds the provider credentials for one (user, provider) pair.
// The unique index keeps at most one row per pair; token updates go through
// upsert semantics.
type Connection struct {
	ID           string     `json:"id" gorm:"primaryKey"`
	UserID       string     `json:"user_id" gorm:"uniqueIndex:idx_user_provider;not null"`
	Provider     Provider   `json:"provider" gorm:"uniqueIndex:idx_user_provider;not null"`
	AccessToken  string     `json:"-"`
	RefreshToken string     `json:"-"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Expired reports whether the access token lease has passed. A connection
// without a recorded expiry is assumed valid.
func (c *Connection) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && c.ExpiresAt.Before(now)
}
