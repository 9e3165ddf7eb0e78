package domain

import (
	"time"

	authdomain "triago-backend/internal/auth/domain"
)

type Status string

const (
	StatusUnread   Status = "UNREAD"
	StatusRead     Status = "READ"
	StatusReplied  Status = "REPLIED"
	StatusArchived Status = "ARCHIVED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusUnread, StatusRead, StatusReplied, StatusArchived:
		return true
	}
	return false
}

// Message is one ingested unit of inbound communication. The composite
// unique index on (user_id, source, external_id) is the dedup key: a
// concurrent sync pass that loses the insert race gets a duplicate-key
// error and treats the message as already synced.
type Message struct {
	ID                string              `json:"id" gorm:"primaryKey"`
	UserID            string              `json:"user_id" gorm:"index;uniqueIndex:idx_user_source_external;not null"`
	ConnectionID      string              `json:"connection_id" gorm:"not null"`
	ExternalID        string              `json:"external_id" gorm:"uniqueIndex:idx_user_source_external;not null"`
	ThreadID          string              `json:"thread_id,omitempty"`
	Source            authdomain.Provider `json:"source" gorm:"uniqueIndex:idx_user_source_external;not null"`
	SenderName        string              `json:"sender_name"`
	SenderContact     string              `json:"sender_contact"`
	Subject           string              `json:"subject"`
	OriginalContent   string              `json:"original_content"`
	Summary           string              `json:"summary"`
	IsAudio           bool                `json:"is_audio"`
	AudioDurationSecs int                 `json:"audio_duration_secs,omitempty"`
	AudioURL          string              `json:"audio_url,omitempty"`
	Status            Status              `json:"status" gorm:"index"`
	AutoReplySent     bool                `json:"auto_reply_sent"`
	AutoReplySentAt   *time.Time          `json:"auto_reply_sent_at,omitempty"`
	ReceivedAt        time.Time           `json:"received_at" gorm:"index"`
	CreatedAt         time.Time           `json:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at"`
	Replies           []Reply             `json:"replies,omitempty" gorm:"foreignKey:MessageID"`
}

// Reply is a sent response tied to exactly one message. Append-only.
type Reply struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	MessageID   string    `json:"message_id" gorm:"index;not null"`
	UserID      string    `json:"user_id" gorm:"index;not null"`
	Content     string    `json:"content"`
	IsAutoReply bool      `json:"is_auto_reply"`
	SentAt      time.Time `json:"sent_at"`
}

// ProviderMessage is a candidate message as returned by a provider client,
// before it has been summarized and persisted.
type ProviderMessage struct {
	ExternalID string
	ThreadID   string
	From       string
	FromName   string
	Subject    string
	Body       string
	Snippet    string
	ReceivedAt time.Time
}

// Stats are the per-user triage counters.
type Stats struct {
	Total        int64   `json:"total"`
	Unread       int64   `json:"unread"`
	TodayCount   int64   `json:"todayCount"`
	RepliedCount int64   `json:"repliedCount"`
	ReadRate     float64 `json:"readRate"`
}
