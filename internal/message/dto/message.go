package dto

import (
	"time"

	authdomain "triago-backend/internal/auth/domain"
	messagedomain "triago-backend/internal/message/domain"
)

// ProcessedMessage is one newly-synced message as reported by a sync pass.
type ProcessedMessage struct {
	ID             string               `json:"id"`
	Source         authdomain.Provider  `json:"source"`
	SenderName     string               `json:"senderName"`
	SenderContact  string               `json:"senderContact"`
	Subject        string               `json:"subject"`
	Summary        string               `json:"summary"`
	Urgency        string               `json:"urgency"`
	ActionRequired string               `json:"actionRequired,omitempty"`
	IsAudio        bool                 `json:"isAudio"`
	Status         messagedomain.Status `json:"status"`
	AutoReplySent  bool                 `json:"autoReplySent"`
	ReceivedAt     time.Time            `json:"receivedAt"`
}

type SyncResponse struct {
	Success  bool                `json:"success"`
	Count    int                 `json:"count"`
	Messages []*ProcessedMessage `json:"messages"`
}

type ListQuery struct {
	Status string `form:"status" binding:"omitempty,oneof=UNREAD READ REPLIED ARCHIVED"`
	Source string `form:"source" binding:"omitempty,oneof=GMAIL OUTLOOK WHATSAPP"`
	Limit  int    `form:"limit,default=20" binding:"min=1,max=50"`
	Offset int    `form:"offset" binding:"min=0"`
}

// MessageRow is the list-view projection of a message.
type MessageRow struct {
	ID              string               `json:"id"`
	Source          authdomain.Provider  `json:"source"`
	SenderName      string               `json:"senderName"`
	SenderContact   string               `json:"senderContact"`
	Subject         string               `json:"subject"`
	Summary         string               `json:"summary"`
	IsAudio         bool                 `json:"isAudio"`
	AudioDuration   int                  `json:"audioDurationSecs,omitempty"`
	Status          messagedomain.Status `json:"status"`
	AutoReplySent   bool                 `json:"autoReplySent"`
	AutoReplySentAt *time.Time           `json:"autoReplySentAt,omitempty"`
	ReceivedAt      time.Time            `json:"receivedAt"`
	HasReplies      bool                 `json:"hasReplies"`
	LastReplyAt     *time.Time           `json:"lastReplyAt"`
}

type ListResponse struct {
	Messages []*MessageRow `json:"messages"`
	Total    int64         `json:"total"`
	HasMore  bool          `json:"hasMore"`
}

type ReplyView struct {
	ID          string    `json:"id"`
	Content     string    `json:"content"`
	IsAutoReply bool      `json:"isAutoReply"`
	SentAt      time.Time `json:"sentAt"`
}

// MessageDetail is the full message view. Fetching it marks the message
// read, and Status reflects the post-transition value.
type MessageDetail struct {
	ID              string               `json:"id"`
	Source          authdomain.Provider  `json:"source"`
	SenderName      string               `json:"senderName"`
	SenderContact   string               `json:"senderContact"`
	Subject         string               `json:"subject"`
	OriginalContent string               `json:"originalContent"`
	Summary         string               `json:"summary"`
	IsAudio         bool                 `json:"isAudio"`
	AudioDuration   int                  `json:"audioDurationSecs,omitempty"`
	AudioURL        string               `json:"audioUrl,omitempty"`
	Status          messagedomain.Status `json:"status"`
	AutoReplySent   bool                 `json:"autoReplySent"`
	AutoReplySentAt *time.Time           `json:"autoReplySentAt,omitempty"`
	ReceivedAt      time.Time            `json:"receivedAt"`
	Replies         []ReplyView          `json:"replies"`
}

type ReplyRequest struct {
	Content string `json:"content" binding:"required,min=1,max=5000"`
}
