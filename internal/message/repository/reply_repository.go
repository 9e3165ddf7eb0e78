package repository

import (
	"time"

	messagedomain "triago-backend/internal/message/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReplyRepository defines persistence for replies. Replies are append-only.
type ReplyRepository interface {
	Create(reply *messagedomain.Reply) error
}

// replyRepository implements ReplyRepository interface
type replyRepository struct {
	db *gorm.DB
}

// NewReplyRepository creates a new instance of replyRepository
func NewReplyRepository(db *gorm.DB) ReplyRepository {
	return &replyRepository{
		db: db,
	}
}

func (r *replyRepository) Create(reply *messagedomain.Reply) error {
	if reply.ID == "" {
		reply.ID = uuid.New().String()
	}
	if reply.SentAt.IsZero() {
		reply.SentAt = time.Now()
	}
	return r.db.Create(reply).Error
}
