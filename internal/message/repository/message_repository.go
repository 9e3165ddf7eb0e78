package repository

import (
	"errors"
	"time"

	authdomain "triago-backend/internal/auth/domain"
	messagedomain "triago-backend/internal/message/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ListFilter narrows a message listing.
type ListFilter struct {
	Status *messagedomain.Status
	Source *authdomain.Provider
	Limit  int
	Offset int
}

// MessageRepository defines persistence for messages.
type MessageRepository interface {
	// Create persists a new message. A (user, source, external_id) collision
	// returns domain.ErrDuplicateMessage.
	Create(msg *messagedomain.Message) error
	Exists(userID string, source authdomain.Provider, externalID string) (bool, error)
	LatestReceivedAt(userID string, source authdomain.Provider) (*time.Time, error)
	FindByID(userID, id string) (*messagedomain.Message, error)
	List(userID string, filter ListFilter) ([]*messagedomain.Message, int64, error)
	// MarkRead transitions UNREAD to READ; other statuses are left alone so
	// the state machine never moves backward.
	MarkRead(userID, id string) error
	SetStatus(userID, id string, status messagedomain.Status) error
	MarkAutoReplied(id string, at time.Time) error
	Stats(userID string, now time.Time) (*messagedomain.Stats, error)
}

// messageRepository implements MessageRepository interface
type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new instance of messageRepository
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{
		db: db,
	}
}

func (r *messageRepository) Create(msg *messagedomain.Message) error {
	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	now := time.Now()
	msg.CreatedAt = now
	msg.UpdatedAt = now

	if err := r.db.Create(msg).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return messagedomain.ErrDuplicateMessage
		}
		return err
	}
	return nil
}

func (r *messageRepository) Exists(userID string, source authdomain.Provider, externalID string) (bool, error) {
	var count int64
	err := r.db.Model(&messagedomain.Message{}).
		Where("user_id = ? AND source = ? AND external_id = ?", userID, source, externalID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// LatestReceivedAt returns the sync watermark: the received_at of the
// newest persisted message for (user, source), or nil on first sync.
func (r *messageRepository) LatestReceivedAt(userID string, source authdomain.Provider) (*time.Time, error) {
	var msg messagedomain.Message
	err := r.db.Where("user_id = ? AND source = ?", userID, source).
		Order("received_at desc").
		First(&msg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &msg.ReceivedAt, nil
}

func (r *messageRepository) FindByID(userID, id string) (*messagedomain.Message, error) {
	var msg messagedomain.Message
	err := r.db.Where("id = ? AND user_id = ?", id, userID).
		Preload("Replies", func(db *gorm.DB) *gorm.DB {
			return db.Order("sent_at asc")
		}).
		First(&msg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, messagedomain.ErrMessageNotFound
		}
		return nil, err
	}
	return &msg, nil
}

func (r *messageRepository) List(userID string, filter ListFilter) ([]*messagedomain.Message, int64, error) {
	query := r.db.Model(&messagedomain.Message{}).Where("user_id = ?", userID)
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Source != nil {
		query = query.Where("source = ?", *filter.Source)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}

	var messages []*messagedomain.Message
	err := query.
		Order("received_at desc").
		Limit(limit).
		Offset(filter.Offset).
		Preload("Replies", func(db *gorm.DB) *gorm.DB {
			return db.Order("sent_at desc")
		}).
		Find(&messages).Error
	if err != nil {
		return nil, 0, err
	}

	return messages, total, nil
}

func (r *messageRepository) MarkRead(userID, id string) error {
	return r.db.Model(&messagedomain.Message{}).
		Where("id = ? AND user_id = ? AND status = ?", id, userID, messagedomain.StatusUnread).
		Updates(map[string]interface{}{
			"status":     messagedomain.StatusRead,
			"updated_at": time.Now(),
		}).Error
}

func (r *messageRepository) SetStatus(userID, id string, status messagedomain.Status) error {
	return r.db.Model(&messagedomain.Message{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		}).Error
}

func (r *messageRepository) MarkAutoReplied(id string, at time.Time) error {
	return r.db.Model(&messagedomain.Message{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"auto_reply_sent":    true,
			"auto_reply_sent_at": at,
			"status":             messagedomain.StatusReplied,
			"updated_at":         time.Now(),
		}).Error
}

func (r *messageRepository) Stats(userID string, now time.Time) (*messagedomain.Stats, error) {
	stats := &messagedomain.Stats{}
	base := func() *gorm.DB {
		return r.db.Model(&messagedomain.Message{}).Where("user_id = ?", userID)
	}

	if err := base().Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if err := base().Where("status = ?", messagedomain.StatusUnread).Count(&stats.Unread).Error; err != nil {
		return nil, err
	}
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if err := base().Where("received_at >= ?", startOfDay).Count(&stats.TodayCount).Error; err != nil {
		return nil, err
	}
	if err := base().Where("status = ?", messagedomain.StatusReplied).Count(&stats.RepliedCount).Error; err != nil {
		return nil, err
	}

	if stats.Total > 0 {
		stats.ReadRate = float64(stats.Total-stats.Unread) / float64(stats.Total) * 100
	}

	return stats, nil
}
