package repository

import (
	"errors"
	"time"

	settingsdomain "triago-backend/internal/settings/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SettingsRepository defines persistence for auto-reply settings.
type SettingsRepository interface {
	FindByUser(userID string) (*settingsdomain.AutoReplySettings, error)
	Create(settings *settingsdomain.AutoReplySettings) error
	Update(settings *settingsdomain.AutoReplySettings) error
}

// settingsRepository implements SettingsRepository interface
type settingsRepository struct {
	db *gorm.DB
}

// NewSettingsRepository creates a new instance of settingsRepository
func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &settingsRepository{
		db: db,
	}
}

func (r *settingsRepository) FindByUser(userID string) (*settingsdomain.AutoReplySettings, error) {
	var settings settingsdomain.AutoReplySettings
	err := r.db.Where("user_id = ?", userID).First(&settings).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &settings, nil
}

func (r *settingsRepository) Create(settings *settingsdomain.AutoReplySettings) error {
	if settings.ID == "" {
		settings.ID = uuid.New().String()
	}
	now := time.Now()
	settings.CreatedAt = now
	settings.UpdatedAt = now
	return r.db.Create(settings).Error
}

func (r *settingsRepository) Update(settings *settingsdomain.AutoReplySettings) error {
	settings.UpdatedAt = time.Now()
	return r.db.Save(settings).Error
}
