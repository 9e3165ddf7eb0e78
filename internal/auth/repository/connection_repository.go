package repository

import (
	"errors"
	"time"

	authdomain "triago-backend/internal/auth/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ConnectionRepository defines persistence for provider connections.
type ConnectionRepository interface {
	Upsert(conn *authdomain.Connection) error
	FindByUserAndProvider(userID string, provider authdomain.Provider) (*authdomain.Connection, error)
	ListByUser(userID string) ([]*authdomain.Connection, error)
	UpdateTokens(id, accessToken string, expiresAt time.Time) error
	Delete(userID string, provider authdomain.Provider) error
}

// connectionRepository implements ConnectionRepository interface
type connectionRepository struct {
	db *gorm.DB
}

// NewConnectionRepository creates a new instance of connectionRepository
func NewConnectionRepository(db *gorm.DB) ConnectionRepository {
	return &connectionRepository{
		db: db,
	}
}

// Upsert creates the connection or, when a row for (user_id, provider)
// already exists, refreshes its tokens in place. An empty refresh token on
// the incoming value keeps the stored one, since Google only returns a
// refresh token on the first consent.
func (r *connectionRepository) Upsert(conn *authdomain.Connection) error {
	now := time.Now()
	if conn.ID == "" {
		conn.ID = uuid.New().String()
	}
	conn.CreatedAt = now
	conn.UpdatedAt = now

	assignments := map[string]interface{}{
		"access_token": conn.AccessToken,
		"expires_at":   conn.ExpiresAt,
		"updated_at":   now,
	}
	if conn.RefreshToken != "" {
		assignments["refresh_token"] = conn.RefreshToken
	}

	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "provider"}},
		DoUpdates: clause.Assignments(assignments),
	}).Create(conn).Error
}

func (r *connectionRepository) FindByUserAndProvider(userID string, provider authdomain.Provider) (*authdomain.Connection, error) {
	var conn authdomain.Connection
	err := r.db.Where("user_id = ? AND provider = ?", userID, provider).First(&conn).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &conn, nil
}

func (r *connectionRepository) ListByUser(userID string) ([]*authdomain.Connection, error) {
	var conns []*authdomain.Connection
	err := r.db.Where("user_id = ?", userID).Order("created_at asc").Find(&conns).Error
	return conns, err
}

func (r *connectionRepository) UpdateTokens(id, accessToken string, expiresAt time.Time) error {
	return r.db.Model(&authdomain.Connection{}).Where("id = ?", id).Updates(map[string]interface{}{
		"access_token": accessToken,
		"expires_at":   expiresAt,
		"updated_at":   time.Now(),
	}).Error
}

func (r *connectionRepository) Delete(userID string, provider authdomain.Provider) error {
	return r.db.Where("user_id = ? AND provider = ?", userID, provider).Delete(&authdomain.Connection{}).Error
}
