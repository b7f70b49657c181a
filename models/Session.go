package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Session is a server-side login. Tokens handed to clients only name a row
// here, so deleting the row revokes the token.
type Session struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Remember  bool      `gorm:"not null;default:false" json:"remember"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

func NewSession(userID uint, ttl time.Duration, remember bool) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		Remember:  remember,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}
}

func (s *Session) SaveSession(db *gorm.DB) (*Session, error) {
	if err := db.Create(s).Error; err != nil {
		return nil, err
	}
	return s, nil
}

// FindSession loads a live session. Expired rows are deleted on sight.
func FindSession(db *gorm.DB, id string) (*Session, error) {
	var session Session
	err := db.Where("id = ?", id).Take(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	if time.Now().UTC().After(session.ExpiresAt) {
		_ = DeleteSession(db, id)
		return nil, ErrSessionExpired
	}
	return &session, nil
}

// DeleteSession is idempotent.
func DeleteSession(db *gorm.DB, id string) error {
	return db.Where("id = ?", id).Delete(&Session{}).Error
}

func DeleteExpiredSessions(db *gorm.DB, now time.Time) (int64, error) {
	result := db.Where("expires_at < ?", now.UTC()).Delete(&Session{})
	return result.RowsAffected, result.Error
}
