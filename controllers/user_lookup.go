package controllers

import (
	"errors"
	"strings"

	"Chirp/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// resolveUser finds a user by username, or by public id when the path
// segment looks like one.
func resolveUser(db *gorm.DB, identifier string) (*models.User, error) {
	trimmed := strings.TrimSpace(identifier)
	if trimmed == "" {
		return nil, models.ErrUserNotFound
	}

	if len(trimmed) == 36 {
		if _, err := uuid.Parse(trimmed); err == nil {
			var user models.User
			err := db.Where("public_id = ?", strings.ToLower(trimmed)).Take(&user).Error
			if err == nil {
				return &user, nil
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, err
			}
		}
	}

	return (&models.User{}).FindUserByUsername(db, trimmed)
}
