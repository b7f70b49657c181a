package models

import "gorm.io/gorm"

// AutoMigrate creates or updates the tables for every persisted model.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Post{},
		&Follow{},
		&Session{},
	)
}
