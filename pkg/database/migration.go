package database

import (
	"fmt"

	"github.com/cliptube/backend/internal/model"
	"gorm.io/gorm"
)

// AutoMigrate keeps the schema in sync with the registered models
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.User{},
		&model.Video{},
		&model.Subscription{},
	); err != nil {
		return fmt.Errorf("auto migration failed: %w", err)
	}

	return nil
}
