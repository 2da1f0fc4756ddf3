package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/flavorforge/backend/internal/models"
)

// Migrate brings the schema up to date. PostgreSQL additionally needs the
// pgvector extension for recipe embeddings; SQLite (used in tests) stores
// vectors as text.
func Migrate(db *gorm.DB) error {
	if db.Dialector.Name() == "postgres" {
		if err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
			return fmt.Errorf("failed to enable pgvector extension: %w", err)
		}
	}

	return db.AutoMigrate(
		&models.User{},
		&models.Recipe{},
		&models.UserInventory{},
	)
}
