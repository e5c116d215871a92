package database

import (
	"context"
	"fmt"
	"log/slog"

	"studysmarter/internal/middleware"
	"studysmarter/internal/models"

	"gorm.io/gorm"
)

// PersistentModels returns the authoritative set of schema-managed GORM
// models, in dependency order.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.StudyRoom{},
		&models.Post{},
		&models.Comment{},
		&models.Media{},
	}
}

// ApplySchema creates any missing tables, columns, indexes and foreign keys.
// It never drops anything.
func ApplySchema(ctx context.Context, db *gorm.DB) error {
	middleware.Logger.InfoContext(ctx, "Running GORM AutoMigrate", slog.String("driver", db.Dialector.Name()))
	if err := db.WithContext(ctx).AutoMigrate(PersistentModels()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}
