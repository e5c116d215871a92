package repository

import (
	"context"
	"fmt"

	"studysmarter/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MediaRepository defines persistence operations for media records.
type MediaRepository interface {
	Create(ctx context.Context, media *models.Media) error
	GetByID(ctx context.Context, id uint) (*models.Media, error)
}

type mediaRepository struct {
	db *gorm.DB
}

func NewMediaRepository(db *gorm.DB) MediaRepository {
	return &mediaRepository{db: db}
}

func (r *mediaRepository) Create(ctx context.Context, media *models.Media) error {
	if err := conn(ctx, r.db).Omit(clause.Associations).Create(media).Error; err != nil {
		return fmt.Errorf("create media: %w", err)
	}
	return nil
}

func (r *mediaRepository) GetByID(ctx context.Context, id uint) (*models.Media, error) {
	var media models.Media
	if err := conn(ctx, r.db).First(&media, id).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return &media, nil
}
