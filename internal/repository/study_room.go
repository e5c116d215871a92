package repository

import (
	"context"
	"fmt"

	"studysmarter/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StudyRoomRepository defines persistence operations for study rooms.
type StudyRoomRepository interface {
	Create(ctx context.Context, room *models.StudyRoom) error
	GetByID(ctx context.Context, id uint) (*models.StudyRoom, error)
	List(ctx context.Context) ([]models.StudyRoom, error)
}

type studyRoomRepository struct {
	db *gorm.DB
}

func NewStudyRoomRepository(db *gorm.DB) StudyRoomRepository {
	return &studyRoomRepository{db: db}
}

func (r *studyRoomRepository) Create(ctx context.Context, room *models.StudyRoom) error {
	if err := conn(ctx, r.db).Omit(clause.Associations).Create(room).Error; err != nil {
		return fmt.Errorf("create study room: %w", err)
	}
	return nil
}

func (r *studyRoomRepository) GetByID(ctx context.Context, id uint) (*models.StudyRoom, error) {
	var room models.StudyRoom
	if err := conn(ctx, r.db).First(&room, id).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return &room, nil
}

func (r *studyRoomRepository) List(ctx context.Context) ([]models.StudyRoom, error) {
	rooms := []models.StudyRoom{}
	if err := conn(ctx, r.db).Order("room_id").Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("list study rooms: %w", err)
	}
	return rooms, nil
}
