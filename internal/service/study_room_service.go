package service

import (
	"context"
	"errors"
	"strings"

	"studysmarter/internal/models"
	"studysmarter/internal/observability"
	"studysmarter/internal/repository"
	"studysmarter/internal/validation"
)

type StudyRoomService struct {
	roomRepo repository.StudyRoomRepository
	userRepo repository.UserRepository
	tx       repository.Transactor
}

type CreateStudyRoomInput struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Description *string `json:"description"`
	Capacity    int     `json:"capacity" validate:"gt=0"`
	CreatorID   uint    `json:"creator_id"`
}

var studyRoomMessages = validation.Messages{
	"name.required": "Study room name cannot be empty",
	"name.max":      "Study room name too long (max 100 characters)",
	"capacity.gt":   "Capacity must be greater than zero",
}

func NewStudyRoomService(
	roomRepo repository.StudyRoomRepository,
	userRepo repository.UserRepository,
	tx repository.Transactor,
) *StudyRoomService {
	return &StudyRoomService{
		roomRepo: roomRepo,
		userRepo: userRepo,
		tx:       tx,
	}
}

func (s *StudyRoomService) CreateStudyRoom(ctx context.Context, in CreateStudyRoomInput) (room *models.StudyRoom, err error) {
	ctx, end := observability.StartSpan(ctx, "StudyRoomService.CreateStudyRoom")
	defer func() { end(err) }()

	in.Name = strings.TrimSpace(in.Name)
	if in.Description != nil {
		d := strings.TrimSpace(*in.Description)
		in.Description = &d
	}
	if err := validation.Struct(in, studyRoomMessages); err != nil {
		return nil, err
	}

	room = &models.StudyRoom{
		Name:        in.Name,
		Description: in.Description,
		Capacity:    in.Capacity,
		CreatorID:   in.CreatorID,
	}

	err = s.tx.Transaction(ctx, func(ctx context.Context) error {
		if err := requireCreator(ctx, s.userRepo, in.CreatorID); err != nil {
			return err
		}
		return s.roomRepo.Create(ctx, room)
	})
	if err != nil {
		return nil, asAppError(err, "Creation failed")
	}
	return room, nil
}

func (s *StudyRoomService) GetStudyRoom(ctx context.Context, id uint) (*models.StudyRoom, error) {
	room, err := s.roomRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, models.NewNotFoundError("Room not found")
		}
		return nil, models.NewInternalError("Error fetching room", err)
	}
	return room, nil
}

func (s *StudyRoomService) ListStudyRooms(ctx context.Context) ([]models.StudyRoomSummary, error) {
	rooms, err := s.roomRepo.List(ctx)
	if err != nil {
		return nil, models.NewInternalError("Error fetching rooms", err)
	}

	out := make([]models.StudyRoomSummary, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, models.StudyRoomSummary{ID: r.ID, Name: r.Name, Capacity: r.Capacity})
	}
	return out, nil
}
