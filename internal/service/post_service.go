package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"studysmarter/internal/models"
	"studysmarter/internal/observability"
	"studysmarter/internal/repository"
	"studysmarter/internal/validation"
)

type PostService struct {
	postRepo repository.PostRepository
	roomRepo repository.StudyRoomRepository
	userRepo repository.UserRepository
	tx       repository.Transactor
}

type CreatePostInput struct {
	Content   string `json:"content" validate:"required"`
	CreatorID uint   `json:"creator_id"`
	RoomID    *uint  `json:"room_id"`
}

var postMessages = validation.Messages{
	"content.required": "Content cannot be empty",
}

func NewPostService(
	postRepo repository.PostRepository,
	roomRepo repository.StudyRoomRepository,
	userRepo repository.UserRepository,
	tx repository.Transactor,
) *PostService {
	return &PostService{
		postRepo: postRepo,
		roomRepo: roomRepo,
		userRepo: userRepo,
		tx:       tx,
	}
}

// CreatePost stores a post after checking its creator and, when given, its
// study room.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (post *models.Post, err error) {
	ctx, end := observability.StartSpan(ctx, "PostService.CreatePost")
	defer func() { end(err) }()

	in.Content = strings.TrimSpace(in.Content)
	if err := validation.Struct(in, postMessages); err != nil {
		return nil, err
	}

	post = &models.Post{
		Content:   in.Content,
		CreatorID: in.CreatorID,
		RoomID:    in.RoomID,
	}

	err = s.tx.Transaction(ctx, func(ctx context.Context) error {
		if err := requireCreator(ctx, s.userRepo, in.CreatorID); err != nil {
			return err
		}
		if in.RoomID != nil {
			if _, err := s.roomRepo.GetByID(ctx, *in.RoomID); err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return models.NewNotFoundError(fmt.Sprintf("Study room with id %d not found.", *in.RoomID))
				}
				return err
			}
		}
		return s.postRepo.Create(ctx, post)
	})
	if err != nil {
		return nil, asAppError(err, "Failed to create post")
	}
	return post, nil
}
