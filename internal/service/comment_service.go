package service

import (
	"context"
	"strings"

	"studysmarter/internal/models"
	"studysmarter/internal/observability"
	"studysmarter/internal/repository"
	"studysmarter/internal/validation"
)

type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	userRepo    repository.UserRepository
	tx          repository.Transactor
}

type CreateCommentInput struct {
	PostID    uint   `json:"post_id"`
	CreatorID uint   `json:"creator_id"`
	Content   string `json:"content" validate:"required,max=10000"`
}

var commentMessages = validation.Messages{
	"content.required": "Comment content cannot be empty",
	"content.max":      "Comment too long (max 10000 characters)",
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
	tx repository.Transactor,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		userRepo:    userRepo,
		tx:          tx,
	}
}

func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (comment *models.Comment, err error) {
	ctx, end := observability.StartSpan(ctx, "CommentService.CreateComment")
	defer func() { end(err) }()

	in.Content = strings.TrimSpace(in.Content)
	if err := validation.Struct(in, commentMessages); err != nil {
		return nil, err
	}

	comment = &models.Comment{
		PostID:    in.PostID,
		CreatorID: in.CreatorID,
		Content:   in.Content,
	}

	err = s.tx.Transaction(ctx, func(ctx context.Context) error {
		if err := requirePost(ctx, s.postRepo, in.PostID); err != nil {
			return err
		}
		if err := requireCreator(ctx, s.userRepo, in.CreatorID); err != nil {
			return err
		}
		return s.commentRepo.Create(ctx, comment)
	})
	if err != nil {
		return nil, asAppError(err, "Failed to create comment")
	}
	return comment, nil
}
