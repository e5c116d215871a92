package service

import (
	"context"
	"errors"
	"fmt"

	"studysmarter/internal/models"
	"studysmarter/internal/repository"
)

// requireCreator fails with a not-found AppError unless userID exists.
func requireCreator(ctx context.Context, users repository.UserRepository, userID uint) error {
	if _, err := users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.NewNotFoundError("Creator (user) not found")
		}
		return err
	}
	return nil
}

func requirePost(ctx context.Context, posts repository.PostRepository, postID uint) error {
	if _, err := posts.GetByID(ctx, postID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.NewNotFoundError(fmt.Sprintf("Post with id %d not found.", postID))
		}
		return err
	}
	return nil
}

// asAppError passes AppErrors through and wraps anything else as an internal
// error with the given message.
func asAppError(err error, message string) error {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return models.NewInternalError(message, err)
}
