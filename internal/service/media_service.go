package service

import (
	"context"
	"strings"

	"studysmarter/internal/models"
	"studysmarter/internal/observability"
	"studysmarter/internal/repository"
	"studysmarter/internal/validation"
)

type MediaService struct {
	mediaRepo repository.MediaRepository
	postRepo  repository.PostRepository
	tx        repository.Transactor
}

type CreateMediaInput struct {
	Type     string `json:"type" validate:"required"`
	FilePath string `json:"file_path" validate:"required,max=255"`
	PostID   *uint  `json:"post_id"`
}

var mediaMessages = validation.Messages{
	"type.required":      "Media type cannot be empty",
	"file_path.required": "File path cannot be empty",
	"file_path.max":      "File path too long (max 255 characters)",
}

func NewMediaService(
	mediaRepo repository.MediaRepository,
	postRepo repository.PostRepository,
	tx repository.Transactor,
) *MediaService {
	return &MediaService{
		mediaRepo: mediaRepo,
		postRepo:  postRepo,
		tx:        tx,
	}
}

// CreateMedia records a media file path. The type is matched
// case-insensitively against models.AllowedMediaTypes.
func (s *MediaService) CreateMedia(ctx context.Context, in CreateMediaInput) (media *models.Media, err error) {
	ctx, end := observability.StartSpan(ctx, "MediaService.CreateMedia")
	defer func() { end(err) }()

	in.Type = strings.ToLower(strings.TrimSpace(in.Type))
	in.FilePath = strings.TrimSpace(in.FilePath)
	if err := validation.Struct(in, mediaMessages); err != nil {
		return nil, err
	}
	mediaType := models.MediaType(in.Type)
	if !mediaType.Valid() {
		return nil, models.NewValidationError("Invalid media type. Allowed types: " + allowedMediaTypes())
	}

	media = &models.Media{
		Type:     mediaType,
		FilePath: in.FilePath,
		PostID:   in.PostID,
	}

	err = s.tx.Transaction(ctx, func(ctx context.Context) error {
		if in.PostID != nil {
			if err := requirePost(ctx, s.postRepo, *in.PostID); err != nil {
				return err
			}
		}
		return s.mediaRepo.Create(ctx, media)
	})
	if err != nil {
		return nil, asAppError(err, "Media upload failed")
	}
	return media, nil
}

func allowedMediaTypes() string {
	names := make([]string, len(models.AllowedMediaTypes))
	for i, t := range models.AllowedMediaTypes {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}
