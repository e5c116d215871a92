package server

import (
	"studysmarter/internal/models"
	"studysmarter/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreatePost handles POST /api/posts
// @Summary Create a post
// @Description Creates a post, optionally inside a study room
// @Tags posts
// @Accept json
// @Produce json
// @Param request body object{content=string,creator_id=int,room_id=int} true "Post"
// @Success 201 {object} object{message=string,post_id=int,content=string,creator_id=int,room_id=int}
// @Failure 400 {object} object{message=string}
// @Failure 404 {object} object{message=string}
// @Router /posts [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	p, err := readPayload(c, "Request data cannot be empty")
	if err != nil {
		return nil
	}
	if err := requireFields(c, p, "content", "creator_id"); err != nil {
		return nil
	}

	content, ok := p.String("content")
	if !ok || content == "" {
		return badRequest(c, "Content cannot be empty")
	}
	creatorID, ok := p.Int("creator_id")
	if !ok {
		return badRequest(c, "Invalid creator_id. It must be an integer.")
	}
	roomID, ok := p.OptionalInt("room_id")
	if !ok {
		return badRequest(c, "Invalid room_id. It must be an integer if provided.")
	}

	post, err := s.postService.CreatePost(c.UserContext(), service.CreatePostInput{
		Content:   content,
		CreatorID: toID(creatorID),
		RoomID:    toOptionalID(roomID),
	})
	if err != nil {
		return models.Respond(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":    "Post created successfully",
		"post_id":    post.ID,
		"content":    post.Content,
		"creator_id": post.CreatorID,
		"room_id":    post.RoomID,
	})
}

// CreateComment handles POST /api/comments
// @Summary Comment on a post
// @Tags comments
// @Accept json
// @Produce json
// @Param request body object{post_id=int,creator_id=int,content=string} true "Comment"
// @Success 201 {object} object{message=string,comment_id=int}
// @Failure 400 {object} object{message=string}
// @Failure 404 {object} object{message=string}
// @Router /comments [post]
func (s *Server) CreateComment(c *fiber.Ctx) error {
	p, err := readPayload(c, "No data provided")
	if err != nil {
		return nil
	}
	if err := requireFields(c, p, "post_id", "creator_id", "content"); err != nil {
		return nil
	}

	postID, okPost := p.Int("post_id")
	creatorID, okCreator := p.Int("creator_id")
	content, okContent := p.String("content")
	if !okPost || !okCreator || !okContent {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid field types").With("expected", fiber.Map{
				"post_id":    "integer",
				"creator_id": "integer",
				"content":    "string",
			}))
	}

	comment, err := s.commentService.CreateComment(c.UserContext(), service.CreateCommentInput{
		PostID:    toID(postID),
		CreatorID: toID(creatorID),
		Content:   content,
	})
	if err != nil {
		return models.Respond(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":    "Comment created successfully",
		"comment_id": comment.ID,
	})
}

// UploadMedia handles POST /api/media
// @Summary Register a media file
// @Description Records a media file path, optionally attached to a post
// @Tags media
// @Accept json
// @Produce json
// @Param request body object{type=string,file_path=string,post_id=int} true "Media"
// @Success 201 {object} object{message=string,media_id=int,type=string,file_path=string,post_id=int}
// @Failure 400 {object} object{message=string}
// @Failure 404 {object} object{message=string}
// @Router /media [post]
func (s *Server) UploadMedia(c *fiber.Ctx) error {
	p, err := readPayload(c, "No data provided")
	if err != nil {
		return nil
	}
	if err := requireFields(c, p, "type", "file_path"); err != nil {
		return nil
	}

	mediaType, ok := p.String("type")
	if !ok {
		return badRequest(c, "Media type cannot be empty")
	}
	filePath, ok := p.String("file_path")
	if !ok {
		return badRequest(c, "File path cannot be empty")
	}
	postID, ok := p.OptionalInt("post_id")
	if !ok {
		return badRequest(c, "Invalid post_id type. Must be an integer.")
	}

	media, err := s.mediaService.CreateMedia(c.UserContext(), service.CreateMediaInput{
		Type:     mediaType,
		FilePath: filePath,
		PostID:   toOptionalID(postID),
	})
	if err != nil {
		return models.Respond(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":   "Media uploaded successfully",
		"media_id":  media.ID,
		"type":      media.Type,
		"file_path": media.FilePath,
		"post_id":   media.PostID,
	})
}
