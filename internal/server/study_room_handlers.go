package server

import (
	"studysmarter/internal/models"
	"studysmarter/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateStudyRoom handles POST /api/study_rooms
// @Summary Create a study room
// @Tags study_rooms
// @Accept json
// @Produce json
// @Param request body object{name=string,capacity=int,creator_id=int,description=string} true "Study room"
// @Success 201 {object} object{message=string,room_id=int}
// @Failure 400 {object} object{message=string}
// @Failure 404 {object} object{message=string}
// @Router /study_rooms [post]
func (s *Server) CreateStudyRoom(c *fiber.Ctx) error {
	p, err := readPayload(c, "Missing required fields")
	if err != nil {
		return nil
	}
	if err := requireFields(c, p, "name", "capacity", "creator_id"); err != nil {
		return nil
	}

	name, ok := p.String("name")
	if !ok {
		return badRequest(c, "Study room name cannot be empty")
	}
	capacity, ok := p.Int("capacity")
	if !ok {
		return badRequest(c, "Capacity must be an integer")
	}
	creatorID, ok := p.Int("creator_id")
	if !ok {
		return badRequest(c, "Creator ID must be an integer")
	}
	description, ok := p.OptionalString("description")
	if !ok {
		return badRequest(c, "Description must be a string")
	}

	room, err := s.studyRoomService.CreateStudyRoom(c.UserContext(), service.CreateStudyRoomInput{
		Name:        name,
		Description: description,
		Capacity:    int(capacity),
		CreatorID:   toID(creatorID),
	})
	if err != nil {
		return models.Respond(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Study room created",
		"room_id": room.ID,
	})
}

// GetStudyRooms handles GET /api/study_rooms
// @Summary List study rooms
// @Tags study_rooms
// @Produce json
// @Success 200 {array} models.StudyRoomSummary
// @Router /study_rooms [get]
func (s *Server) GetStudyRooms(c *fiber.Ctx) error {
	rooms, err := s.studyRoomService.ListStudyRooms(c.UserContext())
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(rooms)
}

// GetStudyRoom handles GET /api/study_rooms/:id
// @Summary Get a study room
// @Tags study_rooms
// @Produce json
// @Param id path int true "Room ID"
// @Success 200 {object} object{room_id=int,name=string,description=string,capacity=int,creator_id=int}
// @Failure 404 {object} object{message=string}
// @Router /study_rooms/{id} [get]
func (s *Server) GetStudyRoom(c *fiber.Ctx) error {
	id, err := parseID(c, "id", "Room not found")
	if err != nil {
		return nil
	}

	room, err := s.studyRoomService.GetStudyRoom(c.UserContext(), id)
	if err != nil {
		return models.Respond(c, err)
	}

	return c.JSON(fiber.Map{
		"room_id":     room.ID,
		"name":        room.Name,
		"description": room.Description,
		"capacity":    room.Capacity,
		"creator_id":  room.CreatorID,
	})
}
