package server

import (
	"errors"

	"studysmarter/internal/models"
	"studysmarter/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// readPayload decodes the JSON body. An absent body or an empty object is
// rejected with emptyMessage.
func readPayload(c *fiber.Ctx, emptyMessage string) (validation.Payload, error) {
	p, err := validation.ParsePayload(c.Body())
	if err != nil {
		_ = models.RespondWithError(c, fiber.StatusBadRequest, err)
		return nil, errResponseWritten
	}
	if p.Empty() {
		_ = models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError(emptyMessage))
		return nil, errResponseWritten
	}
	return p, nil
}

// requireFields writes the "Missing required fields" response when any of
// fields is absent.
func requireFields(c *fiber.Ctx, p validation.Payload, fields ...string) error {
	if err := p.RequireFields(fields...); err != nil {
		_ = models.RespondWithError(c, fiber.StatusBadRequest, err)
		return errResponseWritten
	}
	return nil
}

// badRequest writes a 400 validation error with message.
func badRequest(c *fiber.Ctx, message string) error {
	return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError(message))
}

// parseID extracts a route parameter as a positive uint. An ID that is not a
// positive integer cannot name a row, so it is answered like a missing one:
// a 404 with notFound, after which errResponseWritten is returned.
func parseID(c *fiber.Ctx, param, notFound string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusNotFound, models.NewNotFoundError(notFound))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// toID narrows a decoded integer to a row ID. Negative values become 0,
// which never matches a row, so they surface as not found.
func toID(v int64) uint {
	if v < 0 {
		return 0
	}
	return uint(v)
}

func toOptionalID(v *int64) *uint {
	if v == nil {
		return nil
	}
	id := toID(*v)
	return &id
}
