package middleware

import (
	"context"
	"log/slog"
	"strings"

	"studysmarter/internal/models"
	"studysmarter/internal/revocation"
	"studysmarter/internal/token"

	"github.com/gofiber/fiber/v2"
)

const claimsLocal = "tokenClaims"

// TokenParser verifies a raw bearer token.
type TokenParser interface {
	Parse(raw string) (*token.Claims, error)
}

// AuthRequired returns middleware that accepts only requests carrying a
// valid, unrevoked bearer token. It stores the user ID in Locals("userID")
// and the parsed claims for ClaimsFrom.
func AuthRequired(tokens TokenParser, store revocation.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authorization required"))
		}

		claims, err := tokens.Parse(raw)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid or expired token"))
		}

		userID, err := claims.UserID()
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid user ID in token"))
		}

		if claims.ID != "" {
			revoked, err := store.IsRevoked(c.UserContext(), claims.ID)
			if err != nil {
				Logger.ErrorContext(c.UserContext(), "revocation check failed",
					slog.String("backend", store.Backend()), slog.String("error", err.Error()))
				return models.RespondWithError(c, fiber.StatusInternalServerError,
					models.NewInternalError("Could not verify token", err))
			}
			if revoked {
				return models.RespondWithError(c, fiber.StatusUnauthorized,
					models.NewUnauthorizedError("Token has been revoked"))
			}
		}

		c.Locals("userID", userID)
		c.Locals(claimsLocal, claims)
		c.SetUserContext(context.WithValue(c.UserContext(), UserIDKey, userID))

		return c.Next()
	}
}

// ClaimsFrom returns the claims stored by AuthRequired.
func ClaimsFrom(c *fiber.Ctx) (*token.Claims, bool) {
	claims, ok := c.Locals(claimsLocal).(*token.Claims)
	return claims, ok
}

func bearerToken(header string) (string, bool) {
	scheme, raw, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	raw = strings.TrimSpace(raw)
	return raw, raw != ""
}
