package server

import (
	"log/slog"

	"studysmarter/internal/middleware"
	"studysmarter/internal/models"
	"studysmarter/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Signup handles POST /api/signup
// @Summary User signup
// @Description Register a new user account and return an access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body object{username=string,email=string,password=string} true "Signup request"
// @Success 201 {object} object{message=string,id=int,access_token=string}
// @Failure 400 {object} object{message=string}
// @Failure 409 {object} object{message=string}
// @Failure 500 {object} object{message=string,error=string}
// @Router /signup [post]
func (s *Server) Signup(c *fiber.Ctx) error {
	p, err := readPayload(c, "Missing required fields")
	if err != nil {
		return nil
	}
	if err := requireFields(c, p, "username", "email", "password"); err != nil {
		return nil
	}

	username, okU := p.String("username")
	email, okE := p.String("email")
	password, okP := p.String("password")
	if !okU || !okE || !okP {
		return badRequest(c, "Username, email and password must be strings")
	}

	user, err := s.authService.Register(c.UserContext(), service.RegisterInput{
		Username: username,
		Email:    email,
		Password: password,
	})
	if err != nil {
		return models.Respond(c, err)
	}

	access, err := s.authService.IssueToken(user)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError("Registration failed", err))
	}

	middleware.Logger.InfoContext(c.UserContext(), "user registered", slog.Uint64("user_id", uint64(user.ID)))

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":      "User registered successfully",
		"id":           user.ID,
		"access_token": access,
	})
}

// Login handles POST /api/login
// @Summary User login
// @Description Authenticate by email and password. "email" is accepted as an alias of "login".
// @Tags auth
// @Accept json
// @Produce json
// @Param request body object{login=string,password=string} true "Login request"
// @Success 200 {object} service.AuthResult
// @Failure 400 {object} object{message=string}
// @Failure 401 {object} object{message=string}
// @Router /login [post]
func (s *Server) Login(c *fiber.Ctx) error {
	p, err := readPayload(c, "Missing credentials")
	if err != nil {
		return nil
	}

	loginField := "login"
	if !p.Has(loginField) && p.Has("email") {
		loginField = "email"
	}
	if !p.Has(loginField) || !p.Has("password") {
		return badRequest(c, "Missing credentials")
	}

	login, okL := p.String(loginField)
	password, okP := p.String("password")
	if !okL || !okP {
		return badRequest(c, "Login and password cannot be empty")
	}

	res, err := s.authService.Authenticate(c.UserContext(), service.LoginInput{
		Login:    login,
		Password: password,
	})
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(res)
}

// Logout handles POST /api/logout
// @Summary User logout
// @Description Revoke the presented access token
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{message=string}
// @Failure 400 {object} object{message=string}
// @Failure 401 {object} object{message=string}
// @Router /logout [post]
func (s *Server) Logout(c *fiber.Ctx) error {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		return badRequest(c, "Invalid token data")
	}

	if err := s.authService.Logout(c.UserContext(), claims.ID, claims.ExpiresAt()); err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(fiber.Map{"message": "Successfully logged out"})
}
