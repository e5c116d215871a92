package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"studysmarter/internal/middleware"
	"studysmarter/internal/models"
	"studysmarter/internal/observability"
	"studysmarter/internal/repository"
	"studysmarter/internal/revocation"
	"studysmarter/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrUserExists is returned by Register when the email is already taken.
	ErrUserExists = models.NewConflictError("User already registered")
	// ErrInvalidCredentials is returned by Authenticate for any login failure.
	ErrInvalidCredentials = models.NewUnauthorizedError("Invalid credentials")
)

// TokenIssuer signs access tokens for a user ID.
type TokenIssuer interface {
	Issue(userID uint) (string, error)
}

type AuthService struct {
	users  repository.UserRepository
	tx     repository.Transactor
	tokens TokenIssuer
	store  revocation.Store
	cost   int
}

type RegisterInput struct {
	Username string `json:"username" validate:"required,max=80"`
	Email    string `json:"email" validate:"required,max=120"`
	Password string `json:"password" validate:"required"`
}

type LoginInput struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResult is the body returned on successful login.
type AuthResult struct {
	AccessToken string             `json:"access_token"`
	User        models.UserSummary `json:"user"`
}

var registerMessages = validation.Messages{
	"username.required": "Empty values are not allowed",
	"email.required":    "Empty values are not allowed",
	"password.required": "Empty values are not allowed",
	"username.max":      "Username too long (max 80 characters)",
	"email.max":         "Email too long (max 120 characters)",
}

var loginMessages = validation.Messages{
	"login":    "Login and password cannot be empty",
	"password": "Login and password cannot be empty",
}

func NewAuthService(
	users repository.UserRepository,
	tx repository.Transactor,
	tokens TokenIssuer,
	store revocation.Store,
) *AuthService {
	return &AuthService{
		users:  users,
		tx:     tx,
		tokens: tokens,
		store:  store,
		cost:   bcrypt.DefaultCost,
	}
}

// Register stores a new user with a bcrypt-hashed password.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (user *models.User, err error) {
	ctx, end := observability.StartSpan(ctx, "AuthService.Register")
	defer func() { end(err) }()

	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	in.Password = strings.TrimSpace(in.Password)
	if err := validation.Struct(in, registerMessages); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, models.NewInternalError("Registration failed", err)
	}

	user = &models.User{
		Username: in.Username,
		Email:    in.Email,
		Password: string(hash),
	}

	err = s.tx.Transaction(ctx, func(ctx context.Context) error {
		existing, err := s.users.GetByEmail(ctx, in.Email)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrUserExists
		}
		return s.users.Create(ctx, user)
	})
	switch {
	case err == nil:
		return user, nil
	case errors.Is(err, ErrUserExists), errors.Is(err, repository.ErrDuplicate):
		return nil, ErrUserExists
	default:
		return nil, models.NewInternalError("Registration failed", err)
	}
}

// Authenticate verifies the credentials and issues an access token. Unknown
// users and wrong passwords are indistinguishable to the caller.
func (s *AuthService) Authenticate(ctx context.Context, in LoginInput) (res *AuthResult, err error) {
	ctx, end := observability.StartSpan(ctx, "AuthService.Authenticate")
	defer func() { end(err) }()

	in.Login = strings.TrimSpace(in.Login)
	in.Password = strings.TrimSpace(in.Password)
	if err := validation.Struct(in, loginMessages); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, in.Login)
	if err != nil {
		return nil, models.NewInternalError("Login failed", err)
	}
	if user == nil {
		_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(in.Password))
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)) != nil {
		return nil, ErrInvalidCredentials
	}

	access, err := s.IssueToken(user)
	if err != nil {
		return nil, models.NewInternalError("Login failed", err)
	}
	return &AuthResult{AccessToken: access, User: user.Summary()}, nil
}

// IssueToken signs an access token for user.
func (s *AuthService) IssueToken(user *models.User) (string, error) {
	return s.tokens.Issue(user.ID)
}

// Logout revokes the token identified by jti until it would have expired.
func (s *AuthService) Logout(ctx context.Context, jti string, expiresAt time.Time) error {
	if jti == "" {
		return models.NewValidationError("Invalid token data")
	}
	if err := s.store.Revoke(ctx, jti, expiresAt); err != nil {
		return models.NewInternalError("Logout failed", err)
	}
	middleware.TokensRevoked.WithLabelValues(s.store.Backend()).Inc()
	return nil
}

var (
	dummyOnce sync.Once
	dummy     []byte
)

// dummyHash is compared against when the user does not exist so both failure
// paths spend the same bcrypt time.
func dummyHash() []byte {
	dummyOnce.Do(func() {
		dummy, _ = bcrypt.GenerateFromPassword([]byte("studysmarter-dummy-password"), bcrypt.DefaultCost)
	})
	return dummy
}
