package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"studysmarter/internal/revocation"
	"studysmarter/internal/token"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-12345678901234567890123456789012"

type failingStore struct{}

func (failingStore) Revoke(context.Context, string, time.Time) error { return errors.New("down") }
func (failingStore) IsRevoked(context.Context, string) (bool, error) { return false, errors.New("down") }
func (failingStore) Backend() string                                 { return "failing" }

func newAuthApp(tokens *token.Manager, store revocation.Store) *fiber.App {
	app := fiber.New()
	app.Get("/test", AuthRequired(tokens, store), func(c *fiber.Ctx) error {
		claims, ok := ClaimsFrom(c)
		if !ok {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		return c.JSON(fiber.Map{"userID": c.Locals("userID"), "jti": claims.ID})
	})
	return app
}

func TestAuthRequired(t *testing.T) {
	tokens := token.NewManager(testSecret, time.Hour)
	store := revocation.NewMemoryStore()
	app := newAuthApp(tokens, store)

	valid, err := tokens.Issue(123)
	require.NoError(t, err)

	revokedTok, err := tokens.Issue(124)
	require.NoError(t, err)
	revokedClaims, err := tokens.Parse(revokedTok)
	require.NoError(t, err)
	require.NoError(t, store.Revoke(context.Background(), revokedClaims.ID, revokedClaims.ExpiresAt()))

	noJTI, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "9",
		Issuer:    token.Issuer,
		Audience:  jwt.ClaimStrings{token.Audience},
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	tests := []struct {
		name           string
		authHeader     string
		expectedStatus int
		expectedUserID uint
	}{
		{"Happy Path", "Bearer " + valid, http.StatusOK, 123},
		{"Lowercase scheme", "bearer " + valid, http.StatusOK, 123},
		{"Missing Header", "", http.StatusUnauthorized, 0},
		{"Invalid Format", "Basic dXNlcjpwYXNz", http.StatusUnauthorized, 0},
		{"Empty Bearer", "Bearer ", http.StatusUnauthorized, 0},
		{"Malformed Token", "Bearer malformed.token.here", http.StatusUnauthorized, 0},
		{"Revoked Token", "Bearer " + revokedTok, http.StatusUnauthorized, 0},
		{"Token without jti passes", "Bearer " + noJTI, http.StatusOK, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			var body map[string]any
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			if tt.expectedStatus == http.StatusOK {
				assert.Equal(t, float64(tt.expectedUserID), body["userID"])
			} else {
				assert.Equal(t, "UNAUTHORIZED", body["code"])
			}
		})
	}
}

func TestAuthRequired_RevocationStoreFailureFailsClosed(t *testing.T) {
	tokens := token.NewManager(testSecret, time.Hour)
	app := newAuthApp(tokens, failingStore{})

	raw, err := tokens.Issue(1)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestBearerToken(t *testing.T) {
	tok, ok := bearerToken("Bearer  abc ")
	assert.True(t, ok)
	assert.Equal(t, "abc", tok)

	_, ok = bearerToken("Token abc")
	assert.False(t, ok)
	_, ok = bearerToken("Bearer")
	assert.False(t, ok)
}
