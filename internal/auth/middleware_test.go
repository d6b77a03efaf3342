package auth

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ClubAdmin/ClubAdmin/internal/access"
	"github.com/ClubAdmin/ClubAdmin/internal/apperr"
)

func TestBearer(t *testing.T) {
	tokens := NewTokenService(testSecret, "clubadmin", time.Hour)
	revoked := &memRevocations{m: map[string]time.Time{}}
	user := testUser()

	valid, err := tokens.Issue(user)
	require.NoError(t, err)

	logout, err := tokens.Issue(user)
	require.NoError(t, err)
	require.NoError(t, revoked.Revoke(logout.ID, logout.ExpiresAt))

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.SendStatus(apperr.HTTPStatus(apperr.KindOf(err)))
		},
	})
	app.Use(Bearer(tokens, revoked))
	app.Get("/api/me", func(c *fiber.Ctx) error {
		caller, ok := access.CallerFrom(c)
		if !ok {
			return c.SendStatus(fiber.StatusTeapot)
		}

		return c.SendString(caller.UserID.String())
	})

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"valid", "Bearer " + valid.Value, fiber.StatusOK},
		{"missing", "", fiber.StatusUnauthorized},
		{"wrong scheme", "Basic " + valid.Value, fiber.StatusUnauthorized},
		{"garbage", "Bearer abc", fiber.StatusUnauthorized},
		{"revoked", "Bearer " + logout.Value, fiber.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(fiber.MethodGet, "/api/me", nil)
			if tt.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tt.header)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}
