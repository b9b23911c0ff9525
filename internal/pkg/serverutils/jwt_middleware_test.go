package serverutils

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

func signTestToken(t *testing.T, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "user-123",
		"type":    "access",
		"exp":     time.Now().Add(time.Hour).Unix(),
		"iat":     time.Now().Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	assert.NoError(t, err)
	return signed
}

func newGuardedApp(secret string) *fiber.App {
	auth := NewAuthMiddleware(secret)
	app := fiber.New()
	app.Get("/guarded", auth.Require, func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{"user_id": UserIdFromCtx(ctx)})
	})
	app.Get("/open", auth.Optional, func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{"user_id": UserIdFromCtx(ctx)})
	})
	return app
}

// A token signed with the configured secret must be accepted by the
// middleware built from that same secret, whatever the environment holds.
func TestAuthMiddleware_AcceptsTokenSignedWithConfiguredSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	secret := "dev_jwt_secret_change_me"
	app := newGuardedApp(secret)

	req := httptest.NewRequest("GET", "/guarded", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, secret))

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAuthMiddleware_RejectsWrongSecret(t *testing.T) {
	app := newGuardedApp("service-secret")

	req := httptest.NewRequest("GET", "/guarded", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, "other-secret"))

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_RejectsMissingToken(t *testing.T) {
	app := newGuardedApp("service-secret")

	resp, err := app.Test(httptest.NewRequest("GET", "/guarded", nil))
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_OptionalAllowsAnonymous(t *testing.T) {
	app := newGuardedApp("service-secret")

	resp, err := app.Test(httptest.NewRequest("GET", "/open", nil))
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
