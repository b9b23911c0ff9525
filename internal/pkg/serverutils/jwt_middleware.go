package serverutils

import (
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// AuthMiddleware validates bearer tokens against the same secret the
// service signs with. It is built once at startup from config so signing
// and validation can never disagree.
type AuthMiddleware struct {
	secret []byte
}

func NewAuthMiddleware(secret string) *AuthMiddleware {
	return &AuthMiddleware{secret: []byte(secret)}
}

// Require guards a route group; on success the authenticated user id is
// stored in ctx.Locals("user_id").
func (m *AuthMiddleware) Require(ctx *fiber.Ctx) error {
	authHeader := ctx.Get("Authorization")
	if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
		return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(401, "Missing token"))
	}

	claims, ok := m.parse(authHeader[7:])
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(401, "Invalid token"))
	}

	ctx.Locals("user_id", claims["user_id"])
	return ctx.Next()
}

// Optional attributes the request to a user when a valid token is present
// but never rejects. Used on routes that accept anonymous traffic.
func (m *AuthMiddleware) Optional(ctx *fiber.Ctx) error {
	authHeader := ctx.Get("Authorization")
	if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
		return ctx.Next()
	}

	if claims, ok := m.parse(authHeader[7:]); ok {
		ctx.Locals("user_id", claims["user_id"])
	}
	return ctx.Next()
}

func (m *AuthMiddleware) parse(tokenStr string) (jwt.MapClaims, bool) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, false
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	return claims, ok
}

// UserIdFromCtx returns the id set by the middleware, or "" when the route
// was reached without it (anonymous access).
func UserIdFromCtx(ctx *fiber.Ctx) string {
	if v, ok := ctx.Locals("user_id").(string); ok {
		return v
	}
	return ""
}
