package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"auditapi/internal/auth"
)

const (
	// AuthUserIDLocalKey is the context locals key holding the authenticated
	// user id (the token subject).
	AuthUserIDLocalKey = "auth_user_id"
	// AuthNameLocalKey is the context locals key holding the authenticated
	// user's display name.
	AuthNameLocalKey = "auth_user_name"
)

// AuthGuard validates the Bearer token on protected routes and stores the
// authenticated identity in context locals. Requests without a valid token
// get a 401 with the standard error envelope shape.
func AuthGuard(tokens *auth.TokenManager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			return unauthorized(c, "missing bearer token")
		}

		claims, err := tokens.Parse(raw)
		if err != nil {
			return unauthorized(c, "invalid or expired token")
		}

		c.Locals(AuthUserIDLocalKey, claims.Subject)
		c.Locals(AuthNameLocalKey, claims.Name)

		return c.Next()
	}
}

func unauthorized(c *fiber.Ctx, message string) error {
	rid, _ := c.Locals(RequestIDLocalKey).(string)
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"request_id": rid,
		"error": fiber.Map{
			"code":    "UNAUTHORIZED",
			"message": message,
		},
	})
}
