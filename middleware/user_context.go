package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// UserContextMiddleware extracts the authenticated user id set by the
// gateway. The id is optional here; handlers that require it check the
// request body or query themselves.
func UserContextMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := strings.TrimSpace(c.Get("X-User-ID"))
		if userID != "" {
			c.Locals("user_id", userID)
		}
		return c.Next()
	}
}
