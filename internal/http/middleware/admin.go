package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// AdminToken guards admin routes with "Authorization: Bearer <token>".
// An empty token disables the check.
func AdminToken(token string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token == "" {
			return c.Next()
		}

		got, ok := strings.CutPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(strings.TrimSpace(got)), []byte(token)) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"request_id": GetRequestID(c),
				"error": fiber.Map{
					"code":    "UNAUTHORIZED",
					"message": "admin token required",
				},
			})
		}
		return c.Next()
	}
}
