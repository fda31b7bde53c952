package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/linkdeck/linkdeck/internal/http/util"
)

// UserIDKey is the fiber locals key holding the authenticated user id.
const UserIDKey = "user_id"

// Auth validates the Authorization bearer token and stores the user id in
// the request locals. Token minting lives with the external auth system;
// this service only shares the signing secret.
func Auth(signer *util.TokenSigner) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing bearer token",
			})
		}

		userID, err := signer.Validate(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid or expired token",
			})
		}

		c.Locals(UserIDKey, userID)
		return c.Next()
	}
}

// UserID returns the authenticated user id set by Auth, or "" when absent.
func UserID(c *fiber.Ctx) string {
	if v, ok := c.Locals(UserIDKey).(string); ok {
		return v
	}
	return ""
}
