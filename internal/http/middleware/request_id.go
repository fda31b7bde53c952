package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader carries the request id in and out of the service.
	RequestIDHeader = "X-Request-ID"
	// RequestIDLocal is the fiber locals key holding the request id.
	RequestIDLocal = "request_id"
)

// RequestID assigns each request a unique id, honouring one supplied by an
// upstream proxy.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid := c.Get(RequestIDHeader)
		if rid == "" {
			rid = uuid.New().String()
		}
		c.Set(RequestIDHeader, rid)
		c.Locals(RequestIDLocal, rid)
		return c.Next()
	}
}

// RequestIDFrom returns the request id set by RequestID, or "" when absent.
func RequestIDFrom(c *fiber.Ctx) string {
	if v, ok := c.Locals(RequestIDLocal).(string); ok {
		return v
	}
	return ""
}
