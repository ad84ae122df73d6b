package middleware

import "github.com/gofiber/fiber/v2"

// SecurityHeaders sets the browser hardening headers on every response.
func SecurityHeaders() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderXFrameOptions, "DENY")
		c.Set(fiber.HeaderXContentTypeOptions, "nosniff")
		c.Set(fiber.HeaderXXSSProtection, "1; mode=block")
		c.Set(fiber.HeaderReferrerPolicy, "strict-origin-when-cross-origin")
		return c.Next()
	}
}
