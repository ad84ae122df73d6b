package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"arsip/internal/requestctx"
)

// ClientInfo copies the request ID, client IP and user agent into the
// request's user context so services can stamp audit entries. The first
// X-Forwarded-For entry wins over the peer address.
func ClientInfo() fiber.Handler {
	return func(c *fiber.Ctx) error {
		info := requestctx.Client{
			RequestID: GetRequestID(c),
			IP:        clientIP(c),
			UserAgent: c.Get(fiber.HeaderUserAgent),
		}
		c.SetUserContext(requestctx.WithClient(c.UserContext(), info))
		return c.Next()
	}
}

func clientIP(c *fiber.Ctx) string {
	if xff := c.Get(fiber.HeaderXForwardedFor); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	return c.IP()
}
