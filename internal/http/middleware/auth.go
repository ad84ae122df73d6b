package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"arsip/internal/model"
)

// UserLocalKey holds the authenticated *model.User in fiber locals.
const UserLocalKey = "user"

// Authenticator resolves a bearer token to a user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*model.User, error)
}

// BearerToken extracts the token from "Authorization: Bearer <token>".
func BearerToken(c *fiber.Ctx) string {
	scheme, token, ok := strings.Cut(c.Get(fiber.HeaderAuthorization), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// RequireAuth rejects requests without a valid token. Any error from the
// authenticator is reported as 401 so token problems are not leaked.
func RequireAuth(auth Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := BearerToken(c)
		if token == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Autentikasi diperlukan")
		}
		u, err := auth.Authenticate(c.UserContext(), token)
		if err != nil || u == nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Token tidak valid atau kedaluwarsa")
		}
		c.Locals(UserLocalKey, u)
		return c.Next()
	}
}

// StaffOrReadOnly lets every authenticated user read; writes need staff
// or superuser.
func StaffOrReadOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		switch c.Method() {
		case fiber.MethodGet, fiber.MethodHead, fiber.MethodOptions:
			return c.Next()
		}
		if !CurrentUser(c).CanWrite() {
			return fiber.NewError(fiber.StatusForbidden, "Anda tidak memiliki akses untuk operasi ini")
		}
		return c.Next()
	}
}

func RequireSuperuser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if u := CurrentUser(c); u == nil || !u.IsSuperuser {
			return fiber.NewError(fiber.StatusForbidden, "Hanya superuser yang dapat melakukan operasi ini")
		}
		return c.Next()
	}
}

// CurrentUser returns the authenticated user or nil.
func CurrentUser(c *fiber.Ctx) *model.User {
	u, _ := c.Locals(UserLocalKey).(*model.User)
	return u
}
