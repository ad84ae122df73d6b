package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"arsip/internal/http/middleware"
	"arsip/internal/repository"
	"arsip/internal/service"
)

type loginRequest struct {
	Username string `json:"username" validate:"required,max=150"`
	Password string `json:"password" validate:"required"`
}

type createUserRequest struct {
	Username    string `json:"username" validate:"required,min=3,max=150"`
	Password    string `json:"password" validate:"required,min=8"`
	FullName    string `json:"full_name" validate:"max=150"`
	IsStaff     bool   `json:"is_staff"`
	IsSuperuser bool   `json:"is_superuser"`
}

type updateUserRequest struct {
	FullName    *string `json:"full_name" validate:"omitempty,max=150"`
	IsStaff     *bool   `json:"is_staff"`
	IsSuperuser *bool   `json:"is_superuser"`
}

type resetPasswordRequest struct {
	Password string `json:"password" validate:"required"`
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required"`
}

// Login exchanges credentials for a bearer token. Repeated failures from
// the same client are throttled.
//
// @Summary Log in
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body loginRequest true "Username and password"
// @Success 200 {object} successPayload
// @Failure 400 {object} errorPayload
// @Failure 401 {object} errorPayload
// @Failure 429 {object} errorPayload
// @Router /api/auth/login [post]
func Login(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req loginRequest
		if err := bind(c, &req); err != nil {
			return respondError(c, err)
		}
		sess, err := svc.Login(c.UserContext(), req.Username, req.Password)
		if err != nil {
			return respondError(c, err)
		}
		return respond(c, fiber.StatusOK, "Login berhasil", sess)
	}
}

// Logout revokes the presented token.
//
// @Summary Log out
// @Tags Auth
// @Security BearerAuth
// @Success 200 {object} successPayload
// @Router /api/auth/logout [post]
func Logout(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.Logout(c.UserContext(), middleware.BearerToken(c)); err != nil {
			return respondError(c, err)
		}
		return respond(c, fiber.StatusOK, "Logout berhasil", nil)
	}
}

// Me returns the authenticated account.
func Me() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return respond(c, fiber.StatusOK, "", middleware.CurrentUser(c))
	}
}

// CreateUser registers another account. Superuser only.
//
// @Summary Create user
// @Tags Auth
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param user body createUserRequest true "New account"
// @Success 201 {object} successPayload
// @Failure 400 {object} errorPayload
// @Failure 403 {object} errorPayload
// @Router /api/users [post]
func CreateUser(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req createUserRequest
		if err := bind(c, &req); err != nil {
			return respondError(c, err)
		}
		u, err := svc.CreateUser(c.UserContext(), middleware.CurrentUser(c), service.CreateUserInput{
			Username:    req.Username,
			Password:    req.Password,
			FullName:    req.FullName,
			IsStaff:     req.IsStaff,
			IsSuperuser: req.IsSuperuser,
		})
		if err != nil {
			return respondError(c, err)
		}
		return respond(c, fiber.StatusCreated, "User berhasil dibuat", u)
	}
}


func userID(c *fiber.Ctx) (string, bool) {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}

// ListUsers lists active accounts; include_inactive=true lists all.
//
// @Summary List users
// @Tags Users
// @Security BearerAuth
// @Produce json
// @Param search query string false "Username or full name"
// @Param is_staff query bool false "Only staff (true) or only readers (false)"
// @Param include_inactive query bool false "Include deactivated accounts"
// @Success 200 {object} successPayload
// @Failure 403 {object} errorPayload
// @Router /api/users [get]
func ListUsers(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		f := repository.UserFilter{
			Search:          c.Query("search"),
			IncludeInactive: c.QueryBool("include_inactive", false),
		}
		if v := c.Query("is_staff"); v != "" {
			staff := c.QueryBool("is_staff", false)
			f.IsStaff = &staff
		}
		users, err := svc.ListUsers(c.UserContext(), middleware.CurrentUser(c), f)
		if err != nil {
			return respondError(c, err)
		}
		return respond(c, fiber.StatusOK, "", users)
	}
}

func GetUser(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := userID(c)
		if !ok {
			return invalidID(c)
		}
		u, err := svc.GetUser(c.UserContext(), middleware.CurrentUser(c), id)
		if err != nil {
			return respondError(c, err)
		}
		return respond(c, fiber.StatusOK, "", u)
	}
}

// UpdateUser changes profile and role. Omitted fields keep their value;
// the username and password are not changed here.
//
// @Summary Update user
// @Tags Users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param user body updateUserRequest true "Fields to change"
// @Success 200 {object} successPayload
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /api/users/{id} [patch]
func UpdateUser(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := userID(c)
		if !ok {
			return invalidID(c)
		}
		var req updateUserRequest
		if err := bind(c, &req); err != nil {
			return respondError(c, err)
		}
		u, err := svc.UpdateUser(c.UserContext(), middleware.CurrentUser(c), id, service.UpdateUserInput{
			FullName:    req.FullName,
			IsStaff:     req.IsStaff,
			IsSuperuser: req.IsSuperuser,
		})
		if err != nil {
			return respondError(c, err)
		}
		return respond(c, fiber.StatusOK, "User berhasil diperbarui", u)
	}
}

// SetUserActive returns a handler that activates or deactivates an account.
func SetUserActive(svc service.AuthService, active bool) fiber.Handler {
	msg := "User berhasil dinonaktifkan"
	if active {
		msg = "User berhasil diaktifkan"
	}
	return func(c *fiber.Ctx) error {
		id, ok := userID(c)
		if !ok {
			return invalidID(c)
		}
		u, err := svc.SetUserActive(c.UserContext(), middleware.CurrentUser(c), id, active)
		if err != nil {
			return respondError(c, err)
		}
		return respond(c, fiber.StatusOK, msg, u)
	}
}

// ResetPassword sets a new password for another account.
//
// @Summary Reset user password
// @Tags Users
// @Security BearerAuth
// @Accept json
// @Param id path string true "User ID"
// @Param body body resetPasswordRequest true "New password"
// @Success 200 {object} successPayload
// @Failure 400 {object} errorPayload
// @Router /api/users/{id}/password [post]
func ResetPassword(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := userID(c)
		if !ok {
			return invalidID(c)
		}
		var req resetPasswordRequest
		if err := bind(c, &req); err != nil {
			return respondError(c, err)
		}
		if err := svc.ResetPassword(c.UserContext(), middleware.CurrentUser(c), id, req.Password); err != nil {
			return respondError(c, err)
		}
		return respond(c, fiber.StatusOK, "Password berhasil direset", nil)
	}
}

// ChangePassword replaces the caller's own password.
//
// @Summary Change own password
// @Tags Auth
// @Security BearerAuth
// @Accept json
// @Param body body changePasswordRequest true "Old and new password"
// @Success 200 {object} successPayload
// @Failure 400 {object} errorPayload
// @Router /api/auth/password [post]
func ChangePassword(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req changePasswordRequest
		if err := bind(c, &req); err != nil {
			return respondError(c, err)
		}
		if err := svc.ChangePassword(c.UserContext(), middleware.CurrentUser(c), req.OldPassword, req.NewPassword); err != nil {
			return respondError(c, err)
		}
		return respond(c, fiber.StatusOK, "Password berhasil diubah", nil)
	}
}
