package handler

import (
	"github.com/gofiber/fiber/v2"

	"arsip/internal/http/middleware"
	"arsip/internal/repository"
	"arsip/internal/service"
)

type employeeRequest struct {
	NIP        string `json:"nip" validate:"max=30"`
	Name       string `json:"name" validate:"max=200"`
	Position   string `json:"position" validate:"max=200"`
	Department string `json:"department" validate:"max=200"`
	IsActive   *bool  `json:"is_active"`
}

func (r employeeRequest) input() service.EmployeeInput {
	return service.EmployeeInput{
		NIP:        r.NIP,
		Name:       r.Name,
		Position:   r.Position,
		Department: r.Department,
		IsActive:   r.IsActive,
	}
}

// ListEmployees lists active employees; include_inactive=true lists all.
//
// @Summary List employees
// @Tags Employees
// @Security BearerAuth
// @Produce json
// @Param search query string false "Name or NIP"
// @Param department query string false "Department"
// @Param position query string false "Position"
// @Param include_inactive query bool false "Include deactivated employees"
// @Success 200 {object} successPayload
// @Router /api/employees [get]
func ListEmployees(svc service.EmployeeService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := svc.List(c.UserContext(), repository.EmployeeFilter{
			Search:          c.Query("search"),
			Department:      c.Query("department"),
			Position:        c.Query("position"),
			IncludeInactive: c.QueryBool("include_inactive", false),
		})
		if err != nil {
			return respondError(c, err)
		}
		return respond(c, fiber.StatusOK, "", items)
	}
}

// CreateEmployee registers a traveller.
//
// @Summary Create employee
// @Tags Employees
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param employee body employeeRequest true "Employee"
// @Success 201 {object} successPayload
// @Failure 400 {object} errorPayload
// @Router /api/employees [post]
func CreateEmployee(svc service.EmployeeService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req employeeRequest
		if err := bind(c, &req); err != nil {
			return respondError(c, err)
		}
		e, err := svc.Create(c.UserContext(), middleware.CurrentUser(c), req.input())
		if err != nil {
			return respondError(c, err)
		}
		return respond(c, fiber.StatusCreated, "Pegawai berhasil ditambahkan", e)
	}
}

func GetEmployee(svc service.EmployeeService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := numericID(c)
		if !ok {
			return invalidID(c)
		}
		e, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return respondError(c, err)
		}
		return respond(c, fiber.StatusOK, "", e)
	}
}

func UpdateEmployee(svc service.EmployeeService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := numericID(c)
		if !ok {
			return invalidID(c)
		}
		var req employeeRequest
		if err := bind(c, &req); err != nil {
			return respondError(c, err)
		}
		e, err := svc.Update(c.UserContext(), middleware.CurrentUser(c), id, req.input())
		if err != nil {
			return respondError(c, err)
		}
		return respond(c, fiber.StatusOK, "Pegawai berhasil diperbarui", e)
	}
}

// DeactivateEmployee hides the employee from new SPDs. Rows are never
// deleted so existing travel orders keep their traveller.
func DeactivateEmployee(svc service.EmployeeService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := numericID(c)
		if !ok {
			return invalidID(c)
		}
		if err := svc.Deactivate(c.UserContext(), middleware.CurrentUser(c), id); err != nil {
			return respondError(c, err)
		}
		return respond(c, fiber.StatusOK, "Pegawai berhasil dinonaktifkan", nil)
	}
}

func EmployeeStats(svc service.EmployeeService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		st, err := svc.Stats(c.UserContext())
		if err != nil {
			return respondError(c, err)
		}
		return respond(c, fiber.StatusOK, "", st)
	}
}
