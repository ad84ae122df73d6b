package handler

import (
	"github.com/gofiber/fiber/v2"

	"arsip/internal/service"
)

// ListCategories returns the whole tree with document counts.
//
// @Summary List categories
// @Tags Categories
// @Security BearerAuth
// @Produce json
// @Success 200 {object} successPayload
// @Router /api/categories [get]
func ListCategories(svc service.CategoryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := svc.List(c.UserContext())
		if err != nil {
			return respondError(c, err)
		}
		return respond(c, fiber.StatusOK, "", items)
	}
}

func GetCategory(svc service.CategoryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := numericID(c)
		if !ok {
			return invalidID(c)
		}
		cat, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return respondError(c, err)
		}
		return respond(c, fiber.StatusOK, "", cat)
	}
}

// CategoryDocuments pages through a category; roots include their children.
func CategoryDocuments(svc service.CategoryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := numericID(c)
		if !ok {
			return invalidID(c)
		}
		res, err := svc.Documents(c.UserContext(), id, pageParams(c))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(res)
	}
}
