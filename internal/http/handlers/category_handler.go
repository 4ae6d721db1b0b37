package handlers

import (
	"github.com/gofiber/fiber/v2"

	"autopecas/internal/domain"
)

type CategoryHandler struct{}

// GET /api/v1/categories
func (h *CategoryHandler) List(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"categories": domain.Categories})
}
