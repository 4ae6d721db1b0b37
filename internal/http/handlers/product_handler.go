package handlers

import (
	"github.com/gofiber/fiber/v2"

	"autopecas/internal/log"
	"autopecas/internal/services"
	"autopecas/internal/validate"
)

type ProductHandler struct {
	Catalog *services.CatalogService
}

// GET /api/v1/products/:id
func (h *ProductHandler) Detail(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "product"})
		return services.ErrProductNotFound
	}
	p, err := h.Catalog.Get(id)
	if err != nil {
		return err
	}
	return c.JSON(p)
}
