package handlers

import (
	"github.com/gofiber/fiber/v2"

	"autopecas/internal/log"
	"autopecas/internal/services"
	"autopecas/internal/validate"
)

type InventoryHandler struct {
	Inv *services.InventoryService
}

// GET /api/v1/availability?productId=
func (h *InventoryHandler) Check(c *fiber.Ctx) error {
	productID, ok := validate.ID(c.Query("productId"))
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "productId"})
		return invalidField("productId", "is required")
	}
	avail, err := h.Inv.CheckAvailability(productID)
	if err != nil {
		return err
	}
	return c.JSON(avail)
}
