package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	apperrors "autopecas/internal/errors"
	"autopecas/internal/log"
	"autopecas/internal/services"
	"autopecas/internal/validate"
)

type SearchHandler struct {
	Catalog *services.CatalogService
}

// GET /api/v1/products?q=&category=&sort=
func (h *SearchHandler) Search(c *fiber.Ctx) error {
	f := services.SearchFilter{Sort: services.SortNewest}

	if rawQ := c.Query("q"); strings.TrimSpace(rawQ) != "" {
		q, ok := validate.Q(rawQ)
		if !ok {
			log.Security(c, "validation.fail", map[string]any{"field": "q", "value": rawQ})
			return invalidField("q", "enter a valid keyword")
		}
		f.Query = q
	}

	cat, ok := validate.Category(c.Query("category"))
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "category"})
		return invalidField("category", "must be a known category")
	}
	f.Category = cat

	switch s := strings.TrimSpace(c.Query("sort")); s {
	case "", services.SortNewest:
	case services.SortPriceAsc, services.SortPriceDesc:
		f.Sort = s
	default:
		return invalidField("sort", "must be one of newest price_asc price_desc")
	}

	products := h.Catalog.Search(f)
	return c.JSON(fiber.Map{"products": products, "count": len(products)})
}

func invalidField(field, msg string) error {
	return apperrors.New(apperrors.CodeValidation, "validation failed").
		WithDetails(map[string]string{field: msg})
}
