package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	applog "autopecas/internal/log"
	"autopecas/internal/services"
	"autopecas/internal/validate"
)

type CartHandler struct {
	Catalog *services.CatalogService
}

type addToCartRequest struct {
	ProductID string `json:"productId" validate:"required,max=64"`
}

type quantityRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

func cartView(sh *services.Shopper) fiber.Map {
	return fiber.Map{
		"items":         sh.Cart.Items(),
		"total":         sh.Cart.Total(),
		"count":         sh.Cart.Count(),
		"checkoutState": sh.CheckoutState(),
	}
}

// GET /api/v1/cart
func (h *CartHandler) View(c *fiber.Ctx) error {
	return c.JSON(cartView(shopperOf(c)))
}

// POST /api/v1/cart
func (h *CartHandler) Add(c *fiber.Ctx) error {
	sh := shopperOf(c)
	var in addToCartRequest
	if err := validate.Decode(c.Body(), &in); err != nil {
		return err
	}
	p, err := h.Catalog.Get(in.ProductID)
	if err != nil {
		return err
	}
	notice, err := sh.Cart.AddItem(c.UserContext(), p)
	if err != nil {
		if errors.Is(err, services.ErrPurchaseForbidden) {
			applog.Security(c, "cart.add.denied", map[string]any{"product": p.ID})
		}
		return err
	}
	view := cartView(sh)
	view["notice"] = notice
	return c.JSON(view)
}

// PATCH /api/v1/cart/:id
func (h *CartHandler) Update(c *fiber.Ctx) error {
	sh := shopperOf(c)
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return invalidField("id", "is invalid")
	}
	var in quantityRequest
	if err := validate.Decode(c.Body(), &in); err != nil {
		return err
	}
	if err := sh.Cart.UpdateQuantity(c.UserContext(), id, *in.Quantity); err != nil {
		return err
	}
	return c.JSON(cartView(sh))
}

// DELETE /api/v1/cart/:id
func (h *CartHandler) Remove(c *fiber.Ctx) error {
	sh := shopperOf(c)
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return invalidField("id", "is invalid")
	}
	if err := sh.Cart.RemoveItem(c.UserContext(), id); err != nil {
		return err
	}
	return c.JSON(cartView(sh))
}

// DELETE /api/v1/cart
func (h *CartHandler) Clear(c *fiber.Ctx) error {
	sh := shopperOf(c)
	if err := sh.Cart.Clear(c.UserContext()); err != nil {
		return err
	}
	return c.JSON(cartView(sh))
}
