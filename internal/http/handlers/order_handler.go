package handlers

import (
	"github.com/gofiber/fiber/v2"

	"autopecas/internal/domain"
	applog "autopecas/internal/log"
	"autopecas/internal/services"
	"autopecas/internal/validate"
)

type OrderHandler struct {
	Checkout *services.CheckoutService
	Orders   *services.OrderService
	Payments *services.PaymentSimulator
}

type checkoutRequest struct {
	Method string `json:"method" validate:"required,oneof=mcx_express bank_transfer card"`
}

// GET /api/v1/payment-methods
func (h *OrderHandler) Methods(c *fiber.Ctx) error {
	type method struct {
		ID    domain.PaymentMethod `json:"id"`
		Label string               `json:"label"`
	}
	out := []method{}
	for _, m := range h.Payments.Methods() {
		out = append(out, method{ID: m, Label: m.Label()})
	}
	return c.JSON(fiber.Map{"methods": out})
}

// POST /api/v1/checkout
func (h *OrderHandler) Place(c *fiber.Ctx) error {
	sh := shopperOf(c)
	var in checkoutRequest
	if err := validate.Decode(c.Body(), &in); err != nil {
		applog.Security(c, "validation.fail", map[string]any{"field": "method"})
		return err
	}
	method, err := domain.ParsePaymentMethod(in.Method)
	if err != nil {
		return invalidField("method", err.Error())
	}

	res, err := h.Checkout.Checkout(c.UserContext(), sh, method)
	if err != nil {
		applog.Info(c, "order.place.fail", map[string]any{"sid": sh.SID, "error": err.Error()})
		return err
	}
	if res.State != services.CheckoutCompleted {
		applog.Info(c, "order.place.fail", map[string]any{"sid": sh.SID, "method": in.Method, "message": res.Message})
		return c.Status(fiber.StatusPaymentRequired).JSON(res)
	}
	applog.Audit(c, "order.place", map[string]any{
		"order_id": res.Order.ID,
		"total":    res.Order.Total,
		"method":   in.Method,
	})
	return c.Status(fiber.StatusCreated).JSON(res)
}

// GET /api/v1/orders/:id
func (h *OrderHandler) View(c *fiber.Ctx) error {
	oid, ok := validate.ID(c.Params("id"))
	if !ok {
		return services.ErrOrderNotFound
	}
	o, err := h.Orders.Get(oid)
	if err != nil {
		return err
	}

	u := shopperOf(c).Session.Current()
	if u == nil || (u.ID != o.UserID && !u.IsAdmin()) {
		applog.Security(c, "access.denied.order", map[string]any{"order_id": oid})
		return services.ErrOrderNotFound
	}
	return c.JSON(o)
}

// GET /api/v1/me/orders
func (h *OrderHandler) History(c *fiber.Ctx) error {
	u := shopperOf(c).Session.Current()
	orders := h.Orders.ForUser(u.ID)
	return c.JSON(fiber.Map{"orders": orders, "count": len(orders)})
}
