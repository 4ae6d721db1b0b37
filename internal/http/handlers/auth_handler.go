package handlers

import (
	"github.com/gofiber/fiber/v2"

	"autopecas/internal/log"
	"autopecas/internal/services"
	"autopecas/internal/validate"
)

type AuthHandler struct {
	Shoppers *services.Shoppers
	// RequirePassword enables the password format check used with real accounts.
	RequirePassword bool
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,max=100"`
	Password string `json:"password" validate:"max=64"`
	Name     string `json:"name" validate:"max=80"`
}

// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	sh := shopperOf(c)
	var in loginRequest
	if err := validate.Decode(c.Body(), &in); err != nil {
		log.Security(c, "auth.login.fail", map[string]any{"email": in.Email, "reason": "bad_format"})
		return err
	}
	email, ok := validate.Email(in.Email)
	if !ok {
		log.Security(c, "auth.login.fail", map[string]any{"email": in.Email, "reason": "bad_format"})
		return invalidField("email", "must be a valid email")
	}
	in.Email = email
	if h.RequirePassword && !validate.Password(in.Password) {
		log.Security(c, "auth.login.fail", map[string]any{"email": in.Email, "reason": "bad_password_format"})
		return services.ErrBadCreds
	}

	u, err := sh.Session.Login(c.UserContext(), services.Credentials{
		Email:    in.Email,
		Password: in.Password,
		Name:     in.Name,
	})
	if err != nil {
		log.Security(c, "auth.login.fail", map[string]any{"email": in.Email})
		return err
	}
	c.Locals("user", u)
	log.Audit(c, "auth.login.success", map[string]any{"email": u.Email, "role": string(u.Role)})
	return c.JSON(meView(sh))
}

// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sh := shopperOf(c)
	err := sh.Session.Logout(c.UserContext())
	expireSID(c)
	h.Shoppers.Forget(sh.SID)
	if err != nil {
		log.Error(c, "auth.logout.fail", err, nil)
		return err
	}
	log.Audit(c, "auth.logout", map[string]any{"sid": sh.SID})
	return c.SendStatus(fiber.StatusNoContent)
}

// GET /api/v1/me
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	return c.JSON(meView(shopperOf(c)))
}

func meView(sh *services.Shopper) fiber.Map {
	return fiber.Map{
		"user":             sh.Session.Current(),
		"authenticated":    sh.Session.IsAuthenticated(),
		"canPurchase":      sh.Session.CanPurchase(),
		"canManageCatalog": sh.Session.CanManageCatalog(),
		"cartCount":        sh.Cart.Count(),
	}
}
