package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	apperrors "autopecas/internal/errors"
	applog "autopecas/internal/log"
	"autopecas/internal/services"
)

const sidCookie = "sid"

var errAdminOnly = apperrors.New(apperrors.CodeForbidden, "administrator access required")

func ensureSID(c *fiber.Ctx) string {
	sid := c.Cookies(sidCookie)
	if _, err := uuid.Parse(sid); err != nil {
		sid = uuid.NewString()
		c.Cookie(&fiber.Cookie{
			Name:     sidCookie,
			Value:    sid,
			Path:     "/",
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
			Secure:   false, // enable behind TLS
		})
	}
	return sid
}

func expireSID(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     sidCookie,
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Expires:  time.Now().Add(-1 * time.Hour),
	})
}

// LoadShopper attaches the caller's shopper (session, cart, checkout state)
// and, when signed in, the user.
func LoadShopper(shoppers *services.Shoppers) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sh, err := shoppers.Get(c.UserContext(), ensureSID(c))
		if err != nil {
			return err
		}
		c.Locals("shopper", sh)
		if u := sh.Session.Current(); u != nil {
			c.Locals("user", u)
		}
		return c.Next()
	}
}

func shopperOf(c *fiber.Ctx) *services.Shopper {
	sh, _ := c.Locals("shopper").(*services.Shopper)
	return sh
}

// RequireUser rejects anonymous callers with 401.
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sh := shopperOf(c)
		if sh == nil || !sh.Session.IsAuthenticated() {
			return services.ErrUnauthenticated
		}
		return c.Next()
	}
}

// RequireAdmin lets through only sessions allowed to manage the catalog.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sh := shopperOf(c)
		if sh == nil || !sh.Session.IsAuthenticated() {
			applog.Security(c, "access.denied.admin", map[string]any{"reason": "anonymous"})
			return services.ErrUnauthenticated
		}
		if !sh.Session.CanManageCatalog() {
			applog.Security(c, "access.denied.admin", map[string]any{"user_id": sh.Session.Current().ID})
			return errAdminOnly
		}
		return c.Next()
	}
}
