package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"autopecas/internal/http/views"
	applog "autopecas/internal/log"
)

// Limit is a fixed window; Max 0 disables it.
type Limit struct {
	Max    int
	Window time.Duration
}

type Options struct {
	BodyLimit    int
	Global       Limit
	Login        Limit
	Availability Limit
	Search       Limit

	// CSRF protects unsafe methods with a double submit token read from
	// the X-Csrf-Token header.
	CSRF      bool
	AccessLog bool
	Gatherer  prometheus.Gatherer
	Location  *time.Location
}

func DefaultOptions() Options {
	return Options{
		BodyLimit:    1 << 20, // 1 MiB
		Global:       Limit{Max: 120, Window: time.Minute},
		Login:        Limit{Max: 5, Window: 10 * time.Minute},
		Availability: Limit{Max: 15, Window: 30 * time.Second},
		Search:       Limit{Max: 30, Window: time.Minute},
		CSRF:         true,
		AccessLog:    true,
	}
}

func (l Limit) handler(key, hitAction string, next func(*fiber.Ctx) bool) fiber.Handler {
	if l.Max <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return limiter.New(limiter.Config{
		Next:       next,
		Max:        l.Max,
		Expiration: l.Window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|" + key
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, hitAction, nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": apiError{
				Code:    "RATE_LIMITED",
				Message: "rate limit exceeded, retry soon",
			}})
		},
	})
}

// NewApp builds the fiber app with middlewares and every route.
func NewApp(d *Deps, opts Options) *fiber.App {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	app := fiber.New(fiber.Config{
		Views:        views.New(loc),
		ErrorHandler: ErrorHandler,
	})
	if opts.BodyLimit > 0 {
		app.Server().MaxRequestBodySize = opts.BodyLimit
	}

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(recover.New())
	if opts.AccessLog {
		app.Use(logger.New())
	}
	app.Use(helmet.New())
	if opts.Global.Max > 0 {
		app.Use(opts.Global.handler("global", "rate.global.hit", func(c *fiber.Ctx) bool {
			p := c.Path()
			return p == "/healthz" || p == "/metrics"
		}))
	}
	if opts.CSRF {
		app.Use(csrf.New(csrf.Config{
			KeyLookup:      "header:X-Csrf-Token",
			CookieName:     "csrf_",
			CookieSameSite: "Lax",
			CookieSecure:   false, // set true behind HTTPS
			ErrorHandler: func(c *fiber.Ctx, err error) error {
				applog.Security(c, "csrf.fail", map[string]any{"error": err.Error()})
				return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": apiError{
					Code:    "FORBIDDEN",
					Message: "security check failed, refresh and try again",
				}})
			},
		}))
	}

	// ---------- Health & metrics ----------
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	if opts.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}

	// ---------- API ----------
	api := app.Group("/api/v1", LoadShopper(d.Shoppers))

	api.Get("/categories", d.CategoryHandler.List)
	api.Get("/products", opts.Search.handler("search", "rate.search.hit", nil), d.SearchHandler.Search)
	api.Get("/products/:id", d.ProductHandler.Detail)
	api.Get("/availability", opts.Availability.handler("avail", "rate.availability.hit", nil), d.InventoryHandler.Check)
	api.Get("/payment-methods", d.OrderHandler.Methods)

	api.Get("/cart", d.CartHandler.View)
	api.Post("/cart", d.CartHandler.Add)
	api.Delete("/cart", d.CartHandler.Clear)
	api.Patch("/cart/:id", d.CartHandler.Update)
	api.Delete("/cart/:id", d.CartHandler.Remove)
	api.Post("/checkout", RequireUser(), d.OrderHandler.Place)
	api.Get("/orders/:id", RequireUser(), d.OrderHandler.View)

	api.Post("/auth/login", opts.Login.handler("login", "rate.login.hit", nil), d.AuthHandler.Login)
	api.Post("/auth/logout", d.AuthHandler.Logout)
	api.Get("/me", d.AuthHandler.Me)
	api.Get("/me/orders", RequireUser(), d.OrderHandler.History)

	admin := api.Group("/admin", RequireAdmin())
	admin.Get("/dashboard", d.AdminHandler.Dashboard)
	admin.Get("/products", d.AdminHandler.Products)
	admin.Post("/products", d.AdminHandler.CreateProduct)
	admin.Post("/products/describe", d.AdminHandler.Describe)
	admin.Put("/products/:id", d.AdminHandler.UpdateProduct)
	admin.Delete("/products/:id", d.AdminHandler.DeleteProduct)
	admin.Get("/orders", d.AdminHandler.OrdersList)
	admin.Get("/reports", d.AdminHandler.Report)
	admin.Get("/reports.csv", d.AdminHandler.ReportCSV)

	// ---------- Pages ----------
	app.Get("/admin/reports/print", LoadShopper(d.Shoppers), RequireAdmin(), d.AdminHandler.ReportPrint)

	// 404
	app.Use(func(c *fiber.Ctx) error {
		if strings.HasPrefix(c.Path(), "/api/") {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": apiError{
				Code:    "NOT_FOUND",
				Message: "resource not found",
			}})
		}
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Page not found"})
	})
	return app
}
