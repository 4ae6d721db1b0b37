package handlers

import (
	"bytes"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"autopecas/internal/domain"
	applog "autopecas/internal/log"
	"autopecas/internal/services"
	"autopecas/internal/validate"
)

type AdminHandler struct {
	Catalog  *services.CatalogService
	Orders   *services.OrderService
	Reports  *services.ReportService
	Insights *services.InsightService
	Now      func() time.Time
}

type productRequest struct {
	Name              string   `json:"name" validate:"required,max=120"`
	Description       string   `json:"description" validate:"max=2000"`
	Price             int64    `json:"price" validate:"gte=0"`
	Category          string   `json:"category" validate:"required,category"`
	Brand             string   `json:"brand" validate:"max=60"`
	Stock             int      `json:"stock" validate:"gte=0"`
	MinStockThreshold *int     `json:"minStockThreshold" validate:"omitempty,gte=0"`
	ImageURL          string   `json:"imageUrl" validate:"max=500"`
	Images            []string `json:"images" validate:"max=8,dive,max=500"`
}

func (r productRequest) product(id string) domain.Product {
	return domain.Product{
		ID:                id,
		Name:              r.Name,
		Description:       r.Description,
		Price:             r.Price,
		Category:          domain.Category(r.Category),
		Brand:             r.Brand,
		Stock:             r.Stock,
		MinStockThreshold: r.MinStockThreshold,
		ImageURL:          r.ImageURL,
		Images:            r.Images,
	}
}

type describeRequest struct {
	Name     string `json:"name" validate:"required,max=120"`
	Category string `json:"category" validate:"required,category"`
	Brand    string `json:"brand" validate:"max=60"`
}

// GET /api/v1/admin/dashboard
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	return c.JSON(h.Reports.Dashboard(c.UserContext(), h.Now(), c.QueryBool("insights")))
}

// GET /api/v1/admin/products
func (h *AdminHandler) Products(c *fiber.Ctx) error {
	products := h.Catalog.Products()
	return c.JSON(fiber.Map{"products": products, "count": len(products)})
}

// POST /api/v1/admin/products
func (h *AdminHandler) CreateProduct(c *fiber.Ctx) error {
	var in productRequest
	if err := validate.Decode(c.Body(), &in); err != nil {
		applog.Security(c, "validation.fail", map[string]any{"field": "product"})
		return err
	}
	p, err := h.Catalog.Add(c.UserContext(), in.product(""))
	if err != nil {
		applog.Error(c, "admin.product.create.fail", err, map[string]any{"name": in.Name})
		return err
	}
	applog.Audit(c, "admin.product.create", map[string]any{"product": p.ID, "name": p.Name, "stock": p.Stock})
	return c.Status(fiber.StatusCreated).JSON(p)
}

// PUT /api/v1/admin/products/:id
func (h *AdminHandler) UpdateProduct(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return services.ErrProductNotFound
	}
	var in productRequest
	if err := validate.Decode(c.Body(), &in); err != nil {
		applog.Security(c, "validation.fail", map[string]any{"field": "product"})
		return err
	}
	p, err := h.Catalog.Update(c.UserContext(), in.product(id))
	if err != nil {
		return err
	}
	applog.Audit(c, "admin.product.update", map[string]any{"product": p.ID, "price": p.Price, "stock": p.Stock})
	return c.JSON(p)
}

// DELETE /api/v1/admin/products/:id
func (h *AdminHandler) DeleteProduct(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return services.ErrProductNotFound
	}
	if err := h.Catalog.RemoveByID(c.UserContext(), id); err != nil {
		applog.Error(c, "admin.product.delete.fail", err, map[string]any{"product": id})
		return err
	}
	applog.Audit(c, "admin.product.delete", map[string]any{"product": id})
	return c.SendStatus(fiber.StatusNoContent)
}

// POST /api/v1/admin/products/describe
func (h *AdminHandler) Describe(c *fiber.Ctx) error {
	var in describeRequest
	if err := validate.Decode(c.Body(), &in); err != nil {
		return err
	}
	text := h.Insights.DescribeProduct(c.UserContext(), in.Name, in.Category, in.Brand)
	return c.JSON(fiber.Map{"description": text})
}

// GET /api/v1/admin/orders
func (h *AdminHandler) OrdersList(c *fiber.Ctx) error {
	orders := h.Orders.All()
	return c.JSON(fiber.Map{"orders": orders, "count": len(orders), "revenue": h.Orders.Revenue()})
}

// GET /api/v1/admin/reports
func (h *AdminHandler) Report(c *fiber.Ctx) error {
	f, err := reportFilter(c)
	if err != nil {
		return err
	}
	return c.JSON(h.Reports.Summarize(f, h.Now()))
}

// GET /api/v1/admin/reports.csv
func (h *AdminHandler) ReportCSV(c *fiber.Ctx) error {
	f, err := reportFilter(c)
	if err != nil {
		return err
	}
	now := h.Now()
	var buf bytes.Buffer
	if err := h.Reports.ExportCSV(&buf, f, now); err != nil {
		applog.Error(c, "admin.report.csv.fail", err, nil)
		return err
	}
	applog.Audit(c, "admin.report.export", map[string]any{"period": f.Period, "method": f.Method})
	c.Attachment("report-" + now.In(h.Orders.Location()).Format(time.DateOnly) + ".csv")
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	return c.Send(buf.Bytes())
}

// GET /admin/reports/print
func (h *AdminHandler) ReportPrint(c *fiber.Ctx) error {
	f, err := reportFilter(c)
	if err != nil {
		return err
	}
	return render(c, "report", fiber.Map{"Report": h.Reports.Summarize(f, h.Now())})
}

func reportFilter(c *fiber.Ctx) (services.ReportFilter, error) {
	f := services.ReportFilter{
		Period: strings.ToLower(strings.TrimSpace(c.Query("period", services.PeriodAll))),
		Method: strings.TrimSpace(c.Query("method", "all")),
	}
	switch f.Period {
	case services.PeriodAll, services.PeriodDaily, services.PeriodWeekly, services.PeriodMonthly:
	default:
		return f, invalidField("period", "must be one of all daily weekly monthly")
	}
	if f.Method != "all" {
		if _, err := domain.ParsePaymentMethod(f.Method); err != nil {
			return f, invalidField("method", "must be all or a payment method")
		}
	}
	return f, nil
}
