package handlers

import (
	"time"

	"autopecas/internal/services"
)

// Services is everything the HTTP layer talks to.
type Services struct {
	Shoppers  *services.Shoppers
	Catalog   *services.CatalogService
	Orders    *services.OrderService
	Checkout  *services.CheckoutService
	Payments  *services.PaymentSimulator
	Inventory *services.InventoryService
	Reports   *services.ReportService
	Insights  *services.InsightService

	// PasswordLogin turns on password format checks at login.
	PasswordLogin bool
	Now           func() time.Time
}

type Deps struct {
	Shoppers *services.Shoppers

	AuthHandler      *AuthHandler
	CategoryHandler  *CategoryHandler
	ProductHandler   *ProductHandler
	SearchHandler    *SearchHandler
	InventoryHandler *InventoryHandler
	CartHandler      *CartHandler
	OrderHandler     *OrderHandler
	AdminHandler     *AdminHandler
}

func NewDeps(s Services) *Deps {
	now := s.Now
	if now == nil {
		now = time.Now
	}
	return &Deps{
		Shoppers:         s.Shoppers,
		AuthHandler:      &AuthHandler{Shoppers: s.Shoppers, RequirePassword: s.PasswordLogin},
		CategoryHandler:  &CategoryHandler{},
		ProductHandler:   &ProductHandler{Catalog: s.Catalog},
		SearchHandler:    &SearchHandler{Catalog: s.Catalog},
		InventoryHandler: &InventoryHandler{Inv: s.Inventory},
		CartHandler:      &CartHandler{Catalog: s.Catalog},
		OrderHandler:     &OrderHandler{Checkout: s.Checkout, Orders: s.Orders, Payments: s.Payments},
		AdminHandler: &AdminHandler{
			Catalog:  s.Catalog,
			Orders:   s.Orders,
			Reports:  s.Reports,
			Insights: s.Insights,
			Now:      now,
		},
	}
}
