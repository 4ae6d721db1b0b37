package services

import (
	"context"
	"encoding/csv"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"autopecas/internal/domain"
)

const (
	PeriodAll     = "all"
	PeriodDaily   = "daily"
	PeriodWeekly  = "weekly"
	PeriodMonthly = "monthly"

	topProductsLimit = 5
)

type ReportFilter struct {
	Period string `json:"period"` // all | daily | weekly | monthly
	Method string `json:"method"` // all or a payment method
}

func (f ReportFilter) normalized() ReportFilter {
	if f.Period == "" {
		f.Period = PeriodAll
	}
	if f.Method == "" {
		f.Method = "all"
	}
	return f
}

type MethodSales struct {
	Method  domain.PaymentMethod `json:"method"`
	Label   string               `json:"label"`
	Orders  int                  `json:"orders"`
	Revenue int64                `json:"revenue"`
}

type ProductSales struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Units     int    `json:"units"`
	Revenue   int64  `json:"revenue"`
}

type ReportStats struct {
	TotalRevenue  int64           `json:"totalRevenue"`
	TotalSales    int             `json:"totalSales"`
	PaidOrders    int             `json:"paidOrders"`
	AverageTicket decimal.Decimal `json:"averageTicket"`
	ByMethod      []MethodSales   `json:"byMethod"`
	TopProducts   []ProductSales  `json:"topProducts"`
}

type Report struct {
	Filter      ReportFilter   `json:"filter"`
	GeneratedAt string         `json:"generatedAt"`
	Stats       ReportStats    `json:"stats"`
	Orders      []domain.Order `json:"orders"`
}

type Dashboard struct {
	Revenue    int64            `json:"revenue"`
	SalesCount int              `json:"salesCount"`
	LowStock   []domain.Product `json:"lowStock"`
	Weekly     []DayRevenue     `json:"weekly"`
	Insights   string           `json:"insights,omitempty"`
}

// ReportService aggregates the ledger for the admin console.
type ReportService struct {
	Orders   *OrderService
	Catalog  *CatalogService
	Insights *InsightService
}

func NewReportService(orders *OrderService, catalog *CatalogService, insights *InsightService) *ReportService {
	return &ReportService{Orders: orders, Catalog: catalog, Insights: insights}
}

// Filter returns the ledger entries matching f, newest first.
func (s *ReportService) Filter(f ReportFilter, now time.Time) []domain.Order {
	f = f.normalized()
	loc := s.Orders.Location()
	now = now.In(loc)
	weekAgo := now.Add(-7 * 24 * time.Hour)

	out := []domain.Order{}
	for _, o := range s.Orders.All() {
		if f.Method != "all" && string(o.PaymentMethod) != f.Method {
			continue
		}
		at, err := time.Parse(time.RFC3339, o.CreatedAt)
		if err != nil {
			continue
		}
		at = at.In(loc)
		switch f.Period {
		case PeriodDaily:
			if at.Format(time.DateOnly) != now.Format(time.DateOnly) {
				continue
			}
		case PeriodWeekly:
			if at.Before(weekAgo) {
				continue
			}
		case PeriodMonthly:
			if at.Year() != now.Year() || at.Month() != now.Month() {
				continue
			}
		}
		out = append(out, o)
	}
	return out
}

// Summarize computes the report. Revenue and the average ticket count
// Paid orders only; TotalSales counts every matching order.
func (s *ReportService) Summarize(f ReportFilter, now time.Time) Report {
	f = f.normalized()
	orders := s.Filter(f, now)

	stats := ReportStats{TotalSales: len(orders), AverageTicket: decimal.Zero}
	byMethod := map[domain.PaymentMethod]*MethodSales{}
	byProduct := map[string]*ProductSales{}
	for _, o := range orders {
		ms, ok := byMethod[o.PaymentMethod]
		if !ok {
			ms = &MethodSales{Method: o.PaymentMethod, Label: o.PaymentMethod.Label()}
			byMethod[o.PaymentMethod] = ms
		}
		ms.Orders++
		if o.Status != domain.OrderPaid {
			continue
		}
		ms.Revenue += o.Total
		stats.TotalRevenue += o.Total
		stats.PaidOrders++
		for _, it := range o.Items {
			ps, ok := byProduct[it.ID]
			if !ok {
				ps = &ProductSales{ProductID: it.ID, Name: it.Name}
				byProduct[it.ID] = ps
			}
			ps.Units += it.Quantity
			ps.Revenue += it.Subtotal()
		}
	}
	if stats.PaidOrders > 0 {
		stats.AverageTicket = decimal.NewFromInt(stats.TotalRevenue).
			Div(decimal.NewFromInt(int64(stats.PaidOrders))).
			Round(2)
	}

	stats.ByMethod = make([]MethodSales, 0, len(byMethod))
	for _, ms := range byMethod {
		stats.ByMethod = append(stats.ByMethod, *ms)
	}
	sort.Slice(stats.ByMethod, func(i, j int) bool {
		if stats.ByMethod[i].Revenue != stats.ByMethod[j].Revenue {
			return stats.ByMethod[i].Revenue > stats.ByMethod[j].Revenue
		}
		return stats.ByMethod[i].Method < stats.ByMethod[j].Method
	})

	stats.TopProducts = make([]ProductSales, 0, len(byProduct))
	for _, ps := range byProduct {
		stats.TopProducts = append(stats.TopProducts, *ps)
	}
	sort.Slice(stats.TopProducts, func(i, j int) bool {
		a, b := stats.TopProducts[i], stats.TopProducts[j]
		if a.Units != b.Units {
			return a.Units > b.Units
		}
		return a.Name < b.Name
	})
	if len(stats.TopProducts) > topProductsLimit {
		stats.TopProducts = stats.TopProducts[:topProductsLimit]
	}

	return Report{
		Filter:      f,
		GeneratedAt: now.In(s.Orders.Location()).Format(time.RFC3339),
		Stats:       stats,
		Orders:      orders,
	}
}

// ExportCSV writes one row per matching order under the header
// ID,Date,Total,Method,Status.
func (s *ReportService) ExportCSV(w io.Writer, f ReportFilter, now time.Time) error {
	loc := s.Orders.Location()
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"ID", "Date", "Total", "Method", "Status"}); err != nil {
		return err
	}
	for _, o := range s.Filter(f, now) {
		date := o.CreatedAt
		if at, err := time.Parse(time.RFC3339, o.CreatedAt); err == nil {
			date = at.In(loc).Format(time.DateOnly)
		}
		row := []string{o.ID, date, strconv.FormatInt(o.Total, 10), string(o.PaymentMethod), string(o.Status)}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Dashboard gathers the admin overview. Insights are requested from the
// generator only when withInsights is set.
func (s *ReportService) Dashboard(ctx context.Context, now time.Time, withInsights bool) Dashboard {
	d := Dashboard{
		Revenue:    s.Orders.Revenue(),
		SalesCount: len(s.Orders.All()),
		LowStock:   s.Catalog.LowStock(),
		Weekly:     s.Orders.WeeklyRevenue(now),
	}
	if withInsights && s.Insights != nil {
		d.Insights = s.Insights.StoreInsights(ctx, d.Weekly)
	}
	return d
}
