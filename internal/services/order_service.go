package services

import (
	"context"
	"sync"
	"time"

	"autopecas/internal/domain"
	"autopecas/internal/repos"
)

// OrderService is the shop-wide ledger, newest order first. Orders are
// only ever prepended.
type OrderService struct {
	store repos.Store
	loc   *time.Location

	mu     sync.RWMutex
	orders []domain.Order
}

func NewOrderService(store repos.Store, loc *time.Location) *OrderService {
	if loc == nil {
		loc = time.UTC
	}
	return &OrderService{store: store, loc: loc}
}

func (s *OrderService) Initialize(ctx context.Context) error {
	orders, _, err := loadSlot[[]domain.Order](ctx, s.store, repos.KeyOrders)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.orders = orders
	s.mu.Unlock()
	return nil
}

// Record prepends o and persists the full ledger.
func (s *OrderService) Record(ctx context.Context, o domain.Order) error {
	o = cloneOrder(o)
	s.mu.Lock()
	defer s.mu.Unlock()
	next := make([]domain.Order, 0, len(s.orders)+1)
	next = append(next, o)
	next = append(next, s.orders...)
	if err := saveSlot(ctx, s.store, repos.KeyOrders, next); err != nil {
		return err
	}
	s.orders = next
	return nil
}

func (s *OrderService) All() []domain.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Order, len(s.orders))
	for i, o := range s.orders {
		out[i] = cloneOrder(o)
	}
	return out
}

func (s *OrderService) ForUser(userID string) []domain.Order {
	out := []domain.Order{}
	for _, o := range s.All() {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out
}

func (s *OrderService) Get(id string) (domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, o := range s.orders {
		if o.ID == id {
			return cloneOrder(o), nil
		}
	}
	return domain.Order{}, ErrOrderNotFound
}

// Revenue sums the totals of Paid orders.
func (s *OrderService) Revenue() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var sum int64
	for _, o := range s.orders {
		if o.Status == domain.OrderPaid {
			sum += o.Total
		}
	}
	return sum
}

type DayRevenue struct {
	Label string `json:"name"`
	Date  string `json:"date"`
	Total int64  `json:"total"`
}

// WeeklyRevenue returns Paid revenue for the 7 calendar days ending at now,
// oldest first. Days are taken in the ledger's time zone.
func (s *OrderService) WeeklyRevenue(now time.Time) []DayRevenue {
	now = now.In(s.loc)
	series := make([]DayRevenue, 7)
	index := make(map[string]int, 7)
	for i := 0; i < 7; i++ {
		day := now.AddDate(0, 0, i-6)
		key := day.Format(time.DateOnly)
		series[i] = DayRevenue{Label: day.Weekday().String()[:3], Date: key}
		index[key] = i
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, o := range s.orders {
		if o.Status != domain.OrderPaid {
			continue
		}
		at, err := time.Parse(time.RFC3339, o.CreatedAt)
		if err != nil {
			continue
		}
		if i, ok := index[at.In(s.loc).Format(time.DateOnly)]; ok {
			series[i].Total += o.Total
		}
	}
	return series
}

func (s *OrderService) Location() *time.Location { return s.loc }

func cloneOrder(o domain.Order) domain.Order {
	out := o
	if o.Items != nil {
		out.Items = cloneItems(o.Items)
	}
	return out
}
