package services

import (
	"context"
	"sync"

	"autopecas/internal/domain"
	"autopecas/internal/metrics"
	"autopecas/internal/repos"
)

const NoticeAdminCannotPurchase = "Administrators cannot purchase products."

// Purchaser reports whether the current session may buy.
type Purchaser interface {
	CanPurchase() bool
}

// CartService is one shopper's cart. Lines are product snapshots taken at
// add time; each mutation persists the cart slot before returning.
type CartService struct {
	store   repos.Store
	gate    Purchaser
	metrics *metrics.ShopMetrics

	mu    sync.Mutex
	items []domain.CartItem
}

func NewCartService(store repos.Store, gate Purchaser, m *metrics.ShopMetrics) *CartService {
	return &CartService{store: store, gate: gate, metrics: m}
}

func (s *CartService) Restore(ctx context.Context) error {
	items, _, err := loadSlot[[]domain.CartItem](ctx, s.store, repos.KeyCart)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
	return nil
}

// AddItem puts one unit of p in the cart and returns the notice to show.
// Administrators get ErrPurchaseForbidden and the cart is not touched.
func (s *CartService) AddItem(ctx context.Context, p domain.Product) (string, error) {
	if s.gate != nil && !s.gate.CanPurchase() {
		s.metrics.IncCartAdd("forbidden")
		return NoticeAdminCannotPurchase, ErrPurchaseForbidden
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	next := cloneItems(s.items)
	found := false
	for i := range next {
		if next[i].ID == p.ID {
			next[i].Quantity++
			found = true
			break
		}
	}
	if !found {
		next = append(next, domain.CartItem{Product: p.Clone(), Quantity: 1})
	}
	if err := s.persistLocked(ctx, next); err != nil {
		s.metrics.IncCartAdd("error")
		return "", err
	}
	s.metrics.IncCartAdd("added")
	return p.Name + " added to cart!", nil
}

// RemoveItem drops the line for id; an unknown id leaves the lines unchanged.
func (s *CartService) RemoveItem(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := make([]domain.CartItem, 0, len(s.items))
	for _, it := range s.items {
		if it.ID != id {
			next = append(next, it.Clone())
		}
	}
	return s.persistLocked(ctx, next)
}

// UpdateQuantity sets the quantity for id, clamped to at least 1.
func (s *CartService) UpdateQuantity(ctx context.Context, id string, qty int) error {
	if qty < 1 {
		qty = 1
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	next := cloneItems(s.items)
	for i := range next {
		if next[i].ID == id {
			next[i].Quantity = qty
		}
	}
	return s.persistLocked(ctx, next)
}

// Clear empties the cart and removes the stored slot altogether.
func (s *CartService) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := clearSlot(ctx, s.store, repos.KeyCart); err != nil {
		return err
	}
	s.items = nil
	return nil
}

func (s *CartService) persistLocked(ctx context.Context, next []domain.CartItem) error {
	if next == nil {
		next = []domain.CartItem{}
	}
	if err := saveSlot(ctx, s.store, repos.KeyCart, next); err != nil {
		return err
	}
	s.items = next
	return nil
}

func (s *CartService) Items() []domain.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := cloneItems(s.items)
	if out == nil {
		out = []domain.CartItem{}
	}
	return out
}

func (s *CartService) Total() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cartTotal(s.items)
}

// Count is the number of units across all lines.
func (s *CartService) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, it := range s.items {
		n += it.Quantity
	}
	return n
}

func cartTotal(items []domain.CartItem) int64 {
	var total int64
	for _, it := range items {
		total += it.Subtotal()
	}
	return total
}

func cloneItems(in []domain.CartItem) []domain.CartItem {
	if in == nil {
		return nil
	}
	out := make([]domain.CartItem, len(in))
	for i, it := range in {
		out[i] = it.Clone()
	}
	return out
}
