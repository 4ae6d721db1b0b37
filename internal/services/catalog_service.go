package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"autopecas/internal/domain"
	applog "autopecas/internal/log"
	"autopecas/internal/metrics"
	"autopecas/internal/repos"
)

// CatalogService owns the shop-wide product list. Every mutation persists
// the whole list before returning.
type CatalogService struct {
	store   repos.Store
	fixture []domain.Product
	metrics *metrics.ShopMetrics

	mu       sync.RWMutex
	products []domain.Product
}

func NewCatalogService(store repos.Store, fixture []domain.Product, m *metrics.ShopMetrics) *CatalogService {
	return &CatalogService{store: store, fixture: fixture, metrics: m}
}

// LoadFixture reads a JSON array of products. An empty path yields an empty fixture.
func LoadFixture(path string) ([]domain.Product, error) {
	if path == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog fixture: %w", err)
	}
	var out []domain.Product
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode catalog fixture: %w", err)
	}
	for i := range out {
		normalizeProduct(&out[i])
	}
	return out, nil
}

// Initialize loads the stored catalog. Stored data always wins; the fixture
// is used only when nothing (or nothing readable) is stored.
func (s *CatalogService) Initialize(ctx context.Context) error {
	stored, ok, err := loadSlot[[]domain.Product](ctx, s.store, repos.KeyProducts)
	if err != nil {
		return err
	}
	if ok {
		s.mu.Lock()
		s.products = stored
		s.mu.Unlock()
		applog.Info(nil, "catalog.loaded", map[string]any{"count": len(stored)})
		return nil
	}
	seed := cloneProducts(s.fixture)
	if seed == nil {
		seed = []domain.Product{}
	}
	if err := s.ReplaceAll(ctx, seed); err != nil {
		return err
	}
	applog.Info(nil, "catalog.seeded", map[string]any{"count": len(seed)})
	return nil
}

// ReplaceAll swaps the catalog for list and persists it.
func (s *CatalogService) ReplaceAll(ctx context.Context, list []domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.replaceLocked(ctx, cloneProducts(list))
}

func (s *CatalogService) replaceLocked(ctx context.Context, list []domain.Product) error {
	if list == nil {
		list = []domain.Product{}
	}
	if err := saveSlot(ctx, s.store, repos.KeyProducts, list); err != nil {
		return err
	}
	s.products = list
	return nil
}

// Add prepends p, so the newest product is listed first.
func (s *CatalogService) Add(ctx context.Context, p domain.Product) (domain.Product, error) {
	p = p.Clone()
	if p.ID == "" {
		p.ID = newProductID()
	}
	normalizeProduct(&p)

	s.mu.Lock()
	defer s.mu.Unlock()
	next := make([]domain.Product, 0, len(s.products)+1)
	next = append(next, p)
	next = append(next, s.products...)
	if err := s.replaceLocked(ctx, next); err != nil {
		return domain.Product{}, err
	}
	s.metrics.IncCatalogOp("add")
	return p.Clone(), nil
}

// Update replaces the product with p.ID in place.
func (s *CatalogService) Update(ctx context.Context, p domain.Product) (domain.Product, error) {
	p = p.Clone()
	normalizeProduct(&p)

	s.mu.Lock()
	defer s.mu.Unlock()
	found := false
	next := make([]domain.Product, len(s.products))
	for i, cur := range s.products {
		if cur.ID == p.ID {
			next[i] = p
			found = true
			continue
		}
		next[i] = cur
	}
	if !found {
		return domain.Product{}, ErrProductNotFound
	}
	if err := s.replaceLocked(ctx, next); err != nil {
		return domain.Product{}, err
	}
	s.metrics.IncCatalogOp("update")
	return p.Clone(), nil
}

// RemoveByID drops the product with id. An unknown id is not an error;
// the list is persisted either way.
func (s *CatalogService) RemoveByID(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		if p.ID != id {
			next = append(next, p)
		}
	}
	if err := s.replaceLocked(ctx, next); err != nil {
		return err
	}
	s.metrics.IncCatalogOp("remove")
	return nil
}

func (s *CatalogService) Products() []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneProducts(s.products)
}

func (s *CatalogService) Get(id string) (domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.products {
		if p.ID == id {
			return p.Clone(), nil
		}
	}
	return domain.Product{}, ErrProductNotFound
}

const (
	SortNewest    = "newest"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
)

type SearchFilter struct {
	Query    string
	Category domain.Category // empty matches every category
	Sort     string
}

// Search matches Query case-insensitively against name or brand.
func (s *CatalogService) Search(f SearchFilter) []domain.Product {
	q := strings.ToLower(strings.TrimSpace(f.Query))
	out := []domain.Product{}
	for _, p := range s.Products() {
		if q != "" &&
			!strings.Contains(strings.ToLower(p.Name), q) &&
			!strings.Contains(strings.ToLower(p.Brand), q) {
			continue
		}
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		out = append(out, p)
	}
	switch f.Sort {
	case SortPriceAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case SortPriceDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	}
	return out
}

// LowStock lists products at or below their minimum stock threshold.
func (s *CatalogService) LowStock() []domain.Product {
	out := []domain.Product{}
	for _, p := range s.Products() {
		if p.IsLowStock() {
			out = append(out, p)
		}
	}
	return out
}

func normalizeProduct(p *domain.Product) {
	p.Name = strings.TrimSpace(p.Name)
	p.Brand = strings.TrimSpace(p.Brand)
	if len(p.Images) > 0 {
		p.ImageURL = p.Images[0]
	}
}

func cloneProducts(in []domain.Product) []domain.Product {
	if in == nil {
		return nil
	}
	out := make([]domain.Product, len(in))
	for i, p := range in {
		out[i] = p.Clone()
	}
	return out
}
