package services_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"autopecas/internal/domain"
	"autopecas/internal/repos"
	"autopecas/internal/services"
)

// countingStore records writes per raw key on top of a MemoryStore.
type countingStore struct {
	*repos.MemoryStore
	mu     sync.Mutex
	saves  map[string]int
	clears map[string]int
}

func newCountingStore() *countingStore {
	return &countingStore{MemoryStore: repos.NewMemoryStore(), saves: map[string]int{}, clears: map[string]int{}}
}

func (s *countingStore) Save(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	s.saves[key]++
	s.mu.Unlock()
	return s.MemoryStore.Save(ctx, key, value)
}

func (s *countingStore) Clear(ctx context.Context, key string) error {
	s.mu.Lock()
	s.clears[key]++
	s.mu.Unlock()
	return s.MemoryStore.Clear(ctx, key)
}

func (s *countingStore) savesOf(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves[key]
}

func product(id, name string, price int64, stock int) domain.Product {
	return domain.Product{
		ID: id, Name: name, Price: price, Stock: stock,
		Category: domain.CategoryBrakes, Brand: "Bosch",
	}
}

func demoAuth() *services.DemoAuthenticator {
	return &services.DemoAuthenticator{AdminEmail: "admin@autopecas.ao"}
}

func newShopper(t *testing.T, store repos.Store, sid string) *services.Shopper {
	t.Helper()
	sh, err := services.NewShoppers(store, demoAuth(), nil).Get(context.Background(), sid)
	require.NoError(t, err)
	return sh
}

func login(t *testing.T, sh *services.Shopper, email string) *domain.User {
	t.Helper()
	u, err := sh.Session.Login(context.Background(), services.Credentials{Email: email})
	require.NoError(t, err)
	return u
}
