package services_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autopecas/internal/domain"
	"autopecas/internal/repos"
	"autopecas/internal/services"
)

func storedProducts(t *testing.T, store repos.Store) []domain.Product {
	t.Helper()
	raw, ok, err := store.Load(context.Background(), repos.KeyProducts)
	require.NoError(t, err)
	require.True(t, ok)
	var out []domain.Product
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestCatalog_InitializeSeedsFixtureOnce(t *testing.T) {
	ctx := context.Background()
	store := repos.NewMemoryStore()
	fixture := []domain.Product{product("f1", "Fixture", 10, 10)}

	c := services.NewCatalogService(store, fixture, nil)
	require.NoError(t, c.Initialize(ctx))
	assert.Len(t, c.Products(), 1)
	assert.Len(t, storedProducts(t, store), 1)

	require.NoError(t, c.RemoveByID(ctx, "f1"))

	// stored data wins over the fixture, even when it is empty
	again := services.NewCatalogService(store, fixture, nil)
	require.NoError(t, again.Initialize(ctx))
	assert.Empty(t, again.Products())
}

func TestCatalog_EmptyFixturePersistsEmptyList(t *testing.T) {
	ctx := context.Background()
	store := repos.NewMemoryStore()
	c := services.NewCatalogService(store, nil, nil)
	require.NoError(t, c.Initialize(ctx))
	raw, ok, _ := store.Load(ctx, repos.KeyProducts)
	require.True(t, ok)
	assert.JSONEq(t, `[]`, string(raw))
}

func TestCatalog_MutationsKeepMemoryAndStoreEqual(t *testing.T) {
	ctx := context.Background()
	store := repos.NewMemoryStore()
	c := services.NewCatalogService(store, nil, nil)
	require.NoError(t, c.Initialize(ctx))

	a, err := c.Add(ctx, product("", "Alternator", 45000, 3))
	require.NoError(t, err)
	assert.Regexp(t, `^PRD-[0-9A-Z]{8}$`, a.ID)
	_, err = c.Add(ctx, product("p2", "Radiator", 30000, 8))
	require.NoError(t, err)

	// newest first
	assert.Equal(t, []string{"p2", a.ID}, ids(c.Products()))
	assert.Equal(t, c.Products(), storedProducts(t, store))

	a.Price = 47000
	_, err = c.Update(ctx, a)
	require.NoError(t, err)
	got, err := c.Get(a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(47000), got.Price)
	assert.Equal(t, c.Products(), storedProducts(t, store))

	require.NoError(t, c.RemoveByID(ctx, "missing"))
	assert.Len(t, c.Products(), 2)

	require.NoError(t, c.RemoveByID(ctx, "p2"))
	assert.Equal(t, []string{a.ID}, ids(storedProducts(t, store)))

	_, err = c.Update(ctx, product("ghost", "Ghost", 1, 1))
	assert.ErrorIs(t, err, services.ErrProductNotFound)
	_, err = c.Get("ghost")
	assert.ErrorIs(t, err, services.ErrProductNotFound)
}

func TestCatalog_ReplaceAll(t *testing.T) {
	ctx := context.Background()
	store := repos.NewMemoryStore()
	c := services.NewCatalogService(store, nil, nil)
	require.NoError(t, c.Initialize(ctx))

	list := []domain.Product{product("x", "X", 1, 1), product("y", "Y", 2, 2)}
	require.NoError(t, c.ReplaceAll(ctx, list))
	list[0].Name = "mutated"
	assert.Equal(t, "X", c.Products()[0].Name)
	assert.Equal(t, []string{"x", "y"}, ids(storedProducts(t, store)))
}

func TestCatalog_PrimaryImageFollowsImageList(t *testing.T) {
	ctx := context.Background()
	c := services.NewCatalogService(repos.NewMemoryStore(), nil, nil)
	require.NoError(t, c.Initialize(ctx))

	p := product("p1", "Headlight", 500, 5)
	p.ImageURL = "old.png"
	p.Images = []string{"front.png", "side.png"}
	added, err := c.Add(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, "front.png", added.ImageURL)
}

func TestCatalog_LowStockBoundary(t *testing.T) {
	ctx := context.Background()
	c := services.NewCatalogService(repos.NewMemoryStore(), nil, nil)
	require.NoError(t, c.Initialize(ctx))

	three := 3
	withThreshold := product("t", "Threshold", 1, 3)
	withThreshold.MinStockThreshold = &three
	above := product("a", "Above", 1, 4)
	above.MinStockThreshold = &three

	require.NoError(t, c.ReplaceAll(ctx, []domain.Product{
		product("d5", "Default five", 1, 5),
		product("d6", "Default six", 1, 6),
		withThreshold,
		above,
	}))
	assert.ElementsMatch(t, []string{"d5", "t"}, ids(c.LowStock()))
}

func TestCatalog_Search(t *testing.T) {
	ctx := context.Background()
	c := services.NewCatalogService(repos.NewMemoryStore(), nil, nil)
	require.NoError(t, c.Initialize(ctx))

	disc := product("1", "Brake Disc", 300, 5)
	pads := product("2", "Brake Pads", 100, 5)
	pads.Brand = "Brembo"
	bulb := product("3", "H7 Bulb", 200, 5)
	bulb.Category = domain.CategoryLighting
	bulb.Brand = "Osram"
	require.NoError(t, c.ReplaceAll(ctx, []domain.Product{disc, pads, bulb}))

	assert.Equal(t, []string{"1", "2"}, ids(c.Search(services.SearchFilter{Query: "brake"})))
	assert.Equal(t, []string{"2"}, ids(c.Search(services.SearchFilter{Query: "BREMBO"})))
	assert.Equal(t, []string{"3"}, ids(c.Search(services.SearchFilter{Category: domain.CategoryLighting})))
	assert.Equal(t, []string{"2", "3", "1"}, ids(c.Search(services.SearchFilter{Sort: services.SortPriceAsc})))
	assert.Equal(t, []string{"1", "3", "2"}, ids(c.Search(services.SearchFilter{Sort: services.SortPriceDesc})))
	assert.Empty(t, c.Search(services.SearchFilter{Query: "turbo"}))
}

func TestCatalog_MalformedStoreFallsBackToFixture(t *testing.T) {
	ctx := context.Background()
	store := repos.NewMemoryStore()
	require.NoError(t, store.Save(ctx, repos.KeyProducts, []byte(`{"oops"`)))

	c := services.NewCatalogService(store, []domain.Product{product("f1", "Fixture", 1, 1)}, nil)
	require.NoError(t, c.Initialize(ctx))
	assert.Equal(t, []string{"f1"}, ids(c.Products()))
	assert.Equal(t, []string{"f1"}, ids(storedProducts(t, store)))
}

func TestLoadFixture(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "products.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"id":"f1","name":" Oil Filter ","price":900,"category":"Motor","brand":"Mann","stock":12,"images":["a.jpg"]}]`), 0o600))

	list, err := services.LoadFixture(path)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Oil Filter", list[0].Name)
	assert.Equal(t, "a.jpg", list[0].ImageURL)

	empty, err := services.LoadFixture("")
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = services.LoadFixture(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func ids(ps []domain.Product) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.ID
	}
	return out
}
