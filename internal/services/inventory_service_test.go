package services_test

import (
	"context"
	"testing"

	"autopecas/internal/domain"
	"autopecas/internal/repos"
	"autopecas/internal/services"
)

func TestInventoryService_CheckAvailability(t *testing.T) {
	ctx := context.Background()
	catalog := services.NewCatalogService(repos.NewMemoryStore(), nil, nil)
	if err := catalog.Initialize(ctx); err != nil {
		t.Fatal(err)
	}
	if err := catalog.ReplaceAll(ctx, []domain.Product{
		product("in", "Plenty", 10, 6),
		product("low", "Few", 10, 5),
		product("out", "None", 10, 0),
	}); err != nil {
		t.Fatal(err)
	}
	svc := services.NewInventoryService(catalog)

	cases := []struct {
		id     string
		status string
		qty    int
	}{
		{"in", "IN_STOCK", 6},
		{"low", "LOW_STOCK", 5},
		{"out", "OUT_OF_STOCK", 0},
		{"unknown", "OUT_OF_STOCK", 0},
	}
	for _, tc := range cases {
		a, err := svc.CheckAvailability(tc.id)
		if err != nil {
			t.Fatal(err)
		}
		if a.Status != tc.status || a.Qty != tc.qty {
			t.Fatalf("%s: want %s(%d), got %+v", tc.id, tc.status, tc.qty, a)
		}
	}
}
