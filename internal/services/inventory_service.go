package services

import (
	"errors"

	"autopecas/internal/domain"
)

type InventoryService struct {
	Catalog *CatalogService
}

func NewInventoryService(catalog *CatalogService) *InventoryService {
	return &InventoryService{Catalog: catalog}
}

// CheckAvailability converts stock to IN_STOCK / LOW_STOCK / OUT_OF_STOCK.
func (s *InventoryService) CheckAvailability(productID string) (domain.Availability, error) {
	p, err := s.Catalog.Get(productID)
	if err != nil {
		// unknown products are reported as having no stock
		if errors.Is(err, ErrProductNotFound) {
			return domain.Availability{Status: "OUT_OF_STOCK", Qty: 0}, nil
		}
		return domain.Availability{}, err
	}

	status := "IN_STOCK"
	switch {
	case p.Stock <= 0:
		status = "OUT_OF_STOCK"
	case p.IsLowStock():
		status = "LOW_STOCK"
	}
	return domain.Availability{Status: status, Qty: max(p.Stock, 0)}, nil
}
