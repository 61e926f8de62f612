package service

import (
	"context"

	"github.com/pricewise/pricewise-api/internal/models"
)

// DealService attaches seller comparisons to catalog products.
type DealService struct {
	catalog *CatalogService
}

// NewDealService constructs a DealService.
func NewDealService(catalog *CatalogService) *DealService {
	return &DealService{catalog: catalog}
}

// Compare fetches a product and evaluates its deal.
func (s *DealService) Compare(ctx context.Context, productID int) (*models.ProductDeal, error) {
	p, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return &models.ProductDeal{Product: *p, Deal: EvaluateDeal(*p)}, nil
}

// Browse returns a page of products, each with its deal, and the catalog total.
func (s *DealService) Browse(ctx context.Context, query, category string, limit, skip int) ([]models.ProductDeal, *models.ProductPage, error) {
	page, err := s.catalog.Browse(ctx, query, category, limit, skip)
	if err != nil {
		return nil, nil, err
	}
	return WithDeals(page.Products), page, nil
}

// WithDeals evaluates the deal of every product.
func WithDeals(products []models.Product) []models.ProductDeal {
	out := make([]models.ProductDeal, 0, len(products))
	for _, p := range products {
		out = append(out, models.ProductDeal{Product: p, Deal: EvaluateDeal(p)})
	}
	return out
}
