package service

import "github.com/pricewise/pricewise-api/internal/models"

// AlertStatusFor classifies a watched product against its target price.
// An empty stock wins over a price drop.
func AlertStatusFor(p models.Product, targetPrice float64) models.AlertStatus {
	switch {
	case p.Stock <= 0:
		return models.AlertStatusOutOfStock
	case p.Price <= targetPrice:
		return models.AlertStatusDropped
	default:
		return models.AlertStatusMonitoring
	}
}

// ResolveAlert joins a stored alert with the live product.
func ResolveAlert(a models.StoredAlert, p models.Product) models.PriceAlert {
	return models.PriceAlert{
		ProductID:    a.ProductID,
		Title:        p.Title,
		Thumbnail:    p.Thumbnail,
		CurrentPrice: p.Price,
		TargetPrice:  a.TargetPrice,
		Stock:        p.Stock,
		Status:       AlertStatusFor(p, a.TargetPrice),
	}
}

// ResolveAlerts resolves alerts against products, keeping alert order and
// skipping alerts whose product is missing.
func ResolveAlerts(alerts []models.StoredAlert, products []models.Product) []models.PriceAlert {
	byID := make(map[int]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	out := make([]models.PriceAlert, 0, len(alerts))
	for _, a := range alerts {
		if p, ok := byID[a.ProductID]; ok {
			out = append(out, ResolveAlert(a, p))
		}
	}
	return out
}
