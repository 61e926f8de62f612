package service

import (
	"context"
	"slices"

	"github.com/pricewise/pricewise-api/internal/models"
	"github.com/pricewise/pricewise-api/internal/storage"
)

// Alerts is the persisted list of price-watch alerts, at most one per product.
type Alerts struct {
	collection[models.StoredAlert]
}

// NewAlerts creates an unloaded alerts store on port.
func NewAlerts(port storage.Port) *Alerts {
	a := &Alerts{}
	a.init(port, AlertsKey)
	return a
}

func (a *Alerts) index(productID int) int {
	return slices.IndexFunc(a.items, func(s models.StoredAlert) bool { return s.ProductID == productID })
}

// Add stores a new alert. When one already exists for productID nothing is
// written and the existing target price is kept; added is false.
func (a *Alerts) Add(ctx context.Context, productID int, targetPrice float64) (alerts []models.StoredAlert, added bool, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.index(productID) >= 0 {
		return a.snapshot(), false, nil
	}
	next := append(a.snapshot(), models.StoredAlert{ProductID: productID, TargetPrice: targetPrice})
	if err := a.commit(ctx, next); err != nil {
		return nil, false, err
	}
	return a.snapshot(), true, nil
}

// Remove drops every alert for productID. The list is written even when
// nothing matched.
func (a *Alerts) Remove(ctx context.Context, productID int) ([]models.StoredAlert, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	next := slices.DeleteFunc(a.snapshot(), func(s models.StoredAlert) bool { return s.ProductID == productID })
	if err := a.commit(ctx, next); err != nil {
		return nil, err
	}
	return a.snapshot(), nil
}

// Update changes the target price of an existing alert. Without one it does
// nothing and updated is false.
func (a *Alerts) Update(ctx context.Context, productID int, targetPrice float64) (alerts []models.StoredAlert, updated bool, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	i := a.index(productID)
	if i < 0 {
		return a.snapshot(), false, nil
	}
	next := a.snapshot()
	next[i].TargetPrice = targetPrice
	if err := a.commit(ctx, next); err != nil {
		return nil, false, err
	}
	return a.snapshot(), true, nil
}

// Has reports whether an alert exists for productID.
func (a *Alerts) Has(productID int) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.index(productID) >= 0
}
