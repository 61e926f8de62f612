package service

import (
	"context"
	"slices"

	"github.com/pricewise/pricewise-api/internal/models"
	"github.com/pricewise/pricewise-api/internal/storage"
)

// HistoryLimit is the number of recently viewed products kept.
const HistoryLimit = 20

// History is the persisted list of recently viewed products, newest first.
type History struct {
	collection[models.HistoryItem]
}

// NewHistory creates an unloaded history store on port.
func NewHistory(port storage.Port) *History {
	h := &History{}
	h.init(port, HistoryKey)
	return h
}

// Add moves p to the front of the history, dropping any older entry with
// the same id and anything beyond HistoryLimit.
func (h *History) Add(ctx context.Context, p models.Product) ([]models.HistoryItem, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	rest := slices.DeleteFunc(h.snapshot(), func(item models.HistoryItem) bool { return item.ID == p.ID })
	next := append([]models.HistoryItem{models.SnapshotOf(p)}, rest...)
	if len(next) > HistoryLimit {
		next = next[:HistoryLimit]
	}
	if err := h.commit(ctx, next); err != nil {
		return nil, err
	}
	return h.snapshot(), nil
}

// Clear empties the history.
func (h *History) Clear(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.commit(ctx, []models.HistoryItem{})
}
