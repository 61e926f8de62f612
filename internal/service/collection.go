package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/pricewise/pricewise-api/internal/models"
	"github.com/pricewise/pricewise-api/internal/storage"
)

// Storage keys of the persisted collections.
const (
	FavouritesKey = "pricewise_favourites"
	AlertsKey     = "pricewise_alerts"
	HistoryKey    = "pricewise_history"
)

// collection is a write-through list persisted as one JSON array under key.
// Callers hold mu around reads and mutations.
type collection[T any] struct {
	mu     sync.RWMutex
	port   storage.Port
	key    string
	items  []T
	status models.LoadStatus
}

func (c *collection[T]) init(port storage.Port, key string) {
	c.port = port
	c.key = key
	c.items = []T{}
	c.status = models.LoadStatusEmpty
}

// load reads the stored array. A missing key, a blank value or malformed
// content leaves the collection empty; only backend failures are returned.
func (c *collection[T]) load(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = []T{}
	raw, err := c.port.Load(ctx, c.key)
	if errors.Is(err, storage.ErrNotFound) {
		c.status = models.LoadStatusEmpty
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", c.key, err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		c.status = models.LoadStatusEmpty
		return nil
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		log.Warn().Err(err).Str("key", c.key).Msg("Discarding malformed stored collection")
		c.status = models.LoadStatusRecovered
		return nil
	}
	if items != nil {
		c.items = items
	}
	c.status = models.LoadStatusLoaded
	return nil
}

// snapshot returns a copy of the current items. Callers hold at least a read lock.
func (c *collection[T]) snapshot() []T {
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// commit persists next and, only once the write succeeded, makes it the
// current state. Callers hold the write lock.
func (c *collection[T]) commit(ctx context.Context, next []T) error {
	raw, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", c.key, err)
	}
	if err := c.port.Save(ctx, c.key, raw); err != nil {
		return fmt.Errorf("failed to save %s: %w", c.key, err)
	}
	c.items = next
	return nil
}

// Status reports how the collection was initialised.
func (c *collection[T]) Status() models.LoadStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.status
}

// Len returns the number of items.
func (c *collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// List returns a copy of the items in stored order.
func (c *collection[T]) List() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshot()
}
