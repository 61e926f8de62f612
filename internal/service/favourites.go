package service

import (
	"context"
	"slices"

	"github.com/pricewise/pricewise-api/internal/storage"
)

// Favourites is the persisted set of favourite product ids.
type Favourites struct {
	collection[int]
}

// NewFavourites creates an unloaded favourites store on port.
func NewFavourites(port storage.Port) *Favourites {
	f := &Favourites{}
	f.init(port, FavouritesKey)
	return f
}

// Toggle removes id when present and appends it otherwise.
func (f *Favourites) Toggle(ctx context.Context, id int) ([]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	next := f.snapshot()
	if i := slices.Index(next, id); i >= 0 {
		next = slices.Delete(next, i, i+1)
	} else {
		next = append(next, id)
	}
	if err := f.commit(ctx, next); err != nil {
		return nil, err
	}
	return f.snapshot(), nil
}

// IsFavourite reports whether id is a favourite.
func (f *Favourites) IsFavourite(id int) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return slices.Contains(f.items, id)
}
