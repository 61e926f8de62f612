package service

import (
	"context"

	"github.com/pricewise/pricewise-api/internal/models"
	"github.com/pricewise/pricewise-api/internal/storage"
)

// State holds the persisted collections of one profile. Each collection is
// loaded once and written through to the port on every mutation.
type State struct {
	Favourites *Favourites
	Alerts     *Alerts
	History    *History
}

// LoadState builds a State on port and loads all three collections.
// Missing or malformed stored data never fails; see Report.
func LoadState(ctx context.Context, port storage.Port) (*State, error) {
	s := &State{
		Favourites: NewFavourites(port),
		Alerts:     NewAlerts(port),
		History:    NewHistory(port),
	}
	if err := s.Favourites.load(ctx); err != nil {
		return nil, err
	}
	if err := s.Alerts.load(ctx); err != nil {
		return nil, err
	}
	if err := s.History.load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Report returns the load status of each collection.
func (s *State) Report() models.LoadReport {
	return models.LoadReport{
		Favourites: s.Favourites.Status(),
		Alerts:     s.Alerts.Status(),
		History:    s.History.Status(),
	}
}
