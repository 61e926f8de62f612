package service

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/pricewise/pricewise-api/internal/storage"
)

// Registry owns one State per profile, each stored in its own key namespace
// of a shared backend. States are loaded on first use and then cached.
type Registry struct {
	port  storage.Port
	loads singleflight.Group

	mu     sync.RWMutex
	states map[string]*State
}

// NewRegistry creates a Registry over port.
func NewRegistry(port storage.Port) *Registry {
	return &Registry{
		port:   port,
		states: make(map[string]*State),
	}
}

// Create allocates a new profile id and loads its (empty) state.
func (r *Registry) Create(ctx context.Context) (string, *State, error) {
	id := uuid.New().String()
	st, err := r.Get(ctx, id)
	if err != nil {
		return "", nil, err
	}
	return id, st, nil
}

// Get returns the state of profile id, loading it on first use. Concurrent
// first calls for the same id share one backend load, and loads never block
// callers of other profiles.
func (r *Registry) Get(ctx context.Context, id string) (*State, error) {
	if st, ok := r.cached(id); ok {
		return st, nil
	}

	v, err, _ := r.loads.Do(id, func() (any, error) {
		if st, ok := r.cached(id); ok {
			return st, nil
		}
		st, err := LoadState(context.WithoutCancel(ctx), storage.Namespace(r.port, storage.ProfileNamespace(id)))
		if err != nil {
			return nil, fmt.Errorf("failed to load profile %s: %w", id, err)
		}

		r.mu.Lock()
		r.states[id] = st
		r.mu.Unlock()

		report := st.Report()
		log.Debug().
			Str("profile_id", id).
			Str("favourites", string(report.Favourites)).
			Str("alerts", string(report.Alerts)).
			Str("history", string(report.History)).
			Msg("Profile state loaded")
		return st, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*State), nil
}

func (r *Registry) cached(id string) (*State, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	st, ok := r.states[id]
	return st, ok
}

// Loaded returns the ids of profiles whose state is in memory.
func (r *Registry) Loaded() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.states))
	for id := range r.states {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
