package service

import (
	"context"
	"slices"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/pricewise/pricewise-api/internal/models"
	"github.com/pricewise/pricewise-api/internal/utils"
)

// ProfileService exposes the persisted lists of a profile, resolving stored
// product ids against the catalog where a view needs product data.
type ProfileService struct {
	registry *Registry
	catalog  *CatalogService
}

// NewProfileService constructs a ProfileService.
func NewProfileService(registry *Registry, catalog *CatalogService) *ProfileService {
	return &ProfileService{registry: registry, catalog: catalog}
}

// ProfileToken is returned when a profile is created.
type ProfileToken struct {
	ProfileID string    `json:"profileId"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Create allocates a profile and signs a token for it.
func (s *ProfileService) Create(ctx context.Context) (*ProfileToken, error) {
	id, _, err := s.registry.Create(ctx)
	if err != nil {
		return nil, err
	}
	token, exp, err := utils.GenerateJWT(id)
	if err != nil {
		return nil, err
	}
	log.Info().Str("profile_id", id).Msg("Profile created")
	return &ProfileToken{ProfileID: id, Token: token, ExpiresAt: exp}, nil
}

// LoadedProfiles returns the profiles active since startup.
func (s *ProfileService) LoadedProfiles() []string {
	return s.registry.Loaded()
}

// Summary returns the account view of a profile.
func (s *ProfileService) Summary(ctx context.Context, profileID string) (*models.ProfileSummary, error) {
	st, err := s.registry.Get(ctx, profileID)
	if err != nil {
		return nil, err
	}
	return &models.ProfileSummary{
		ProfileID:      profileID,
		FavouriteCount: st.Favourites.Len(),
		AlertCount:     st.Alerts.Len(),
		HistoryCount:   st.History.Len(),
		Load:           st.Report(),
	}, nil
}

// FavouritesView is the favourites page: the stored ids and the products
// the catalog still knows, each with its deal.
type FavouritesView struct {
	IDs      []int                `json:"ids"`
	Products []models.ProductDeal `json:"products"`
}

// Favourites returns the favourites view.
func (s *ProfileService) Favourites(ctx context.Context, profileID string) (*FavouritesView, error) {
	st, err := s.registry.Get(ctx, profileID)
	if err != nil {
		return nil, err
	}
	ids := st.Favourites.List()
	products, err := s.catalog.GetProducts(ctx, ids)
	if err != nil {
		return nil, err
	}
	return &FavouritesView{IDs: ids, Products: WithDeals(products)}, nil
}

// ToggleFavourite flips membership of productID and reports the new membership.
func (s *ProfileService) ToggleFavourite(ctx context.Context, profileID string, productID int) ([]int, bool, error) {
	st, err := s.registry.Get(ctx, profileID)
	if err != nil {
		return nil, false, err
	}
	ids, err := st.Favourites.Toggle(ctx, productID)
	if err != nil {
		return nil, false, err
	}
	return ids, slices.Contains(ids, productID), nil
}

// IsFavourite reports whether productID is a favourite of the profile.
func (s *ProfileService) IsFavourite(ctx context.Context, profileID string, productID int) (bool, error) {
	st, err := s.registry.Get(ctx, profileID)
	if err != nil {
		return false, err
	}
	return st.Favourites.IsFavourite(productID), nil
}

// Alerts resolves the profile's alerts against the catalog.
func (s *ProfileService) Alerts(ctx context.Context, profileID string) ([]models.PriceAlert, error) {
	st, err := s.registry.Get(ctx, profileID)
	if err != nil {
		return nil, err
	}
	stored := st.Alerts.List()
	ids := make([]int, 0, len(stored))
	for _, a := range stored {
		ids = append(ids, a.ProductID)
	}
	products, err := s.catalog.GetProducts(ctx, ids)
	if err != nil {
		return nil, err
	}
	return ResolveAlerts(stored, products), nil
}

// AddAlert creates an alert. An existing alert keeps its target price and
// added is false.
func (s *ProfileService) AddAlert(ctx context.Context, profileID string, productID int, targetPrice float64) ([]models.StoredAlert, bool, error) {
	if targetPrice <= 0 {
		return nil, false, utils.ErrInvalidTargetPrice
	}
	st, err := s.registry.Get(ctx, profileID)
	if err != nil {
		return nil, false, err
	}
	return st.Alerts.Add(ctx, productID, targetPrice)
}

// UpdateAlert changes the target price of an existing alert.
func (s *ProfileService) UpdateAlert(ctx context.Context, profileID string, productID int, targetPrice float64) ([]models.StoredAlert, error) {
	if targetPrice <= 0 {
		return nil, utils.ErrInvalidTargetPrice
	}
	st, err := s.registry.Get(ctx, profileID)
	if err != nil {
		return nil, err
	}
	alerts, updated, err := st.Alerts.Update(ctx, productID, targetPrice)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, utils.ErrAlertNotFound
	}
	return alerts, nil
}

// RemoveAlert drops the alert for productID.
func (s *ProfileService) RemoveAlert(ctx context.Context, profileID string, productID int) ([]models.StoredAlert, error) {
	st, err := s.registry.Get(ctx, profileID)
	if err != nil {
		return nil, err
	}
	return st.Alerts.Remove(ctx, productID)
}

// History returns recently viewed products, newest first.
func (s *ProfileService) History(ctx context.Context, profileID string) ([]models.HistoryItem, error) {
	st, err := s.registry.Get(ctx, profileID)
	if err != nil {
		return nil, err
	}
	return st.History.List(), nil
}

// RecordView adds p to the front of the profile's history.
func (s *ProfileService) RecordView(ctx context.Context, profileID string, p models.Product) ([]models.HistoryItem, error) {
	st, err := s.registry.Get(ctx, profileID)
	if err != nil {
		return nil, err
	}
	return st.History.Add(ctx, p)
}

// ClearHistory empties the profile's history.
func (s *ProfileService) ClearHistory(ctx context.Context, profileID string) error {
	st, err := s.registry.Get(ctx, profileID)
	if err != nil {
		return err
	}
	return st.History.Clear(ctx)
}
