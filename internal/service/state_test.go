package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pricewise/pricewise-api/internal/models"
	"github.com/pricewise/pricewise-api/internal/storage"
)

// failingPort wraps a MemoryStore and fails Load or Save on demand.
type failingPort struct {
	*storage.MemoryStore
	failLoad bool
	failSave bool
}

var errBackend = errors.New("backend unavailable")

func (p *failingPort) Load(ctx context.Context, key string) ([]byte, error) {
	if p.failLoad {
		return nil, errBackend
	}
	return p.MemoryStore.Load(ctx, key)
}

func (p *failingPort) Save(ctx context.Context, key string, value []byte) error {
	if p.failSave {
		return errBackend
	}
	return p.MemoryStore.Save(ctx, key, value)
}

func newState(t *testing.T, port storage.Port) *State {
	t.Helper()
	st, err := LoadState(context.Background(), port)
	require.NoError(t, err)
	return st
}

func product(id int) models.Product {
	return models.Product{
		ID:        id,
		Title:     fmt.Sprintf("Product %d", id),
		Brand:     "Acme",
		Price:     float64(id) + 0.99,
		Thumbnail: fmt.Sprintf("https://cdn.example.com/%d.png", id),
	}
}

func TestFavourites_ToggleIsInvolution(t *testing.T) {
	ctx := context.Background()
	st := newState(t, storage.NewMemoryStore())

	ids, err := st.Favourites.Toggle(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, []int{7}, ids)
	assert.True(t, st.Favourites.IsFavourite(7))

	ids, err = st.Favourites.Toggle(ctx, 7)
	require.NoError(t, err)
	assert.Empty(t, ids)
	assert.False(t, st.Favourites.IsFavourite(7))
}

func TestFavourites_ParityPerID(t *testing.T) {
	ctx := context.Background()
	st := newState(t, storage.NewMemoryStore())

	toggles := []int{1, 2, 3, 2, 1, 1, 4, 2}
	counts := map[int]int{}
	for _, id := range toggles {
		_, err := st.Favourites.Toggle(ctx, id)
		require.NoError(t, err)
		counts[id]++
	}

	for id, n := range counts {
		assert.Equal(t, n%2 == 1, st.Favourites.IsFavourite(id), "id %d toggled %d times", id, n)
	}
	assert.Equal(t, []int{3, 1, 4, 2}, st.Favourites.List())
}

func TestAlerts_FirstWriteWins(t *testing.T) {
	ctx := context.Background()
	port := storage.NewMemoryStore()
	st := newState(t, port)

	_, added, err := st.Alerts.Add(ctx, 1, 50)
	require.NoError(t, err)
	assert.True(t, added)
	saves := port.Saves()

	alerts, added, err := st.Alerts.Add(ctx, 1, 60)
	require.NoError(t, err)
	assert.False(t, added)
	assert.Equal(t, []models.StoredAlert{{ProductID: 1, TargetPrice: 50}}, alerts)
	assert.Equal(t, saves, port.Saves(), "refused add must not write")
}

func TestAlerts_UpdateAndRemove(t *testing.T) {
	ctx := context.Background()
	st := newState(t, storage.NewMemoryStore())

	_, _, err := st.Alerts.Add(ctx, 1, 50)
	require.NoError(t, err)
	_, _, err = st.Alerts.Add(ctx, 2, 10)
	require.NoError(t, err)

	alerts, updated, err := st.Alerts.Update(ctx, 1, 60)
	require.NoError(t, err)
	assert.True(t, updated)
	assert.Equal(t, []models.StoredAlert{{ProductID: 1, TargetPrice: 60}, {ProductID: 2, TargetPrice: 10}}, alerts)

	_, updated, err = st.Alerts.Update(ctx, 99, 1)
	require.NoError(t, err)
	assert.False(t, updated)
	assert.False(t, st.Alerts.Has(99))

	alerts, err = st.Alerts.Remove(ctx, 1)
	require.NoError(t, err)
	assert.False(t, st.Alerts.Has(1))
	assert.True(t, st.Alerts.Has(2))
	require.Len(t, alerts, 1)
	assert.Equal(t, models.StoredAlert{ProductID: 2, TargetPrice: 10}, alerts[0])
}

func TestHistory_CapAndOrder(t *testing.T) {
	ctx := context.Background()
	st := newState(t, storage.NewMemoryStore())

	for id := 1; id <= 21; id++ {
		_, err := st.History.Add(ctx, product(id))
		require.NoError(t, err)
	}

	items := st.History.List()
	require.Len(t, items, HistoryLimit)
	assert.Equal(t, 21, items[0].ID)
	assert.Equal(t, 2, items[len(items)-1].ID, "oldest entry should have been evicted")
}

func TestHistory_ReAddMovesToFront(t *testing.T) {
	ctx := context.Background()
	st := newState(t, storage.NewMemoryStore())

	for id := 1; id <= 3; id++ {
		_, err := st.History.Add(ctx, product(id))
		require.NoError(t, err)
	}
	updated := product(1)
	updated.Price = 5

	items, err := st.History.Add(ctx, updated)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, []int{1, 3, 2}, []int{items[0].ID, items[1].ID, items[2].ID})
	assert.Equal(t, 5.0, items[0].Price)
}

func TestHistory_SnapshotFields(t *testing.T) {
	ctx := context.Background()
	st := newState(t, storage.NewMemoryStore())

	p := product(4)
	p.Brand = ""
	p.Description = "not kept"
	items, err := st.History.Add(ctx, p)
	require.NoError(t, err)

	assert.Equal(t, models.HistoryItem{
		ID:        4,
		Title:     "Product 4",
		Brand:     models.UnknownBrand,
		Price:     4.99,
		Thumbnail: "https://cdn.example.com/4.png",
	}, items[0])

	require.NoError(t, st.History.Clear(ctx))
	assert.Zero(t, st.History.Len())
}

func TestState_RoundTrip(t *testing.T) {
	ctx := context.Background()
	port := storage.NewMemoryStore()
	st := newState(t, port)

	for _, id := range []int{3, 1, 2} {
		_, err := st.Favourites.Toggle(ctx, id)
		require.NoError(t, err)
	}
	_, _, err := st.Alerts.Add(ctx, 5, 19.5)
	require.NoError(t, err)
	_, _, err = st.Alerts.Add(ctx, 6, 100)
	require.NoError(t, err)
	for id := 1; id <= 5; id++ {
		_, err := st.History.Add(ctx, product(id))
		require.NoError(t, err)
	}

	reloaded := newState(t, port)
	assert.ElementsMatch(t, st.Favourites.List(), reloaded.Favourites.List())
	assert.Equal(t, st.Alerts.List(), reloaded.Alerts.List())
	assert.Equal(t, st.History.List(), reloaded.History.List())
	assert.Equal(t, models.LoadReport{
		Favourites: models.LoadStatusLoaded,
		Alerts:     models.LoadStatusLoaded,
		History:    models.LoadStatusLoaded,
	}, reloaded.Report())
}

func TestState_StoredFormat(t *testing.T) {
	ctx := context.Background()
	port := storage.NewMemoryStore()
	st := newState(t, port)

	_, err := st.Favourites.Toggle(ctx, 12)
	require.NoError(t, err)
	_, _, err = st.Alerts.Add(ctx, 12, 9.99)
	require.NoError(t, err)

	raw, err := port.Load(ctx, FavouritesKey)
	require.NoError(t, err)
	assert.JSONEq(t, `[12]`, string(raw))

	raw, err = port.Load(ctx, AlertsKey)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"productId":12,"targetPrice":9.99}]`, string(raw))
}

func TestState_LoadStatuses(t *testing.T) {
	ctx := context.Background()
	port := storage.NewMemoryStore()
	require.NoError(t, port.Save(ctx, FavouritesKey, []byte(`[1, 2`)))
	require.NoError(t, port.Save(ctx, AlertsKey, []byte(`{"productId":1}`)))

	history, err := json.Marshal([]models.HistoryItem{{ID: 9, Title: "Nine"}})
	require.NoError(t, err)
	require.NoError(t, port.Save(ctx, HistoryKey, history))

	st := newState(t, port)
	report := st.Report()
	assert.Equal(t, models.LoadStatusRecovered, report.Favourites)
	assert.Equal(t, models.LoadStatusRecovered, report.Alerts)
	assert.Equal(t, models.LoadStatusLoaded, report.History)
	assert.True(t, report.Favourites.UsedDefault())
	assert.False(t, report.History.UsedDefault())

	assert.Empty(t, st.Favourites.List())
	assert.Empty(t, st.Alerts.List())
	assert.Len(t, st.History.List(), 1)

	empty := newState(t, storage.NewMemoryStore())
	assert.Equal(t, models.LoadStatusEmpty, empty.Report().Favourites)
}

func TestState_NullDocumentIsEmpty(t *testing.T) {
	ctx := context.Background()
	port := storage.NewMemoryStore()
	require.NoError(t, port.Save(ctx, FavouritesKey, []byte(`null`)))

	st := newState(t, port)
	assert.NotNil(t, st.Favourites.List())
	assert.Empty(t, st.Favourites.List())
}

func TestState_BlankValueIsEmpty(t *testing.T) {
	tests := []struct {
		name string
		raw  []byte
	}{
		{"zero bytes", []byte{}},
		{"whitespace", []byte(" \n\t")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			port := storage.NewMemoryStore()
			require.NoError(t, port.Save(ctx, FavouritesKey, tt.raw))
			require.NoError(t, port.Save(ctx, AlertsKey, tt.raw))
			require.NoError(t, port.Save(ctx, HistoryKey, tt.raw))

			report := newState(t, port).Report()
			assert.Equal(t, models.LoadStatusEmpty, report.Favourites)
			assert.Equal(t, models.LoadStatusEmpty, report.Alerts)
			assert.Equal(t, models.LoadStatusEmpty, report.History)
		})
	}
}

func TestState_BackendFailures(t *testing.T) {
	ctx := context.Background()

	_, err := LoadState(ctx, &failingPort{MemoryStore: storage.NewMemoryStore(), failLoad: true})
	assert.ErrorIs(t, err, errBackend)

	port := &failingPort{MemoryStore: storage.NewMemoryStore()}
	st := newState(t, port)
	_, err = st.Favourites.Toggle(ctx, 1)
	require.NoError(t, err)

	port.failSave = true
	_, err = st.Favourites.Toggle(ctx, 2)
	assert.ErrorIs(t, err, errBackend)
	assert.Equal(t, []int{1}, st.Favourites.List(), "failed write must leave memory unchanged")

	_, err = st.History.Add(ctx, product(1))
	assert.ErrorIs(t, err, errBackend)
	assert.Zero(t, st.History.Len())
}
