package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pricewise/pricewise-api/internal/middleware"
	"github.com/pricewise/pricewise-api/internal/models"
	"github.com/pricewise/pricewise-api/internal/service"
	"github.com/pricewise/pricewise-api/internal/sse"
	"github.com/pricewise/pricewise-api/internal/storage"
	"github.com/pricewise/pricewise-api/internal/utils"
	"github.com/pricewise/pricewise-api/pkg/dummyjson"
)

var catalogProducts = map[int]models.Product{
	1: {ID: 1, Title: "Phone", Brand: "Acme", Price: 100, DiscountPercentage: 20, Stock: 5, Category: "smartphones"},
	2: {ID: 2, Title: "Socks", Price: 10, Stock: 0, Category: "clothing"},
	3: {ID: 3, Title: "Lamp", Price: 40, Stock: 3, Category: "home"},
}

// newCatalogServer serves the catalog endpoints the client uses.
func newCatalogServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/products")
		w.Header().Set("Content-Type", "application/json")
		switch {
		case path == "" || path == "/search" || strings.HasPrefix(path, "/category/"):
			page := models.ProductPage{Limit: 30}
			for id := 1; id <= len(catalogProducts); id++ {
				p := catalogProducts[id]
				if q := r.URL.Query().Get("q"); q != "" && !strings.Contains(strings.ToLower(p.Title), q) {
					continue
				}
				if c, ok := strings.CutPrefix(path, "/category/"); ok && p.Category != c {
					continue
				}
				page.Products = append(page.Products, p)
			}
			page.Total = len(page.Products)
			_ = json.NewEncoder(w).Encode(page)
		default:
			id, _ := strconv.Atoi(strings.TrimPrefix(path, "/"))
			p, ok := catalogProducts[id]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				_, _ = w.Write([]byte(`{"message":"not found"}`))
				return
			}
			_ = json.NewEncoder(w).Encode(p)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

type testEnv struct {
	router *gin.Engine
	store  *storage.MemoryStore
}

func newTestEnv(t *testing.T, checks map[string]HealthCheck) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	utils.InitJWT("handler-secret", time.Hour)

	catalog := service.NewCatalogService(dummyjson.NewClient(dummyjson.Config{BaseURL: newCatalogServer(t).URL}), nil)
	deals := service.NewDealService(catalog)
	store := storage.NewMemoryStore()
	profiles := service.NewProfileService(service.NewRegistry(store), catalog)

	h := &Handlers{
		Health:    NewHealthHandler("memory", checks),
		Profile:   NewProfileHandler(profiles),
		Product:   NewProductHandler(deals, profiles),
		Deal:      NewDealHandler(deals),
		Favourite: NewFavouriteHandler(profiles),
		Alert:     NewAlertHandler(profiles),
		History:   NewHistoryHandler(profiles),
		SSE:       NewSSEHandler(sse.NewHub()),
		WS:        NewWSHandler(NewMelody()),
	}
	r := gin.New()
	r.Use(middleware.LoggingMiddleware())
	SetupRoutes(r, h, middleware.NewJWTMiddleware(nil))
	return &testEnv{router: r, store: store}
}

type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code string `json:"code"`
	} `json:"error"`
	Meta struct {
		RequestID  string            `json:"requestId"`
		Pagination *utils.Pagination `json:"pagination"`
	} `json:"meta"`
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func (e *testEnv) profile(t *testing.T) string {
	t.Helper()
	code, env := e.do(t, http.MethodPost, "/v1/profiles", "", nil)
	require.Equal(t, http.StatusCreated, code)
	var tok service.ProfileToken
	require.NoError(t, json.Unmarshal(env.Data, &tok))
	require.NotEmpty(t, tok.Token)
	return tok.Token
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, map[string]HealthCheck{"redis": func(context.Context) error { return nil }})
	code, resp := env.do(t, http.MethodGet, "/v1/health", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(resp.Data), `"healthy"`)

	env = newTestEnv(t, map[string]HealthCheck{"redis": func(context.Context) error { return errors.New("down") }})
	code, resp = env.do(t, http.MethodGet, "/v1/health", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Contains(t, string(resp.Data), `"degraded"`)
}

func TestProducts_ListWithDeals(t *testing.T) {
	env := newTestEnv(t, nil)

	code, resp := env.do(t, http.MethodGet, "/v1/products?limit=500&skip=0", "", nil)
	require.Equal(t, http.StatusOK, code)
	body := decode[struct {
		Products []models.ProductDeal `json:"products"`
	}](t, resp.Data)
	require.Len(t, body.Products, 3)
	assert.Equal(t, models.SiteB, body.Products[0].Deal.BestSite)
	assert.Equal(t, models.SiteA, body.Products[1].Deal.BestSite)
	require.NotNil(t, resp.Meta.Pagination)
	assert.Equal(t, 100, resp.Meta.Pagination.Limit)
	assert.Equal(t, 3, resp.Meta.Pagination.TotalItems)

	_, resp = env.do(t, http.MethodGet, "/v1/products?q=lamp", "", nil)
	body = decode[struct {
		Products []models.ProductDeal `json:"products"`
	}](t, resp.Data)
	require.Len(t, body.Products, 1)
	assert.Equal(t, 3, body.Products[0].Product.ID)
}

func TestProduct_GetRecordsHistoryWhenAuthenticated(t *testing.T) {
	env := newTestEnv(t, nil)
	token := env.profile(t)

	code, _ := env.do(t, http.MethodGet, "/v1/products/1", "", nil)
	assert.Equal(t, http.StatusOK, code)

	code, resp := env.do(t, http.MethodGet, "/v1/products/1", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(resp.Data), `"isFavourite":false`)

	_, resp = env.do(t, http.MethodGet, "/v1/me/history", token, nil)
	hist := decode[struct {
		History []models.HistoryItem `json:"history"`
	}](t, resp.Data)
	require.Len(t, hist.History, 1)
	assert.Equal(t, "Phone", hist.History[0].Title)

	code, resp = env.do(t, http.MethodGet, "/v1/products/99", "", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "PRODUCT_NOT_FOUND", resp.Error.Code)

	code, resp = env.do(t, http.MethodGet, "/v1/products/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "INVALID_PRODUCT_ID", resp.Error.Code)

	code, _ = env.do(t, http.MethodGet, "/v1/products/1", "bad-token", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestDeals(t *testing.T) {
	env := newTestEnv(t, nil)

	code, resp := env.do(t, http.MethodGet, "/v1/deals/1", "", nil)
	require.Equal(t, http.StatusOK, code)
	deal := decode[models.DealComparison](t, resp.Data)
	assert.Equal(t, 85.99, deal.SiteB.FinalPrice)
	assert.True(t, deal.SiteB.IsBestDeal)

	code, resp = env.do(t, http.MethodPost, "/v1/deals/evaluate", "", gin.H{"price": 10, "discountPercentage": 0})
	require.Equal(t, http.StatusOK, code)
	deal = decode[models.DealComparison](t, resp.Data)
	assert.Equal(t, models.SiteA, deal.BestSite)

	code, _ = env.do(t, http.MethodPost, "/v1/deals/evaluate", "", gin.H{"discountPercentage": 5})
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = env.do(t, http.MethodPost, "/v1/deals/evaluate", "", gin.H{"price": 5, "discountPercentage": 150})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestMe_RequiresToken(t *testing.T) {
	env := newTestEnv(t, nil)
	code, resp := env.do(t, http.MethodGet, "/v1/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.False(t, resp.Success)
}

func TestFavourites(t *testing.T) {
	env := newTestEnv(t, nil)
	token := env.profile(t)

	code, resp := env.do(t, http.MethodPost, "/v1/me/favourites/3/toggle", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(resp.Data), `"isFavourite":true`)
	env.do(t, http.MethodPost, "/v1/me/favourites/42/toggle", token, nil)

	_, resp = env.do(t, http.MethodGet, "/v1/me/favourites", token, nil)
	view := decode[service.FavouritesView](t, resp.Data)
	assert.Equal(t, []int{3, 42}, view.IDs)
	require.Len(t, view.Products, 1)
	assert.Equal(t, "Lamp", view.Products[0].Product.Title)

	_, resp = env.do(t, http.MethodPost, "/v1/me/favourites/3/toggle", token, nil)
	assert.Contains(t, string(resp.Data), `"isFavourite":false`)

	_, resp = env.do(t, http.MethodGet, "/v1/me", token, nil)
	sum := decode[models.ProfileSummary](t, resp.Data)
	assert.Equal(t, 1, sum.FavouriteCount)
}

func TestAlerts(t *testing.T) {
	env := newTestEnv(t, nil)
	token := env.profile(t)

	code, resp := env.do(t, http.MethodPost, "/v1/me/alerts", token, gin.H{"productId": 1, "targetPrice": 120})
	require.Equal(t, http.StatusCreated, code)
	code, _ = env.do(t, http.MethodPost, "/v1/me/alerts", token, gin.H{"productId": 1, "targetPrice": 50})
	assert.Equal(t, http.StatusOK, code, "existing alert is kept")
	code, resp = env.do(t, http.MethodPost, "/v1/me/alerts", token, gin.H{"productId": 3, "targetPrice": 0})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "INVALID_TARGET_PRICE", resp.Error.Code)
	env.do(t, http.MethodPost, "/v1/me/alerts", token, gin.H{"productId": 2, "targetPrice": 5})

	_, resp = env.do(t, http.MethodGet, "/v1/me/alerts", token, nil)
	list := decode[struct {
		Alerts []models.PriceAlert `json:"alerts"`
	}](t, resp.Data)
	require.Len(t, list.Alerts, 2)
	assert.Equal(t, 120.0, list.Alerts[0].TargetPrice)
	assert.Equal(t, models.AlertStatusDropped, list.Alerts[0].Status)
	assert.Equal(t, models.AlertStatusOutOfStock, list.Alerts[1].Status)

	code, _ = env.do(t, http.MethodPut, "/v1/me/alerts/1", token, gin.H{"targetPrice": 80})
	assert.Equal(t, http.StatusOK, code)
	code, resp = env.do(t, http.MethodPut, "/v1/me/alerts/3", token, gin.H{"targetPrice": 80})
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "ALERT_NOT_FOUND", resp.Error.Code)

	_, resp = env.do(t, http.MethodGet, "/v1/me/alerts", token, nil)
	list = decode[struct {
		Alerts []models.PriceAlert `json:"alerts"`
	}](t, resp.Data)
	assert.Equal(t, models.AlertStatusMonitoring, list.Alerts[0].Status)

	code, resp = env.do(t, http.MethodDelete, "/v1/me/alerts/1", token, nil)
	require.Equal(t, http.StatusOK, code)
	stored := decode[struct {
		Alerts []models.StoredAlert `json:"alerts"`
	}](t, resp.Data)
	assert.Equal(t, []models.StoredAlert{{ProductID: 2, TargetPrice: 5}}, stored.Alerts)
}

func TestHistory(t *testing.T) {
	env := newTestEnv(t, nil)
	token := env.profile(t)

	code, _ := env.do(t, http.MethodPost, "/v1/me/history", token, gin.H{"id": 7, "title": "Posted", "price": 3.5})
	require.Equal(t, http.StatusOK, code)
	code, _ = env.do(t, http.MethodPost, "/v1/me/history", token, gin.H{"title": "No id"})
	assert.Equal(t, http.StatusBadRequest, code)

	_, resp := env.do(t, http.MethodGet, "/v1/me/history", token, nil)
	hist := decode[struct {
		History []models.HistoryItem `json:"history"`
	}](t, resp.Data)
	require.Len(t, hist.History, 1)
	assert.Equal(t, models.UnknownBrand, hist.History[0].Brand)

	code, _ = env.do(t, http.MethodDelete, "/v1/me/history", token, nil)
	assert.Equal(t, http.StatusOK, code)
	_, resp = env.do(t, http.MethodGet, "/v1/me/history", token, nil)
	assert.JSONEq(t, `{"history":[]}`, string(resp.Data))
}

func TestProfilesAreIsolated(t *testing.T) {
	env := newTestEnv(t, nil)
	a, b := env.profile(t), env.profile(t)

	env.do(t, http.MethodPost, "/v1/me/favourites/1/toggle", a, nil)

	_, resp := env.do(t, http.MethodGet, "/v1/me/favourites", b, nil)
	view := decode[service.FavouritesView](t, resp.Data)
	assert.Empty(t, view.IDs)
	assert.Greater(t, env.store.Saves(), 0)
}
