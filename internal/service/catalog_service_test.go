package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pricewise/pricewise-api/internal/models"
	"github.com/pricewise/pricewise-api/internal/utils"
	"github.com/pricewise/pricewise-api/pkg/dummyjson"
)

// fakeCatalog serves products from a map and records calls.
type fakeCatalog struct {
	mu       sync.Mutex
	products map[int]models.Product
	fail     error
	gets     int
	lastCall string
}

func newFakeCatalog(products ...models.Product) *fakeCatalog {
	f := &fakeCatalog{products: map[int]models.Product{}}
	for _, p := range products {
		f.products[p.ID] = p
	}
	return f
}

func (f *fakeCatalog) page(call string) (*models.ProductPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastCall = call
	if f.fail != nil {
		return nil, f.fail
	}
	out := &models.ProductPage{Total: len(f.products)}
	for id := 1; len(out.Products) < len(f.products); id++ {
		if p, ok := f.products[id]; ok {
			out.Products = append(out.Products, p)
		}
	}
	return out, nil
}

func (f *fakeCatalog) ListProducts(_ context.Context, _, _ int) (*models.ProductPage, error) {
	return f.page("list")
}

func (f *fakeCatalog) SearchProducts(_ context.Context, q string, _, _ int) (*models.ProductPage, error) {
	return f.page("search:" + q)
}

func (f *fakeCatalog) ProductsByCategory(_ context.Context, c string, _, _ int) (*models.ProductPage, error) {
	return f.page("category:" + c)
}

func (f *fakeCatalog) GetProduct(_ context.Context, id int) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	if f.fail != nil {
		return nil, f.fail
	}
	p, ok := f.products[id]
	if !ok {
		return nil, dummyjson.ErrNotFound
	}
	return &p, nil
}

// mapCache is an in-memory ProductCache.
type mapCache struct {
	mu   sync.Mutex
	data map[int]models.Product
}

func (m *mapCache) Get(_ context.Context, id int) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.data[id]; ok {
		return &p, nil
	}
	return nil, nil
}

func (m *mapCache) Set(_ context.Context, p *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[p.ID] = *p
	return nil
}

func TestCatalogService_GetProductUsesCache(t *testing.T) {
	ctx := context.Background()
	client := newFakeCatalog(product(1))
	svc := NewCatalogService(client, &mapCache{data: map[int]models.Product{}})

	for i := 0; i < 3; i++ {
		p, err := svc.GetProduct(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "Product 1", p.Title)
	}
	assert.Equal(t, 1, client.gets)
}

func TestCatalogService_Errors(t *testing.T) {
	ctx := context.Background()
	client := newFakeCatalog()
	svc := NewCatalogService(client, nil)

	_, err := svc.GetProduct(ctx, 9)
	assert.ErrorIs(t, err, utils.ErrProductNotFound)

	client.fail = errors.New("connection refused")
	_, err = svc.GetProduct(ctx, 9)
	assert.ErrorIs(t, err, utils.ErrCatalogUnavailable)

	_, err = svc.Browse(ctx, "", "", 10, 0)
	assert.ErrorIs(t, err, utils.ErrCatalogUnavailable)
}

func TestCatalogService_BrowseRouting(t *testing.T) {
	ctx := context.Background()
	client := newFakeCatalog(product(1), product(2))
	svc := NewCatalogService(client, nil)

	_, err := svc.Browse(ctx, "  phone ", "laptops", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, "search:phone", client.lastCall)

	_, err = svc.Browse(ctx, "", "laptops", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, "category:laptops", client.lastCall)

	page, err := svc.Browse(ctx, " ", "", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, "list", client.lastCall)
	assert.Len(t, page.Products, 2)
}

func TestCatalogService_GetProductsKeepsOrderAndSkipsMissing(t *testing.T) {
	ctx := context.Background()
	svc := NewCatalogService(newFakeCatalog(product(1), product(2), product(3)), nil)

	products, err := svc.GetProducts(ctx, []int{3, 42, 1, 2})
	require.NoError(t, err)
	require.Len(t, products, 3)
	assert.Equal(t, []int{3, 1, 2}, []int{products[0].ID, products[1].ID, products[2].ID})
}

func TestDealService(t *testing.T) {
	ctx := context.Background()
	svc := NewDealService(NewCatalogService(newFakeCatalog(
		models.Product{ID: 1, Price: 100, DiscountPercentage: 20},
		models.Product{ID: 2, Price: 10},
	), nil))

	d, err := svc.Compare(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, models.SiteB, d.Deal.BestSite)
	assert.Equal(t, 85.99, d.Deal.SiteB.FinalPrice)

	deals, page, err := svc.Browse(ctx, "", "", 30, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	require.Len(t, deals, 2)
	assert.Equal(t, models.SiteA, deals[1].Deal.BestSite)
}
