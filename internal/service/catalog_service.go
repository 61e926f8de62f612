package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/pricewise/pricewise-api/internal/models"
	"github.com/pricewise/pricewise-api/internal/utils"
	"github.com/pricewise/pricewise-api/pkg/dummyjson"
)

// resolveConcurrency bounds parallel catalog lookups when resolving lists.
const resolveConcurrency = 4

// CatalogClient is the remote product catalog.
type CatalogClient interface {
	ListProducts(ctx context.Context, limit, skip int) (*models.ProductPage, error)
	SearchProducts(ctx context.Context, query string, limit, skip int) (*models.ProductPage, error)
	ProductsByCategory(ctx context.Context, category string, limit, skip int) (*models.ProductPage, error)
	GetProduct(ctx context.Context, id int) (*models.Product, error)
}

// ProductCache caches single products. A miss is (nil, nil).
type ProductCache interface {
	Get(ctx context.Context, id int) (*models.Product, error)
	Set(ctx context.Context, p *models.Product) error
}

// CatalogService reads products from the catalog, with an optional cache
// in front of single-product lookups.
type CatalogService struct {
	client CatalogClient
	cache  ProductCache
}

// NewCatalogService constructs a CatalogService. cache may be nil.
func NewCatalogService(client CatalogClient, cache ProductCache) *CatalogService {
	return &CatalogService{client: client, cache: cache}
}

// GetProduct returns a product by id.
func (s *CatalogService) GetProduct(ctx context.Context, id int) (*models.Product, error) {
	if s.cache != nil {
		p, err := s.cache.Get(ctx, id)
		if err != nil {
			log.Warn().Err(err).Int("product_id", id).Msg("Product cache read failed")
		} else if p != nil {
			return p, nil
		}
	}

	p, err := s.client.GetProduct(ctx, id)
	if err != nil {
		return nil, catalogError(err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, p); err != nil {
			log.Warn().Err(err).Int("product_id", id).Msg("Product cache write failed")
		}
	}
	return p, nil
}

// Browse lists products. A non-empty query searches, a non-empty category
// filters, otherwise the plain catalog listing is returned.
func (s *CatalogService) Browse(ctx context.Context, query, category string, limit, skip int) (*models.ProductPage, error) {
	var (
		page *models.ProductPage
		err  error
	)
	switch {
	case strings.TrimSpace(query) != "":
		page, err = s.client.SearchProducts(ctx, strings.TrimSpace(query), limit, skip)
	case category != "":
		page, err = s.client.ProductsByCategory(ctx, category, limit, skip)
	default:
		page, err = s.client.ListProducts(ctx, limit, skip)
	}
	if err != nil {
		return nil, catalogError(err)
	}
	return page, nil
}

// GetProducts resolves ids in order. Ids the catalog does not know are
// skipped; any other failure aborts.
func (s *CatalogService) GetProducts(ctx context.Context, ids []int) ([]models.Product, error) {
	found := make([]*models.Product, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(resolveConcurrency)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			p, err := s.GetProduct(gctx, id)
			if errors.Is(err, utils.ErrProductNotFound) {
				log.Warn().Int("product_id", id).Msg("Stored product no longer in catalog")
				return nil
			}
			if err != nil {
				return err
			}
			found[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]models.Product, 0, len(ids))
	for _, p := range found {
		if p != nil {
			out = append(out, *p)
		}
	}
	return out, nil
}

func catalogError(err error) error {
	if errors.Is(err, dummyjson.ErrNotFound) {
		return utils.ErrProductNotFound
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("%w: %v", utils.ErrCatalogUnavailable, err)
}
