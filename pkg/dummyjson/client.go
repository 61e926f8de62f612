package dummyjson

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/pricewise/pricewise-api/internal/models"
)

const (
	// DefaultBaseURL is the public DummyJSON API.
	DefaultBaseURL = "https://dummyjson.com"

	// DefaultLimit is the page size used when none is given.
	DefaultLimit = 30
)

// ErrNotFound is returned when the catalog has no product with the given id.
var ErrNotFound = errors.New("dummyjson: product not found")

// Config configures a Client.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Debug   bool
}

// Client is a minimal HTTP client for the DummyJSON product catalog.
type Client struct {
	httpClient *http.Client
	baseURL    string
	debug      bool
}

// NewClient constructs a Client with sane defaults.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		debug:      cfg.Debug,
	}
}

// ListProducts returns one page of the catalog.
func (c *Client) ListProducts(ctx context.Context, limit, skip int) (*models.ProductPage, error) {
	var page models.ProductPage
	if err := c.get(ctx, "/products", pageQuery(limit, skip), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// SearchProducts runs a free-text search.
func (c *Client) SearchProducts(ctx context.Context, query string, limit, skip int) (*models.ProductPage, error) {
	q := pageQuery(limit, skip)
	q.Set("q", query)

	var page models.ProductPage
	if err := c.get(ctx, "/products/search", q, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// ProductsByCategory returns one page of a category.
func (c *Client) ProductsByCategory(ctx context.Context, category string, limit, skip int) (*models.ProductPage, error) {
	var page models.ProductPage
	if err := c.get(ctx, "/products/category/"+url.PathEscape(category), pageQuery(limit, skip), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetProduct fetches a single product.
func (c *Client) GetProduct(ctx context.Context, id int) (*models.Product, error) {
	var p models.Product
	if err := c.get(ctx, "/products/"+strconv.Itoa(id), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func pageQuery(limit, skip int) url.Values {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if skip < 0 {
		skip = 0
	}
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("skip", strconv.Itoa(skip))
	return q
}

// get performs a GET against the catalog and decodes the JSON body into result.
func (c *Client) get(ctx context.Context, path string, query url.Values, result any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if c.debug {
		log.Debug().
			Str("endpoint", endpoint).
			Int("status_code", resp.StatusCode).
			Dur("latency", time.Since(start)).
			Msg("[CATALOG] Response")
	}

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("catalog returned status %d: %s", resp.StatusCode, truncate(body, 200))
	}

	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
