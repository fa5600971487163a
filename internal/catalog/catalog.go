// Package catalog owns the in-memory product list: it fetches the spreadsheet
// feed, normalizes rows into products and exposes the read side consumed by
// the storefront API.
package catalog

import (
	"context"
	"sync"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/bwmarrin/snowflake"
	"github.com/guonaihong/gout"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/paodecos/storefront/config"
	"github.com/paodecos/storefront/internal/domain"
)

// CategoryAll selects the unfiltered product list.
const CategoryAll = "all"

// Status reflects the current load state for the UI surface.
type Status struct {
	Loading  bool      `json:"loading"`
	Count    int       `json:"count"`
	Error    string    `json:"error,omitempty"`
	LoadedAt time.Time `json:"loaded_at,omitempty"`
}

type Catalog struct {
	cfg  *config.AppConfig
	bus  EventBus.Bus
	node *snowflake.Node
	sfg  singleflight.Group

	mu       sync.RWMutex
	products []domain.Product
	category string
	loading  bool
	lastErr  error
	loadedAt time.Time
}

func New(cfg *config.AppConfig, bus EventBus.Bus) (*Catalog, error) {
	node, err := snowflake.NewNode(1)
	if err != nil {
		return nil, err
	}
	return &Catalog{
		cfg:      cfg,
		bus:      bus,
		node:     node,
		category: CategoryAll,
	}, nil
}

// Load fetches the configured feed and replaces the product list in bulk.
// Concurrent callers share a single in-flight load; the feed timeout bounds
// the request so a hung fetch cannot leave the catalog loading forever. On
// failure the previous product list is kept and the error is retained for
// Status until the next successful load.
func (c *Catalog) Load(ctx context.Context) ([]domain.Product, error) {
	v, err, _ := c.sfg.Do("load", func() (interface{}, error) {
		c.setLoading(true)
		defer c.setLoading(false)

		products, err := c.loadOnce(ctx)
		if err != nil {
			c.setError(err)
			c.bus.Publish(domain.EventCatalogError, err)
			zap.L().Warn("catalog: load failed", zap.Error(err))
			return nil, err
		}
		c.replace(products)
		c.bus.Publish(domain.EventCatalogLoaded, len(products))
		zap.L().Info("catalog: loaded products", zap.Int("count", len(products)),
			zap.String("format", c.cfg.Feed.Format))
		return products, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Product), nil
}

func (c *Catalog) loadOnce(ctx context.Context) ([]domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(c.cfg.Feed.Timeout)*time.Second)
	defer cancel()

	body, err := c.fetch(ctx)
	if err != nil {
		return nil, err
	}

	var rows []map[string]string
	switch c.cfg.Feed.Format {
	case "csv":
		rows, err = parseCSVRows(body)
	default:
		rows, err = parseJSONRows(body)
	}
	if err != nil {
		return nil, err
	}

	products := make([]domain.Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, c.productFromRow(row))
	}
	return products, nil
}

func (c *Catalog) fetch(ctx context.Context) ([]byte, error) {
	var (
		code int
		body []byte
	)
	err := gout.GET(c.cfg.Feed.URL).
		WithContext(ctx).
		Code(&code).
		BindBody(&body).
		Do()
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	if code < 200 || code > 299 {
		return nil, &HTTPError{Status: code}
	}
	return body, nil
}

func (c *Catalog) setLoading(v bool) {
	c.mu.Lock()
	c.loading = v
	c.mu.Unlock()
}

func (c *Catalog) setError(err error) {
	c.mu.Lock()
	c.lastErr = err
	c.mu.Unlock()
}

func (c *Catalog) replace(products []domain.Product) {
	c.mu.Lock()
	c.products = products
	c.lastErr = nil
	c.loadedAt = time.Now()
	c.mu.Unlock()
}

// Products returns the full list in feed row order.
func (c *Catalog) Products() []domain.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.Product, len(c.products))
	copy(out, c.products)
	return out
}

// Product looks a product up by id. It reports false while the catalog is
// empty or loading, so cart mutations against absent product data are refused
// upstream.
func (c *Catalog) Product(id string) (domain.Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.loading {
		return domain.Product{}, false
	}
	for _, p := range c.products {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Product{}, false
}

// Categories returns the distinct categories in feed order, "all" first.
func (c *Catalog) Categories() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	seen := map[string]bool{}
	out := []string{CategoryAll}
	for _, p := range c.products {
		if !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	return out
}

// SetCategory switches the active category filter. Unknown values are kept
// as-is; filtering simply yields no products then.
func (c *Catalog) SetCategory(category string) {
	if category == "" {
		category = CategoryAll
	}
	c.mu.Lock()
	c.category = category
	c.mu.Unlock()
}

// Category returns the active category filter.
func (c *Catalog) Category() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.category
}

// Filtered returns the products matching the active category filter.
func (c *Catalog) Filtered() []domain.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.category == CategoryAll {
		out := make([]domain.Product, len(c.products))
		copy(out, c.products)
		return out
	}
	out := make([]domain.Product, 0)
	for _, p := range c.products {
		if p.Category == c.category {
			out = append(out, p)
		}
	}
	return out
}

// Status reports the load state for the UI surface.
func (c *Catalog) Status() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	st := Status{
		Loading:  c.loading,
		Count:    len(c.products),
		LoadedAt: c.loadedAt,
	}
	if c.lastErr != nil {
		st.Error = c.lastErr.Error()
	}
	return st
}
