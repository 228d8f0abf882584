package grid

import (
	"context"
	"errors"
	"sync"

	"github.com/ariefcatur/go-storefront/internal/catalog"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const DefaultPageSize = 12

// ErrStale is returned by Load when a newer load started before this one finished.
// Its result was discarded.
var ErrStale = errors.New("grid: superseded by a newer load")

// Fetcher is the part of the catalog client the grid needs.
type Fetcher interface {
	FetchPage(ctx context.Context, q catalog.Query) (*catalog.Page, error)
	Categories(ctx context.Context) ([]catalog.Category, error)
}

// Controller owns one grid's filters and the last result applied to them.
type Controller struct {
	fetcher  Fetcher
	pageSize int
	log      logrus.FieldLogger

	mu         sync.Mutex
	filters    Filters
	generation uint64
	loading    bool
	page       *catalog.Page
	categories []catalog.Category
}

func NewController(f Fetcher, pageSize int, filters Filters, log logrus.FieldLogger) *Controller {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if filters.Page < 1 {
		filters.Page = 1
	}
	return &Controller{fetcher: f, pageSize: pageSize, filters: filters, log: log}
}

func (c *Controller) Filters() Filters {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filters
}

// Set replaces the filters, typically with a With* transition of Filters(). The caller
// issues the next Load.
func (c *Controller) Set(f Filters) {
	c.mu.Lock()
	c.filters = f
	c.mu.Unlock()
}

// Load fetches the current filters' page and the category list in parallel. A category
// failure leaves the list empty. A product failure clears the result and is returned.
// When another Load begins before this one completes, this result is dropped and
// ErrStale is returned alongside the newer view.
func (c *Controller) Load(ctx context.Context) (View, error) {
	c.mu.Lock()
	c.generation++
	gen := c.generation
	filters := c.filters
	c.loading = true
	c.mu.Unlock()

	var (
		page       *catalog.Page
		categories []catalog.Category
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := c.fetcher.FetchPage(gctx, filters.Query(c.pageSize))
		page = p
		return err
	})
	g.Go(func() error {
		cs, err := c.fetcher.Categories(gctx)
		if err != nil {
			c.log.WithError(err).Warn("categories unavailable")
			return nil
		}
		categories = cs
		return nil
	})
	err := g.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		return c.viewLocked(), ErrStale
	}
	c.loading = false
	c.categories = categories
	if err != nil {
		c.page = nil
		return c.viewLocked(), err
	}
	c.page = page
	return c.viewLocked(), nil
}

func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

func (c *Controller) viewLocked() View {
	return buildView(c.filters, c.loading, c.page, c.categories)
}
