package httpx

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/ariefcatur/go-storefront/internal/catalog"
	"github.com/ariefcatur/go-storefront/internal/grid"
	"github.com/go-chi/chi/v5"
)

// Catalog is the read side of the catalog client used by the storefront routes.
type Catalog interface {
	grid.Fetcher
	FeaturedProducts(ctx context.Context) ([]catalog.Product, error)
	SearchProducts(ctx context.Context, term string) ([]catalog.Product, error)
	ProductBySlug(ctx context.Context, slug string) (*catalog.Product, error)
	ProductByID(ctx context.Context, id string) (*catalog.Product, error)
}

type CatalogHandler struct {
	Catalog  Catalog
	PageSize int
}

func (h *CatalogHandler) Register(r chi.Router) {
	r.Get("/api/products", h.listProducts)
	r.Get("/api/products/featured", h.featured)
	r.Get("/api/products/search", h.search)
	r.Get("/api/products/id/{id}", h.productByID)
	r.Get("/api/products/{slug}", h.productBySlug)
	r.Get("/api/categories", h.categories)
}

// listProducts renders the grid for the filters in the query string. A failed fetch
// renders the empty state rather than an error.
func (h *CatalogHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	filters := grid.Decode(r.URL.Query())
	log := requestLog(r).WithField("filters", filters.Encode())

	v, err := grid.NewController(h.Catalog, h.PageSize, filters, log).Load(r.Context())
	if err != nil && !errors.Is(err, grid.ErrStale) {
		log.WithError(err).Error("load product grid")
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *CatalogHandler) featured(w http.ResponseWriter, r *http.Request) {
	ps, err := h.Catalog.FeaturedProducts(r.Context())
	if err != nil {
		writeCatalogError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ps)
}

func (h *CatalogHandler) search(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeJSON(w, http.StatusOK, []catalog.Product{})
		return
	}
	ps, err := h.Catalog.SearchProducts(r.Context(), q)
	if err != nil {
		writeCatalogError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ps)
}

func (h *CatalogHandler) productBySlug(w http.ResponseWriter, r *http.Request) {
	p, err := h.Catalog.ProductBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeCatalogError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, productView(*p))
}

func (h *CatalogHandler) productByID(w http.ResponseWriter, r *http.Request) {
	p, err := h.Catalog.ProductByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeCatalogError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, productView(*p))
}

func (h *CatalogHandler) categories(w http.ResponseWriter, r *http.Request) {
	cs, err := h.Catalog.Categories(r.Context())
	if err != nil {
		writeCatalogError(w, r, err)
		return
	}
	if cs == nil {
		cs = []catalog.Category{}
	}
	writeJSON(w, http.StatusOK, cs)
}

type productDetail struct {
	catalog.Product
	StockBadge string `json:"stockBadge,omitempty"`
	StockLabel string `json:"stockLabel"`
	InStock    bool   `json:"inStock"`
}

func productView(p catalog.Product) productDetail {
	return productDetail{Product: p, StockBadge: p.StockBadge(), StockLabel: p.StockLabel(), InStock: p.Stock > 0}
}
