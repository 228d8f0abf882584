package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ariefcatur/go-storefront/internal/admin"
	"github.com/ariefcatur/go-storefront/internal/cart"
	"github.com/ariefcatur/go-storefront/internal/catalog"
	"github.com/ariefcatur/go-storefront/internal/checkout"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

type fakeCatalog struct {
	products   []catalog.Product
	categories []catalog.Category
	err        error
}

func (f *fakeCatalog) FetchPage(_ context.Context, q catalog.Query) (*catalog.Page, error) {
	if f.err != nil {
		return nil, f.err
	}
	var hits []catalog.Product
	for _, p := range f.products {
		if q.Search == "" || strings.Contains(strings.ToLower(p.Title), strings.ToLower(q.Search)) {
			hits = append(hits, p)
		}
	}
	limit := q.Limit
	if limit <= 0 {
		limit = 10
	}
	page := max(q.Page, 1)
	start := min((page-1)*limit, len(hits))
	end := min(start+limit, len(hits))
	return &catalog.Page{
		Data:       hits[start:end],
		Total:      len(hits),
		Page:       page,
		Limit:      limit,
		TotalPages: (len(hits) + limit - 1) / limit,
	}, nil
}

func (f *fakeCatalog) Categories(context.Context) ([]catalog.Category, error) {
	return f.categories, f.err
}

func (f *fakeCatalog) FeaturedProducts(ctx context.Context) ([]catalog.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := []catalog.Product{}
	for _, p := range f.products {
		if p.IsFeatured {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeCatalog) SearchProducts(ctx context.Context, term string) ([]catalog.Product, error) {
	page, err := f.FetchPage(ctx, catalog.Query{Search: term, Limit: 50})
	if err != nil {
		return nil, err
	}
	return page.Data, nil
}

func (f *fakeCatalog) ProductBySlug(_ context.Context, slug string) (*catalog.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, p := range f.products {
		if p.Slug == slug {
			return &p, nil
		}
	}
	return nil, &catalog.NotFoundError{Slug: slug}
}

func (f *fakeCatalog) ProductByID(_ context.Context, id string) (*catalog.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, p := range f.products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, &catalog.RemoteError{Endpoint: "product", StatusCode: http.StatusNotFound, Status: "404 Not Found"}
}

func sampleProducts() []catalog.Product {
	return []catalog.Product{
		{ID: "p1", Title: "Desk Lamp", Slug: "desk-lamp", BasePrice: "40.00", Stock: 5, IsFeatured: true},
		{ID: "p2", Title: "Floor Lamp", Slug: "floor-lamp", BasePrice: "80.00", Stock: 0},
		{ID: "p3", Title: "Blue Shirt", Slug: "blue-shirt", BasePrice: "19.99", Stock: 50},
	}
}

// newTestServer wires every storefront handler the way main does, minus the gate.
func newTestServer(t *testing.T, c *fakeCatalog) *httptest.Server {
	t.Helper()
	log, _ := logtest.NewNullLogger()

	carts := cart.NewRegistry(cart.NewMemoryStorage(), func(id string) string { return "cart:" + id }, time.Minute, log)
	r := NewRouter(log, nil)
	Mount(r, nil,
		&CatalogHandler{Catalog: c, PageSize: 2},
		&CartHandler{Carts: carts, Products: c},
		&CheckoutHandler{Carts: carts, Checkout: checkout.NewService(nil, 0, "storefront", log)},
		&AdminHandler{Admin: admin.NewService(admin.NewMockOrders(), c, log)},
	)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar, CheckRedirect: func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}}
}

// call issues a JSON request and decodes the response body into out when out is non-nil.
func call(t *testing.T, c *http.Client, method, url string, body any, out any) *http.Response {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, url, rdr)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}
