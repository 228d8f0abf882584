package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ariefcatur/go-storefront/internal/metrics"
	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	// slugScanLimit is the page size fetched when resolving a product by slug; the
	// API has no slug lookup, so the match is a local scan over this page.
	slugScanLimit = 100
	listLimit     = 50

	categoriesKey = "categories"
)

// Client reads the remote catalog API. It never retries and sets no timeout of its
// own; callers bound requests through ctx.
type Client struct {
	baseURL    string
	http       *http.Client
	tracer     trace.Tracer
	categories *cache.Cache
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithCategoryTTL caches the category list for ttl. Zero disables caching.
func WithCategoryTTL(ttl time.Duration) Option {
	return func(c *Client) {
		if ttl <= 0 {
			c.categories = nil
			return
		}
		c.categories = cache.New(ttl, 2*ttl)
	}
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		http:       &http.Client{},
		tracer:     otel.Tracer("go-storefront/catalog"),
		categories: cache.New(time.Minute, 2*time.Minute),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// pageBody mirrors Page but lets a missing "data" key be told apart from an empty list.
type pageBody struct {
	Data       *[]Product `json:"data"`
	Total      int        `json:"total"`
	Page       int        `json:"page"`
	Limit      int        `json:"limit"`
	TotalPages int        `json:"totalPages"`
}

// FetchPage issues GET /products with only the fields set in q.
func (c *Client) FetchPage(ctx context.Context, q Query) (*Page, error) {
	path := "/products"
	if qs := q.Encode(); qs != "" {
		path += "?" + qs
	}

	var body pageBody
	if err := c.getJSON(ctx, "products", path, &body); err != nil {
		return nil, err
	}
	if body.Data == nil {
		err := &ParseError{Endpoint: "products", Err: errors.New(`missing "data" field`)}
		metrics.CatalogRequests.WithLabelValues("products", metrics.OutcomeParseError).Inc()
		return nil, err
	}
	return &Page{
		Data:       *body.Data,
		Total:      body.Total,
		Page:       body.Page,
		Limit:      body.Limit,
		TotalPages: body.TotalPages,
	}, nil
}

// ProductBySlug scans one large page for an exact slug match.
func (c *Client) ProductBySlug(ctx context.Context, slug string) (*Product, error) {
	page, err := c.FetchPage(ctx, Query{Limit: slugScanLimit})
	if err != nil {
		return nil, err
	}
	for i := range page.Data {
		if page.Data[i].Slug == slug {
			p := page.Data[i]
			return &p, nil
		}
	}
	return nil, &NotFoundError{Slug: slug}
}

func (c *Client) ProductByID(ctx context.Context, id string) (*Product, error) {
	var p Product
	if err := c.getJSON(ctx, "product", "/products/"+url.PathEscape(id), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) Categories(ctx context.Context) ([]Category, error) {
	if c.categories != nil {
		if v, ok := c.categories.Get(categoriesKey); ok {
			return v.([]Category), nil
		}
	}
	var out []Category
	if err := c.getJSON(ctx, "categories", "/categories", &out); err != nil {
		return nil, err
	}
	if c.categories != nil {
		c.categories.SetDefault(categoriesKey, out)
	}
	return out, nil
}

func (c *Client) FeaturedProducts(ctx context.Context) ([]Product, error) {
	page, err := c.FetchPage(ctx, Query{Limit: listLimit})
	if err != nil {
		return nil, err
	}
	out := make([]Product, 0, len(page.Data))
	for _, p := range page.Data {
		if p.IsFeatured {
			out = append(out, p)
		}
	}
	return out, nil
}

func (c *Client) SearchProducts(ctx context.Context, term string) ([]Product, error) {
	page, err := c.FetchPage(ctx, Query{Search: term, Limit: listLimit})
	if err != nil {
		return nil, err
	}
	return page.Data, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint, path string, out any) error {
	ctx, span := c.tracer.Start(ctx, "catalog.fetch",
		trace.WithAttributes(
			attribute.String("catalog.endpoint", endpoint),
			attribute.String("http.target", path),
		),
	)
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("catalog api %s: build request: %w", endpoint, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport")
		metrics.CatalogRequests.WithLabelValues(endpoint, metrics.OutcomeTransport).Inc()
		return fmt.Errorf("catalog api %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		rerr := &RemoteError{Endpoint: endpoint, StatusCode: resp.StatusCode, Status: resp.Status}
		span.SetStatus(codes.Error, rerr.Error())
		metrics.CatalogRequests.WithLabelValues(endpoint, metrics.OutcomeRemoteError).Inc()
		return rerr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		perr := &ParseError{Endpoint: endpoint, Err: err}
		span.RecordError(perr)
		span.SetStatus(codes.Error, "decode")
		metrics.CatalogRequests.WithLabelValues(endpoint, metrics.OutcomeParseError).Inc()
		return perr
	}

	metrics.CatalogRequests.WithLabelValues(endpoint, metrics.OutcomeOK).Inc()
	return nil
}
