package grid

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/ariefcatur/go-storefront/internal/catalog"
)

// URL query keys. The query string is the durable, shareable form of Filters.
const (
	keySearch   = "search"
	keyCategory = "category"
	keySort     = "sort"
	keyPage     = "page"

	rootHref = "/"
)

// Filters is the product grid's filter, sort and page state. Sort is the composite
// "field-direction" form used in URLs, e.g. "price-asc".
type Filters struct {
	Search   string `json:"search,omitempty"`
	Category string `json:"category,omitempty"`
	Sort     string `json:"sort,omitempty"`
	Page     int    `json:"page"`
}

// Decode never fails: missing or malformed keys fall back to their defaults.
func Decode(v url.Values) Filters {
	f := Filters{
		Search:   strings.TrimSpace(v.Get(keySearch)),
		Category: strings.TrimSpace(v.Get(keyCategory)),
		Sort:     strings.TrimSpace(v.Get(keySort)),
		Page:     1,
	}
	if p, err := strconv.Atoi(v.Get(keyPage)); err == nil && p > 1 {
		f.Page = p
	}
	return f
}

// Values drops empty keys and the default page rather than encoding them as "".
func (f Filters) Values() url.Values {
	v := url.Values{}
	if f.Search != "" {
		v.Set(keySearch, f.Search)
	}
	if f.Category != "" {
		v.Set(keyCategory, f.Category)
	}
	if f.Sort != "" {
		v.Set(keySort, f.Sort)
	}
	if f.Page > 1 {
		v.Set(keyPage, strconv.Itoa(f.Page))
	}
	return v
}

func (f Filters) Encode() string { return f.Values().Encode() }

// Href is the address-bar form of f: "?..." or the root listing when nothing is set.
func (f Filters) Href() string {
	if qs := f.Encode(); qs != "" {
		return "?" + qs
	}
	return rootHref
}

func (f Filters) HasFilters() bool {
	return f.Search != "" || f.Category != "" || f.Sort != ""
}

// Changing search, category or sort invalidates the page position.

func (f Filters) WithSearch(s string) Filters {
	f.Search = strings.TrimSpace(s)
	f.Page = 1
	return f
}

func (f Filters) WithCategory(slug string) Filters {
	f.Category = strings.TrimSpace(slug)
	f.Page = 1
	return f
}

func (f Filters) WithSort(sort string) Filters {
	f.Sort = strings.TrimSpace(sort)
	f.Page = 1
	return f
}

func (f Filters) WithPage(page int) Filters {
	if page < 1 {
		page = 1
	}
	f.Page = page
	return f
}

func (f Filters) Cleared() Filters { return Filters{Page: 1} }

// SortParts splits Sort on the first '-'. Unknown fields or directions are dropped.
func (f Filters) SortParts() (catalog.SortField, catalog.SortOrder) {
	field, dir, _ := strings.Cut(f.Sort, "-")
	by, order := catalog.SortField(field), catalog.SortOrder(dir)
	if !by.Valid() {
		by = ""
	}
	if !order.Valid() {
		order = ""
	}
	return by, order
}

func (f Filters) Query(pageSize int) catalog.Query {
	by, order := f.SortParts()
	page := f.Page
	if page < 1 {
		page = 1
	}
	return catalog.Query{
		Page:      page,
		Limit:     pageSize,
		Search:    f.Search,
		Category:  f.Category,
		SortBy:    by,
		SortOrder: order,
	}
}

// SortOptions are the choices offered by the sort control; "" is "Featured".
var SortOptions = []struct {
	Value string `json:"value"`
	Label string `json:"label"`
}{
	{"", "Featured"},
	{"price-asc", "Price: Low to High"},
	{"price-desc", "Price: High to Low"},
	{"createdAt-desc", "Newest First"},
	{"title-asc", "Name: A-Z"},
}
