package grid

import (
	"github.com/ariefcatur/go-storefront/internal/catalog"
)

// View is the rendered grid: everything the presentation layer needs, links included.
type View struct {
	State      State              `json:"state"`
	Filters    Filters            `json:"filters"`
	Products   []catalog.Product  `json:"products"`
	Total      int                `json:"total"`
	Page       int                `json:"page"`
	TotalPages int                `json:"totalPages"`
	Pages      []PageLink         `json:"pages,omitempty"`
	Prev       *string            `json:"prev"`
	Next       *string            `json:"next"`
	Categories []catalog.Category `json:"categories"`
	Active     []Chip             `json:"activeFilters,omitempty"`
	ClearHref  string             `json:"clearHref,omitempty"`
}

type PageLink struct {
	Number  int    `json:"number"`
	Href    string `json:"href"`
	Current bool   `json:"current,omitempty"`
}

// Chip is one active filter and the link that removes it.
type Chip struct {
	Kind       string `json:"kind"`
	Label      string `json:"label"`
	RemoveHref string `json:"removeHref"`
}

func buildView(f Filters, loading bool, page *catalog.Page, categories []catalog.Category) View {
	v := View{
		Filters:    f,
		Page:       f.Page,
		Products:   []catalog.Product{},
		Categories: categories,
	}
	if v.Categories == nil {
		v.Categories = []catalog.Category{}
	}
	if page != nil && !loading {
		v.Products = page.Data
		v.Total = page.Total
		v.TotalPages = page.TotalPages
	}
	v.State = RenderState(loading, len(v.Products))

	if v.TotalPages > 1 {
		for _, n := range Window(f.Page, v.TotalPages) {
			v.Pages = append(v.Pages, PageLink{Number: n, Href: f.WithPage(n).Href(), Current: n == f.Page})
		}
		if f.Page > 1 {
			href := f.WithPage(f.Page - 1).Href()
			v.Prev = &href
		}
		if f.Page < v.TotalPages {
			href := f.WithPage(f.Page + 1).Href()
			v.Next = &href
		}
	}

	if f.Search != "" {
		v.Active = append(v.Active, Chip{Kind: keySearch, Label: `Search: "` + f.Search + `"`, RemoveHref: f.WithSearch("").Href()})
	}
	if f.Category != "" {
		v.Active = append(v.Active, Chip{Kind: keyCategory, Label: categoryName(categories, f.Category), RemoveHref: f.WithCategory("").Href()})
	}
	if f.HasFilters() {
		v.ClearHref = f.Cleared().Href()
	}
	return v
}

// categoryName falls back to the slug while the category list is unknown.
func categoryName(categories []catalog.Category, slug string) string {
	for _, c := range categories {
		if c.Slug == slug {
			return c.Name
		}
	}
	return slug
}
