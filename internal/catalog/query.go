package catalog

import (
	"net/url"
	"strconv"
)

type SortField string

const (
	SortByPrice     SortField = "price"
	SortByCreatedAt SortField = "createdAt"
	SortByTitle     SortField = "title"
)

type SortOrder string

const (
	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"
)

func (f SortField) Valid() bool {
	switch f {
	case SortByPrice, SortByCreatedAt, SortByTitle:
		return true
	}
	return false
}

func (o SortOrder) Valid() bool { return o == Asc || o == Desc }

// Query selects a page of the product listing. Zero values mean "not set" and are
// left out of the request entirely.
type Query struct {
	Page      int
	Limit     int
	Category  string
	Search    string
	MinPrice  float64
	MaxPrice  float64
	SortBy    SortField
	SortOrder SortOrder
}

func (q Query) Values() url.Values {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Category != "" {
		v.Set("category", q.Category)
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.MinPrice > 0 {
		v.Set("minPrice", strconv.FormatFloat(q.MinPrice, 'f', -1, 64))
	}
	if q.MaxPrice > 0 {
		v.Set("maxPrice", strconv.FormatFloat(q.MaxPrice, 'f', -1, 64))
	}
	if q.SortBy != "" {
		v.Set("sortBy", string(q.SortBy))
	}
	if q.SortOrder != "" {
		v.Set("sortOrder", string(q.SortOrder))
	}
	return v
}

// Encode returns the query string without the leading '?', empty when nothing is set.
func (q Query) Encode() string { return q.Values().Encode() }
