package catalog

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryEncodeOmitsUnsetFields(t *testing.T) {
	q := Query{Search: "phone", Category: "electronics", SortBy: SortByPrice, SortOrder: Asc}

	v, err := url.ParseQuery(q.Encode())
	require.NoError(t, err)

	assert.Equal(t, url.Values{
		"search":    {"phone"},
		"category":  {"electronics"},
		"sortBy":    {"price"},
		"sortOrder": {"asc"},
	}, v)
	assert.NotContains(t, v, "page")
	assert.NotContains(t, v, "limit")
}

func TestQueryEncodeEmpty(t *testing.T) {
	assert.Equal(t, "", Query{}.Encode())
}

func TestQueryEncodeAllFields(t *testing.T) {
	q := Query{
		Page: 2, Limit: 12, Category: "shoes", Search: "red",
		MinPrice: 10, MaxPrice: 99.5, SortBy: SortByCreatedAt, SortOrder: Desc,
	}
	v := q.Values()

	assert.Equal(t, "2", v.Get("page"))
	assert.Equal(t, "12", v.Get("limit"))
	assert.Equal(t, "10", v.Get("minPrice"))
	assert.Equal(t, "99.5", v.Get("maxPrice"))
	assert.Equal(t, "createdAt", v.Get("sortBy"))
	assert.Equal(t, "desc", v.Get("sortOrder"))
	assert.Len(t, v, 8)
}

func TestSortValidity(t *testing.T) {
	assert.True(t, SortByTitle.Valid())
	assert.False(t, SortField("rating").Valid())
	assert.True(t, Desc.Valid())
	assert.False(t, SortOrder("up").Valid())
}

func TestStockBadge(t *testing.T) {
	assert.Equal(t, "Out of Stock", Product{Stock: 0}.StockBadge())
	assert.Equal(t, "Low Stock", Product{Stock: 9}.StockBadge())
	assert.Equal(t, "", Product{Stock: 10}.StockBadge())
}

func TestStockLabel(t *testing.T) {
	assert.Equal(t, "Out of Stock", Product{Stock: 0}.StockLabel())
	assert.Equal(t, "Out of Stock", Product{Stock: -1}.StockLabel())
	assert.Equal(t, "Only 1 left", Product{Stock: 1}.StockLabel())
	assert.Equal(t, "Only 10 left", Product{Stock: 10}.StockLabel())
	assert.Equal(t, "In Stock", Product{Stock: 11}.StockLabel())
}
