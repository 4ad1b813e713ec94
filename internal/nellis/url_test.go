package nellis

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auction-scanner/internal/domain"
)

func TestPaginationParam(t *testing.T) {
	assert.Equal(t, "s:120,n:0", paginationParam(120, 0))
	assert.Equal(t, "s:120,n:3", paginationParam(120, 3))
	assert.Equal(t, "s:24,n:1", paginationParam(24, 1))
}

func TestSearchURL(t *testing.T) {
	c := NewClient("https://example.com")

	raw := c.searchURL(domain.CategoryOfficeAndSchool, 2, 120, domain.LocationHouston, "retail_price_desc")

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "/search", u.Path)

	q := u.Query()
	assert.Equal(t, "", q.Get("query"))
	assert.Equal(t, "retail_price_desc", q.Get("sortBy"))
	assert.Equal(t, "Office & School Supplies", q.Get("Taxonomy Level 1"))
	assert.Equal(t, "Houston, TX", q.Get("location"))
	assert.Equal(t, "s:120,n:2", q.Get("an"))
	assert.Equal(t, "routes/search", q.Get("_data"))
}

func TestSearchURL_AllCategoriesOmitsTaxonomy(t *testing.T) {
	c := NewClient("https://example.com")

	raw := c.searchURL(domain.CategoryAll, 0, 120, domain.LocationHouston, "retail_price_desc")

	u, err := url.Parse(raw)
	require.NoError(t, err)

	q := u.Query()
	assert.False(t, q.Has("Taxonomy Level 1"))
}

func TestProductURLs(t *testing.T) {
	c := NewClient("https://example.com")

	assert.Equal(t, "https://example.com/p/42/_data", c.productDataURL(42))
	assert.Equal(t, "https://example.com/p/42", c.productPageURL(42, ""))
	assert.Equal(t, "https://example.com/p/Sony-WH-1000XM5-Headphones/42",
		c.productPageURL(42, "Sony WH-1000XM5 Headphones"))
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Sony Headphones", "Sony-Headphones"},
		{"65\" 4K TV (Open Box)", "65-4K-TV-Open-Box"},
		{"  leading  and  trailing  ", "leading-and-trailing"},
		{"already-hyphenated", "already-hyphenated"},
		{"!!!", ""},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, slugify(tt.in), "slugify(%q)", tt.in)
	}
}
