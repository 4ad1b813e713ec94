package nellis

import (
	"fmt"
	"net/url"
	"strings"

	"auction-scanner/internal/domain"
)

// paginationParam encodes page size and zero-based page number the way the
// search endpoint expects, e.g. size 120, page 3 -> "s:120,n:3".
func paginationParam(pageSize, pageNumber int) string {
	return fmt.Sprintf("s:%d,n:%d", pageSize, pageNumber)
}

// searchURL builds the search query URL for one page of a category.
func (c *Client) searchURL(category domain.Category, pageNumber, pageSize int, location domain.Location, sortBy string) string {
	q := url.Values{}
	q.Set("query", "")
	q.Set("sortBy", sortBy)
	if taxonomy := category.TaxonomyString(); taxonomy != "" {
		q.Set("Taxonomy Level 1", taxonomy)
	}
	q.Set("location", location.DisplayName())
	q.Set("an", paginationParam(pageSize, pageNumber))
	// Routing marker the server uses to return raw JSON instead of a page.
	q.Set("_data", "routes/search")

	return c.baseURL + "/search?" + q.Encode()
}

// productDataURL is the per-ID JSON endpoint for a single listing.
func (c *Client) productDataURL(id int64) string {
	return fmt.Sprintf("%s/p/%d/_data", c.baseURL, id)
}

// productPageURL is the human-readable product page. With a title hint the
// form is /p/<slug>/<id>, otherwise /p/<id>; both resolve upstream.
func (c *Client) productPageURL(id int64, titleHint string) string {
	slug := slugify(titleHint)
	if slug == "" {
		return fmt.Sprintf("%s/p/%d", c.baseURL, id)
	}
	return fmt.Sprintf("%s/p/%s/%d", c.baseURL, slug, id)
}

// slugify strips non-alphanumeric characters except spaces and hyphens,
// then turns spaces into hyphens. Runs of hyphens collapse to one.
func slugify(title string) string {
	var b strings.Builder
	for _, r := range title {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-':
			b.WriteByte('-')
		}
	}

	slug := b.String()
	for strings.Contains(slug, "--") {
		slug = strings.ReplaceAll(slug, "--", "-")
	}
	return strings.Trim(slug, "-")
}
