// Package nellis talks to the auction marketplace: paginated search and
// per-product JSON endpoints, the rendered product page for authoritative
// price/state, and the live-update event stream. All wire-format quirks
// stay inside this package.
package nellis

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"auction-scanner/internal/domain"
)

// Default configuration values.
const (
	DefaultBaseURL   = "https://www.nellisauction.com"
	DefaultStreamURL = "https://sse.nellisauction.com"

	DefaultTimeout     = 30 * time.Second
	DefaultMaxRetries  = 3
	DefaultRetryDelay  = 1 * time.Second
	DefaultMaxDelay    = 10 * time.Second
	DefaultBackoffMult = 2.0

	DefaultPageSize = 120
	DefaultSortBy   = "retail_price_desc"
)

// Client is the marketplace HTTP client.
type Client struct {
	baseURL   string
	streamURL string

	client *http.Client
	// streamClient has no overall timeout; the event stream is open-ended.
	streamClient *http.Client

	maxRetries  int
	retryDelay  time.Duration
	maxDelay    time.Duration
	backoffMult float64
	logger      *log.Logger
}

// ClientOption configures Client.
type ClientOption func(*Client)

// WithTimeout sets HTTP client timeout for request/response calls.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.client.Timeout = d
	}
}

// WithMaxRetries sets maximum retry attempts for transient failures.
func WithMaxRetries(n int) ClientOption {
	return func(c *Client) {
		c.maxRetries = n
	}
}

// WithRetryDelay sets initial retry delay.
func WithRetryDelay(d time.Duration) ClientOption {
	return func(c *Client) {
		c.retryDelay = d
	}
}

// WithMaxDelay sets maximum retry delay.
func WithMaxDelay(d time.Duration) ClientOption {
	return func(c *Client) {
		c.maxDelay = d
	}
}

// WithStreamURL sets the live-update stream base URL.
func WithStreamURL(u string) ClientOption {
	return func(c *Client) {
		c.streamURL = u
	}
}

// WithHTTPClient sets a custom http.Client for request/response calls.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.client = client
	}
}

// WithLogger sets the logger used for skipped stream frames and retries.
func WithLogger(logger *log.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a marketplace client. An empty baseURL selects the
// production endpoint.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	c := &Client{
		baseURL:      baseURL,
		streamURL:    DefaultStreamURL,
		client:       &http.Client{Timeout: DefaultTimeout},
		streamClient: &http.Client{},
		maxRetries:   DefaultMaxRetries,
		retryDelay:   DefaultRetryDelay,
		maxDelay:     DefaultMaxDelay,
		backoffMult:  DefaultBackoffMult,
		logger:       log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchListings fetches one page of search results for a category,
// normalized into domain listings. Zero or negative pageSize and an empty
// sortBy select the marketplace defaults.
func (c *Client) FetchListings(ctx context.Context, category domain.Category, pageNumber, pageSize int, location domain.Location, sortBy string) (*SearchPage, error) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if sortBy == "" {
		sortBy = DefaultSortBy
	}
	if location == "" {
		location = domain.LocationHouston
	}

	var resp searchResponse
	op := fmt.Sprintf("search %s page %d", category, pageNumber)
	if err := c.getJSON(ctx, c.searchURL(category, pageNumber, pageSize, location, sortBy), op, &resp); err != nil {
		return nil, err
	}

	page := &SearchPage{
		Page:       pageNumber,
		TotalPages: 1,
		Listings:   make([]*domain.AuctionListing, 0, len(resp.Products)),
	}
	if resp.Algolia != nil {
		page.Page = resp.Algolia.Page
		page.TotalPages = resp.Algolia.NumberOfPages
		page.TotalHits = resp.Algolia.NumberOfHits
	}

	now := time.Now().UTC()
	for i := range resp.Products {
		page.Listings = append(page.Listings, resp.Products[i].toDomain(now))
	}
	return page, nil
}

// FetchListingDetail fetches a single listing by ID from the per-product
// JSON endpoint. Returns ErrNotFound if the ID does not exist upstream.
func (c *Client) FetchListingDetail(ctx context.Context, id int64) (*domain.AuctionListing, error) {
	var product wireProduct
	op := fmt.Sprintf("product %d", id)
	if err := c.getJSON(ctx, c.productDataURL(id), op, &product); err != nil {
		return nil, err
	}
	return product.toDomain(time.Now().UTC()), nil
}

// FetchPriceAndState fetches the rendered product page and extracts the
// current/final price, lifecycle state, and inventory number. Pattern
// misses leave fields at their zero values; only HTTP failures error.
func (c *Client) FetchPriceAndState(ctx context.Context, id int64, titleHint string) (*domain.AuctionPriceSample, error) {
	body, err := c.getBody(ctx, c.productPageURL(id, titleHint), fmt.Sprintf("product page %d", id), "text/html")
	if err != nil {
		return nil, err
	}

	sample := extractPriceInfo(string(body))
	sample.ListingID = id
	sample.RetrievedAt = time.Now().UTC()
	return &sample, nil
}

// getJSON performs a GET and decodes the JSON body into v.
func (c *Client) getJSON(ctx context.Context, url, op string, v interface{}) error {
	body, err := c.getBody(ctx, url, op, "application/json")
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return &MalformedResponseError{Op: op, Err: err}
	}
	return nil
}

// getBody performs a GET with retries and exponential backoff. Transport
// errors, 429 and 5xx statuses are retried; 404 maps to ErrNotFound and
// other statuses fail without retry.
func (c *Client) getBody(ctx context.Context, url, op, accept string) ([]byte, error) {
	delay := c.retryDelay
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
			delay = time.Duration(float64(delay) * c.backoffMult)
			if delay > c.maxDelay {
				delay = c.maxDelay
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Accept", accept)

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return nil, ErrNotFound
		case resp.StatusCode == http.StatusTooManyRequests:
			lastErr = fmt.Errorf("rate limited (429)")
			continue
		case resp.StatusCode >= 500:
			lastErr = fmt.Errorf("server status %d", resp.StatusCode)
			continue
		case resp.StatusCode != http.StatusOK:
			return nil, &MalformedResponseError{Op: op, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
		}

		return body, nil
	}

	return nil, &TransientError{Op: op, Err: fmt.Errorf("max retries exceeded: %w", lastErr)}
}
