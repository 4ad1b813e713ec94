// Package scanner turns raw marketplace listings into consistent stored
// state. It owns the write-path invariants: batch upsert with protected
// fields, closed-state monotonicity, and final-price authority resting
// with HTML reconciliation.
package scanner

import (
	"context"
	"log"
	"time"

	"auction-scanner/internal/domain"
	"auction-scanner/internal/nellis"
	"auction-scanner/internal/observability"
	"auction-scanner/internal/storage"
)

// Default policy values.
const (
	// DefaultMaxPages bounds request volume per category scan. This is
	// backpressure policy, not correctness: deep pages are low-value.
	DefaultMaxPages = 5

	DefaultPageSize = 120
	DefaultSortBy   = "retail_price_desc"

	// DefaultGracePeriod is how long past the nominal close time a listing
	// must be before reconciliation. Closing is not instantaneous upstream
	// (extensions, settlement lag); reconciling early captures a non-final
	// price.
	DefaultGracePeriod = 30 * time.Minute
)

// Source is the subset of the marketplace client the scanner drives.
type Source interface {
	FetchListings(ctx context.Context, category domain.Category, pageNumber, pageSize int, location domain.Location, sortBy string) (*nellis.SearchPage, error)
	FetchPriceAndState(ctx context.Context, id int64, titleHint string) (*domain.AuctionPriceSample, error)
}

// Scanner orchestrates category scans and closed-auction reconciliation.
// Both entry points are idempotent and safe to run concurrently: the
// storage layer enforces the only cross-run invariants.
type Scanner struct {
	source    Source
	listings  storage.ListingStore
	inventory storage.InventoryStore
	snapshots storage.PriceSnapshotStore // optional
	metrics   *observability.Metrics     // optional

	location    domain.Location
	sortBy      string
	pageSize    int
	maxPages    int
	gracePeriod time.Duration

	logger *log.Logger
	now    func() time.Time
}

// Options contains configuration for creating a Scanner.
type Options struct {
	Source    Source
	Listings  storage.ListingStore
	Inventory storage.InventoryStore
	Snapshots storage.PriceSnapshotStore // nil disables price history
	Metrics   *observability.Metrics     // nil disables metrics

	Location    domain.Location
	SortBy      string
	PageSize    int
	MaxPages    int
	GracePeriod time.Duration

	Logger *log.Logger
	Now    func() time.Time // override for tests
}

// New creates a new Scanner.
func New(opts Options) *Scanner {
	location := opts.Location
	if location == "" {
		location = domain.LocationHouston
	}
	sortBy := opts.SortBy
	if sortBy == "" {
		sortBy = DefaultSortBy
	}
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	maxPages := opts.MaxPages
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	gracePeriod := opts.GracePeriod
	if gracePeriod <= 0 {
		gracePeriod = DefaultGracePeriod
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	now := opts.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}

	return &Scanner{
		source:      opts.Source,
		listings:    opts.Listings,
		inventory:   opts.Inventory,
		snapshots:   opts.Snapshots,
		metrics:     opts.Metrics,
		location:    location,
		sortBy:      sortBy,
		pageSize:    pageSize,
		maxPages:    maxPages,
		gracePeriod: gracePeriod,
		logger:      logger,
		now:         now,
	}
}

// ScanAllCategories scans every concrete category sequentially. Failures
// are logged per category and never abort siblings; the only error
// returned is context cancellation, so a scheduler always sees success.
func (s *Scanner) ScanAllCategories(ctx context.Context) error {
	start := s.now()
	s.logger.Println("Starting scan of all categories")

	for _, category := range domain.Categories() {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := s.ScanCategory(ctx, category); err != nil {
			s.logger.Printf("Scan of %s failed: %v", category, err)
			if s.metrics != nil {
				s.metrics.ScansTotal.WithLabelValues(string(category), "error").Inc()
			}
			continue
		}
		if s.metrics != nil {
			s.metrics.ScansTotal.WithLabelValues(string(category), "ok").Inc()
		}
	}

	elapsed := s.now().Sub(start)
	s.logger.Printf("Completed scan of all categories in %v", elapsed)
	if s.metrics != nil {
		s.metrics.ScanDuration.Observe(elapsed.Seconds())
		s.metrics.LastSuccessfulScan.SetToCurrentTime()
	}
	return nil
}

// ScanCategory fetches up to maxPages pages of a category, aggregates all
// listings, and applies them as one upsert batch. A failure on a page
// after the first stops pagination but the aggregated listings are still
// written: partial progress beats discarding fetched pages.
func (s *Scanner) ScanCategory(ctx context.Context, category domain.Category) error {
	page, err := s.fetchPage(ctx, category, 0)
	if err != nil {
		return err
	}

	batch := page.Listings
	totalPages := page.TotalPages
	if totalPages > s.maxPages {
		totalPages = s.maxPages
	}

	for pageNumber := 1; pageNumber < totalPages; pageNumber++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		next, err := s.fetchPage(ctx, category, pageNumber)
		if err != nil {
			s.logger.Printf("Scan %s: page %d failed, stopping pagination: %v", category, pageNumber, err)
			break
		}
		batch = append(batch, next.Listings...)
	}

	if err := s.UpsertListings(ctx, category, batch); err != nil {
		return err
	}

	s.logger.Printf("Scan %s: upserted %d listings (%d pages reported)", category, len(batch), page.TotalPages)
	return nil
}

// fetchPage fetches one search page with latency accounting.
func (s *Scanner) fetchPage(ctx context.Context, category domain.Category, pageNumber int) (*nellis.SearchPage, error) {
	start := time.Now()
	page, err := s.source.FetchListings(ctx, category, pageNumber, s.pageSize, s.location, s.sortBy)
	if s.metrics != nil {
		s.metrics.FetchLatency.WithLabelValues("search").Observe(time.Since(start).Seconds())
		if err == nil {
			s.metrics.PagesFetched.Inc()
		}
	}
	return page, err
}

// UpsertListings writes one batch of scanned listings and keeps inventory
// and price history in step. The batch write carries the invariants:
// inserts start with final price zero regardless of the closed flag, and
// a stored closed listing is never reopened by scan data.
func (s *Scanner) UpsertListings(ctx context.Context, category domain.Category, listings []*domain.AuctionListing) error {
	if len(listings) == 0 {
		return nil
	}

	if err := s.listings.UpsertBatch(ctx, listings); err != nil {
		return err
	}
	if s.metrics != nil {
		s.metrics.ListingsUpserted.Add(float64(len(listings)))
	}

	now := s.now()
	snapshots := make([]*domain.PriceSnapshot, 0, len(listings))

	for _, l := range listings {
		if l.InventoryNumber != "" {
			item := &domain.InventoryItem{
				InventoryNumber: l.InventoryNumber,
				Description:     l.Title,
				Category:        category.DisplayName(),
				FirstSeen:       now,
				LastSeen:        now,
			}
			if err := s.inventory.Upsert(ctx, item); err != nil {
				s.logger.Printf("Upsert inventory %s (listing %d): %v", l.InventoryNumber, l.ID, err)
			}
		}

		snapshots = append(snapshots, &domain.PriceSnapshot{
			ListingID:  l.ID,
			Price:      l.CurrentPrice,
			BidCount:   l.BidCount,
			RecordedAt: now,
		})
	}

	if s.snapshots != nil {
		if err := s.snapshots.InsertBulk(ctx, snapshots); err != nil {
			// History is best-effort; the authoritative rows are written.
			s.logger.Printf("Append %d price snapshots: %v", len(snapshots), err)
		}
	}

	return nil
}

// ReconcileClosedAuctions confirms final state for listings past their
// close time. It queries active listings whose close time is older than
// the grace period, fetches the rendered product page for each, and
// applies the result. This path is the sole writer of final price.
// Per-listing failures are logged and do not stop the batch.
func (s *Scanner) ReconcileClosedAuctions(ctx context.Context) error {
	start := s.now()
	cutoff := start.Add(-s.gracePeriod)

	stale, err := s.listings.GetActivePastClose(ctx, cutoff)
	if err != nil {
		if s.metrics != nil {
			s.metrics.ReconcileRunsTotal.WithLabelValues("error").Inc()
		}
		return err
	}

	s.logger.Printf("Reconciling %d listings past close time", len(stale))

	var closed int
	for _, l := range stale {
		if err := ctx.Err(); err != nil {
			return err
		}

		fetchStart := time.Now()
		sample, err := s.source.FetchPriceAndState(ctx, l.ID, l.Title)
		if s.metrics != nil {
			s.metrics.FetchLatency.WithLabelValues("product_page").Observe(time.Since(fetchStart).Seconds())
		}
		if err != nil {
			s.logger.Printf("Reconcile listing %d: %v", l.ID, err)
			if s.metrics != nil {
				s.metrics.ReconcileErrors.Inc()
			}
			continue
		}

		if err := s.listings.ApplyPriceSample(ctx, sample); err != nil {
			s.logger.Printf("Apply price sample for listing %d: %v", l.ID, err)
			if s.metrics != nil {
				s.metrics.ReconcileErrors.Inc()
			}
			continue
		}

		if s.metrics != nil {
			s.metrics.ListingsReconciled.Inc()
		}
		if sample.State == domain.StateClosed {
			closed++
			if s.metrics != nil {
				s.metrics.AuctionsClosed.Inc()
			}
			s.logger.Printf("Listing %d closed at final price %.2f", l.ID, sample.Price)
		}

		if sample.InventoryNumber != "" {
			item := &domain.InventoryItem{
				InventoryNumber: sample.InventoryNumber,
				Description:     l.Title,
				FirstSeen:       sample.RetrievedAt,
				LastSeen:        sample.RetrievedAt,
			}
			if err := s.inventory.Upsert(ctx, item); err != nil {
				s.logger.Printf("Touch inventory %s (listing %d): %v", sample.InventoryNumber, l.ID, err)
			}
		}
	}

	s.logger.Printf("Reconciliation done: %d checked, %d closed, took %v", len(stale), closed, s.now().Sub(start))
	if s.metrics != nil {
		s.metrics.ReconcileRunsTotal.WithLabelValues("ok").Inc()
		s.metrics.LastSuccessfulReconcile.SetToCurrentTime()
	}
	return nil
}
