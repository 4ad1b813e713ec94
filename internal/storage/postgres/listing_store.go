package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"auction-scanner/internal/domain"
	"auction-scanner/internal/storage"
)

// ListingStore implements storage.ListingStore using PostgreSQL.
type ListingStore struct {
	pool *Pool
}

// NewListingStore creates a new ListingStore.
func NewListingStore(pool *Pool) *ListingStore {
	return &ListingStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ListingStore = (*ListingStore)(nil)

const listingColumns = `
	id, title, inventory_number, retail_price, current_price, final_price,
	bid_count, state, open_time, close_time, location, last_updated
`

// upsertListingQuery updates mutable fields on conflict. Final price and
// open time are protected: inserts force final price to zero and updates
// leave both untouched. A closed row keeps its state regardless of what
// the incoming batch claims.
const upsertListingQuery = `
	INSERT INTO auctions (
		id, title, inventory_number, retail_price, current_price, final_price,
		bid_count, state, open_time, close_time, location, last_updated
	) VALUES ($1, $2, $3, $4, $5, 0, $6, $7, $8, $9, $10, $11)
	ON CONFLICT (id) DO UPDATE SET
		title = EXCLUDED.title,
		inventory_number = CASE
			WHEN EXCLUDED.inventory_number <> '' THEN EXCLUDED.inventory_number
			ELSE auctions.inventory_number
		END,
		retail_price = EXCLUDED.retail_price,
		current_price = EXCLUDED.current_price,
		bid_count = EXCLUDED.bid_count,
		state = CASE
			WHEN auctions.state = 'closed' THEN auctions.state
			ELSE EXCLUDED.state
		END,
		close_time = EXCLUDED.close_time,
		location = EXCLUDED.location,
		last_updated = EXCLUDED.last_updated
`

// UpsertBatch inserts or updates listings keyed by ID inside one
// transaction. Re-applying an overlapping batch yields the same rows.
func (s *ListingStore) UpsertBatch(ctx context.Context, listings []*domain.AuctionListing) error {
	if len(listings) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, l := range listings {
		if l == nil || l.ID == 0 {
			return storage.ErrInvalidInput
		}
		_, err := tx.Exec(ctx, upsertListingQuery,
			l.ID,
			l.Title,
			l.InventoryNumber,
			l.RetailPrice,
			l.CurrentPrice,
			l.BidCount,
			string(l.State),
			l.OpenTime,
			l.CloseTime,
			l.Location,
			l.LastUpdated,
		)
		if err != nil {
			return fmt.Errorf("upsert listing %d: %w", l.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit upsert batch: %w", err)
	}
	return nil
}

// GetByID retrieves a listing by its ID. Returns ErrNotFound if not exists.
func (s *ListingStore) GetByID(ctx context.Context, id int64) (*domain.AuctionListing, error) {
	query := `SELECT ` + listingColumns + ` FROM auctions WHERE id = $1`

	row := s.pool.QueryRow(ctx, query, id)
	l, err := scanListing(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get listing by id: %w", err)
	}
	return l, nil
}

// GetActivePastClose retrieves active listings whose close time is before
// cutoff, ordered by close time ASC. Backed by the (state, close_time)
// index; this is the reconciliation working set.
func (s *ListingStore) GetActivePastClose(ctx context.Context, cutoff time.Time) ([]*domain.AuctionListing, error) {
	query := `
		SELECT ` + listingColumns + `
		FROM auctions
		WHERE state = 'active' AND close_time < $1
		ORDER BY close_time ASC
	`

	rows, err := s.pool.Query(ctx, query, cutoff)
	if err != nil {
		return nil, fmt.Errorf("get active past close: %w", err)
	}
	defer rows.Close()

	return scanListings(rows)
}

// ApplyPriceSample applies a reconciliation result as one row-level update
// so concurrent scan upserts cannot interleave partial writes. A closed
// sample sets the final price; an active sample refreshes the current
// price. State stays closed once closed even under racing reconciles.
func (s *ListingStore) ApplyPriceSample(ctx context.Context, sample *domain.AuctionPriceSample) error {
	if sample == nil || sample.ListingID == 0 {
		return storage.ErrInvalidInput
	}

	query := `
		UPDATE auctions SET
			state = CASE WHEN auctions.state = 'closed' THEN auctions.state ELSE $2 END,
			final_price = CASE WHEN $2 = 'closed' THEN $3 ELSE auctions.final_price END,
			current_price = CASE WHEN $2 = 'closed' THEN auctions.current_price ELSE $3 END,
			inventory_number = CASE WHEN $4 <> '' THEN $4 ELSE auctions.inventory_number END,
			last_updated = $5
		WHERE id = $1
	`

	tag, err := s.pool.Exec(ctx, query,
		sample.ListingID,
		string(sample.State),
		sample.Price,
		sample.InventoryNumber,
		sample.RetrievedAt,
	)
	if err != nil {
		return fmt.Errorf("apply price sample %d: %w", sample.ListingID, err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// scanListing scans a single row into an AuctionListing.
func scanListing(row pgx.Row) (*domain.AuctionListing, error) {
	var l domain.AuctionListing
	var stateStr string

	err := row.Scan(
		&l.ID,
		&l.Title,
		&l.InventoryNumber,
		&l.RetailPrice,
		&l.CurrentPrice,
		&l.FinalPrice,
		&l.BidCount,
		&stateStr,
		&l.OpenTime,
		&l.CloseTime,
		&l.Location,
		&l.LastUpdated,
	)
	if err != nil {
		return nil, err
	}

	l.State = domain.AuctionState(stateStr)
	return &l, nil
}

// scanListings scans multiple rows into a slice of AuctionListing.
func scanListings(rows pgx.Rows) ([]*domain.AuctionListing, error) {
	var listings []*domain.AuctionListing

	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("scan listing row: %w", err)
		}
		listings = append(listings, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate listing rows: %w", err)
	}

	return listings, nil
}
