package storage

import (
	"context"
	"time"

	"auction-scanner/internal/domain"
)

// ListingStore provides access to auctions storage.
type ListingStore interface {
	// UpsertBatch inserts or updates listings keyed by ID. Inserts always
	// start with final price zero; updates never touch final price or open
	// time and never move a closed listing back to active. Safe to call
	// repeatedly with overlapping batches.
	UpsertBatch(ctx context.Context, listings []*domain.AuctionListing) error

	// GetByID retrieves a listing by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, id int64) (*domain.AuctionListing, error)

	// GetActivePastClose retrieves active listings whose close time is
	// before cutoff, ordered by close time ASC.
	GetActivePastClose(ctx context.Context, cutoff time.Time) ([]*domain.AuctionListing, error)

	// ApplyPriceSample applies a reconciliation result in one atomic
	// update: state (closed is sticky), final price when the sample says
	// closed, current price otherwise, and the inventory number when the
	// sample carries one. This is the only writer of final price.
	ApplyPriceSample(ctx context.Context, sample *domain.AuctionPriceSample) error
}

// InventoryStore provides access to inventory_items storage.
type InventoryStore interface {
	// Upsert creates the item on first sighting of its inventory number,
	// otherwise advances LastSeen and backfills Description/Category only
	// while they are empty.
	Upsert(ctx context.Context, item *domain.InventoryItem) error

	// GetByNumber retrieves an item by inventory number. Returns
	// ErrNotFound if not exists.
	GetByNumber(ctx context.Context, inventoryNumber string) (*domain.InventoryItem, error)
}

// PriceSnapshotStore provides access to append-only price history.
type PriceSnapshotStore interface {
	// InsertBulk appends snapshot points.
	InsertBulk(ctx context.Context, points []*domain.PriceSnapshot) error

	// GetByListing retrieves snapshots for a listing within [start, end]
	// (inclusive), ordered by recorded_at ASC.
	GetByListing(ctx context.Context, listingID int64, start, end time.Time) ([]*domain.PriceSnapshot, error)
}
