package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auction-scanner/internal/domain"
	"auction-scanner/internal/storage"
)

func testListing(id int64) *domain.AuctionListing {
	return &domain.AuctionListing{
		ID:              id,
		Title:           "Robot Vacuum",
		InventoryNumber: "10052809",
		RetailPrice:     599.99,
		CurrentPrice:    41,
		BidCount:        12,
		State:           domain.StateActive,
		OpenTime:        time.Date(2026, 3, 10, 16, 0, 0, 0, time.UTC),
		CloseTime:       time.Date(2026, 3, 15, 18, 30, 0, 0, time.UTC),
		Location:        "Houston, TX",
		LastUpdated:     time.Date(2026, 3, 12, 9, 0, 0, 0, time.UTC),
	}
}

func TestListingStore_UpsertAndGetByID(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewListingStore(pool)
	ctx := context.Background()

	l := testListing(101)
	require.NoError(t, store.UpsertBatch(ctx, []*domain.AuctionListing{l}))

	got, err := store.GetByID(ctx, 101)
	require.NoError(t, err)

	assert.Equal(t, l.ID, got.ID)
	assert.Equal(t, l.Title, got.Title)
	assert.Equal(t, l.InventoryNumber, got.InventoryNumber)
	assert.Equal(t, l.RetailPrice, got.RetailPrice)
	assert.Equal(t, l.CurrentPrice, got.CurrentPrice)
	assert.Equal(t, 0.0, got.FinalPrice)
	assert.Equal(t, l.BidCount, got.BidCount)
	assert.Equal(t, domain.StateActive, got.State)
	assert.True(t, got.OpenTime.Equal(l.OpenTime))
	assert.True(t, got.CloseTime.Equal(l.CloseTime))
	assert.Equal(t, l.Location, got.Location)
}

func TestListingStore_InsertIgnoresIncomingFinalPrice(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewListingStore(pool)
	ctx := context.Background()

	l := testListing(101)
	l.State = domain.StateClosed
	l.FinalPrice = 500
	require.NoError(t, store.UpsertBatch(ctx, []*domain.AuctionListing{l}))

	got, err := store.GetByID(ctx, 101)
	require.NoError(t, err)
	assert.Equal(t, domain.StateClosed, got.State)
	assert.Equal(t, 0.0, got.FinalPrice)
}

func TestListingStore_UpsertBatchIdempotent(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewListingStore(pool)
	ctx := context.Background()

	batch := []*domain.AuctionListing{testListing(101), testListing(102), testListing(103)}

	require.NoError(t, store.UpsertBatch(ctx, batch))
	require.NoError(t, store.UpsertBatch(ctx, batch))

	for _, l := range batch {
		got, err := store.GetByID(ctx, l.ID)
		require.NoError(t, err)
		assert.Equal(t, l.Title, got.Title)
	}
}

func TestListingStore_UpdateProtectsOpenTimeAndFinalPrice(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewListingStore(pool)
	ctx := context.Background()

	require.NoError(t, store.UpsertBatch(ctx, []*domain.AuctionListing{testListing(101)}))

	// Reconciliation sets the final price.
	require.NoError(t, store.ApplyPriceSample(ctx, &domain.AuctionPriceSample{
		ListingID:   101,
		Price:       250,
		State:       domain.StateClosed,
		RetrievedAt: time.Now().UTC(),
	}))

	// A later scan batch must not touch the settled fields.
	updated := testListing(101)
	updated.CurrentPrice = 60
	updated.OpenTime = time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	updated.FinalPrice = 999
	require.NoError(t, store.UpsertBatch(ctx, []*domain.AuctionListing{updated}))

	got, err := store.GetByID(ctx, 101)
	require.NoError(t, err)
	assert.Equal(t, 60.0, got.CurrentPrice)
	assert.Equal(t, 250.0, got.FinalPrice)
	assert.Equal(t, domain.StateClosed, got.State)
	assert.True(t, got.OpenTime.Equal(testListing(101).OpenTime), "open time must not change on update")
}

func TestListingStore_ClosedStateIsSticky(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewListingStore(pool)
	ctx := context.Background()

	closed := testListing(101)
	closed.State = domain.StateClosed
	require.NoError(t, store.UpsertBatch(ctx, []*domain.AuctionListing{closed}))

	reopened := testListing(101)
	reopened.State = domain.StateActive
	require.NoError(t, store.UpsertBatch(ctx, []*domain.AuctionListing{reopened}))

	got, err := store.GetByID(ctx, 101)
	require.NoError(t, err)
	assert.Equal(t, domain.StateClosed, got.State)
}

func TestListingStore_EmptyInventoryNumberDoesNotClobber(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewListingStore(pool)
	ctx := context.Background()

	require.NoError(t, store.UpsertBatch(ctx, []*domain.AuctionListing{testListing(101)}))

	updated := testListing(101)
	updated.InventoryNumber = ""
	require.NoError(t, store.UpsertBatch(ctx, []*domain.AuctionListing{updated}))

	got, err := store.GetByID(ctx, 101)
	require.NoError(t, err)
	assert.Equal(t, "10052809", got.InventoryNumber)
}

func TestListingStore_UpsertBatchInvalidInput(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewListingStore(pool)
	ctx := context.Background()

	err := store.UpsertBatch(ctx, []*domain.AuctionListing{testListing(101), nil})
	assert.ErrorIs(t, err, storage.ErrInvalidInput)

	// The batch is transactional: nothing landed.
	_, err = store.GetByID(ctx, 101)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestListingStore_GetByIDNotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewListingStore(pool)

	_, err := store.GetByID(context.Background(), 404)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestListingStore_GetActivePastClose(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewListingStore(pool)
	ctx := context.Background()

	cutoff := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	pastA := testListing(101)
	pastA.CloseTime = cutoff.Add(-2 * time.Hour)
	pastB := testListing(102)
	pastB.CloseTime = cutoff.Add(-1 * time.Hour)
	future := testListing(103)
	future.CloseTime = cutoff.Add(1 * time.Hour)
	closedPast := testListing(104)
	closedPast.CloseTime = cutoff.Add(-3 * time.Hour)
	closedPast.State = domain.StateClosed

	require.NoError(t, store.UpsertBatch(ctx, []*domain.AuctionListing{pastB, future, closedPast, pastA}))

	got, err := store.GetActivePastClose(ctx, cutoff)
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, int64(101), got[0].ID)
	assert.Equal(t, int64(102), got[1].ID)
}

func TestListingStore_ApplyPriceSampleClosed(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewListingStore(pool)
	ctx := context.Background()

	require.NoError(t, store.UpsertBatch(ctx, []*domain.AuctionListing{testListing(101)}))

	retrieved := time.Date(2026, 3, 15, 19, 15, 0, 0, time.UTC)
	require.NoError(t, store.ApplyPriceSample(ctx, &domain.AuctionPriceSample{
		ListingID:       101,
		Price:           1651,
		State:           domain.StateClosed,
		InventoryNumber: "20117734",
		RetrievedAt:     retrieved,
	}))

	got, err := store.GetByID(ctx, 101)
	require.NoError(t, err)
	assert.Equal(t, domain.StateClosed, got.State)
	assert.Equal(t, 1651.0, got.FinalPrice)
	assert.Equal(t, 41.0, got.CurrentPrice, "current price untouched by a closed sample")
	assert.Equal(t, "20117734", got.InventoryNumber)
	assert.True(t, got.LastUpdated.Equal(retrieved))
}

func TestListingStore_ApplyPriceSampleActive(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewListingStore(pool)
	ctx := context.Background()

	require.NoError(t, store.UpsertBatch(ctx, []*domain.AuctionListing{testListing(101)}))

	require.NoError(t, store.ApplyPriceSample(ctx, &domain.AuctionPriceSample{
		ListingID:   101,
		Price:       77,
		State:       domain.StateActive,
		RetrievedAt: time.Now().UTC(),
	}))

	got, err := store.GetByID(ctx, 101)
	require.NoError(t, err)
	assert.Equal(t, domain.StateActive, got.State)
	assert.Equal(t, 77.0, got.CurrentPrice)
	assert.Equal(t, 0.0, got.FinalPrice)
}

func TestListingStore_ApplyPriceSampleDoesNotReopen(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewListingStore(pool)
	ctx := context.Background()

	require.NoError(t, store.UpsertBatch(ctx, []*domain.AuctionListing{testListing(101)}))

	require.NoError(t, store.ApplyPriceSample(ctx, &domain.AuctionPriceSample{
		ListingID:   101,
		Price:       1651,
		State:       domain.StateClosed,
		RetrievedAt: time.Now().UTC(),
	}))

	// A straggling active sample must not reopen or clear the final price.
	require.NoError(t, store.ApplyPriceSample(ctx, &domain.AuctionPriceSample{
		ListingID:   101,
		Price:       12,
		State:       domain.StateActive,
		RetrievedAt: time.Now().UTC(),
	}))

	got, err := store.GetByID(ctx, 101)
	require.NoError(t, err)
	assert.Equal(t, domain.StateClosed, got.State)
	assert.Equal(t, 1651.0, got.FinalPrice)
}

func TestListingStore_ApplyPriceSampleNotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewListingStore(pool)

	err := store.ApplyPriceSample(context.Background(), &domain.AuctionPriceSample{
		ListingID:   404,
		State:       domain.StateClosed,
		RetrievedAt: time.Now().UTC(),
	})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
