package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"auction-scanner/internal/domain"
	"auction-scanner/internal/storage"
)

// ListingStore is an in-memory implementation of storage.ListingStore.
type ListingStore struct {
	mu   sync.RWMutex
	data map[int64]*domain.AuctionListing // keyed by listing ID
}

// NewListingStore creates a new in-memory listing store.
func NewListingStore() *ListingStore {
	return &ListingStore{
		data: make(map[int64]*domain.AuctionListing),
	}
}

// Compile-time interface check.
var _ storage.ListingStore = (*ListingStore)(nil)

// UpsertBatch inserts or updates listings with the same field protection
// rules as the SQL implementation: inserts zero the final price, updates
// leave final price and open time alone, closed stays closed.
func (s *ListingStore) UpsertBatch(_ context.Context, listings []*domain.AuctionListing) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, l := range listings {
		if l == nil || l.ID == 0 {
			return storage.ErrInvalidInput
		}

		existing, ok := s.data[l.ID]
		if !ok {
			inserted := *l
			inserted.FinalPrice = 0
			s.data[l.ID] = &inserted
			continue
		}

		existing.Title = l.Title
		if l.InventoryNumber != "" {
			existing.InventoryNumber = l.InventoryNumber
		}
		existing.RetailPrice = l.RetailPrice
		existing.CurrentPrice = l.CurrentPrice
		existing.BidCount = l.BidCount
		if existing.State != domain.StateClosed {
			existing.State = l.State
		}
		existing.CloseTime = l.CloseTime
		existing.Location = l.Location
		existing.LastUpdated = l.LastUpdated
	}

	return nil
}

// GetByID retrieves a listing by its ID. Returns ErrNotFound if not exists.
func (s *ListingStore) GetByID(_ context.Context, id int64) (*domain.AuctionListing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.data[id]
	if !ok {
		return nil, storage.ErrNotFound
	}

	listingCopy := *l
	return &listingCopy, nil
}

// GetActivePastClose retrieves active listings with close time before
// cutoff, ordered by close time ASC.
func (s *ListingStore) GetActivePastClose(_ context.Context, cutoff time.Time) ([]*domain.AuctionListing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.AuctionListing
	for _, l := range s.data {
		if l.State == domain.StateActive && l.CloseTime.Before(cutoff) {
			listingCopy := *l
			result = append(result, &listingCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CloseTime.Before(result[j].CloseTime)
	})

	return result, nil
}

// ApplyPriceSample applies a reconciliation result atomically.
func (s *ListingStore) ApplyPriceSample(_ context.Context, sample *domain.AuctionPriceSample) error {
	if sample == nil || sample.ListingID == 0 {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.data[sample.ListingID]
	if !ok {
		return storage.ErrNotFound
	}

	if l.State != domain.StateClosed {
		l.State = sample.State
	}
	if sample.State == domain.StateClosed {
		l.FinalPrice = sample.Price
	} else {
		l.CurrentPrice = sample.Price
	}
	if sample.InventoryNumber != "" {
		l.InventoryNumber = sample.InventoryNumber
	}
	l.LastUpdated = sample.RetrievedAt

	return nil
}
