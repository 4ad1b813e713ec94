package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"auction-scanner/internal/domain"
	"auction-scanner/internal/storage"
)

// PriceSnapshotStore is an in-memory implementation of
// storage.PriceSnapshotStore.
type PriceSnapshotStore struct {
	mu   sync.RWMutex
	data map[int64][]*domain.PriceSnapshot // keyed by listing ID
}

// NewPriceSnapshotStore creates a new in-memory snapshot store.
func NewPriceSnapshotStore() *PriceSnapshotStore {
	return &PriceSnapshotStore{
		data: make(map[int64][]*domain.PriceSnapshot),
	}
}

// Compile-time interface check.
var _ storage.PriceSnapshotStore = (*PriceSnapshotStore)(nil)

// InsertBulk appends snapshot points.
func (s *PriceSnapshotStore) InsertBulk(_ context.Context, points []*domain.PriceSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range points {
		if p == nil || p.ListingID == 0 {
			return storage.ErrInvalidInput
		}
		pointCopy := *p
		s.data[p.ListingID] = append(s.data[p.ListingID], &pointCopy)
	}

	return nil
}

// GetByListing retrieves snapshots within [start, end], ordered by
// recorded_at ASC.
func (s *PriceSnapshotStore) GetByListing(_ context.Context, listingID int64, start, end time.Time) ([]*domain.PriceSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.PriceSnapshot
	for _, p := range s.data[listingID] {
		if !p.RecordedAt.Before(start) && !p.RecordedAt.After(end) {
			pointCopy := *p
			result = append(result, &pointCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].RecordedAt.Before(result[j].RecordedAt)
	})

	return result, nil
}
