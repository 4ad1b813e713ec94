package memory

import (
	"context"
	"sync"

	"auction-scanner/internal/domain"
	"auction-scanner/internal/storage"
)

// InventoryStore is an in-memory implementation of storage.InventoryStore.
type InventoryStore struct {
	mu   sync.RWMutex
	data map[string]*domain.InventoryItem // keyed by inventory number
}

// NewInventoryStore creates a new in-memory inventory store.
func NewInventoryStore() *InventoryStore {
	return &InventoryStore{
		data: make(map[string]*domain.InventoryItem),
	}
}

// Compile-time interface check.
var _ storage.InventoryStore = (*InventoryStore)(nil)

// Upsert creates on first sighting, otherwise touches LastSeen and
// backfills empty description/category.
func (s *InventoryStore) Upsert(_ context.Context, item *domain.InventoryItem) error {
	if item == nil || item.InventoryNumber == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.data[item.InventoryNumber]
	if !ok {
		itemCopy := *item
		s.data[item.InventoryNumber] = &itemCopy
		return nil
	}

	if item.LastSeen.After(existing.LastSeen) {
		existing.LastSeen = item.LastSeen
	}
	if existing.Description == "" {
		existing.Description = item.Description
	}
	if existing.Category == "" {
		existing.Category = item.Category
	}

	return nil
}

// GetByNumber retrieves an item by inventory number. Returns ErrNotFound
// if not exists.
func (s *InventoryStore) GetByNumber(_ context.Context, inventoryNumber string) (*domain.InventoryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.data[inventoryNumber]
	if !ok {
		return nil, storage.ErrNotFound
	}

	itemCopy := *item
	return &itemCopy, nil
}

// Count returns the number of stored items.
func (s *InventoryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
