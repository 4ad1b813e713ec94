package postgres

import (
	"context"
	"fmt"

	"auction-scanner/internal/domain"
	"auction-scanner/internal/storage"
)

// InventoryStore implements storage.InventoryStore using PostgreSQL.
type InventoryStore struct {
	pool *Pool
}

// NewInventoryStore creates a new InventoryStore.
func NewInventoryStore(pool *Pool) *InventoryStore {
	return &InventoryStore{pool: pool}
}

// Compile-time interface check.
var _ storage.InventoryStore = (*InventoryStore)(nil)

// Upsert creates the item on first sighting, otherwise advances last_seen
// and backfills description/category only while empty. The inventory
// number is the natural key, so repeat upserts are idempotent.
func (s *InventoryStore) Upsert(ctx context.Context, item *domain.InventoryItem) error {
	if item == nil || item.InventoryNumber == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO inventory_items (
			inventory_number, description, category, first_seen, last_seen
		) VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (inventory_number) DO UPDATE SET
			last_seen = GREATEST(inventory_items.last_seen, EXCLUDED.last_seen),
			description = CASE
				WHEN inventory_items.description = '' THEN EXCLUDED.description
				ELSE inventory_items.description
			END,
			category = CASE
				WHEN inventory_items.category = '' THEN EXCLUDED.category
				ELSE inventory_items.category
			END
	`

	_, err := s.pool.Exec(ctx, query,
		item.InventoryNumber,
		item.Description,
		item.Category,
		item.FirstSeen,
		item.LastSeen,
	)
	if err != nil {
		return fmt.Errorf("upsert inventory %s: %w", item.InventoryNumber, err)
	}
	return nil
}

// GetByNumber retrieves an item by inventory number. Returns ErrNotFound
// if not exists.
func (s *InventoryStore) GetByNumber(ctx context.Context, inventoryNumber string) (*domain.InventoryItem, error) {
	query := `
		SELECT inventory_number, description, category, first_seen, last_seen
		FROM inventory_items
		WHERE inventory_number = $1
	`

	var item domain.InventoryItem
	err := s.pool.QueryRow(ctx, query, inventoryNumber).Scan(
		&item.InventoryNumber,
		&item.Description,
		&item.Category,
		&item.FirstSeen,
		&item.LastSeen,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get inventory by number: %w", err)
	}
	return &item, nil
}
