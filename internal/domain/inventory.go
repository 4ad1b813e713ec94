package domain

import "time"

// InventoryItem represents a physical good that may recur across multiple
// auction listings. The marketplace-assigned inventory number is the
// natural key; there is no surrogate ID.
// Corresponds to the inventory_items table in PostgreSQL.
type InventoryItem struct {
	InventoryNumber string // PRIMARY KEY
	Description     string // backfilled from a listing title only while empty
	Category        string // category display name at first sighting
	FirstSeen       time.Time
	LastSeen        time.Time
}
