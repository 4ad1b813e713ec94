package domain

import "time"

// PriceSnapshot is a price/bid-count observation for a listing at a point
// in time. Append-only, never mutated; used for trend analysis.
// Corresponds to the price_snapshots table in ClickHouse.
type PriceSnapshot struct {
	ListingID  int64
	Price      float64
	BidCount   int
	RecordedAt time.Time
}
