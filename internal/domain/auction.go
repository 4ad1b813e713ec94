package domain

import "time"

// AuctionState is the lifecycle state of a listing.
// Closing is terminal: automated updates never move a listing back to Active.
type AuctionState string

const (
	StateActive AuctionState = "active"
	StateClosed AuctionState = "closed"
)

// AuctionListing represents one tracked auction.
// Corresponds to the auctions table in PostgreSQL.
type AuctionListing struct {
	ID              int64        // PRIMARY KEY, marketplace-assigned
	Title           string
	InventoryNumber string       // links to inventory_items, may be empty
	RetailPrice     float64
	CurrentPrice    float64
	FinalPrice      float64      // zero until set by reconciliation
	BidCount        int
	State           AuctionState // active | closed
	OpenTime        time.Time
	CloseTime       time.Time
	Location        string // free text, "City, ST"
	LastUpdated     time.Time
}

// AuctionPriceSample is the result of a price-info fetch against the
// rendered product page. It is transient: consumed by the orchestrator,
// never persisted as its own entity.
type AuctionPriceSample struct {
	ListingID       int64
	Price           float64
	State           AuctionState
	InventoryNumber string // empty when the page carried no inventory field
	RetrievedAt     time.Time
}

// PriceUpdate is a single event from the live-update stream of a listing.
type PriceUpdate struct {
	ProductID    int64     `json:"productId"`
	CurrentPrice float64   `json:"currentPrice"`
	BidCount     int       `json:"bidCount"`
	Timestamp    time.Time `json:"timestamp"`
}
