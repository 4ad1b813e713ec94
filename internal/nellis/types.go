package nellis

import (
	"fmt"
	"time"

	"auction-scanner/internal/domain"
)

// SearchPage is one normalized page of search results.
type SearchPage struct {
	Page       int
	TotalPages int
	TotalHits  int
	Listings   []*domain.AuctionListing
}

// searchResponse mirrors the marketplace search payload. Only the consumed
// fields are declared; the payload carries much more.
type searchResponse struct {
	Algolia            *algoliaInfo  `json:"algolia"`
	Products           []wireProduct `json:"products"`
	SearchResultsCount int           `json:"searchResultsCount"`
}

// algoliaInfo is the pagination block of the search payload.
type algoliaInfo struct {
	Page          int `json:"page"`
	NumberOfPages int `json:"nbPages"`
	NumberOfHits  int `json:"nbHits"`
	HitsPerPage   int `json:"hitsPerPage"`
}

// wireProduct mirrors one listing object in search and detail payloads.
type wireProduct struct {
	ID              int64         `json:"id"`
	Title           string        `json:"title"`
	InventoryNumber string        `json:"inventoryNumber"`
	RetailPrice     float64       `json:"retailPrice"`
	CurrentPrice    float64       `json:"currentPrice"`
	BidCount        int           `json:"bidCount"`
	OpenTime        Timestamp     `json:"openTime"`
	CloseTime       Timestamp     `json:"closeTime"`
	IsClosed        bool          `json:"isClosed"`
	Location        *wireLocation `json:"location"`
}

type wireLocation struct {
	City  string `json:"city"`
	State string `json:"state"`
}

// toDomain normalizes a wire product into an AuctionListing. FinalPrice is
// always zero here: the search payload is not trusted for final prices.
func (p *wireProduct) toDomain(now time.Time) *domain.AuctionListing {
	state := domain.StateActive
	if p.IsClosed {
		state = domain.StateClosed
	}

	listing := &domain.AuctionListing{
		ID:              p.ID,
		Title:           p.Title,
		InventoryNumber: p.InventoryNumber,
		RetailPrice:     p.RetailPrice,
		CurrentPrice:    p.CurrentPrice,
		BidCount:        p.BidCount,
		State:           state,
		OpenTime:        p.OpenTime.Time,
		CloseTime:       p.CloseTime.Time,
		LastUpdated:     now,
	}
	if p.Location != nil {
		listing.Location = fmt.Sprintf("%s, %s", p.Location.City, p.Location.State)
	}
	return listing
}
