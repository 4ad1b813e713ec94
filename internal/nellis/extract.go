package nellis

import (
	"regexp"
	"strconv"
	"strings"

	"auction-scanner/internal/domain"
)

// Text patterns over the rendered product page. The markup is third-party
// and changes without notice; patterns tolerate attribute-order and
// whitespace variation and a miss leaves the field at its zero value.
var (
	// A closed auction shows an "Ended" banner or a "Won For" label next
	// to the settled price.
	closedMarkerRe = regexp.MustCompile(`(?i)\b(?:Ended|Won\s+For)\b`)

	// First dollar amount after a marker, commas allowed.
	priceRe = regexp.MustCompile(`\$\s*([0-9][0-9,]*(?:\.[0-9]+)?)`)

	// Live auctions label the running price "CURRENT PRICE"; the value is
	// the nearest following amount.
	currentPriceRe = regexp.MustCompile(`(?is)CURRENT\s+PRICE.{0,600}?\$\s*([0-9][0-9,]*(?:\.[0-9]+)?)`)

	// The inventory field is labeled "Inventory Number" with the numeric
	// value somewhere in the following markup.
	inventoryRe = regexp.MustCompile(`(?is)Inventory\s+Number.{0,200}?([0-9]{4,})`)
)

// extractPriceInfo applies the ordered extraction rules to a product page:
// a closed marker wins and yields the final price, otherwise the current
// price label is used; the inventory number is extracted independently.
func extractPriceInfo(html string) domain.AuctionPriceSample {
	sample := domain.AuctionPriceSample{State: domain.StateActive}

	if loc := closedMarkerRe.FindStringIndex(html); loc != nil {
		sample.State = domain.StateClosed
		if m := priceRe.FindStringSubmatch(html[loc[1]:]); m != nil {
			sample.Price = parsePrice(m[1])
		}
	} else if m := currentPriceRe.FindStringSubmatch(html); m != nil {
		sample.Price = parsePrice(m[1])
	}

	if m := inventoryRe.FindStringSubmatch(html); m != nil {
		sample.InventoryNumber = m[1]
	}

	return sample
}

// parsePrice strips thousands separators and parses the amount. Returns 0
// on any parse failure rather than erroring.
func parsePrice(s string) float64 {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0
	}
	return v
}
