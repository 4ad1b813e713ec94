package domain

// Location is a marketplace shopping location.
type Location string

const (
	LocationLasVegas     Location = "LasVegas"
	LocationPhoenix      Location = "Phoenix"
	LocationHouston      Location = "Houston"
	LocationPhiladelphia Location = "Philadelphia"
	LocationDenver       Location = "Denver"
	LocationDallas       Location = "Dallas"
)

var locationNames = map[Location]string{
	LocationLasVegas:     "Las Vegas, NV",
	LocationPhoenix:      "Phoenix, AZ",
	LocationHouston:      "Houston, TX",
	LocationPhiladelphia: "Philadelphia, PA",
	LocationDenver:       "Denver, CO",
	LocationDallas:       "Dallas, TX",
}

// DisplayName returns the location name as used in search query parameters.
func (l Location) DisplayName() string {
	if name, ok := locationNames[l]; ok {
		return name
	}
	return string(l)
}
