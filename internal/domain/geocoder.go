package domain

import "context"

// GeocodingResult contains location data returned by a geocoding provider.
type GeocodingResult struct {
	Location         Coordinate `json:"location"`
	FormattedAddress string     `json:"formatted_address,omitempty"`
	PlaceName        string     `json:"place_name,omitempty"`
	Confidence       float64    `json:"confidence"` // 0.0–1.0 provider confidence score
	Source           string     `json:"source"`     // "builtin", "forward", "reverse"
}

// Geocoder resolves place names and coordinates.
type Geocoder interface {
	// ForwardGeocode converts a city name within a country to coordinates.
	ForwardGeocode(ctx context.Context, city, country string) (GeocodingResult, error)

	// ReverseGeocode converts coordinates to place details.
	ReverseGeocode(ctx context.Context, at Coordinate) (GeocodingResult, error)
}
