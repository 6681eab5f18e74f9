package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// ErrCityNotFound is returned when neither the built-in table nor the geocoder
// knows a city.
var ErrCityNotFound = errors.New("city not found")

// DefaultCountry scopes city lookups when the caller does not name a country.
const DefaultCountry = "India"

// cycloneCities holds coordinates for common cyclone-prone Indian coastal
// cities so lookups for them never leave the process.
var cycloneCities = map[string]Coordinate{
	"puri":          {Lat: 19.8135, Lon: 85.8312},
	"bhubaneswar":   {Lat: 20.2961, Lon: 85.8245},
	"cuttack":       {Lat: 20.4625, Lon: 85.8830},
	"visakhapatnam": {Lat: 17.6868, Lon: 83.2185},
	"chennai":       {Lat: 13.0827, Lon: 80.2707},
	"kolkata":       {Lat: 22.5726, Lon: 88.3639},
	"mumbai":        {Lat: 19.0760, Lon: 72.8777},
	"paradip":       {Lat: 20.3164, Lon: 86.6085},
	"gopalpur":      {Lat: 19.2594, Lon: 84.9058},
	"machilipatnam": {Lat: 16.1875, Lon: 81.1389},
	"kakinada":      {Lat: 16.9891, Lon: 82.2475},
	"porbandar":     {Lat: 21.6417, Lon: 69.6293},
	"veraval":       {Lat: 20.9073, Lon: 70.3626},
	"digha":         {Lat: 21.6283, Lon: 87.5120},
}

// ResolveCity looks a city up in the built-in table first and falls back to
// the geocoder. A nil geocoder limits lookups to the built-in table.
func ResolveCity(ctx context.Context, city, country string, geocoder Geocoder) (GeocodingResult, error) {
	key := strings.ToLower(strings.TrimSpace(city))
	if key == "" {
		return GeocodingResult{}, ErrCityNotFound
	}
	if loc, ok := cycloneCities[key]; ok {
		return GeocodingResult{
			Location:   loc,
			PlaceName:  strings.TrimSpace(city),
			Confidence: 1,
			Source:     "builtin",
		}, nil
	}
	if geocoder == nil {
		return GeocodingResult{}, ErrCityNotFound
	}

	if country == "" {
		country = DefaultCountry
	}
	result, err := geocoder.ForwardGeocode(ctx, strings.TrimSpace(city), country)
	if err != nil {
		return GeocodingResult{}, fmt.Errorf("geocode %q: %w", city, err)
	}
	if result.Location == (Coordinate{}) {
		return GeocodingResult{}, ErrCityNotFound
	}
	result.Source = "forward"
	return result, nil
}

// Place is a display label for a user location.
type Place struct {
	Name    string `json:"name,omitempty"`
	Address string `json:"address,omitempty"`
	Source  string `json:"source"` // "reverse", "original", "failed"
}

// DescribeLocation reverse geocodes a location for display. Failures are
// logged and reported through Source rather than returned.
func DescribeLocation(ctx context.Context, at Coordinate, geocoder Geocoder, logger *slog.Logger) Place {
	if geocoder == nil {
		return Place{Source: "original"}
	}

	result, err := geocoder.ReverseGeocode(ctx, at)
	if err != nil {
		logger.Warn("reverse geocoding failed",
			"lat", at.Lat,
			"lon", at.Lon,
			"error", err,
		)
		return Place{Source: "failed"}
	}
	if result.FormattedAddress == "" {
		return Place{Source: "original"}
	}
	return Place{
		Name:    result.PlaceName,
		Address: result.FormattedAddress,
		Source:  "reverse",
	}
}
