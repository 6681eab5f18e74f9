package domain

import (
	"context"
	"errors"

	"github.com/twpayne/go-polyline"
)

// ErrUnavailable marks an expected, recoverable provider failure: the provider
// was unreachable, timed out, or answered with a non-success status.
var ErrUnavailable = errors.New("provider unavailable")

// LineString is a GeoJSON LineString. Positions are [lon, lat].
type LineString struct {
	Type        string      `json:"type"`
	Coordinates [][]float64 `json:"coordinates"`
}

// RouteResult is a normalized driving route.
type RouteResult struct {
	DistanceMeters  float64    `json:"distance_m"`
	DurationSeconds float64    `json:"duration_s"`
	Geometry        LineString `json:"geometry"`
}

// RankedRoute joins a route with the shelter it leads to.
type RankedRoute struct {
	Shelter     Shelter    `json:"shelter"`
	DistanceKm  float64    `json:"distance_km"`
	DurationMin float64    `json:"duration_min"`
	Geometry    LineString `json:"geometry"`
}

// NewRankedRoute converts a route to a shelter into display units.
func NewRankedRoute(s Shelter, r RouteResult) RankedRoute {
	return RankedRoute{
		Shelter:     s,
		DistanceKm:  r.DistanceMeters / 1000,
		DurationMin: r.DurationSeconds / 60,
		Geometry:    r.Geometry,
	}
}

// Router computes a driving route between two points. Implementations return
// an error wrapping ErrUnavailable for every provider-side failure.
type Router interface {
	Route(ctx context.Context, from, to Coordinate) (RouteResult, error)
}

// Polyline encodes the geometry in Google's encoded polyline format
// (precision 5, lat/lon order).
func (l LineString) Polyline() string {
	coords := make([][]float64, 0, len(l.Coordinates))
	for _, p := range l.Coordinates {
		if len(p) < 2 {
			continue
		}
		coords = append(coords, []float64{p[1], p[0]})
	}
	return string(polyline.EncodeCoords(coords))
}
