// Package dashboard models the evacuation dashboard as an immutable state
// value and a pure render function over that state.
package dashboard

import "github.com/couchcryptid/cyclone-saferoute/internal/domain"

// LocationSource records how the user's location was chosen.
type LocationSource string

const (
	SourceInit   LocationSource = "init"
	SourceGPS    LocationSource = "gps"
	SourceManual LocationSource = "manual"
)

// ParseLocationSource maps a query value to a LocationSource. Unknown
// values read as manual.
func ParseLocationSource(s string) LocationSource {
	switch LocationSource(s) {
	case SourceGPS:
		return SourceGPS
	default:
		return SourceManual
	}
}

// UiState is the dashboard's session state. Every transition returns a new
// value; the receiver is never modified.
type UiState struct {
	location *domain.Coordinate
	source   LocationSource
	route    *domain.RankedRoute
}

// NewState returns the state before any location is known.
func NewState() UiState {
	return UiState{source: SourceInit}
}

// WithLocation sets the user's location. A GPS fix does not override a
// location the user picked by hand. Moving to a new location clears the
// current route.
func (s UiState) WithLocation(at domain.Coordinate, source LocationSource) UiState {
	if source == SourceGPS && s.source == SourceManual {
		return s
	}
	if s.location != nil && *s.location == at {
		s.source = source
		return s
	}
	loc := at
	return UiState{location: &loc, source: source}
}

// WithRoute records the route being drawn. It has no effect before a
// location is set.
func (s UiState) WithRoute(r domain.RankedRoute) UiState {
	if s.location == nil {
		return s
	}
	route := r
	s.route = &route
	return s
}

// Location returns the user's location, if one is set.
func (s UiState) Location() (domain.Coordinate, bool) {
	if s.location == nil {
		return domain.Coordinate{}, false
	}
	return *s.location, true
}

// Source reports how the location was chosen.
func (s UiState) Source() LocationSource {
	return s.source
}

// Route returns the current route, if one is set.
func (s UiState) Route() (domain.RankedRoute, bool) {
	if s.route == nil {
		return domain.RankedRoute{}, false
	}
	return *s.route, true
}
