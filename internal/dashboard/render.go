package dashboard

import (
	"fmt"
	"math"
	"time"

	"github.com/couchcryptid/cyclone-saferoute/internal/domain"
)

// DefaultCenter is where the map opens before a location is known (Bhubaneswar, Odisha).
var DefaultCenter = domain.Coordinate{Lat: 20.2961, Lon: 85.8245}

const defaultZoom = 8

// Notices shown after a route request.
const (
	noticeRouteFailed = "Could not calculate route. Service may be unavailable."
	noticeWaiting     = "Waiting for location..."
)

// Data is everything Render needs beyond the state. The caller fetches it.
type Data struct {
	Shelters []domain.Shelter
	// Reading is nil when the weather provider was unavailable.
	Reading *domain.WeatherReading
	// Nearest is nil when no location is set.
	Nearest        *domain.ShelterDistance
	Place          domain.Place
	RouteRequested bool
}

// Marker is a pin on the map.
type Marker struct {
	Kind     string            `json:"kind"` // "shelter" or "user"
	Location domain.Coordinate `json:"location"`
	Label    string            `json:"label"`
	Color    string            `json:"color"`
}

// MapView is the map panel.
type MapView struct {
	Center   domain.Coordinate  `json:"center"`
	Zoom     int                `json:"zoom"`
	Markers  []Marker           `json:"markers"`
	Route    *domain.LineString `json:"route,omitempty"`
	Polyline string             `json:"polyline,omitempty"`
}

// WeatherCard shows the two inputs to the risk score.
type WeatherCard struct {
	Available       bool    `json:"available"`
	WindSpeedKmh    float64 `json:"wind_speed_kmh"`
	PrecipitationMm float64 `json:"precipitation_mm"`
	Source          string  `json:"source,omitempty"`
}

// RiskBadge is the color-coded risk tier.
type RiskBadge struct {
	Level      domain.RiskLevel `json:"level"`
	Message    string           `json:"message"`
	Stress     float64          `json:"storm_stress"`
	Background string           `json:"background"`
	Border     string           `json:"border"`
	Text       string           `json:"text"`
}

// ShelterCard describes the nearest shelter.
type ShelterCard struct {
	Name       string  `json:"name"`
	Capacity   int     `json:"capacity"`
	DistanceKm float64 `json:"distance_km"`
	Summary    string  `json:"summary"`
}

// View is the rendered dashboard.
type View struct {
	Source     LocationSource `json:"location_source"`
	Place      *domain.Place  `json:"place,omitempty"`
	Map        MapView        `json:"map"`
	Weather    *WeatherCard   `json:"weather,omitempty"`
	Risk       *RiskBadge     `json:"risk,omitempty"`
	Nearest    *ShelterCard   `json:"nearest_shelter,omitempty"`
	Notice     string         `json:"notice,omitempty"`
	RenderedAt time.Time      `json:"rendered_at"`
}

// Render builds the dashboard view for a state. It performs no I/O.
func Render(state UiState, data Data) View {
	view := View{
		Source:     state.Source(),
		Map:        renderMap(state, data.Shelters),
		RenderedAt: domain.Now().UTC(),
	}

	if _, ok := state.Location(); !ok {
		view.Notice = noticeWaiting
		return view
	}

	if data.Place.Source != "" {
		place := data.Place
		view.Place = &place
	}
	view.Weather, view.Risk = renderWeather(data.Reading)

	if data.Nearest != nil {
		view.Nearest = &ShelterCard{
			Name:       data.Nearest.Shelter.Name,
			Capacity:   data.Nearest.Shelter.Capacity,
			DistanceKm: data.Nearest.DistanceKm,
			Summary: fmt.Sprintf("%d spots available, %.1f km away",
				data.Nearest.Shelter.Capacity, data.Nearest.DistanceKm),
		}
	}

	if route, ok := state.Route(); ok {
		view.Notice = fmt.Sprintf("Route Calculated: %.0f mins travel time", math.Round(route.DurationMin))
	} else if data.RouteRequested {
		view.Notice = noticeRouteFailed
	}
	return view
}

func renderMap(state UiState, shelters []domain.Shelter) MapView {
	m := MapView{
		Center:  DefaultCenter,
		Zoom:    defaultZoom,
		Markers: make([]Marker, 0, len(shelters)+1),
	}
	for _, s := range shelters {
		m.Markers = append(m.Markers, Marker{
			Kind:     "shelter",
			Location: s.Location,
			Label:    fmt.Sprintf("%s (capacity %d)", s.Name, s.Capacity),
			Color:    "green",
		})
	}

	loc, ok := state.Location()
	if !ok {
		return m
	}
	m.Center = loc
	m.Markers = append(m.Markers, Marker{
		Kind:     "user",
		Location: loc,
		Label:    "You are here",
		Color:    "red",
	})

	if route, ok := state.Route(); ok {
		geometry := route.Geometry
		m.Route = &geometry
		m.Polyline = geometry.Polyline()
	}
	return m
}

func renderWeather(reading *domain.WeatherReading) (*WeatherCard, *RiskBadge) {
	r := domain.WeatherReading{}
	card := &WeatherCard{}
	if reading != nil {
		r = *reading
		card.Available = true
		card.WindSpeedKmh = r.WindSpeedKmh
		card.PrecipitationMm = r.PrecipitationMm
		card.Source = r.Source
	}

	stress := domain.StormStress(r)
	risk := domain.ClassifyRisk(stress)
	palette := badgePalette[risk.Level]
	return card, &RiskBadge{
		Level:      risk.Level,
		Message:    risk.Message,
		Stress:     stress,
		Background: palette[0],
		Border:     palette[1],
		Text:       palette[2],
	}
}

// badgePalette holds background, border and text colors per tier.
var badgePalette = map[domain.RiskLevel][3]string{
	domain.RiskHigh:     {"#fee2e2", "#ef4444", "#b91c1c"},
	domain.RiskModerate: {"#ffedd5", "#f97316", "#c2410c"},
	domain.RiskLow:      {"#dcfce7", "#22c55e", "#15803d"},
}
