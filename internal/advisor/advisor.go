// Package advisor composes weather, shelter, and routing lookups into the
// operations the API serves.
package advisor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync/atomic"

	"github.com/couchcryptid/cyclone-saferoute/internal/domain"
	"github.com/couchcryptid/cyclone-saferoute/internal/observability"
)

// DefaultCandidates is how many nearby shelters RankNearest routes to when
// the caller does not say.
const DefaultCandidates = 5

// Advisor answers risk and evacuation queries for a location.
type Advisor struct {
	weather    domain.WeatherProvider
	router     domain.Router
	shelters   []domain.Shelter
	geocoder   domain.Geocoder
	publisher  domain.AdvisoryPublisher
	candidates int
	logger     *slog.Logger
	metrics    *observability.Metrics
	ready      atomic.Bool
}

// Option configures optional Advisor collaborators.
type Option func(*Advisor)

// WithGeocoder enables city lookup and reverse geocoding beyond the built-in table.
func WithGeocoder(g domain.Geocoder) Option {
	return func(a *Advisor) { a.geocoder = g }
}

// WithPublisher sends every live assessment to an advisory sink.
func WithPublisher(p domain.AdvisoryPublisher) Option {
	return func(a *Advisor) { a.publisher = p }
}

// WithCandidates sets the default number of shelters RankNearest considers.
func WithCandidates(n int) Option {
	return func(a *Advisor) {
		if n > 0 {
			a.candidates = n
		}
	}
}

// New creates an Advisor over a fixed shelter set. The set must be non-empty.
func New(weather domain.WeatherProvider, router domain.Router, shelters []domain.Shelter, logger *slog.Logger, metrics *observability.Metrics, opts ...Option) (*Advisor, error) {
	if len(shelters) == 0 {
		return nil, domain.ErrEmptyShelterSet
	}
	a := &Advisor{
		weather:    weather,
		router:     router,
		shelters:   slices.Clone(shelters),
		candidates: DefaultCandidates,
		logger:     logger,
		metrics:    metrics,
	}
	for _, opt := range opts {
		opt(a)
	}
	metrics.SheltersLoaded.Set(float64(len(a.shelters)))
	a.ready.Store(true)
	return a, nil
}

// CheckReadiness returns nil once the shelter set is loaded.
func (a *Advisor) CheckReadiness(_ context.Context) error {
	if !a.ready.Load() {
		return errors.New("shelter set not loaded")
	}
	return nil
}

// Shelters returns a copy of the loaded shelter set.
func (a *Advisor) Shelters() []domain.Shelter {
	return slices.Clone(a.shelters)
}

// NearestShelter returns the shelter closest to origin.
func (a *Advisor) NearestShelter(origin domain.Coordinate) (domain.ShelterDistance, error) {
	s, d, err := domain.NearestShelter(origin, a.shelters)
	if err != nil {
		return domain.ShelterDistance{}, err
	}
	return domain.ShelterDistance{Shelter: s, DistanceKm: d}, nil
}

// FastestRoute asks the router for one route. Every failure wraps
// domain.ErrUnavailable; there are no retries.
func (a *Advisor) FastestRoute(ctx context.Context, origin, dest domain.Coordinate) (domain.RouteResult, error) {
	r, err := a.router.Route(ctx, origin, dest)
	if err != nil {
		if !errors.Is(err, domain.ErrUnavailable) {
			err = fmt.Errorf("%w: %w", domain.ErrUnavailable, err)
		}
		return domain.RouteResult{}, err
	}
	return r, nil
}

// RankRoutes routes to each shelter in turn, drops shelters whose route is
// unavailable, and orders the rest by travel time. Equal durations keep
// the input order.
func (a *Advisor) RankRoutes(ctx context.Context, origin domain.Coordinate, shelters []domain.Shelter) []domain.RankedRoute {
	ranked := make([]domain.RankedRoute, 0, len(shelters))
	for _, s := range shelters {
		r, err := a.FastestRoute(ctx, origin, s.Location)
		if err != nil {
			a.logger.Debug("shelter dropped from ranking", "shelter", s.Name, "error", err)
			continue
		}
		ranked = append(ranked, domain.NewRankedRoute(s, r))
	}

	slices.SortStableFunc(ranked, func(x, y domain.RankedRoute) int {
		switch {
		case x.DurationMin < y.DurationMin:
			return -1
		case x.DurationMin > y.DurationMin:
			return 1
		default:
			return 0
		}
	})
	return ranked
}

// RankNearest ranks routes to the limit closest shelters by straight-line
// distance. limit <= 0 uses the configured default.
func (a *Advisor) RankNearest(ctx context.Context, origin domain.Coordinate, limit int) ([]domain.RankedRoute, error) {
	if limit <= 0 {
		limit = a.candidates
	}
	nearest, err := domain.NearestShelters(origin, a.shelters, limit)
	if err != nil {
		return nil, err
	}

	candidates := make([]domain.Shelter, len(nearest))
	for i, n := range nearest {
		candidates[i] = n.Shelter
	}
	a.metrics.RankedCandidates.Observe(float64(len(candidates)))
	return a.RankRoutes(ctx, origin, candidates), nil
}

// RouteToNearest is the nearest shelter and, when the router answered, the
// route to it.
type RouteToNearest struct {
	Shelter    domain.Shelter      `json:"shelter"`
	DistanceKm float64             `json:"distance_km"`
	Available  bool                `json:"available"`
	Route      *domain.RankedRoute `json:"route,omitempty"`
}

// RouteNearest finds the nearest shelter and routes to it. An unavailable
// router is reported through Available, not as an error.
func (a *Advisor) RouteNearest(ctx context.Context, origin domain.Coordinate) (RouteToNearest, error) {
	nearest, err := a.NearestShelter(origin)
	if err != nil {
		return RouteToNearest{}, err
	}
	out := RouteToNearest{Shelter: nearest.Shelter, DistanceKm: nearest.DistanceKm}

	r, err := a.FastestRoute(ctx, origin, nearest.Shelter.Location)
	if err != nil {
		return out, nil
	}
	ranked := domain.NewRankedRoute(nearest.Shelter, r)
	out.Available = true
	out.Route = &ranked
	return out, nil
}

// Assessment is an advisory plus whether the weather behind it was fetched.
// When WeatherAvailable is false the reading is all zeros and the risk LOW.
type Assessment struct {
	domain.Advisory
	WeatherAvailable bool `json:"weather_available"`
}

// Assess scores the current weather at origin and attaches the nearest
// shelter. A failed weather fetch degrades to a zero reading. Live
// assessments go to the publisher; publish failures are only logged.
func (a *Advisor) Assess(ctx context.Context, origin domain.Coordinate) Assessment {
	reading, err := a.weather.Fetch(ctx, origin)
	available := err == nil
	if err != nil {
		a.logger.Warn("weather unavailable, assessing with empty reading",
			"lat", origin.Lat,
			"lon", origin.Lon,
			"error", err,
		)
		reading = domain.WeatherReading{}
	}

	advisory := domain.NewAdvisory(origin, reading)
	if nearest, err := a.NearestShelter(origin); err == nil {
		s := nearest.Shelter
		advisory.NearestShelter = &s
		advisory.ShelterDistanceKm = nearest.DistanceKm
	}
	a.metrics.Assessments.WithLabelValues(string(advisory.Risk.Level)).Inc()

	if available {
		a.publish(ctx, advisory)
	}
	return Assessment{Advisory: advisory, WeatherAvailable: available}
}

func (a *Advisor) publish(ctx context.Context, advisory domain.Advisory) {
	if a.publisher == nil {
		return
	}
	if err := a.publisher.Publish(ctx, advisory); err != nil {
		a.metrics.AdvisoriesPublished.WithLabelValues("error").Inc()
		a.logger.Error("publish advisory failed", "id", advisory.ID, "error", err)
		return
	}
	a.metrics.AdvisoriesPublished.WithLabelValues("success").Inc()
}

// ResolveCity looks a city up in the built-in table, then the geocoder.
func (a *Advisor) ResolveCity(ctx context.Context, city, country string) (domain.GeocodingResult, error) {
	return domain.ResolveCity(ctx, city, country, a.geocoder)
}

// DescribeLocation labels a coordinate for display. It never fails.
func (a *Advisor) DescribeLocation(ctx context.Context, at domain.Coordinate) domain.Place {
	return domain.DescribeLocation(ctx, at, a.geocoder, a.logger)
}
