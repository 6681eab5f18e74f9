package http

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/couchcryptid/cyclone-saferoute/internal/advisor"
	"github.com/couchcryptid/cyclone-saferoute/internal/dashboard"
	"github.com/couchcryptid/cyclone-saferoute/internal/domain"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
)

const (
	msgRouteUnavailable = "Could not calculate route. Service may be unavailable."
	msgGeocodeFailed    = "Geocoding service unavailable."
	maxLimit            = 50
)

var errMissingCoordinate = errors.New("lat and lon are required")

// parseCoordinate reads lat and lon query parameters.
func parseCoordinate(r *http.Request) (domain.Coordinate, error) {
	q := r.URL.Query()
	latStr, lonStr := q.Get("lat"), q.Get("lon")
	if latStr == "" || lonStr == "" {
		return domain.Coordinate{}, errMissingCoordinate
	}
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return domain.Coordinate{}, fmt.Errorf("invalid lat %q", latStr)
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return domain.Coordinate{}, fmt.Errorf("invalid lon %q", lonStr)
	}
	c := domain.Coordinate{Lat: lat, Lon: lon}
	if !c.Valid() {
		return domain.Coordinate{}, fmt.Errorf("coordinate %s out of range", c)
	}
	return c, nil
}

// parseLimit reads an optional positive limit, capped at maxLimit.
func parseLimit(r *http.Request, def int) (int, error) {
	s := r.URL.Query().Get("limit")
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid limit %q", s)
	}
	return min(n, maxLimit), nil
}

type assessmentResponse struct {
	advisor.Assessment
	Place domain.Place `json:"place"`
}

func (s *Server) handleAssessment(w http.ResponseWriter, r *http.Request) {
	at, err := parseCoordinate(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, assessmentResponse{
		Assessment: s.advisor.Assess(r.Context(), at),
		Place:      s.advisor.DescribeLocation(r.Context(), at),
	})
}

func (s *Server) handleShelters(w http.ResponseWriter, _ *http.Request) {
	shelters := s.advisor.Shelters()
	sharedobs.WriteJSON(w, http.StatusOK, map[string]any{
		"count":    len(shelters),
		"shelters": shelters,
	})
}

func (s *Server) handleNearestShelters(w http.ResponseWriter, r *http.Request) {
	at, err := parseCoordinate(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	limit, err := parseLimit(r, 1)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	nearest, err := domain.NearestShelters(at, s.advisor.Shelters(), limit)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, map[string]any{
		"count":    len(nearest),
		"shelters": nearest,
	})
}

type routeResponse struct {
	advisor.RouteToNearest
	Polyline string `json:"polyline,omitempty"`
	Message  string `json:"message"`
}

// handleRoute answers 200 even when routing is unavailable; the body says so.
func (s *Server) handleRoute(w http.ResponseWriter, r *http.Request) {
	at, err := parseCoordinate(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.advisor.RouteNearest(r.Context(), at)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	resp := routeResponse{RouteToNearest: result, Message: msgRouteUnavailable}
	if result.Route != nil {
		resp.Polyline = result.Route.Geometry.Polyline()
		resp.Message = fmt.Sprintf("Route Calculated: %.0f mins travel time", math.Round(result.Route.DurationMin))
	}
	sharedobs.WriteJSON(w, http.StatusOK, resp)
}

type rankedRouteResponse struct {
	domain.RankedRoute
	Polyline string `json:"polyline"`
}

func (s *Server) handleRoutes(w http.ResponseWriter, r *http.Request) {
	at, err := parseCoordinate(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	limit, err := parseLimit(r, 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ranked, err := s.advisor.RankNearest(r.Context(), at, limit)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	routes := make([]rankedRouteResponse, len(ranked))
	for i, rr := range ranked {
		routes[i] = rankedRouteResponse{RankedRoute: rr, Polyline: rr.Geometry.Polyline()}
	}
	sharedobs.WriteJSON(w, http.StatusOK, map[string]any{
		"count":  len(routes),
		"routes": routes,
	})
}

func (s *Server) handleGeocode(w http.ResponseWriter, r *http.Request) {
	city := strings.TrimSpace(r.URL.Query().Get("city"))
	if city == "" {
		writeError(w, http.StatusBadRequest, "city is required")
		return
	}

	result, err := s.advisor.ResolveCity(r.Context(), city, r.URL.Query().Get("country"))
	switch {
	case errors.Is(err, domain.ErrCityNotFound):
		writeError(w, http.StatusNotFound, fmt.Sprintf("city %q not found", city))
	case err != nil:
		s.logger.Warn("city lookup failed", "city", city, "error", err, "request_id", RequestID(r.Context()))
		writeError(w, http.StatusBadGateway, msgGeocodeFailed)
	default:
		sharedobs.WriteJSON(w, http.StatusOK, result)
	}
}

// handleDashboard renders the dashboard for an optional location. With
// route=true it also routes to the nearest shelter.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	data := dashboard.Data{Shelters: s.advisor.Shelters()}
	state := dashboard.NewState()

	q := r.URL.Query()
	if q.Get("lat") != "" || q.Get("lon") != "" {
		at, err := parseCoordinate(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		state = state.WithLocation(at, dashboard.ParseLocationSource(q.Get("source")))

		assessment := s.advisor.Assess(r.Context(), at)
		if assessment.WeatherAvailable {
			reading := assessment.Reading
			data.Reading = &reading
		}
		if assessment.NearestShelter != nil {
			data.Nearest = &domain.ShelterDistance{
				Shelter:    *assessment.NearestShelter,
				DistanceKm: assessment.ShelterDistanceKm,
			}
		}
		data.Place = s.advisor.DescribeLocation(r.Context(), at)

		if q.Get("route") == "true" {
			data.RouteRequested = true
			if result, err := s.advisor.RouteNearest(r.Context(), at); err == nil && result.Route != nil {
				state = state.WithRoute(*result.Route)
			}
		}
	}

	sharedobs.WriteJSON(w, http.StatusOK, dashboard.Render(state, data))
}
