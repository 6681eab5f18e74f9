// Package osrm requests driving routes from an OSRM routing server.
package osrm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/cyclone-saferoute/internal/domain"
	"github.com/couchcryptid/cyclone-saferoute/internal/observability"
)

const providerName = "osrm"

// codeOK is the only OSRM response code that carries usable routes.
const codeOK = "Ok"

var errNoRoute = errors.New("no route in response")

// Client implements domain.Router using the OSRM route service.
type Client struct {
	httpClient *http.Client
	baseURL    string
	profile    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates an OSRM client for the given profile ("driving", "foot", ...).
func NewClient(baseURL, profile string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		profile: profile,
		metrics: metrics,
		logger:  logger,
	}
}

// Route returns the first route OSRM proposes between two points. It makes a
// single attempt; every failure wraps domain.ErrUnavailable.
func (c *Client) Route(ctx context.Context, from, to domain.Coordinate) (domain.RouteResult, error) {
	start := time.Now()
	result, err := c.route(ctx, from, to)
	c.metrics.ProviderDuration.WithLabelValues(providerName).Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.ProviderRequests.WithLabelValues(providerName, "unavailable").Inc()
		c.logger.Warn("route request failed",
			"from", from.String(),
			"to", to.String(),
			"error", err,
		)
		return domain.RouteResult{}, fmt.Errorf("%w: route: %w", domain.ErrUnavailable, err)
	}
	c.metrics.ProviderRequests.WithLabelValues(providerName, "success").Inc()
	return result, nil
}

func (c *Client) route(ctx context.Context, from, to domain.Coordinate) (domain.RouteResult, error) {
	// OSRM takes lon,lat pairs.
	u := fmt.Sprintf("%s/route/v1/%s/%f,%f;%f,%f?overview=full&geometries=geojson",
		c.baseURL, c.profile, from.Lon, from.Lat, to.Lon, to.Lat)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return domain.RouteResult{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.RouteResult{}, fmt.Errorf("route request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return domain.RouteResult{}, fmt.Errorf("osrm API error: status %d: %s", resp.StatusCode, body)
	}

	var routeResp response
	if err := json.NewDecoder(resp.Body).Decode(&routeResp); err != nil {
		return domain.RouteResult{}, fmt.Errorf("decode response: %w", err)
	}
	if routeResp.Code != codeOK {
		return domain.RouteResult{}, fmt.Errorf("osrm code %q: %s", routeResp.Code, routeResp.Message)
	}
	if len(routeResp.Routes) == 0 {
		return domain.RouteResult{}, errNoRoute
	}

	r := routeResp.Routes[0]
	geometry := domain.LineString{Type: "LineString", Coordinates: r.Geometry.Coordinates}
	if r.Geometry.Type != "" {
		geometry.Type = r.Geometry.Type
	}
	return domain.RouteResult{
		DistanceMeters:  r.Distance,
		DurationSeconds: r.Duration,
		Geometry:        geometry,
	}, nil
}

// OSRM API response types.

type response struct {
	Code    string  `json:"code"`
	Message string  `json:"message"`
	Routes  []route `json:"routes"`
}

type route struct {
	Distance float64  `json:"distance"` // meters
	Duration float64  `json:"duration"` // seconds
	Geometry geometry `json:"geometry"`
}

type geometry struct {
	Type        string      `json:"type"`
	Coordinates [][]float64 `json:"coordinates"` // [lon, lat]
}
