// Package openmeteo fetches current conditions from the Open-Meteo forecast API.
package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/couchcryptid/cyclone-saferoute/internal/domain"
	"github.com/couchcryptid/cyclone-saferoute/internal/observability"
)

const providerName = "openmeteo"

// currentFields lists the variables requested under "current".
const currentFields = "wind_speed_10m,precipitation,weather_code,is_day,wind_gusts_10m"

// Client implements domain.WeatherProvider against Open-Meteo.
type Client struct {
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates an Open-Meteo client rooted at baseURL.
func NewClient(baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		metrics: metrics,
		logger:  logger,
	}
}

// Fetch returns the current reading at a location. Every failure wraps
// domain.ErrUnavailable; absent fields in a successful response read as zero.
func (c *Client) Fetch(ctx context.Context, at domain.Coordinate) (domain.WeatherReading, error) {
	start := time.Now()
	reading, err := c.fetch(ctx, at)
	c.metrics.ProviderDuration.WithLabelValues(providerName).Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.ProviderRequests.WithLabelValues(providerName, "unavailable").Inc()
		c.logger.Warn("weather fetch failed", "lat", at.Lat, "lon", at.Lon, "error", err)
		return domain.WeatherReading{}, fmt.Errorf("%w: weather: %w", domain.ErrUnavailable, err)
	}
	c.metrics.ProviderRequests.WithLabelValues(providerName, "success").Inc()
	return reading, nil
}

func (c *Client) fetch(ctx context.Context, at domain.Coordinate) (domain.WeatherReading, error) {
	params := url.Values{
		"latitude":        {strconv.FormatFloat(at.Lat, 'f', -1, 64)},
		"longitude":       {strconv.FormatFloat(at.Lon, 'f', -1, 64)},
		"current":         {currentFields},
		"wind_speed_unit": {"kmh"},
		"timezone":        {"auto"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/forecast?"+params.Encode(), nil)
	if err != nil {
		return domain.WeatherReading{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.WeatherReading{}, fmt.Errorf("forecast request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return domain.WeatherReading{}, fmt.Errorf("open-meteo API error: status %d: %s", resp.StatusCode, body)
	}

	var forecast response
	if err := json.NewDecoder(resp.Body).Decode(&forecast); err != nil {
		return domain.WeatherReading{}, fmt.Errorf("decode response: %w", err)
	}
	return forecast.Current.reading(), nil
}

// Open-Meteo API response types. Pointer fields distinguish absent values.

type response struct {
	Current current `json:"current"`
}

type current struct {
	Time          string   `json:"time"`
	WindSpeed     *float64 `json:"wind_speed_10m"`
	WindGusts     *float64 `json:"wind_gusts_10m"`
	Precipitation *float64 `json:"precipitation"`
	WeatherCode   *int     `json:"weather_code"`
	IsDay         *int     `json:"is_day"`
}

func (c current) reading() domain.WeatherReading {
	return domain.WeatherReading{
		WindSpeedKmh:    deref(c.WindSpeed),
		WindGustKmh:     deref(c.WindGusts),
		PrecipitationMm: deref(c.Precipitation),
		WeatherCode:     deref(c.WeatherCode),
		IsDay:           deref(c.IsDay) == 1,
		Time:            c.Time,
		Source:          domain.SourceLive,
	}
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
