package openmeteo

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/couchcryptid/cyclone-saferoute/internal/domain"
	"github.com/couchcryptid/cyclone-saferoute/internal/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var puri = domain.Coordinate{Lat: 19.8135, Lon: 85.8312}

func testClient(baseURL string, timeout time.Duration) *Client {
	return NewClient(baseURL, timeout, observability.NewMetricsForTesting(),
		slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestClient_Fetch_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/forecast", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "19.8135", q.Get("latitude"))
		assert.Equal(t, "85.8312", q.Get("longitude"))
		assert.Equal(t, currentFields, q.Get("current"))
		assert.Equal(t, "kmh", q.Get("wind_speed_unit"))
		assert.Equal(t, "auto", q.Get("timezone"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"current":{"time":"2026-10-16T09:00","wind_speed_10m":42.5,
			"wind_gusts_10m":61.2,"precipitation":3.4,"weather_code":63,"is_day":1}}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL, 5*time.Second)
	reading, err := c.Fetch(context.Background(), puri)
	require.NoError(t, err)

	assert.Equal(t, 42.5, reading.WindSpeedKmh)
	assert.Equal(t, 61.2, reading.WindGustKmh)
	assert.Equal(t, 3.4, reading.PrecipitationMm)
	assert.Equal(t, 63, reading.WeatherCode)
	assert.True(t, reading.IsDay)
	assert.Equal(t, "2026-10-16T09:00", reading.Time)
	assert.Equal(t, domain.SourceLive, reading.Source)
	assert.InDelta(t, 1.0, testutil.ToFloat64(c.metrics.ProviderRequests.WithLabelValues(providerName, "success")), 0)
}

func TestClient_Fetch_MissingFieldsDefaultToZero(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"current":{"wind_speed_10m":10}}`))
	}))
	defer srv.Close()

	reading, err := testClient(srv.URL, 5*time.Second).Fetch(context.Background(), puri)
	require.NoError(t, err)

	assert.Equal(t, 10.0, reading.WindSpeedKmh)
	assert.Zero(t, reading.PrecipitationMm)
	assert.Zero(t, reading.WindGustKmh)
	assert.False(t, reading.IsDay)
	assert.InDelta(t, 100.0, domain.StormStress(reading), 1e-9)
}

func TestClient_Fetch_EmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	reading, err := testClient(srv.URL, 5*time.Second).Fetch(context.Background(), puri)
	require.NoError(t, err)
	assert.Zero(t, domain.StormStress(reading))
}

func TestClient_Fetch_Unavailable(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "rate limited",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"reason":"limit exceeded"}`))
			},
		},
		{
			name: "undecodable body",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`<html>`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			c := testClient(srv.URL, 5*time.Second)
			_, err := c.Fetch(context.Background(), puri)
			require.ErrorIs(t, err, domain.ErrUnavailable)
			assert.InDelta(t, 1.0, testutil.ToFloat64(c.metrics.ProviderRequests.WithLabelValues(providerName, "unavailable")), 0)
		})
	}
}

func TestClient_Fetch_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL, 50*time.Millisecond).Fetch(context.Background(), puri)
	require.ErrorIs(t, err, domain.ErrUnavailable)
}

func TestClient_Fetch_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := testClient(url, time.Second).Fetch(context.Background(), puri)
	require.ErrorIs(t, err, domain.ErrUnavailable)
}
