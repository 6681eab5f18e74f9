package domain

import (
	"context"
	"math"
)

// GustFactor approximates peak gusts from mean wind when a source reports no gusts.
const GustFactor = 1.3

// precipitationWeight scales rainfall (mm) into stress units.
const precipitationWeight = 10

// Weather source tags carried on a WeatherReading.
const (
	SourceLive       = "live"
	SourceReanalysis = "reanalysis"
	SourceSynthetic  = "synthetic"
)

// WeatherReading is a normalized weather observation for one location.
// Only WindSpeedKmh and PrecipitationMm contribute to storm stress.
type WeatherReading struct {
	WindSpeedKmh    float64 `json:"wind_speed_kmh"`
	WindGustKmh     float64 `json:"wind_gust_kmh"`
	PrecipitationMm float64 `json:"precipitation_mm"`
	WeatherCode     int     `json:"weather_code"`
	IsDay           bool    `json:"is_day"`
	Time            string  `json:"time,omitempty"`
	Source          string  `json:"source,omitempty"`
}

// WeatherProvider fetches the current reading for a location.
type WeatherProvider interface {
	Fetch(ctx context.Context, at Coordinate) (WeatherReading, error)
}

// StormStress scores a reading as wind² + precipitation×10.
// Missing, NaN, infinite, or negative inputs count as zero.
func StormStress(r WeatherReading) float64 {
	wind := nonNegative(r.WindSpeedKmh)
	rain := nonNegative(r.PrecipitationMm)
	return wind*wind + rain*precipitationWeight
}

// ReadingFromWindComponents normalizes reanalysis-style input (orthogonal wind
// components and total precipitation) into a WeatherReading. The gust proxy
// becomes the reading's wind speed so StormStress scores it like a live reading.
func ReadingFromWindComponents(u, v, precipitation float64) WeatherReading {
	speed := math.Hypot(finiteOrZero(u), finiteOrZero(v))
	gust := speed * GustFactor
	return WeatherReading{
		WindSpeedKmh:    gust,
		WindGustKmh:     gust,
		PrecipitationMm: nonNegative(precipitation),
		Source:          SourceReanalysis,
	}
}

func nonNegative(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// finiteOrZero zeroes NaN and infinities but keeps the sign; wind
// components are directional and may be negative.
func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
