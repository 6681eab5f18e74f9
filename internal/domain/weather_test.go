package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStormStress(t *testing.T) {
	tests := []struct {
		name    string
		reading WeatherReading
		want    float64
	}{
		{"zero reading", WeatherReading{}, 0},
		{"wind and rain", WeatherReading{WindSpeedKmh: 10, PrecipitationMm: 5}, 150},
		{"wind only", WeatherReading{WindSpeedKmh: 50}, 2500},
		{"rain only", WeatherReading{PrecipitationMm: 12.5}, 125},
		{"gust ignored", WeatherReading{WindSpeedKmh: 10, WindGustKmh: 90}, 100},
		{"NaN wind treated as zero", WeatherReading{WindSpeedKmh: math.NaN(), PrecipitationMm: 1}, 10},
		{"infinite rain treated as zero", WeatherReading{WindSpeedKmh: 2, PrecipitationMm: math.Inf(1)}, 4},
		{"negative inputs treated as zero", WeatherReading{WindSpeedKmh: -30, PrecipitationMm: -2}, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, StormStress(tc.reading), 1e-9)
		})
	}
}

func TestReadingFromWindComponents(t *testing.T) {
	r := ReadingFromWindComponents(3, 4, 2)

	// |(3,4)| = 5, gust proxy = 6.5
	assert.InDelta(t, 6.5, r.WindSpeedKmh, 1e-9)
	assert.InDelta(t, 6.5, r.WindGustKmh, 1e-9)
	assert.Equal(t, 2.0, r.PrecipitationMm)
	assert.Equal(t, SourceReanalysis, r.Source)
	assert.InDelta(t, 6.5*6.5+20, StormStress(r), 1e-9)
}

func TestReadingFromWindComponents_NegativeComponents(t *testing.T) {
	pos := ReadingFromWindComponents(3, 4, 0)
	neg := ReadingFromWindComponents(-3, -4, 0)
	assert.InDelta(t, pos.WindSpeedKmh, neg.WindSpeedKmh, 1e-9)
}

func TestReadingFromWindComponents_BadInput(t *testing.T) {
	r := ReadingFromWindComponents(math.NaN(), math.Inf(-1), -1)
	assert.Zero(t, r.WindSpeedKmh)
	assert.Zero(t, r.PrecipitationMm)
	assert.Zero(t, StormStress(r))
}
