package domain

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
)

func TestNewAdvisory(t *testing.T) {
	at := time.Date(2024, time.May, 26, 6, 0, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(at))
	t.Cleanup(func() { SetClock(nil) })

	loc := Coordinate{Lat: 19.8135, Lon: 85.8312}
	a := NewAdvisory(loc, WeatherReading{WindSpeedKmh: 60, PrecipitationMm: 12})

	assert.NotEmpty(t, a.ID)
	assert.Equal(t, loc, a.Location)
	assert.Equal(t, 3720.0, a.Stress)
	assert.Equal(t, RiskHigh, a.Risk.Level)
	assert.Equal(t, at, a.AssessedAt)
	assert.Nil(t, a.NearestShelter)
}

func TestNewAdvisory_UniqueIDs(t *testing.T) {
	a := NewAdvisory(Coordinate{}, WeatherReading{})
	b := NewAdvisory(Coordinate{}, WeatherReading{})
	assert.NotEqual(t, a.ID, b.ID)
}
