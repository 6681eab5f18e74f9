package synthetic

import (
	"context"
	"testing"
	"time"

	"github.com/couchcryptid/cyclone-saferoute/internal/domain"
	"github.com/couchcryptid/cyclone-saferoute/internal/observability"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var puri = domain.Coordinate{Lat: 19.8135, Lon: 85.8312}

func TestSeed(t *testing.T) {
	// |1981.35 + 858.312| = 2839.662 -> 2839
	assert.Equal(t, uint64(2839), Seed(puri))
	assert.Equal(t, uint64(0), Seed(domain.Coordinate{}))
	assert.Equal(t, uint64(2839), Seed(domain.Coordinate{Lat: -19.8135, Lon: -85.8312}))
}

func TestComponents_Deterministic(t *testing.T) {
	u1, v1, p1 := Components(puri, 10)
	u2, v2, p2 := Components(puri, 10)

	assert.Equal(t, u1, u2)
	assert.Equal(t, v1, v2)
	assert.Equal(t, p1, p2)
	assert.Positive(t, p1)
}

func TestComponents_VaryByMonth(t *testing.T) {
	u1, _, _ := Components(puri, 1)
	u2, _, _ := Components(puri, 7)
	assert.NotEqual(t, u1, u2)
}

func TestProvider_Fetch(t *testing.T) {
	domain.SetClock(clockwork.NewFakeClockAt(time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)))
	t.Cleanup(func() { domain.SetClock(nil) })

	p := NewProvider(observability.NewMetricsForTesting())
	first, err := p.Fetch(context.Background(), puri)
	require.NoError(t, err)
	second, err := p.Fetch(context.Background(), puri)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, domain.SourceSynthetic, first.Source)
	assert.Equal(t, "2026-10-16T09:30", first.Time)
	assert.True(t, first.IsDay)
	assert.Positive(t, first.WindSpeedKmh)
	assert.Equal(t, first.WindSpeedKmh, first.WindGustKmh)

	u, v, precip := Components(puri, 10)
	want := domain.ReadingFromWindComponents(u*msToKmh, v*msToKmh, precip*mToMm)
	assert.InDelta(t, want.WindSpeedKmh, first.WindSpeedKmh, 1e-9)
	assert.InDelta(t, want.PrecipitationMm, first.PrecipitationMm, 1e-9)
}
