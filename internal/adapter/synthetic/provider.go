// Package synthetic produces deterministic demo weather shaped like ERA5
// reanalysis output, for running the service without a live provider.
package synthetic

import (
	"context"
	"math"
	"math/rand/v2"

	"github.com/couchcryptid/cyclone-saferoute/internal/domain"
	"github.com/couchcryptid/cyclone-saferoute/internal/observability"
)

const providerName = "synthetic"

// Unit conversions from reanalysis units to the live provider's units.
const (
	msToKmh = 3.6
	mToMm   = 1000.0
)

// extremeChance is the per-reading probability of a cyclone-strength sample.
const extremeChance = 50.0 / 8768.0

// Provider implements domain.WeatherProvider with seeded pseudo-random
// wind components and precipitation.
type Provider struct {
	metrics *observability.Metrics
}

// NewProvider creates a synthetic weather provider.
func NewProvider(metrics *observability.Metrics) *Provider {
	return &Provider{metrics: metrics}
}

// Fetch returns a reading that depends only on the coordinate and the
// current month. It never fails.
func (p *Provider) Fetch(_ context.Context, at domain.Coordinate) (domain.WeatherReading, error) {
	now := domain.Now().UTC()
	u, v, precip := Components(at, int(now.Month()))

	reading := domain.ReadingFromWindComponents(u*msToKmh, v*msToKmh, precip*mToMm)
	reading.Source = domain.SourceSynthetic
	reading.Time = now.Format("2006-01-02T15:04")
	reading.IsDay = now.Hour() >= 6 && now.Hour() < 18

	p.metrics.ProviderRequests.WithLabelValues(providerName, "success").Inc()
	return reading, nil
}

// Components generates the u and v wind components (m/s) and total
// precipitation (m) for a coordinate in the given month. The output has a
// seasonal swing and occasional extreme samples.
func Components(at domain.Coordinate, month int) (u, v, precip float64) {
	rng := rand.New(rand.NewPCG(Seed(at), uint64(month)))
	season := math.Sin(float64(month) * math.Pi / 6)

	u = 8 + 5*season + rng.NormFloat64()*3
	v = 6 + 4*season + rng.NormFloat64()*2.5
	precip = math.Abs(0.001 + 0.003*season + rng.ExpFloat64()*0.002)

	if rng.Float64() < extremeChance {
		u *= 2.5
		v *= 2.3
		precip *= 5
	}
	return u, v, precip
}

// Seed derives a stable generator seed from a coordinate.
func Seed(at domain.Coordinate) uint64 {
	return uint64(int64(math.Abs(at.Lat*100+at.Lon*10)) % 10000)
}
