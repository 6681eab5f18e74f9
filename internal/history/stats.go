package history

import (
	"errors"
	"math"
	"slices"

	"github.com/couchcryptid/cyclone-saferoute/internal/domain"
)

// ErrNoSamples is returned when statistics are requested over nothing.
var ErrNoSamples = errors.New("no samples")

// StressStatistics summarizes a set of storm-stress values.
type StressStatistics struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Max    float64 `json:"max"`
	Min    float64 `json:"min"`
	Std    float64 `json:"std"` // sample standard deviation; NaN for a single sample
	Median float64 `json:"median"`
	P90    float64 `json:"percentile_90"`
	P95    float64 `json:"percentile_95"`
}

// GustStress scores event weather with the gust as the wind term, the
// same way reanalysis readings are scored.
func GustStress(w EventWeather) float64 {
	return domain.StormStress(domain.WeatherReading{
		WindSpeedKmh:    w.MaxGustKmh,
		PrecipitationMm: w.TotalRainfallMm,
	})
}

// StressOf scores every event.
func StressOf(weather []EventWeather) []float64 {
	out := make([]float64, len(weather))
	for i, w := range weather {
		out[i] = GustStress(w)
	}
	return out
}

// Summarize computes descriptive statistics. Quantiles interpolate linearly
// between the closest ranks.
func Summarize(values []float64) (StressStatistics, error) {
	if len(values) == 0 {
		return StressStatistics{}, ErrNoSamples
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)
	n := len(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}
	mean := sum / float64(n)

	std := math.NaN()
	if n > 1 {
		var sq float64
		for _, v := range sorted {
			d := v - mean
			sq += d * d
		}
		std = math.Sqrt(sq / float64(n-1))
	}

	return StressStatistics{
		Count:  n,
		Mean:   mean,
		Max:    sorted[n-1],
		Min:    sorted[0],
		Std:    std,
		Median: quantile(sorted, 0.5),
		P90:    quantile(sorted, 0.90),
		P95:    quantile(sorted, 0.95),
	}, nil
}

// quantile expects sorted input.
func quantile(sorted []float64, q float64) float64 {
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	return sorted[lo] + (sorted[hi]-sorted[lo])*(pos-float64(lo))
}
