package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyRisk(t *testing.T) {
	tests := []struct {
		stress float64
		want   RiskLevel
	}{
		{2500.01, RiskHigh},
		{1e9, RiskHigh},
		{2500, RiskModerate},
		{1500.01, RiskModerate},
		{1500, RiskLow},
		{0, RiskLow},
		{-10, RiskLow},
		{math.NaN(), RiskLow},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, ClassifyRisk(tc.stress).Level, "stress=%v", tc.stress)
	}
}

func TestClassifyRisk_MessagesAndColors(t *testing.T) {
	high := ClassifyRisk(3000)
	assert.Equal(t, "red", high.Color)
	assert.Contains(t, high.Message, "immediate evacuation")

	moderate := ClassifyRisk(2000)
	assert.Equal(t, "orange", moderate.Color)
	assert.Contains(t, moderate.Message, "stay alert and prepare")

	low := ClassifyRisk(100)
	assert.Equal(t, "green", low.Color)
	assert.Contains(t, low.Message, "normal precautions")
}

func TestClassifyRisk_FromReading(t *testing.T) {
	// 45 km/h wind and 40 mm rain: 2025 + 400 = 2425 -> MODERATE
	r := WeatherReading{WindSpeedKmh: 45, PrecipitationMm: 40}
	assert.Equal(t, RiskModerate, ClassifyRisk(StormStress(r)).Level)
}
