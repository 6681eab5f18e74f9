package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Advisory is one completed risk assessment, published for downstream alerting.
type Advisory struct {
	ID                string         `json:"id"`
	Location          Coordinate     `json:"location"`
	Reading           WeatherReading `json:"reading"`
	Stress            float64        `json:"storm_stress"`
	Risk              RiskAssessment `json:"risk"`
	NearestShelter    *Shelter       `json:"nearest_shelter,omitempty"`
	ShelterDistanceKm float64        `json:"shelter_distance_km,omitempty"`
	AssessedAt        time.Time      `json:"assessed_at"`
}

// NewAdvisory scores a reading and stamps the result with an ID and the package clock.
func NewAdvisory(at Coordinate, reading WeatherReading) Advisory {
	stress := StormStress(reading)
	return Advisory{
		ID:         uuid.NewString(),
		Location:   at,
		Reading:    reading,
		Stress:     stress,
		Risk:       ClassifyRisk(stress),
		AssessedAt: clock.Now().UTC(),
	}
}

// AdvisoryPublisher delivers advisories to a downstream sink.
type AdvisoryPublisher interface {
	Publish(ctx context.Context, advisory Advisory) error
}
