package domain

import (
	"errors"
	"slices"
)

// ErrEmptyShelterSet is returned when a shelter lookup runs against no shelters.
var ErrEmptyShelterSet = errors.New("shelter set is empty")

// Shelter is a relief camp that evacuees can be routed to.
type Shelter struct {
	Name     string     `json:"name"`
	Location Coordinate `json:"location"`
	Capacity int        `json:"capacity"`
}

// ShelterDistance pairs a shelter with its distance from some origin.
type ShelterDistance struct {
	Shelter    Shelter `json:"shelter"`
	DistanceKm float64 `json:"distance_km"`
}

// NearestShelter returns the shelter closest to origin and its distance in km.
// On ties the first shelter in iteration order wins.
func NearestShelter(origin Coordinate, shelters []Shelter) (Shelter, float64, error) {
	if len(shelters) == 0 {
		return Shelter{}, 0, ErrEmptyShelterSet
	}

	best := 0
	bestDist := DistanceKm(origin, shelters[0].Location)
	for i := 1; i < len(shelters); i++ {
		d := DistanceKm(origin, shelters[i].Location)
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	return shelters[best], bestDist, nil
}

// NearestShelters returns up to k shelters ordered by distance from origin.
// Shelters at equal distance keep their input order. k <= 0 returns all of them.
func NearestShelters(origin Coordinate, shelters []Shelter, k int) ([]ShelterDistance, error) {
	if len(shelters) == 0 {
		return nil, ErrEmptyShelterSet
	}

	out := make([]ShelterDistance, len(shelters))
	for i, s := range shelters {
		out[i] = ShelterDistance{Shelter: s, DistanceKm: DistanceKm(origin, s.Location)}
	}
	slices.SortStableFunc(out, func(a, b ShelterDistance) int {
		switch {
		case a.DistanceKm < b.DistanceKm:
			return -1
		case a.DistanceKm > b.DistanceKm:
			return 1
		default:
			return 0
		}
	})

	if k > 0 && k < len(out) {
		out = out[:k]
	}
	return out, nil
}
