package domain

// RiskLevel is a discrete storm-risk tier.
type RiskLevel string

const (
	RiskLow      RiskLevel = "LOW"
	RiskModerate RiskLevel = "MODERATE"
	RiskHigh     RiskLevel = "HIGH"
)

// Stress thresholds. A value must exceed a threshold to enter the tier above it.
const (
	HighStressThreshold     = 2500.0
	ModerateStressThreshold = 1500.0
)

// RiskAssessment is the user-facing classification of a storm-stress value.
type RiskAssessment struct {
	Level   RiskLevel `json:"level"`
	Message string    `json:"message"`
	Color   string    `json:"color"`
}

// ClassifyRisk maps a storm-stress value to a risk tier. NaN and negative
// values fall through every comparison and classify as LOW.
func ClassifyRisk(stress float64) RiskAssessment {
	switch {
	case stress > HighStressThreshold:
		return RiskAssessment{
			Level:   RiskHigh,
			Message: "Severe cyclone risk - immediate evacuation recommended",
			Color:   "red",
		}
	case stress > ModerateStressThreshold:
		return RiskAssessment{
			Level:   RiskModerate,
			Message: "Moderate cyclone risk - stay alert and prepare",
			Color:   "orange",
		}
	default:
		return RiskAssessment{
			Level:   RiskLow,
			Message: "Low cyclone risk - normal precautions advised",
			Color:   "green",
		}
	}
}
