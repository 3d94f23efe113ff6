package analysis

import "willitrain-service/internal/models"

// AssessTemperature computes average, max and min over a non-empty
// temperature slice (°C) and classifies the window. Rule order matters:
// an extreme maximum outranks a freezing minimum.
func AssessTemperature(temperatures []float64) models.TemperatureAssessment {
	max := temperatures[0]
	min := temperatures[0]
	for _, t := range temperatures[1:] {
		if t > max {
			max = t
		}
		if t < min {
			min = t
		}
	}

	var status string
	switch {
	case max > 35:
		status = models.TempVeryHigh
	case min < 0:
		status = models.TempVeryLow
	case max > 30:
		status = models.TempHigh
	case min < 5:
		status = models.TempLow
	default:
		status = models.TempNormal
	}

	return models.TemperatureAssessment{
		Average: round1(mean(temperatures)),
		Max:     round1(max),
		Min:     round1(min),
		Status:  status,
	}
}
