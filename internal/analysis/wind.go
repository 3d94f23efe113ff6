package analysis

import "willitrain-service/internal/models"

// AssessWind computes average and max over a non-empty wind-speed slice
// and classifies the window: gusts above 20 dominate, otherwise a
// sustained average above 10 counts as moderate.
func AssessWind(speeds []float64) models.WindAssessment {
	max := speeds[0]
	for _, s := range speeds[1:] {
		if s > max {
			max = s
		}
	}
	avg := mean(speeds)

	var status string
	switch {
	case max > 20:
		status = models.WindStrong
	case avg > 10:
		status = models.WindModerate
	default:
		status = models.WindCalm
	}

	return models.WindAssessment{
		Average: round1(avg),
		Max:     round1(max),
		Status:  status,
	}
}
