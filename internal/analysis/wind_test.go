package analysis

import (
	"testing"

	"willitrain-service/internal/models"
)

func TestAssessWind_Statuses(t *testing.T) {
	tests := []struct {
		name   string
		speeds []float64
		want   string
	}{
		{"calm", []float64{2, 3, 5}, models.WindCalm},
		{"sustained moderate", []float64{11, 12, 13}, models.WindModerate},
		{"single gust dominates", []float64{5, 21, 5}, models.WindStrong},
		{"gust outranks low average", []float64{0, 0, 25}, models.WindStrong},
		// max of exactly 20 is not a strong gust; the average still counts
		{"boundary max 20", []float64{20, 20}, models.WindModerate},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := AssessWind(tc.speeds)
			if got.Status != tc.want {
				t.Errorf("AssessWind(%v).Status = %q, want %q", tc.speeds, got.Status, tc.want)
			}
		})
	}
}

func TestAssessWind_Rounding(t *testing.T) {
	got := AssessWind([]float64{10.04, 10.06})
	if got.Average != 10.1 {
		t.Errorf("Average = %v, want 10.1", got.Average)
	}
	if got.Max != 10.1 {
		t.Errorf("Max = %v, want 10.1", got.Max)
	}
}
