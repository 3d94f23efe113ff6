package analysis

import "math"

// rainHourThresholdMm is the fixed cutoff above which an hourly sample
// counts toward the rain-hours ratio. Independent of the caller-supplied
// willRain threshold.
const rainHourThresholdMm = 0.1

// DefaultThresholdMm is the willRain precipitation threshold used when the
// caller does not supply one.
const DefaultThresholdMm = 0.1

// RainProbability estimates the likelihood of rain over a window as the
// share of hours with measurable precipitation, nudged up when average
// humidity is high. humidity may be nil (column absent from the provider
// payload). hours must be > 0; the caller guarantees it.
// The result is an integer percentage in [0,100].
func RainProbability(precipitation []float64, humidity []float64, hours int) int {
	rainHours := 0
	for _, mm := range precipitation {
		if mm > rainHourThresholdMm {
			rainHours++
		}
	}
	probability := float64(rainHours) / float64(hours) * 100

	probability += humidityBonus(humidity)
	if probability > 100 {
		probability = 100
	}
	return int(math.Round(probability))
}

// humidityBonus returns the probability bonus for the average humidity of
// the window: +10 above 80%, +5 above 60%, otherwise 0. An absent column
// contributes nothing.
func humidityBonus(humidity []float64) float64 {
	if len(humidity) == 0 {
		return 0
	}
	avg := mean(humidity)
	switch {
	case avg > 80:
		return 10
	case avg > 60:
		return 5
	default:
		return 0
	}
}

// WillRain reports whether any sample meets or exceeds thresholdMm.
func WillRain(precipitation []float64, thresholdMm float64) bool {
	for _, mm := range precipitation {
		if mm >= thresholdMm {
			return true
		}
	}
	return false
}

// MaxPrecipitation returns the largest sample in the slice, or 0 for an
// empty slice.
func MaxPrecipitation(precipitation []float64) float64 {
	max := 0.0
	for _, mm := range precipitation {
		if mm > max {
			max = mm
		}
	}
	return max
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// round1 rounds to one decimal, half away from zero.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
