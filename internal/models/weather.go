package models

import "time"

// HourlySeries holds a provider's hourly forecast as parallel columns.
// Times is strictly increasing, one entry per hour. Precipitation,
// Temperature and WindSpeed always have the same length as Times.
// Humidity and WindDirection are nil when the provider omitted them;
// an absent column is never represented as a shorter slice.
type HourlySeries struct {
	Times         []time.Time
	Precipitation []float64
	Temperature   []float64
	Humidity      []float64
	WindSpeed     []float64
	WindDirection []float64

	// Location is the timezone the provider reported the series in.
	Location *time.Location
}

// Len returns the number of hourly samples.
func (s *HourlySeries) Len() int {
	return len(s.Times)
}

// Temperature status brackets, coldest to hottest.
const (
	TempVeryLow  = "muy_baja"
	TempLow      = "baja"
	TempNormal   = "normal"
	TempHigh     = "alta"
	TempVeryHigh = "muy_alta"
)

// Wind status brackets.
const (
	WindCalm     = "Poco"
	WindModerate = "Común"
	WindStrong   = "Mucho"
)

// RainAssessment summarizes rain likelihood over an analysis window.
// PrecipitationMm carries the exact sample at the matched hour in
// specific-instant mode; MaxPrecipitationMm carries the window maximum
// in forward mode. Exactly one of the two is set.
type RainAssessment struct {
	RainProbability    int      `json:"rainProbability"`
	WillRain           bool     `json:"willRain"`
	PrecipitationMm    *float64 `json:"precipitationMm,omitempty"`
	MaxPrecipitationMm *float64 `json:"maxPrecipitationMm,omitempty"`
	ThresholdMm        float64  `json:"thresholdMm"`
}

// TemperatureAssessment summarizes temperatures over an analysis window.
// Values are rounded to one decimal.
type TemperatureAssessment struct {
	Average float64 `json:"average"`
	Max     float64 `json:"max"`
	Min     float64 `json:"min"`
	Status  string  `json:"status"`
}

// WindAssessment summarizes wind speeds over an analysis window.
// Values are rounded to one decimal.
type WindAssessment struct {
	Average float64 `json:"average"`
	Max     float64 `json:"max"`
	Status  string  `json:"status"`
}

// PointSample is the raw forecast sample at the matched hour,
// reported alongside the windowed assessments in specific-instant mode.
type PointSample struct {
	Time            string  `json:"time"`
	PrecipitationMm float64 `json:"precipitationMm"`
	TemperatureC    float64 `json:"temperatureC"`
}

// WillItRainResponse is the /api/willitrain payload. Mode is "specific"
// when the caller supplied a date and "forward" otherwise; the omitempty
// fields belong to one mode or the other.
type WillItRainResponse struct {
	Mode      string  `json:"mode"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`

	// Specific-instant mode only.
	RequestedDate string       `json:"requestedDate,omitempty"`
	MatchedTime   string       `json:"matchedTime,omitempty"`
	AtTime        *PointSample `json:"atTime,omitempty"`

	// Forward mode only.
	Hours int `json:"hours,omitempty"`

	WindowFrom string `json:"windowFrom"`
	WindowTo   string `json:"windowTo"`

	Rain        RainAssessment        `json:"rain"`
	Temperature TemperatureAssessment `json:"temperature"`
	Wind        WindAssessment        `json:"wind"`
}
