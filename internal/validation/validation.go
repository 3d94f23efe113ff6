package validation

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"willitrain-service/internal/analysis"
)

// ErrMissingCoordinates is returned when lat or lon is absent.
var ErrMissingCoordinates = errors.New("lat and lon are required")

// ErrInvalidCoordinates is returned when lat/lon are non-numeric or out of range.
var ErrInvalidCoordinates = errors.New("lat and lon must be valid coordinates")

// ErrInvalidDate is returned when a supplied date does not parse as a calendar instant.
var ErrInvalidDate = errors.New("date must be a valid ISO date or datetime")

var validate = validator.New()

// Coordinates is a validated latitude/longitude pair.
type Coordinates struct {
	Latitude  float64 `validate:"latitude"`
	Longitude float64 `validate:"longitude"`
}

// ParseCoordinates parses and range-checks the lat/lon query values.
func ParseCoordinates(latStr, lonStr string) (Coordinates, error) {
	latStr = strings.TrimSpace(latStr)
	lonStr = strings.TrimSpace(lonStr)
	if latStr == "" || lonStr == "" {
		return Coordinates{}, ErrMissingCoordinates
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return Coordinates{}, ErrInvalidCoordinates
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return Coordinates{}, ErrInvalidCoordinates
	}

	coords := Coordinates{Latitude: lat, Longitude: lon}
	if err := validate.Struct(coords); err != nil {
		return Coordinates{}, ErrInvalidCoordinates
	}
	return coords, nil
}

// ParseHours parses the hours query value, defaulting to
// analysis.DefaultHours on empty or non-numeric input and clamping the
// result to [analysis.MinHours, analysis.MaxHours].
func ParseHours(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return analysis.DefaultHours
	}
	hours, err := strconv.Atoi(s)
	if err != nil {
		return analysis.DefaultHours
	}
	return analysis.ClampHours(hours)
}

// ParseThreshold parses the precipitation threshold query value (mm),
// defaulting to analysis.DefaultThresholdMm on empty, non-numeric or
// negative input.
func ParseThreshold(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return analysis.DefaultThresholdMm
	}
	threshold, err := strconv.ParseFloat(s, 64)
	if err != nil || threshold < 0 {
		return analysis.DefaultThresholdMm
	}
	return threshold
}

// dateLayouts are accepted in order; bare layouts are read as wall-clock
// time and re-anchored to the forecast's timezone later.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseDate parses an optional target instant. Returns ok=false (and no
// error) when the value is empty; ErrInvalidDate when it cannot be read
// with any accepted layout.
func ParseDate(s string) (time.Time, bool, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true, nil
		}
	}
	return time.Time{}, false, ErrInvalidDate
}

// ParseDay parses an optional YYYY-MM-DD calendar day, as used by the
// raw range endpoint. Empty input is allowed and returns "".
func ParseDay(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return "", ErrInvalidDate
	}
	return s, nil
}
