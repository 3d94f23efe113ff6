package forecast

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"willitrain-service/internal/models"
	"willitrain-service/internal/observability"
)

// Client fetches hourly forecasts from the weather provider.
type Client interface {
	// Hourly fetches and decodes the hourly series for a location.
	// StartDate/EndDate narrow the range to specific calendar days;
	// when empty the provider's default forecast range is returned.
	Hourly(ctx context.Context, q Query) (*models.HourlySeries, error)
	// RawHourly fetches precipitation and temperature for a location and
	// returns the provider's response body untouched.
	RawHourly(ctx context.Context, q Query) ([]byte, error)
}

// Query identifies a location and optional calendar-day range.
// Dates are YYYY-MM-DD in the location's local timezone.
type Query struct {
	Latitude  float64
	Longitude float64
	StartDate string
	EndDate   string
}

var (
	// ErrBadPayload marks a 2xx provider response that lacks the expected
	// hourly arrays or carries mismatched column lengths.
	ErrBadPayload = errors.New("unexpected weather data format")
)

// UpstreamStatusError is returned when the provider answers with a
// non-2xx status. The status code is preserved so handlers can pass it
// through.
type UpstreamStatusError struct {
	StatusCode int
}

func (e *UpstreamStatusError) Error() string {
	return fmt.Sprintf("weather provider returned HTTP %d", e.StatusCode)
}

// hourlyVariables is the comma-separated variable list requested for
// assessment queries.
const hourlyVariables = "precipitation,temperature_2m,relative_humidity_2m,wind_speed_10m,wind_direction_10m"

// rawVariables is the reduced list for the raw passthrough endpoint.
const rawVariables = "precipitation,temperature_2m"

// providerTimeLayout is the wall-clock layout Open-Meteo uses for hourly
// timestamps (no zone designator; the zone comes from the timezone field).
const providerTimeLayout = "2006-01-02T15:04"

// OpenMeteoClient talks to the Open-Meteo forecast API. The API is
// keyless; one call per request, no retries.
type OpenMeteoClient struct {
	baseURL string
	timeout time.Duration
	client  *http.Client
}

func NewOpenMeteoClient(baseURL string, timeout time.Duration) *OpenMeteoClient {
	return &OpenMeteoClient{
		baseURL: baseURL,
		timeout: timeout,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

type openMeteoResponse struct {
	Timezone string `json:"timezone"`
	Hourly   struct {
		Time          []string  `json:"time"`
		Precipitation []float64 `json:"precipitation"`
		Temperature   []float64 `json:"temperature_2m"`
		Humidity      []float64 `json:"relative_humidity_2m"`
		WindSpeed     []float64 `json:"wind_speed_10m"`
		WindDirection []float64 `json:"wind_direction_10m"`
	} `json:"hourly"`
}

func (c *OpenMeteoClient) Hourly(ctx context.Context, q Query) (*models.HourlySeries, error) {
	body, err := c.fetch(ctx, q, hourlyVariables)
	if err != nil {
		return nil, err
	}

	var apiResp openMeteoResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	return decodeSeries(&apiResp)
}

func (c *OpenMeteoClient) RawHourly(ctx context.Context, q Query) ([]byte, error) {
	return c.fetch(ctx, q, rawVariables)
}

func (c *OpenMeteoClient) fetch(ctx context.Context, q Query, variables string) ([]byte, error) {
	start := time.Now()

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := c.buildRequest(reqCtx, q, variables)
	if err != nil {
		observability.ForecastAPICallsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("build request: %w", err)
	}

	if corrID := extractCorrelationID(ctx); corrID != "" {
		req.Header.Set("X-Correlation-ID", corrID)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		duration := time.Since(start).Seconds()
		observability.ForecastAPICallsTotal.WithLabelValues("error").Inc()
		observability.ForecastAPIDuration.WithLabelValues("error").Observe(duration)
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, fmt.Errorf("request timeout: %w", err)
		}
		return nil, fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	duration := time.Since(start).Seconds()
	status := statusLabel(resp.StatusCode)
	observability.ForecastAPICallsTotal.WithLabelValues(status).Inc()
	observability.ForecastAPIDuration.WithLabelValues(status).Observe(duration)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &UpstreamStatusError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	return body, nil
}

func (c *OpenMeteoClient) buildRequest(ctx context.Context, q Query, variables string) (*http.Request, error) {
	baseURL, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid API URL: %w", err)
	}

	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(q.Latitude, 'f', -1, 64))
	params.Set("longitude", strconv.FormatFloat(q.Longitude, 'f', -1, 64))
	params.Set("hourly", variables)
	params.Set("timezone", "auto")
	if q.StartDate != "" {
		params.Set("start_date", q.StartDate)
	}
	if q.EndDate != "" {
		params.Set("end_date", q.EndDate)
	}
	baseURL.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", baseURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	return req, nil
}

// decodeSeries validates the parallel hourly columns and parses the
// timestamps in the provider's reported timezone. Required columns are
// time, precipitation, temperature and wind speed; humidity and wind
// direction stay nil when absent.
func decodeSeries(apiResp *openMeteoResponse) (*models.HourlySeries, error) {
	h := &apiResp.Hourly
	n := len(h.Time)
	if n == 0 {
		return nil, fmt.Errorf("%w: missing hourly time array", ErrBadPayload)
	}
	if len(h.Precipitation) != n || len(h.Temperature) != n || len(h.WindSpeed) != n {
		return nil, fmt.Errorf("%w: hourly arrays have mismatched lengths", ErrBadPayload)
	}
	if h.Humidity != nil && len(h.Humidity) != n {
		return nil, fmt.Errorf("%w: humidity array has mismatched length", ErrBadPayload)
	}
	if h.WindDirection != nil && len(h.WindDirection) != n {
		return nil, fmt.Errorf("%w: wind direction array has mismatched length", ErrBadPayload)
	}

	loc, err := time.LoadLocation(apiResp.Timezone)
	if err != nil {
		loc = time.UTC
	}

	times := make([]time.Time, n)
	for i, raw := range h.Time {
		ts, err := time.ParseInLocation(providerTimeLayout, raw, loc)
		if err != nil {
			return nil, fmt.Errorf("%w: bad timestamp %q", ErrBadPayload, raw)
		}
		times[i] = ts
	}

	return &models.HourlySeries{
		Times:         times,
		Precipitation: h.Precipitation,
		Temperature:   h.Temperature,
		Humidity:      h.Humidity,
		WindSpeed:     h.WindSpeed,
		WindDirection: h.WindDirection,
		Location:      loc,
	}, nil
}

func extractCorrelationID(ctx context.Context) string {
	if v := ctx.Value("correlation_id"); v != nil {
		if corrID, ok := v.(string); ok {
			return corrID
		}
	}
	return ""
}

func statusLabel(statusCode int) string {
	if statusCode >= 200 && statusCode < 300 {
		return "success"
	}
	if statusCode >= 400 && statusCode < 500 {
		return "client_error"
	}
	if statusCode >= 500 {
		return "server_error"
	}
	return "error"
}
