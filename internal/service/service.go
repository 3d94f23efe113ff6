package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"willitrain-service/internal/analysis"
	"willitrain-service/internal/forecast"
	"willitrain-service/internal/models"
	"willitrain-service/internal/observability"
	"willitrain-service/internal/validation"
)

// timeLayout formats response timestamps the way the provider reports
// them: local wall-clock, minute precision.
const timeLayout = "2006-01-02T15:04"

// RainService orchestrates a forecast fetch, window selection and the
// metric evaluators into a willitrain assessment. Stateless; one
// outbound call per invocation.
type RainService struct {
	client forecast.Client
	now    func() time.Time
}

// NewRainService creates a RainService backed by the given forecast client.
func NewRainService(client forecast.Client) *RainService {
	return &RainService{
		client: client,
		now:    time.Now,
	}
}

// AssessParams are the validated inputs for one assessment.
// Date is the wall-clock target instant, nil for forward mode.
type AssessParams struct {
	Coords      validation.Coordinates
	Date        *time.Time
	Hours       int
	ThresholdMm float64
}

// Assess runs specific-instant mode when a date was supplied and forward
// mode otherwise.
func (s *RainService) Assess(ctx context.Context, p AssessParams) (*models.WillItRainResponse, error) {
	if p.Date != nil {
		return s.assessSpecific(ctx, p)
	}
	return s.assessForward(ctx, p)
}

// assessSpecific fetches the calendar day containing the target, matches
// the nearest hourly sample and assesses a context window around it. The
// response reports both the raw sample at the matched hour and the
// windowed assessments; the two cover different sample sets on purpose.
func (s *RainService) assessSpecific(ctx context.Context, p AssessParams) (*models.WillItRainResponse, error) {
	day := p.Date.Format("2006-01-02")
	series, err := s.client.Hourly(ctx, forecast.Query{
		Latitude:  p.Coords.Latitude,
		Longitude: p.Coords.Longitude,
		StartDate: day,
		EndDate:   day,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch forecast: %w", err)
	}

	// Re-anchor the wall-clock target in the forecast's timezone so it
	// compares against the series on equal terms.
	target := time.Date(p.Date.Year(), p.Date.Month(), p.Date.Day(),
		p.Date.Hour(), p.Date.Minute(), 0, 0, series.Location)

	idx := analysis.NearestIndex(series.Times, target)
	w := analysis.ContextWindow(idx, series.Len())

	precip := w.Slice(series.Precipitation)
	atPrecip := series.Precipitation[idx]

	resp := &models.WillItRainResponse{
		Mode:          "specific",
		Latitude:      p.Coords.Latitude,
		Longitude:     p.Coords.Longitude,
		RequestedDate: target.Format(timeLayout),
		MatchedTime:   series.Times[idx].Format(timeLayout),
		AtTime: &models.PointSample{
			Time:            series.Times[idx].Format(timeLayout),
			PrecipitationMm: series.Precipitation[idx],
			TemperatureC:    series.Temperature[idx],
		},
		WindowFrom: series.Times[w.Start].Format(timeLayout),
		WindowTo:   series.Times[w.End-1].Format(timeLayout),
		Rain: models.RainAssessment{
			RainProbability: analysis.RainProbability(precip, w.Slice(series.Humidity), w.Len()),
			WillRain:        analysis.WillRain(precip, p.ThresholdMm),
			PrecipitationMm: &atPrecip,
			ThresholdMm:     p.ThresholdMm,
		},
		Temperature: analysis.AssessTemperature(w.Slice(series.Temperature)),
		Wind:        analysis.AssessWind(w.Slice(series.WindSpeed)),
	}

	s.logAssessment(ctx, resp, series.Len())
	observability.RecordRainQuery(resp.Mode)
	return resp, nil
}

// assessForward fetches the provider's default forecast range and
// assesses the next Hours samples from now.
func (s *RainService) assessForward(ctx context.Context, p AssessParams) (*models.WillItRainResponse, error) {
	series, err := s.client.Hourly(ctx, forecast.Query{
		Latitude:  p.Coords.Latitude,
		Longitude: p.Coords.Longitude,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch forecast: %w", err)
	}

	ref := s.now().In(series.Location)
	start := analysis.ForwardStart(series.Times, ref)
	w := analysis.ForwardWindow(start, series.Len(), p.Hours)

	precip := w.Slice(series.Precipitation)
	maxPrecip := analysis.MaxPrecipitation(precip)

	resp := &models.WillItRainResponse{
		Mode:       "forward",
		Latitude:   p.Coords.Latitude,
		Longitude:  p.Coords.Longitude,
		Hours:      p.Hours,
		WindowFrom: series.Times[w.Start].Format(timeLayout),
		WindowTo:   series.Times[w.End-1].Format(timeLayout),
		Rain: models.RainAssessment{
			RainProbability:    analysis.RainProbability(precip, w.Slice(series.Humidity), w.Len()),
			WillRain:           analysis.WillRain(precip, p.ThresholdMm),
			MaxPrecipitationMm: &maxPrecip,
			ThresholdMm:        p.ThresholdMm,
		},
		Temperature: analysis.AssessTemperature(w.Slice(series.Temperature)),
		Wind:        analysis.AssessWind(w.Slice(series.WindSpeed)),
	}

	s.logAssessment(ctx, resp, series.Len())
	observability.RecordRainQuery(resp.Mode)
	return resp, nil
}

// RawRange fetches the provider's raw hourly precipitation+temperature
// payload for a location and optional day range, untouched.
func (s *RainService) RawRange(ctx context.Context, coords validation.Coordinates, startDay, endDay string) ([]byte, error) {
	body, err := s.client.RawHourly(ctx, forecast.Query{
		Latitude:  coords.Latitude,
		Longitude: coords.Longitude,
		StartDate: startDay,
		EndDate:   endDay,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch forecast: %w", err)
	}
	return body, nil
}

func (s *RainService) logAssessment(ctx context.Context, resp *models.WillItRainResponse, samples int) {
	logger := loggerFromContext(ctx)
	if logger == nil {
		return
	}
	logger.Debug("assessment served",
		zap.String("mode", resp.Mode),
		zap.Float64("lat", resp.Latitude),
		zap.Float64("lon", resp.Longitude),
		zap.Int("series_samples", samples),
		zap.Int("rain_probability", resp.Rain.RainProbability),
		zap.Bool("will_rain", resp.Rain.WillRain))
}

// loggerFromContext extracts a zap.Logger from request context if present.
func loggerFromContext(ctx context.Context) *zap.Logger {
	if v := ctx.Value("logger"); v != nil {
		if l, ok := v.(*zap.Logger); ok && l != nil {
			return l
		}
	}
	return nil
}
