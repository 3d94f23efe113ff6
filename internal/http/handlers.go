package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"willitrain-service/internal/forecast"
	"willitrain-service/internal/health"
	"willitrain-service/internal/service"
	"willitrain-service/internal/validation"
)

// HealthConfig holds thresholds for the health handler.
type HealthConfig struct {
	ErrorWindow  time.Duration
	ErrorRatePct int
}

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	rain         *service.RainService
	healthConfig *HealthConfig
	logger       *zap.Logger
}

// NewHandler returns a new Handler.
func NewHandler(rain *service.RainService, healthConfig *HealthConfig, logger *zap.Logger) *Handler {
	return &Handler{
		rain:         rain,
		healthConfig: healthConfig,
		logger:       logger,
	}
}

// GetWeather handles GET /api/weather. Validates coordinates and the
// optional day range, then passes the provider's raw hourly
// precipitation+temperature payload through untouched.
func (h *Handler) GetWeather(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	coords, err := validation.ParseCoordinates(q.Get("lat"), q.Get("lon"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	startDay, err := validation.ParseDay(q.Get("start"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "start must be a YYYY-MM-DD date")
		return
	}
	endDay, err := validation.ParseDay(q.Get("end"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "end must be a YYYY-MM-DD date")
		return
	}

	body, err := h.rain.RawRange(r.Context(), coords, startDay, endDay)
	if err != nil {
		health.RecordError()
		h.writeFailure(w, r, err)
		return
	}
	health.RecordSuccess()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// GetWillItRain handles GET /api/willitrain. Parameter validation happens
// before any outbound call: a malformed date never reaches the provider.
func (h *Handler) GetWillItRain(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	coords, err := validation.ParseCoordinates(q.Get("lat"), q.Get("lon"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	date, hasDate, err := validation.ParseDate(q.Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	params := service.AssessParams{
		Coords:      coords,
		Hours:       validation.ParseHours(q.Get("hours")),
		ThresholdMm: validation.ParseThreshold(q.Get("threshold")),
	}
	if hasDate {
		params.Date = &date
	}

	result, err := h.rain.Assess(r.Context(), params)
	if err != nil {
		health.RecordError()
		h.writeFailure(w, r, err)
		return
	}
	health.RecordSuccess()
	writeJSON(w, http.StatusOK, result)
}

// GetHealth handles GET /health.
func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	statusCode := http.StatusOK

	switch {
	case health.IsShuttingDown():
		status = "shutting-down"
		statusCode = http.StatusServiceUnavailable
	case h.healthConfig != nil && h.healthConfig.ErrorWindow > 0 && h.healthConfig.ErrorRatePct > 0:
		errors, total := health.ErrorRate(h.healthConfig.ErrorWindow)
		if total > 0 && errors*100/total >= h.healthConfig.ErrorRatePct {
			status = "degraded"
			statusCode = http.StatusServiceUnavailable
		}
	}

	writeJSON(w, statusCode, map[string]interface{}{
		"status":    status,
		"service":   "willitrain-service",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// writeFailure maps orchestration errors onto the response taxonomy:
// provider status passthrough, 502 for malformed provider payloads, 500
// otherwise. Detail is logged, never exposed.
func (h *Handler) writeFailure(w http.ResponseWriter, r *http.Request, err error) {
	var statusErr *forecast.UpstreamStatusError
	switch {
	case errors.As(err, &statusErr):
		writeError(w, statusErr.StatusCode, "weather provider error")
	case errors.Is(err, forecast.ErrBadPayload):
		writeError(w, http.StatusBadGateway, "unexpected weather data format")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
	if logger, ok := r.Context().Value("logger").(*zap.Logger); ok && logger != nil {
		logger.Error("request failed", zap.Error(err))
	} else if h.logger != nil {
		h.logger.Error("request failed", zap.Error(err))
	}
}

// writeJSON writes a JSON response with the specified HTTP status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes the flat error payload the API uses for all failures.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
