package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"willitrain-service/internal/observability"
)

// CorrelationIDMiddleware assigns every request a correlation ID (taken
// from X-Correlation-ID or generated) and puts a scoped logger into the
// request context.
func CorrelationIDMiddleware(logger *zap.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			corrID := r.Header.Get("X-Correlation-ID")
			if corrID == "" {
				corrID = uuid.New().String()
			}

			ctx := context.WithValue(r.Context(), "correlation_id", corrID)
			w.Header().Set("X-Correlation-ID", corrID)

			scoped := logger.With(zap.String("correlation_id", corrID))
			ctx = context.WithValue(ctx, "logger", scoped)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// MetricsMiddleware records request counts, latency and in-flight gauge.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		observability.HTTPRequestsInFlight.Inc()
		defer observability.HTTPRequestsInFlight.Dec()

		recorder := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(recorder, r)

		duration := time.Since(start).Seconds()
		route := getRoute(r)
		statusCode := statusCodeString(recorder.statusCode)

		observability.HTTPRequestsTotal.WithLabelValues(r.Method, route, statusCode).Inc()
		observability.HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(duration)
	})
}

// getRoute returns a bounded route label so metrics cardinality stays flat.
func getRoute(r *http.Request) string {
	switch r.URL.Path {
	case "/health", "/metrics", "/api/weather", "/api/willitrain":
		return r.URL.Path
	default:
		return "other"
	}
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.statusCode = code
	r.ResponseWriter.WriteHeader(code)
}

func statusCodeString(code int) string {
	return fmt.Sprintf("%dxx", code/100)
}

// TimeoutMiddleware sets a deadline on the request context. When exceeded,
// downstream handlers receive context.DeadlineExceeded. Applied to the
// /api routes that call the provider.
func TimeoutMiddleware(timeout time.Duration) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
