package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registry *prometheus.Registry

	// HTTP request rate. Watch for: sudden drops (service down) or spikes (traffic surge).
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTP request latency per request. Watch for: p95/p99 latency increases.
	HTTPRequestDuration *prometheus.HistogramVec

	// Concurrent requests in flight. Watch for: saturation, capacity limits.
	HTTPRequestsInFlight prometheus.Gauge

	// Open-Meteo call rate. Watch for: error vs success ratio.
	ForecastAPICallsTotal *prometheus.CounterVec

	// Forecast API latency per request. Watch for: p95 > 2s (upstream degradation).
	ForecastAPIDuration *prometheus.HistogramVec

	// Total willitrain assessments. rate() for QPS.
	RainQueriesTotal prometheus.Counter

	// Assessments by mode (specific vs forward). Watch for: usage distribution.
	RainQueriesByModeTotal *prometheus.CounterVec
)

func init() {
	registry = prometheus.NewRegistry()

	registry.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)

	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "httpRequestsTotal",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "statusCode"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "httpRequestDurationSeconds",
			Help:    "HTTP request latency in seconds (per request)",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
	HTTPRequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "httpRequestsInFlight",
			Help: "Number of HTTP requests currently being served",
		},
	)
	ForecastAPICallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forecastApiCallsTotal",
			Help: "Total number of Open-Meteo API calls",
		},
		[]string{"status"},
	)
	ForecastAPIDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "forecastApiDurationSeconds",
			Help:    "Open-Meteo API latency in seconds (per request)",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"status"},
	)
	RainQueriesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rainQueriesTotal",
			Help: "Total number of willitrain assessments",
		},
	)
	RainQueriesByModeTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rainQueriesByModeTotal",
			Help: "willitrain assessments by mode (specific or forward)",
		},
		[]string{"mode"},
	)

	registry.MustRegister(
		HTTPRequestsTotal, HTTPRequestDuration, HTTPRequestsInFlight,
		ForecastAPICallsTotal, ForecastAPIDuration,
		RainQueriesTotal, RainQueriesByModeTotal,
	)
}

// RecordRainQuery records one assessment for the given mode.
func RecordRainQuery(mode string) {
	RainQueriesTotal.Inc()
	RainQueriesByModeTotal.WithLabelValues(mode).Inc()
}

// MetricsHandler returns an http.Handler that serves application and runtime metrics.
func MetricsHandler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
