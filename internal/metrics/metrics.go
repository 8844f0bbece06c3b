// Package metrics provides Prometheus metrics collection for the meal analysis service.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestDuration tracks HTTP request duration by method, path, and status code.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status_code"},
	)

	// HTTPRequestTotal tracks total HTTP requests by method, path, and status code.
	HTTPRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)

	// MealAnalysesTotal counts analysis calls by outcome and input presence.
	MealAnalysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meal_analyses_total",
			Help: "Total number of meal analyses",
		},
		[]string{"status", "presence"},
	)

	// MealAnalysisDuration tracks the model round trip. Generative calls take
	// seconds, so the buckets start at 250ms.
	MealAnalysisDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "meal_analysis_duration_seconds",
			Help:    "Meal analysis duration in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 15, 30, 60},
		},
	)

	// ImageNormalizationsTotal counts uploaded image conversions by result.
	ImageNormalizationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "image_normalizations_total",
			Help: "Total number of uploaded images normalized before analysis",
		},
		[]string{"result"},
	)

	// RateLimitedTotal counts requests rejected by the API rate limiter.
	RateLimitedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limited_requests_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
		[]string{"path"},
	)

	// LogSinkEntriesTotal counts request log entries by outcome.
	LogSinkEntriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "log_sink_entries_total",
			Help: "Total number of request log entries by outcome (written, dropped, failed)",
		},
		[]string{"result"},
	)

	// LogSinkCircuitState reports the log sink circuit breaker state:
	// 0 closed, 1 open, 2 half-open.
	LogSinkCircuitState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "log_sink_circuit_state",
			Help: "Log sink circuit breaker state (0 closed, 1 open, 2 half-open)",
		},
		[]string{"name"},
	)
)

// PrometheusMiddleware returns a Gin middleware that collects HTTP metrics.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		c.Next()

		duration := time.Since(start).Seconds()
		statusCode := strconv.Itoa(c.Writer.Status())
		method := c.Request.Method

		HTTPRequestDuration.WithLabelValues(method, path, statusCode).Observe(duration)
		HTTPRequestTotal.WithLabelValues(method, path, statusCode).Inc()
	}
}

// RecordMealAnalysis records the outcome of one analysis call. A zero
// duration means no request was sent and is not observed.
func RecordMealAnalysis(duration time.Duration, status, presence string) {
	if duration > 0 {
		MealAnalysisDuration.Observe(duration.Seconds())
	}
	MealAnalysesTotal.WithLabelValues(status, presence).Inc()
}

// RecordImageNormalization records an image conversion result.
func RecordImageNormalization(result string) {
	ImageNormalizationsTotal.WithLabelValues(result).Inc()
}

// SetCircuitState records the current state of a named circuit breaker.
func SetCircuitState(name string, state int) {
	LogSinkCircuitState.WithLabelValues(name).Set(float64(state))
}

// RecordRateLimited records one rejected request.
func RecordRateLimited(path string) {
	RateLimitedTotal.WithLabelValues(path).Inc()
}

// RecordLogSinkEntries records n log entries with the given outcome.
func RecordLogSinkEntries(result string, n int) {
	LogSinkEntriesTotal.WithLabelValues(result).Add(float64(n))
}
