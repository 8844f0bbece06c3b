package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/nutriplate/internal/domain/model"
	"github.com/guttosm/nutriplate/internal/logger"
	"github.com/guttosm/nutriplate/internal/service"
	"github.com/rs/zerolog"
)

// RequestLogger writes one access log line per request and, when a sink is
// configured, a matching entry to it. Upload and response sizes are recorded
// because photo uploads dominate request cost; bodies are never logged.
func RequestLogger(loggingService service.LoggingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		level := levelForStatus(status)
		route := c.FullPath()

		logger.FromContext(c.Request.Context()).WithLevel(level).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("route", route).
			Int("status_code", status).
			Int64("duration_ms", latency.Milliseconds()).
			Int64("request_bytes", c.Request.ContentLength).
			Int("response_bytes", c.Writer.Size()).
			Str("ip", c.ClientIP()).
			Str("user_agent", c.Request.UserAgent()).
			Msg("HTTP request")

		if loggingService == nil {
			return
		}

		entry := &model.LogEntry{
			Timestamp:  start,
			Level:      level.String(),
			Message:    "HTTP request",
			RequestID:  GetRequestID(c),
			Method:     c.Request.Method,
			Path:       c.Request.URL.Path,
			StatusCode: status,
			Latency:    latency,
			IP:         c.ClientIP(),
			UserAgent:  c.Request.UserAgent(),
		}
		if route != "" {
			entry.WithField("route", route)
		}
		if c.Request.ContentLength > 0 {
			entry.WithField("request_bytes", c.Request.ContentLength)
		}
		store(loggingService, entry)
	}
}

func levelForStatus(status int) zerolog.Level {
	switch {
	case status >= 500:
		return zerolog.ErrorLevel
	case status >= 400:
		return zerolog.WarnLevel
	default:
		return zerolog.InfoLevel
	}
}
