//go:build !integration

package app

import (
	"context"
	"testing"
	"time"

	"github.com/guttosm/nutriplate/config"
	"github.com/guttosm/nutriplate/internal/circuitbreaker"
	"github.com/guttosm/nutriplate/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestInitializeDatabase_Disabled(t *testing.T) {
	assert.Nil(t, InitializeDatabase(config.DatabaseConfig{Enabled: false}))
}

func TestNewLogsCircuitBreaker(t *testing.T) {
	t.Run("applies defaults for zero values", func(t *testing.T) {
		cb := newLogsCircuitBreaker(config.DatabaseConfig{})

		stats := cb.GetStats()
		assert.Equal(t, "closed", stats.State)
		assert.True(t, stats.IsHealthy)
		assert.Equal(t, float64(circuitbreaker.StateClosed),
			testutil.ToFloat64(metrics.LogSinkCircuitState.WithLabelValues(logsCircuitName)))
	})

	t.Run("publishes state transitions", func(t *testing.T) {
		cb := newLogsCircuitBreaker(config.DatabaseConfig{
			CircuitBreakerFailureThreshold: 1,
			CircuitBreakerSuccessThreshold: 1,
			CircuitBreakerTimeout:          time.Hour,
		})

		_ = cb.Execute(context.Background(), func() error { return assert.AnError })

		assert.Equal(t, circuitbreaker.StateOpen, cb.State())
		assert.Equal(t, float64(circuitbreaker.StateOpen),
			testutil.ToFloat64(metrics.LogSinkCircuitState.WithLabelValues(logsCircuitName)))
	})
}
