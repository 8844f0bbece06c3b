//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/guttosm/nutriplate/internal/circuitbreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogsRepositoryWithCircuitBreaker_Integration(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db := setupTestDBFromSharedContainer(t)
	defer func() {
		require.NoError(t, db.Close(ctx))
	}()

	cb := circuitbreaker.New(circuitbreaker.Config{
		Name:             "logs-integration",
		FailureThreshold: 1,
		SuccessThreshold: 1,
		Timeout:          time.Minute,
	})
	repo := NewLogsRepositoryWithCircuitBreaker(NewLogsRepository(db), cb)

	t.Run("writes while closed", func(t *testing.T) {
		assert.NoError(t, repo.Create(ctx, &LogEntryDocument{Level: "info", Message: "request"}))
		assert.NoError(t, repo.CreateMany(ctx, []*LogEntryDocument{{Level: "info", Message: "batch"}}))

		stats := cb.GetStats()
		assert.Equal(t, "closed", stats.State)
		assert.True(t, stats.IsHealthy)
	})

	t.Run("canceled context does not trip", func(t *testing.T) {
		canceled, cancel := context.WithCancel(ctx)
		cancel()

		assert.ErrorIs(t, repo.Create(canceled, &LogEntryDocument{Level: "info", Message: "lost"}), context.Canceled)
		assert.False(t, cb.IsOpen())
	})
}
