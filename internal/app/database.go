package app

import (
	"context"
	"time"

	"github.com/guttosm/nutriplate/config"
	"github.com/guttosm/nutriplate/internal/circuitbreaker"
	"github.com/guttosm/nutriplate/internal/metrics"
	"github.com/guttosm/nutriplate/internal/middleware"
	"github.com/guttosm/nutriplate/internal/repository"
	"github.com/guttosm/nutriplate/internal/service"
	"github.com/rs/zerolog/log"
)

// logsCircuitName labels the log sink breaker in logs, metrics and readiness.
const logsCircuitName = "mongodb_logs"

// DatabaseComponents holds the optional request log sink.
type DatabaseComponents struct {
	DB                 *repository.MongoDB
	LoggingService     service.LoggingService
	LogsCircuitBreaker *circuitbreaker.CircuitBreaker
}

// InitializeDatabase connects the MongoDB log sink and starts the async writer.
// Returns nil if the sink is disabled or the connection fails; the service runs without it.
func InitializeDatabase(cfg config.DatabaseConfig) *DatabaseComponents {
	if !cfg.Enabled {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := repository.Connect(ctx, cfg.URI, cfg.DatabaseName)
	if err != nil {
		log.Error().Err(err).Msg("Failed to connect to MongoDB - continuing without request log sink")
		return nil
	}

	log.Info().Str("database", cfg.DatabaseName).Msg("Connected to MongoDB")

	if cfg.LogsTTL > 0 {
		if err := db.SetLogsTTL(ctx, cfg.LogsTTL); err != nil {
			log.Warn().Err(err).Dur("ttl", cfg.LogsTTL).Msg("Failed to set logs TTL index")
		}
	}

	logsCB := newLogsCircuitBreaker(cfg)
	logsRepo := repository.NewLogsRepositoryWithCircuitBreaker(repository.NewLogsRepository(db), logsCB)
	loggingService := service.NewLoggingService(logsRepo)

	middleware.InitAsyncLogger(loggingService, middleware.DefaultAsyncLoggerConfig())

	return &DatabaseComponents{
		DB:                 db,
		LoggingService:     loggingService,
		LogsCircuitBreaker: logsCB,
	}
}

func newLogsCircuitBreaker(cfg config.DatabaseConfig) *circuitbreaker.CircuitBreaker {
	metrics.SetCircuitState(logsCircuitName, int(circuitbreaker.StateClosed))
	return circuitbreaker.New(circuitbreaker.Config{
		FailureThreshold: cfg.CircuitBreakerFailureThreshold,
		SuccessThreshold: cfg.CircuitBreakerSuccessThreshold,
		Timeout:          cfg.CircuitBreakerTimeout,
		Name:             logsCircuitName,
		OnStateChange: func(name string, _, to circuitbreaker.State) {
			metrics.SetCircuitState(name, int(to))
		},
	})
}
