// Package app provides application initialization and dependency injection.
package app

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/nutriplate/config"
	"github.com/guttosm/nutriplate/internal/http"
	"github.com/guttosm/nutriplate/internal/middleware"
	"github.com/rs/zerolog/log"
)

// Application is the wired HTTP stack plus the resources to release on shutdown.
type Application struct {
	Router   *gin.Engine
	database *DatabaseComponents
	limiter  *middleware.RateLimiter
}

// InitializeApp creates and wires all application dependencies.
func InitializeApp(cfg config.Config) (*Application, error) {
	// Initialize logger first (needed by other components)
	InitializeLogger(cfg.Log)

	serviceComponents, err := InitializeServices(cfg)
	if err != nil {
		return nil, err
	}

	// Optional request log sink
	dbComponents := InitializeDatabase(cfg.Database)

	routerComponents := InitializeRouter(serviceComponents.Meals, dbComponents, cfg)

	return &Application{
		Router:   http.NewRouter(routerComponents.Handler, routerComponents.HealthHandler, routerComponents.Config),
		database: dbComponents,
		limiter:  routerComponents.Config.RateLimiter,
	}, nil
}

// Close stops background workers, flushes buffered log entries and
// disconnects from MongoDB.
func (a *Application) Close(ctx context.Context) {
	if a.limiter != nil {
		a.limiter.Stop()
	}
	middleware.StopAsyncLogger()
	if a.database == nil || a.database.DB == nil {
		return
	}
	if err := a.database.DB.Close(ctx); err != nil {
		log.Warn().Err(err).Msg("Failed to disconnect from MongoDB")
	}
}
