package app

import (
	"context"
	"errors"

	"github.com/guttosm/nutriplate/config"
	"github.com/guttosm/nutriplate/internal/http"
	"github.com/guttosm/nutriplate/internal/middleware"
	"github.com/guttosm/nutriplate/internal/service"
)

// errMissingAPIKey is reported by readiness while the gemini backend has no key.
var errMissingAPIKey = errors.New("analysis API key is not configured")

// RouterComponents holds router-related components.
type RouterComponents struct {
	Handler       *http.Handler
	HealthHandler *http.HealthHandler
	Config        http.RouterConfig
}

// InitializeRouter builds the handlers and the router configuration. The
// returned rate limiter, if any, must be stopped on shutdown.
func InitializeRouter(
	meals service.MealService,
	dbComponents *DatabaseComponents,
	cfg config.Config,
) *RouterComponents {
	handler := http.NewHandler(meals, http.WithMaxUploadBytes(cfg.Server.MaxUploadBytes))

	routerCfg := http.RouterConfig{
		RateLimit:      cfg.Server.RateLimit,
		RateWindow:     cfg.Server.RateWindow,
		CORSOrigins:    cfg.Server.CORSOrigins,
		SwaggerUser:    cfg.Server.SwaggerUser,
		SwaggerPass:    cfg.Server.SwaggerPass,
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
	}
	if cfg.Server.RateLimit > 0 {
		routerCfg.RateLimiter = middleware.NewRateLimiter(cfg.Server.RateLimit, cfg.Server.RateWindow)
	}

	return &RouterComponents{
		Handler:       handler,
		HealthHandler: newHealthHandler(cfg.Analysis, dbComponents, &routerCfg),
		Config:        routerCfg,
	}
}

// newHealthHandler registers readiness checks. Neither the model credentials
// nor the log sink gate readiness; both are reported so operators can see them.
func newHealthHandler(analysis config.AnalysisConfig, db *DatabaseComponents, routerCfg *http.RouterConfig) *http.HealthHandler {
	h := http.NewHealthHandler()

	h.RegisterOptionalChecker("analysis", http.HealthCheckerFunc(func(context.Context) error {
		if analysis.Provider != config.ProviderOllama && analysis.APIKey == "" {
			return errMissingAPIKey
		}
		return nil
	}))

	if db == nil {
		return h
	}
	routerCfg.LoggingService = db.LoggingService
	if db.DB != nil {
		h.RegisterOptionalChecker("mongodb", http.HealthCheckerFunc(db.DB.HealthCheck))
	}
	h.RegisterCircuitBreaker(logsCircuitName, db.LogsCircuitBreaker)
	return h
}
