package app

import (
	"fmt"

	"github.com/guttosm/nutriplate/config"
	"github.com/guttosm/nutriplate/internal/analysis"
	"github.com/guttosm/nutriplate/internal/analysis/gemini"
	"github.com/guttosm/nutriplate/internal/analysis/ollama"
	"github.com/guttosm/nutriplate/internal/media"
	"github.com/guttosm/nutriplate/internal/service"
	"github.com/rs/zerolog/log"
)

// ServiceComponents holds service-related components.
type ServiceComponents struct {
	Analyzer *analysis.Client
	Meals    service.MealService
}

// NewGenerator returns the model backend selected by cfg.
func NewGenerator(cfg config.AnalysisConfig) (analysis.Generator, error) {
	switch cfg.Provider {
	case config.ProviderOllama:
		generator, err := ollama.New(cfg.OllamaURL, nil)
		if err != nil {
			return nil, fmt.Errorf("ollama backend: %w", err)
		}
		return generator, nil
	case config.ProviderGemini, "":
		if cfg.APIKey == "" {
			log.Warn().Msg("API_KEY is not set; analysis requests will fail until it is configured")
		}
		return gemini.New(cfg.APIKey), nil
	default:
		return nil, fmt.Errorf("unknown analysis provider %q", cfg.Provider)
	}
}

// InitializeServices builds the analysis client and the meal service.
func InitializeServices(cfg config.Config) (*ServiceComponents, error) {
	generator, err := NewGenerator(cfg.Analysis)
	if err != nil {
		return nil, err
	}

	client := analysis.NewClient(generator, analysis.WithModel(cfg.Analysis.Model))
	log.Info().
		Str("provider", cfg.Analysis.Provider).
		Str("model", client.Model()).
		Msg("Analysis backend configured")

	imageOpts := media.DefaultOptions()
	if cfg.Image.MaxDimension > 0 {
		imageOpts.MaxDimension = cfg.Image.MaxDimension
	}
	if cfg.Image.Quality > 0 {
		imageOpts.Quality = cfg.Image.Quality
	}

	return &ServiceComponents{
		Analyzer: client,
		Meals:    service.NewMealService(client, imageOpts),
	}, nil
}
