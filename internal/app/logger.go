package app

import (
	"github.com/guttosm/nutriplate/config"
	"github.com/guttosm/nutriplate/internal/logger"
)

// InitializeLogger initializes the JSON logger.
func InitializeLogger(cfg config.LogConfig) {
	level := cfg.Level
	if level == "" {
		level = "info"
	}
	logger.Init(level, cfg.Pretty)
}
