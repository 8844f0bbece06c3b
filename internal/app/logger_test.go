//go:build !integration

package app

import (
	"testing"

	"github.com/guttosm/nutriplate/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestInitializeLogger(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.LogConfig
		expected zerolog.Level
	}{
		{name: "default level", cfg: config.LogConfig{}, expected: zerolog.InfoLevel},
		{name: "debug level", cfg: config.LogConfig{Level: "debug"}, expected: zerolog.DebugLevel},
		{name: "pretty output", cfg: config.LogConfig{Level: "info", Pretty: true}, expected: zerolog.InfoLevel},
		{name: "warn level", cfg: config.LogConfig{Level: "warn"}, expected: zerolog.WarnLevel},
		{name: "error level", cfg: config.LogConfig{Level: "error"}, expected: zerolog.ErrorLevel},
		{name: "unknown level falls back to info", cfg: config.LogConfig{Level: "verbose"}, expected: zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				InitializeLogger(tt.cfg)
			})
			assert.Equal(t, tt.expected, zerolog.GlobalLevel())
		})
	}

	InitializeLogger(config.LogConfig{Level: "info"})
}
