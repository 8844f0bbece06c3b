//go:build !integration

package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/guttosm/nutriplate/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeApp(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.Config
		wantErr bool
	}{
		{
			name: "gemini backend without a key still starts",
			cfg: config.Config{
				Server:   config.ServerConfig{Port: "8080", RateLimit: 30, RateWindow: time.Minute},
				Analysis: config.AnalysisConfig{Provider: config.ProviderGemini},
			},
		},
		{
			name: "ollama backend",
			cfg: config.Config{
				Server:   config.ServerConfig{Port: "8080"},
				Analysis: config.AnalysisConfig{Provider: config.ProviderOllama, OllamaURL: "http://localhost:11434", Model: "llava"},
			},
		},
		{
			name: "invalid ollama URL",
			cfg: config.Config{
				Analysis: config.AnalysisConfig{Provider: config.ProviderOllama, OllamaURL: "not a url"},
			},
			wantErr: true,
		},
		{
			name: "database disabled",
			cfg: config.Config{
				Analysis: config.AnalysisConfig{Provider: config.ProviderGemini, APIKey: "k"},
				Database: config.DatabaseConfig{Enabled: false},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			application, err := InitializeApp(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, application)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, application.Router)
			defer application.Close(context.Background())

			req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
			w := httptest.NewRecorder()
			application.Router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusOK, w.Code)
		})
	}
}

func TestApplication_CloseWithoutDatabase(t *testing.T) {
	application := &Application{}
	assert.NotPanics(t, func() {
		application.Close(context.Background())
	})
}
