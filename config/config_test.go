package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var configKeys = []string{
	"HOST", "PORT", "SERVER_WRITE_TIMEOUT", "SHUTDOWN_TIMEOUT",
	"RATE_LIMIT", "RATE_WINDOW", "CORS_ORIGINS", "SWAGGER_USER", "SWAGGER_PASS", "MAX_UPLOAD_BYTES",
	"ANALYSIS_PROVIDER", "ANALYSIS_MODEL", "API_KEY", "GEMINI_API_KEY", "OLLAMA_URL",
	"IMAGE_MAX_DIMENSION", "IMAGE_QUALITY", "LOG_LEVEL", "LOG_PRETTY",
	"MONGODB_URI", "MONGODB_DATABASE", "MONGODB_LOGS_TTL", "MONGODB_ENABLED",
	"CIRCUIT_BREAKER_FAILURE_THRESHOLD", "CIRCUIT_BREAKER_SUCCESS_THRESHOLD", "CIRCUIT_BREAKER_TIMEOUT",
}

// withEnv blanks every key Load reads, then applies env for the test.
func withEnv(t *testing.T, env map[string]string) {
	t.Helper()
	for _, k := range configKeys {
		t.Setenv(k, "")
	}
	for k, v := range env {
		t.Setenv(k, v)
	}
}

func TestLoad_Defaults(t *testing.T) {
	withEnv(t, nil)

	cfg := Load()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Empty(t, cfg.Server.Host)
	assert.Equal(t, 120*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 30, cfg.Server.RateLimit)
	assert.Equal(t, time.Minute, cfg.Server.RateWindow)
	assert.Equal(t, int64(10<<20), cfg.Server.MaxUploadBytes)
	assert.Equal(t, ProviderGemini, cfg.Analysis.Provider)
	assert.Equal(t, "gemini-2.5-flash", cfg.Analysis.Model)
	assert.Empty(t, cfg.Analysis.APIKey)
	assert.Equal(t, "http://localhost:11434", cfg.Analysis.OllamaURL)
	assert.Equal(t, 1536, cfg.Image.MaxDimension)
	assert.Equal(t, 85, cfg.Image.Quality)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Log.Pretty)
	assert.False(t, cfg.Database.Enabled)
	assert.Equal(t, "nutriplate", cfg.Database.DatabaseName)
	assert.Equal(t, 30*24*time.Hour, cfg.Database.LogsTTL)
	assert.Equal(t, 5, cfg.Database.CircuitBreakerFailureThreshold)
}

func TestLoad_FromEnvironment(t *testing.T) {
	withEnv(t, map[string]string{
		"HOST":                 "127.0.0.1",
		"PORT":                 "9090",
		"SERVER_WRITE_TIMEOUT": "3m",
		"RATE_LIMIT":           "50",
		"RATE_WINDOW":          "30s",
		"MAX_UPLOAD_BYTES":     "2048",
		"API_KEY":              "key-1",
		"ANALYSIS_MODEL":       "gemini-2.5-pro",
		"IMAGE_MAX_DIMENSION":  "1024",
		"IMAGE_QUALITY":        "70",
		"LOG_LEVEL":            "DEBUG",
		"LOG_PRETTY":           "true",
		"MONGODB_ENABLED":      "true",
		"MONGODB_LOGS_TTL":     "168h",
	})

	cfg := Load()

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 3*time.Minute, cfg.Server.WriteTimeout)
	assert.Equal(t, 50, cfg.Server.RateLimit)
	assert.Equal(t, 30*time.Second, cfg.Server.RateWindow)
	assert.Equal(t, int64(2048), cfg.Server.MaxUploadBytes)
	assert.Equal(t, "key-1", cfg.Analysis.APIKey)
	assert.Equal(t, "gemini-2.5-pro", cfg.Analysis.Model)
	assert.Equal(t, 1024, cfg.Image.MaxDimension)
	assert.Equal(t, 70, cfg.Image.Quality)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.Pretty)
	assert.True(t, cfg.Database.Enabled)
	assert.Equal(t, 7*24*time.Hour, cfg.Database.LogsTTL)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	withEnv(t, map[string]string{
		"RATE_LIMIT":       "invalid",
		"LOG_PRETTY":       "invalid",
		"RATE_WINDOW":      "invalid",
		"MAX_UPLOAD_BYTES": "-1",
		"SHUTDOWN_TIMEOUT": "soon",
	})

	cfg := Load()

	assert.Equal(t, 30, cfg.Server.RateLimit)
	assert.False(t, cfg.Log.Pretty)
	assert.Equal(t, time.Minute, cfg.Server.RateWindow)
	assert.Equal(t, int64(10<<20), cfg.Server.MaxUploadBytes)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
}

func TestLoad_ImageQualityClamped(t *testing.T) {
	tests := []struct {
		value string
		want  int
	}{
		{value: "400", want: 100},
		{value: "0", want: 1},
		{value: "-5", want: 1},
		{value: "55", want: 55},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			withEnv(t, map[string]string{"IMAGE_QUALITY": tt.value})
			assert.Equal(t, tt.want, Load().Image.Quality)
		})
	}
}

func TestLoad_APIKey(t *testing.T) {
	tests := []struct {
		name   string
		env    map[string]string
		expect string
	}{
		{name: "unset", env: nil, expect: ""},
		{name: "gemini fallback", env: map[string]string{"GEMINI_API_KEY": "g-key"}, expect: "g-key"},
		{name: "API_KEY wins", env: map[string]string{"API_KEY": "a-key", "GEMINI_API_KEY": "g-key"}, expect: "a-key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withEnv(t, tt.env)
			assert.Equal(t, tt.expect, Load().Analysis.APIKey)
		})
	}
}

func TestLoad_Provider(t *testing.T) {
	tests := []struct {
		name        string
		provider    string
		model       string
		expectProv  string
		expectModel string
	}{
		{name: "default", expectProv: ProviderGemini, expectModel: "gemini-2.5-flash"},
		{name: "ollama default model", provider: "Ollama", expectProv: ProviderOllama, expectModel: DefaultOllamaModel},
		{name: "ollama explicit model", provider: "ollama", model: "llava", expectProv: ProviderOllama, expectModel: "llava"},
		{name: "unknown falls back to gemini", provider: "openai", expectProv: ProviderGemini, expectModel: "gemini-2.5-flash"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withEnv(t, map[string]string{"ANALYSIS_PROVIDER": tt.provider, "ANALYSIS_MODEL": tt.model})

			cfg := Load()

			assert.Equal(t, tt.expectProv, cfg.Analysis.Provider)
			assert.Equal(t, tt.expectModel, cfg.Analysis.Model)
		})
	}
}

func TestParseCORSOrigins(t *testing.T) {
	assert.Equal(t, localOrigins, parseCORSOrigins(""))

	origins := parseCORSOrigins(" https://nutri.example/ , ,https://b.example,http://localhost:3000,https://b.example")

	assert.Equal(t, append(append([]string(nil), localOrigins...), "https://nutri.example", "https://b.example"), origins)
}
