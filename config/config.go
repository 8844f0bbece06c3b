// Package config provides configuration management for the meal analysis service.
package config

import (
	"os"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Analysis providers.
const (
	ProviderGemini = "gemini"
	ProviderOllama = "ollama"
)

// DefaultOllamaModel is used with the ollama provider when ANALYSIS_MODEL is unset.
const DefaultOllamaModel = "llama3.2-vision"

// Config holds the complete application configuration.
type Config struct {
	Server   ServerConfig
	Analysis AnalysisConfig
	Image    ImageConfig
	Log      LogConfig
	Database DatabaseConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string
	Port            string
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	RateLimit       int
	RateWindow      time.Duration
	CORSOrigins     []string
	SwaggerUser     string
	SwaggerPass     string
	MaxUploadBytes  int64
}

// AnalysisConfig selects the model backend.
type AnalysisConfig struct {
	Provider  string
	Model     string
	APIKey    string
	OllamaURL string
}

// ImageConfig controls photo normalization before upload to the model.
type ImageConfig struct {
	MaxDimension int
	Quality      int
}

// LogConfig holds logger configuration.
type LogConfig struct {
	Level  string
	Pretty bool
}

// DatabaseConfig holds MongoDB configuration for the optional request log sink.
type DatabaseConfig struct {
	URI          string
	DatabaseName string
	LogsTTL      time.Duration
	Enabled      bool
	// CircuitBreaker configuration
	CircuitBreakerFailureThreshold int
	CircuitBreakerSuccessThreshold int
	CircuitBreakerTimeout          time.Duration
}

// Load creates a Config from environment variables.
// A missing API key is not an error here; the first analysis call reports it.
func Load() Config {
	provider := strings.ToLower(getEnv("ANALYSIS_PROVIDER", ProviderGemini))
	if provider != ProviderOllama {
		provider = ProviderGemini
	}

	return Config{
		Server: ServerConfig{
			Host:            getEnv("HOST", ""),
			Port:            getEnv("PORT", "8080"),
			WriteTimeout:    getEnvDuration("SERVER_WRITE_TIMEOUT", 120*time.Second),
			ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
			RateLimit:       getEnvInt("RATE_LIMIT", 30),
			RateWindow:      getEnvDuration("RATE_WINDOW", time.Minute),
			CORSOrigins:     parseCORSOrigins(os.Getenv("CORS_ORIGINS")),
			SwaggerUser:     getEnv("SWAGGER_USER", ""),
			SwaggerPass:     getEnv("SWAGGER_PASS", ""),
			MaxUploadBytes:  getEnvInt64("MAX_UPLOAD_BYTES", 10<<20),
		},
		Analysis: AnalysisConfig{
			Provider:  provider,
			Model:     getEnv("ANALYSIS_MODEL", defaultModel(provider)),
			APIKey:    getEnv("API_KEY", os.Getenv("GEMINI_API_KEY")),
			OllamaURL: getEnv("OLLAMA_URL", "http://localhost:11434"),
		},
		Image: ImageConfig{
			MaxDimension: getEnvInt("IMAGE_MAX_DIMENSION", 1536),
			Quality:      clamp(getEnvInt("IMAGE_QUALITY", 85), 1, 100),
		},
		Log: LogConfig{
			Level:  strings.ToLower(getEnv("LOG_LEVEL", "info")),
			Pretty: getEnvBool("LOG_PRETTY", false),
		},
		Database: DatabaseConfig{
			URI:                            getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			DatabaseName:                   getEnv("MONGODB_DATABASE", "nutriplate"),
			LogsTTL:                        getEnvDuration("MONGODB_LOGS_TTL", 30*24*time.Hour),
			Enabled:                        getEnvBool("MONGODB_ENABLED", false),
			CircuitBreakerFailureThreshold: getEnvInt("CIRCUIT_BREAKER_FAILURE_THRESHOLD", 5),
			CircuitBreakerSuccessThreshold: getEnvInt("CIRCUIT_BREAKER_SUCCESS_THRESHOLD", 2),
			CircuitBreakerTimeout:          getEnvDuration("CIRCUIT_BREAKER_TIMEOUT", 30*time.Second),
		},
	}
}

func defaultModel(provider string) string {
	if provider == ProviderOllama {
		return DefaultOllamaModel
	}
	return "gemini-2.5-flash"
}

// lookup returns the value of key parsed by parse, or def when key is unset,
// empty or does not parse.
func lookup[T any](key string, def T, parse func(string) (T, error)) T {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	parsed, err := parse(v)
	if err != nil {
		return def
	}
	return parsed
}

func getEnv(key, def string) string {
	return lookup(key, def, func(v string) (string, error) { return v, nil })
}

func getEnvInt(key string, def int) int {
	return lookup(key, def, strconv.Atoi)
}

// getEnvInt64 only accepts positive values.
func getEnvInt64(key string, def int64) int64 {
	return lookup(key, def, func(v string) (int64, error) {
		n, err := strconv.ParseInt(v, 10, 64)
		if err == nil && n <= 0 {
			err = strconv.ErrRange
		}
		return n, err
	})
}

func getEnvBool(key string, def bool) bool {
	return lookup(key, def, strconv.ParseBool)
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	return lookup(key, def, time.ParseDuration)
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

// localOrigins are always allowed so the web form works in development.
var localOrigins = []string{
	"http://localhost:3000",
	"http://127.0.0.1:3000",
	"http://localhost:8080",
}

// parseCORSOrigins appends the comma separated origins in s to localOrigins,
// skipping blanks and duplicates.
func parseCORSOrigins(s string) []string {
	origins := append([]string(nil), localOrigins...)
	for _, part := range strings.Split(s, ",") {
		origin := strings.TrimRight(strings.TrimSpace(part), "/")
		if origin != "" && !slices.Contains(origins, origin) {
			origins = append(origins, origin)
		}
	}
	return origins
}
