package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port     string
	Env      string // development, staging, production
	LogLevel string

	// Database (optional, enables message history)
	DatabaseURL string

	// Claude API
	ClaudeAPIKey      string
	ClaudeBaseURL     string
	ClaudeModel       string
	GenerationTimeout time.Duration
	RetryDelay        time.Duration

	// Web search
	TavilyAPIKey         string
	GoogleSearchAPIKey   string
	GoogleSearchEngineID string

	// Rate Limiting
	RateLimitRPS int

	// Uploads and exports
	MaxUploadBytes int64
	ExportDir      string

	// Sessions
	SessionTTL time.Duration

	// CORS
	AllowedOrigins []string
}

// Load reads configuration from the environment. Missing service
// credentials are not an error; calls that need them fail at use time.
func Load() (*Config, error) {
	// Load .env file if it exists (development only); real env takes precedence
	_ = godotenv.Load()

	cfg := &Config{
		Port:                 getEnv("PORT", "8080"),
		Env:                  getEnv("ENV", "development"),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		DatabaseURL:          getEnv("DATABASE_URL", ""),
		ClaudeAPIKey:         getEnv("CLAUDE_API_KEY", ""),
		ClaudeBaseURL:        getEnv("CLAUDE_BASE_URL", ""),
		ClaudeModel:          getEnv("CLAUDE_MODEL", "claude-sonnet-4-5-20250929"),
		GenerationTimeout:    time.Duration(getEnvInt("GENERATION_TIMEOUT_SECONDS", 60)) * time.Second,
		RetryDelay:           time.Duration(getEnvInt("RETRY_DELAY_SECONDS", 2)) * time.Second,
		TavilyAPIKey:         getEnv("TAVILY_API_KEY", ""),
		GoogleSearchAPIKey:   getEnv("GOOGLE_SEARCH_API_KEY", ""),
		GoogleSearchEngineID: getEnv("GOOGLE_SEARCH_ENGINE_ID", ""),
		RateLimitRPS:         getEnvInt("RATE_LIMIT_RPS", 5),
		MaxUploadBytes:       int64(getEnvInt("MAX_UPLOAD_BYTES", 10<<20)),
		ExportDir:            getEnv("EXPORT_DIR", "exports"),
		SessionTTL:           time.Duration(getEnvInt("SESSION_TTL_MINUTES", 120)) * time.Minute,
		AllowedOrigins:       getEnvList("ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(val, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
