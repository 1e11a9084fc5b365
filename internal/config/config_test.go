package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "ENV", "LOG_LEVEL", "DATABASE_URL", "CLAUDE_API_KEY", "CLAUDE_MODEL",
		"GENERATION_TIMEOUT_SECONDS", "RETRY_DELAY_SECONDS", "TAVILY_API_KEY",
		"GOOGLE_SEARCH_API_KEY", "RATE_LIMIT_RPS", "MAX_UPLOAD_BYTES", "SESSION_TTL_MINUTES",
		"EXPORT_DIR", "ALLOWED_ORIGINS",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Empty(t, cfg.ClaudeAPIKey)
	assert.Equal(t, "claude-sonnet-4-5-20250929", cfg.ClaudeModel)
	assert.Equal(t, 60*time.Second, cfg.GenerationTimeout)
	assert.Equal(t, 2*time.Second, cfg.RetryDelay)
	assert.Equal(t, 5, cfg.RateLimitRPS)
	assert.EqualValues(t, 10<<20, cfg.MaxUploadBytes)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "exports", cfg.ExportDir)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.AllowedOrigins)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("CLAUDE_API_KEY", "sk-test")
	t.Setenv("CLAUDE_MODEL", "claude-haiku")
	t.Setenv("GENERATION_TIMEOUT_SECONDS", "15")
	t.Setenv("RATE_LIMIT_RPS", "not-a-number")
	t.Setenv("ALLOWED_ORIGINS", " https://a.example , ,https://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sk-test", cfg.ClaudeAPIKey)
	assert.Equal(t, "claude-haiku", cfg.ClaudeModel)
	assert.Equal(t, 15*time.Second, cfg.GenerationTimeout)
	assert.Equal(t, 5, cfg.RateLimitRPS)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}
