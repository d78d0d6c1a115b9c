package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "mealwise", cfg.DBName)
	assert.Equal(t, "general_chat", cfg.DefaultRoute)
	assert.False(t, cfg.PrimaryLLMDisabled)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.AllowedOrigins)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("PRIMARY_LLM_DISABLED", "true")
	t.Setenv("ALLOWED_ORIGINS", "https://app.example.com, https://staging.example.com")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.True(t, cfg.PrimaryLLMDisabled)
	assert.Equal(t, []string{"https://app.example.com", "https://staging.example.com"}, cfg.AllowedOrigins)
}

func TestValidateConfig_RequiredFields(t *testing.T) {
	cfg := &Config{}
	err := ValidateConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_HOST is required")
	assert.Contains(t, err.Error(), "REDIS_HOST is required")
}

func TestValidateConfig_ProductionNeedsSecrets(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("ENV", "production")

	cfg := &Config{
		DBHost: "db", DBPort: "5432", DBUser: "app", DBName: "mealwise",
		RedisHost: "redis", RedisPort: "6379",
	}
	err := ValidateConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
	assert.Contains(t, err.Error(), "GEMINI_API_KEY or OPENAI_API_KEY")

	cfg.DBPassword = "pw"
	cfg.JWTSecret = "secret"
	cfg.EmbeddingAPIKey = "key"
	cfg.GeminiAPIKey = "key"
	assert.NoError(t, ValidateConfig(cfg))
}

func TestGetEnvironment(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("ENV", "test")
	assert.Equal(t, Test, GetEnvironment())
	assert.False(t, RequiresSecrets())

	t.Setenv("ENV", "staging")
	assert.Equal(t, Staging, GetEnvironment())
	assert.False(t, IsProduction())
	assert.True(t, RequiresSecrets())

	t.Setenv("ENV", "production")
	assert.Equal(t, Production, GetEnvironment())
	assert.True(t, IsProduction())
	assert.True(t, RequiresSecrets())

	t.Setenv("ENV", "")
	assert.Equal(t, Development, GetEnvironment())

	// The CI flag beats whatever ENV a developer exported.
	t.Setenv("CI", "true")
	t.Setenv("ENV", "production")
	assert.Equal(t, CI, GetEnvironment())
	assert.False(t, RequiresSecrets())
}
