package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort string
	ServerHost string

	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// JWT configuration
	JWTSecret string

	// Embedding provider (OpenAI-compatible /embeddings endpoint)
	EmbeddingAPIURL string
	EmbeddingAPIKey string
	EmbeddingModel  string

	// Primary completion provider (Gemini, OpenAI-compatible endpoint)
	GeminiAPIURL string
	GeminiAPIKey string
	GeminiModel  string

	// Secondary completion provider
	OpenAIAPIURL string
	OpenAIAPIKey string
	OpenAIModel  string

	// Web-grounded answer provider
	WebSearchAPIURL string
	WebSearchAPIKey string
	WebSearchModel  string

	// PrimaryLLMDisabled forces the secondary provider into the primary
	// slot of the macro lookup cascade. Operational kill switch.
	PrimaryLLMDisabled bool

	// DefaultRoute is the answer-from-knowledge fallback route name.
	DefaultRoute string

	// AllowedOrigins lists CORS origins for the web client.
	AllowedOrigins []string
}

// LoadConfig creates a new Config instance with values from environment
// variables, falling back to Docker secrets for sensitive fields.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerPort: envOr("SERVER_PORT", "8080"),
		ServerHost: envOr("SERVER_HOST", "0.0.0.0"),

		DBHost:     envOr("DB_HOST", "localhost"),
		DBPort:     envOr("DB_PORT", "5432"),
		DBUser:     envOrSecret("DB_USER", "db_user"),
		DBPassword: envOrSecret("DB_PASSWORD", "db_password"),
		DBName:     envOr("DB_NAME", "mealwise"),
		DBSSLMode:  envOr("DB_SSL_MODE", "disable"),

		RedisHost:     envOr("REDIS_HOST", "localhost"),
		RedisPort:     envOr("REDIS_PORT", "6379"),
		RedisPassword: envOrSecret("REDIS_PASSWORD", "redis_password"),
		RedisDB:       0,
		RedisURL:      os.Getenv("REDIS_URL"),

		JWTSecret: envOrSecret("JWT_SECRET", "jwt_secret"),

		EmbeddingAPIURL: envOr("EMBEDDING_API_URL", "https://api.openai.com/v1/embeddings"),
		EmbeddingAPIKey: envOrSecret("EMBEDDING_API_KEY", "embedding_api_key"),
		EmbeddingModel:  envOr("EMBEDDING_MODEL", "text-embedding-3-small"),

		GeminiAPIURL: envOr("GEMINI_API_URL", "https://generativelanguage.googleapis.com/v1beta/openai/chat/completions"),
		GeminiAPIKey: envOrSecret("GEMINI_API_KEY", "gemini_api_key"),
		GeminiModel:  envOr("GEMINI_MODEL", "gemini-2.0-flash"),

		OpenAIAPIURL: envOr("OPENAI_API_URL", "https://api.openai.com/v1/chat/completions"),
		OpenAIAPIKey: envOrSecret("OPENAI_API_KEY", "openai_api_key"),
		OpenAIModel:  envOr("OPENAI_MODEL", "gpt-4o-mini"),

		WebSearchAPIURL: envOr("WEB_SEARCH_API_URL", "https://api.perplexity.ai/chat/completions"),
		WebSearchAPIKey: envOrSecret("WEB_SEARCH_API_KEY", "web_search_api_key"),
		WebSearchModel:  envOr("WEB_SEARCH_MODEL", "sonar"),

		PrimaryLLMDisabled: os.Getenv("PRIMARY_LLM_DISABLED") == "true",
		DefaultRoute:       envOr("DEFAULT_ROUTE", "general_chat"),
		AllowedOrigins:     splitList(envOr("ALLOWED_ORIGINS", "http://localhost:5173")),
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// splitList parses a comma-separated environment value.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// envOr returns the environment variable value or a default.
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// envOrSecret prefers the environment variable and falls back to a Docker
// secret file of the given name.
func envOrSecret(envKey, secretName string) string {
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	return readSecret(secretName)
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
