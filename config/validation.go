package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks that the configuration carries everything the
// current environment needs. Provider keys are only required in staging
// and production so that local runs and unit tests work offline.
func ValidateConfig(cfg *Config) error {
	var errors []string

	required := map[string]string{
		"DB_HOST":    cfg.DBHost,
		"DB_PORT":    cfg.DBPort,
		"DB_USER":    cfg.DBUser,
		"DB_NAME":    cfg.DBName,
		"REDIS_HOST": cfg.RedisHost,
		"REDIS_PORT": cfg.RedisPort,
	}
	for field, value := range required {
		if value == "" {
			errors = append(errors, fmt.Sprintf("%s is required", field))
		}
	}

	if RequiresSecrets() {
		sensitive := map[string]string{
			"DB_PASSWORD / db_password":        cfg.DBPassword,
			"JWT_SECRET / jwt_secret":          cfg.JWTSecret,
			"EMBEDDING_API_KEY":                cfg.EmbeddingAPIKey,
			"GEMINI_API_KEY or OPENAI_API_KEY": firstNonEmpty(cfg.GeminiAPIKey, cfg.OpenAIAPIKey),
		}
		for field, value := range sensitive {
			if value == "" {
				errors = append(errors, fmt.Sprintf("%s is required in %s", field, GetEnvironment()))
			}
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errors, "\n"))
	}

	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
