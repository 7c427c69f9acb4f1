package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the API service
type Config struct {
	// Server
	Port        string
	Environment string

	// Storage
	DatabaseURL string
	RedisURL    string
	NATSURL     string
	UploadDir   string

	// Upload limits
	MaxImageSizeMB    int
	AllowedImageTypes []string
	RetentionTTL      time.Duration

	// LLM provider
	Provider        string
	ProviderTimeout time.Duration

	OllamaBaseURL string
	OllamaModel   string

	OpenAIAPIKey string
	OpenAIModel  string

	AnthropicAPIKey string
	AnthropicModel  string
}

// Load reads configuration from the environment. A .env file in the
// working directory is applied first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("GO_ENV", "development"),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),
		NATSURL:     getEnv("NATS_URL", "nats://localhost:4222"),
		UploadDir:   getEnv("UPLOAD_DIR", "uploads"),

		MaxImageSizeMB:    getEnvInt("MAX_IMAGE_SIZE_MB", 10),
		AllowedImageTypes: splitList(getEnv("ALLOWED_IMAGE_TYPES", "png,jpg,jpeg,webp")),
		RetentionTTL:      time.Duration(getEnvInt("UPLOAD_RETENTION_HOURS", 24)) * time.Hour,

		Provider:        strings.ToLower(getEnv("LLM_PROVIDER", "ollama")),
		ProviderTimeout: time.Duration(getEnvInt("PROVIDER_TIMEOUT_SECONDS", 300)) * time.Second,

		OllamaBaseURL: getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
		OllamaModel:   getEnv("OLLAMA_MODEL", "llava"),

		OpenAIAPIKey: os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:  getEnv("OPENAI_MODEL", "gpt-4o"),

		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicModel:  getEnv("ANTHROPIC_MODEL", "claude-3-opus-20240229"),
	}
}

// Validate checks that the selected provider has the settings it needs.
func (c *Config) Validate() error {
	switch c.Provider {
	case "ollama":
		if c.OllamaBaseURL == "" {
			return fmt.Errorf("OLLAMA_BASE_URL is required when using the ollama provider")
		}
		if c.OllamaModel == "" {
			return fmt.Errorf("OLLAMA_MODEL is required when using the ollama provider")
		}
	case "openai":
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required when using the openai provider")
		}
	case "anthropic":
		if c.AnthropicAPIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required when using the anthropic provider")
		}
	default:
		return fmt.Errorf("invalid LLM_PROVIDER %q: must be one of ollama, openai, anthropic", c.Provider)
	}

	if c.MaxImageSizeMB <= 0 {
		return fmt.Errorf("MAX_IMAGE_SIZE_MB must be positive")
	}
	if len(c.AllowedImageTypes) == 0 {
		return fmt.Errorf("ALLOWED_IMAGE_TYPES must not be empty")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(strings.ToLower(part))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
