package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "LLM_PROVIDER", "MAX_IMAGE_SIZE_MB", "ALLOWED_IMAGE_TYPES", "UPLOAD_RETENTION_HOURS", "PROVIDER_TIMEOUT_SECONDS"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.Provider != "ollama" {
		t.Errorf("Provider = %q", cfg.Provider)
	}
	if cfg.MaxImageSizeMB != 10 {
		t.Errorf("MaxImageSizeMB = %d", cfg.MaxImageSizeMB)
	}
	if len(cfg.AllowedImageTypes) != 4 {
		t.Errorf("AllowedImageTypes = %v", cfg.AllowedImageTypes)
	}
	if cfg.RetentionTTL != 24*time.Hour {
		t.Errorf("RetentionTTL = %v", cfg.RetentionTTL)
	}
	if cfg.ProviderTimeout != 300*time.Second {
		t.Errorf("ProviderTimeout = %v", cfg.ProviderTimeout)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "OpenAI")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("MAX_IMAGE_SIZE_MB", "5")
	t.Setenv("ALLOWED_IMAGE_TYPES", "PNG, jpeg")
	t.Setenv("UPLOAD_RETENTION_HOURS", "6")

	cfg := Load()

	if cfg.Provider != "openai" {
		t.Errorf("Provider = %q, want lowercased", cfg.Provider)
	}
	if cfg.MaxImageSizeMB != 5 {
		t.Errorf("MaxImageSizeMB = %d", cfg.MaxImageSizeMB)
	}
	want := []string{"png", "jpeg"}
	if len(cfg.AllowedImageTypes) != 2 || cfg.AllowedImageTypes[0] != want[0] || cfg.AllowedImageTypes[1] != want[1] {
		t.Errorf("AllowedImageTypes = %v, want %v", cfg.AllowedImageTypes, want)
	}
	if cfg.RetentionTTL != 6*time.Hour {
		t.Errorf("RetentionTTL = %v", cfg.RetentionTTL)
	}
}

func TestValidateProviderRequirements(t *testing.T) {
	base := func() *Config {
		return &Config{
			Provider:          "ollama",
			OllamaBaseURL:     "http://localhost:11434",
			OllamaModel:       "llava",
			MaxImageSizeMB:    10,
			AllowedImageTypes: []string{"png"},
		}
	}

	if err := base().Validate(); err != nil {
		t.Errorf("valid ollama config rejected: %v", err)
	}

	cfg := base()
	cfg.Provider = "openai"
	if err := cfg.Validate(); err == nil {
		t.Error("openai without API key accepted")
	}
	cfg.OpenAIAPIKey = "sk-test"
	if err := cfg.Validate(); err != nil {
		t.Errorf("valid openai config rejected: %v", err)
	}

	cfg = base()
	cfg.Provider = "anthropic"
	if err := cfg.Validate(); err == nil {
		t.Error("anthropic without API key accepted")
	}

	cfg = base()
	cfg.Provider = "bedrock"
	if err := cfg.Validate(); err == nil {
		t.Error("unknown provider accepted")
	}

	cfg = base()
	cfg.MaxImageSizeMB = 0
	if err := cfg.Validate(); err == nil {
		t.Error("zero size ceiling accepted")
	}
}
