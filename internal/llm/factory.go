package llm

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/arch-i-tect/api/internal/config"
)

// NewProvider builds the single active provider from process-wide
// configuration. Selection is static; there is no runtime negotiation.
func NewProvider(cfg *config.Config, logger *zap.Logger) (Provider, error) {
	switch cfg.Provider {
	case "ollama":
		return NewOllamaProvider(OllamaConfig{
			BaseURL: cfg.OllamaBaseURL,
			Model:   cfg.OllamaModel,
			Timeout: cfg.ProviderTimeout,
		}, logger), nil
	case "openai":
		return NewOpenAIProvider(OpenAIConfig{
			APIKey:  cfg.OpenAIAPIKey,
			Model:   cfg.OpenAIModel,
			Timeout: cfg.ProviderTimeout,
		}, logger), nil
	case "anthropic":
		return NewAnthropicProvider(AnthropicConfig{
			APIKey:  cfg.AnthropicAPIKey,
			Model:   cfg.AnthropicModel,
			Timeout: cfg.ProviderTimeout,
		}, logger), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s", cfg.Provider)
	}
}
