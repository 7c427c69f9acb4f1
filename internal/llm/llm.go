// Package llm defines the vision-model provider contract and its three
// implementations: a local Ollama endpoint and the OpenAI and Anthropic
// hosted APIs. Exactly one provider is active per process.
package llm

import (
	"context"
	"fmt"
	"time"
)

// ImageInput is a base64-encoded image attached to a generation request.
type ImageInput struct {
	Base64   string
	MIMEType string
}

// Request is the provider-independent generation request.
type Request struct {
	Prompt      string
	Images      []ImageInput
	Temperature float32
	MaxTokens   int
}

// Usage reports token accounting when the provider returns it.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Response is the provider-independent reply.
type Response struct {
	Content  string
	Model    string
	Provider string
	Usage    *Usage
}

// Provider is the single capability the orchestrator depends on: given
// image bytes and an instruction, return response text.
type Provider interface {
	Name() string
	Generate(ctx context.Context, req *Request) (*Response, error)
	IsAvailable(ctx context.Context) bool
	SupportsVision() bool
}

// Error wraps transport failures, authentication failures and
// provider-side rejections behind one type.
type Error struct {
	Provider string
	Status   int
	Message  string
	Err      error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: %s (status %d)", e.Provider, e.Message, e.Status)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// OllamaConfig configures the local Ollama provider.
type OllamaConfig struct {
	BaseURL string
	Model   string
	Timeout time.Duration
}

// OpenAIConfig configures the OpenAI provider.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// AnthropicConfig configures the Anthropic provider.
type AnthropicConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}
