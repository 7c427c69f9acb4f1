package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// AnthropicProvider talks to the Anthropic messages API. The API differs
// from OpenAI's in a few ways that matter here:
// 1. Authentication uses an x-api-key header, not a bearer token
// 2. Images are content blocks with a base64 source, placed before text
// 3. The reply content is a list of typed blocks
type AnthropicProvider struct {
	cfg    AnthropicConfig
	client *http.Client
	logger *zap.Logger
}

// NewAnthropicProvider creates an Anthropic provider.
func NewAnthropicProvider(cfg AnthropicConfig, logger *zap.Logger) *AnthropicProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.anthropic.com/v1"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Model == "" {
		cfg.Model = "claude-3-opus-20240229"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 2 * time.Minute
	}

	return &AnthropicProvider{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

func (p *AnthropicProvider) Name() string { return "anthropic" }

type anthropicImageSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type anthropicContent struct {
	Type   string                `json:"type"`
	Text   string                `json:"text,omitempty"`
	Source *anthropicImageSource `json:"source,omitempty"`
}

type anthropicMessage struct {
	Role    string             `json:"role"`
	Content []anthropicContent `json:"content"`
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	Messages    []anthropicMessage `json:"messages"`
	Temperature float32            `json:"temperature,omitempty"`
	MaxTokens   int                `json:"max_tokens"`
}

type anthropicUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

type anthropicResponse struct {
	Model   string             `json:"model"`
	Content []anthropicContent `json:"content"`
	Usage   *anthropicUsage    `json:"usage"`
}

type anthropicErrorResp struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func (p *AnthropicProvider) buildHeaders(req *http.Request) {
	req.Header.Set("x-api-key", p.cfg.APIKey)
	req.Header.Set("anthropic-version", "2023-06-01")
	req.Header.Set("Content-Type", "application/json")
}

// Generate runs a single blocking messages call.
func (p *AnthropicProvider) Generate(ctx context.Context, req *Request) (*Response, error) {
	// Images go first so the text instruction refers to what precedes it
	var content []anthropicContent
	for _, img := range req.Images {
		content = append(content, anthropicContent{
			Type: "image",
			Source: &anthropicImageSource{
				Type:      "base64",
				MediaType: img.MIMEType,
				Data:      img.Base64,
			},
		})
	}
	content = append(content, anthropicContent{Type: "text", Text: req.Prompt})

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = 4096
	}

	payload := anthropicRequest{
		Model:       p.cfg.Model,
		Messages:    []anthropicMessage{{Role: "user", Content: content}},
		Temperature: req.Temperature,
		MaxTokens:   maxTokens,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &Error{Provider: "anthropic", Message: "encode request", Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.BaseURL+"/messages", bytes.NewReader(body))
	if err != nil {
		return nil, &Error{Provider: "anthropic", Message: "build request", Err: err}
	}
	p.buildHeaders(httpReq)

	p.logger.Debug("sending request to anthropic", zap.String("model", p.cfg.Model))

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, &Error{Provider: "anthropic", Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp anthropicErrorResp
		_ = json.NewDecoder(resp.Body).Decode(&errResp)
		msg := errResp.Error.Message
		if msg == "" {
			msg = "unknown error"
		}
		return nil, &Error{Provider: "anthropic", Status: resp.StatusCode, Message: msg}
	}

	var data anthropicResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, &Error{Provider: "anthropic", Message: "decode response", Err: err}
	}

	var sb strings.Builder
	for _, block := range data.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}

	var usage *Usage
	if data.Usage != nil {
		usage = &Usage{
			PromptTokens:     data.Usage.InputTokens,
			CompletionTokens: data.Usage.OutputTokens,
			TotalTokens:      data.Usage.InputTokens + data.Usage.OutputTokens,
		}
	}

	model := data.Model
	if model == "" {
		model = p.cfg.Model
	}

	p.logger.Info("anthropic generation completed", zap.String("model", model))

	return &Response{
		Content:  sb.String(),
		Model:    model,
		Provider: "anthropic",
		Usage:    usage,
	}, nil
}

// IsAvailable probes the messages endpoint with a minimal request.
// 200 and 401 both mean the API is reachable.
func (p *AnthropicProvider) IsAvailable(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	payload := anthropicRequest{
		Model:     "claude-3-haiku-20240307",
		Messages:  []anthropicMessage{{Role: "user", Content: []anthropicContent{{Type: "text", Text: "test"}}}},
		MaxTokens: 1,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return false
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.BaseURL+"/messages", bytes.NewReader(body))
	if err != nil {
		return false
	}
	p.buildHeaders(httpReq)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		p.logger.Warn("anthropic availability check failed", zap.Error(err))
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusUnauthorized
}

// SupportsVision reports whether the configured model accepts images.
// All claude-3 generation models do.
func (p *AnthropicProvider) SupportsVision() bool {
	return strings.Contains(p.cfg.Model, "claude-3")
}
