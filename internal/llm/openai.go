package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// OpenAIProvider talks to the OpenAI chat completions API. Vision-capable
// models accept images as data URLs inside message content parts.
type OpenAIProvider struct {
	cfg    OpenAIConfig
	client *http.Client
	logger *zap.Logger
}

// NewOpenAIProvider creates an OpenAI provider.
func NewOpenAIProvider(cfg OpenAIConfig, logger *zap.Logger) *OpenAIProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Model == "" {
		cfg.Model = "gpt-4o"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 2 * time.Minute
	}

	return &OpenAIProvider{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

func (p *OpenAIProvider) Name() string { return "openai" }

type openaiContentPart struct {
	Type     string          `json:"type"`
	Text     string          `json:"text,omitempty"`
	ImageURL *openaiImageURL `json:"image_url,omitempty"`
}

type openaiImageURL struct {
	URL string `json:"url"`
}

type openaiMessage struct {
	Role    string              `json:"role"`
	Content []openaiContentPart `json:"content"`
}

type openaiRequest struct {
	Model       string          `json:"model"`
	Messages    []openaiMessage `json:"messages"`
	Temperature float32         `json:"temperature"`
	MaxTokens   int             `json:"max_tokens"`
}

type openaiUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type openaiResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage *openaiUsage `json:"usage"`
}

type openaiErrorResp struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

func (p *OpenAIProvider) buildHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")
}

// Generate runs a single blocking chat completion.
func (p *OpenAIProvider) Generate(ctx context.Context, req *Request) (*Response, error) {
	content := []openaiContentPart{{Type: "text", Text: req.Prompt}}
	for _, img := range req.Images {
		content = append(content, openaiContentPart{
			Type: "image_url",
			ImageURL: &openaiImageURL{
				URL: fmt.Sprintf("data:%s;base64,%s", img.MIMEType, img.Base64),
			},
		})
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = 4096
	}

	payload := openaiRequest{
		Model:       p.cfg.Model,
		Messages:    []openaiMessage{{Role: "user", Content: content}},
		Temperature: req.Temperature,
		MaxTokens:   maxTokens,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &Error{Provider: "openai", Message: "encode request", Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, &Error{Provider: "openai", Message: "build request", Err: err}
	}
	p.buildHeaders(httpReq)

	p.logger.Debug("sending request to openai", zap.String("model", p.cfg.Model))

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, &Error{Provider: "openai", Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp openaiErrorResp
		_ = json.NewDecoder(resp.Body).Decode(&errResp)
		msg := errResp.Error.Message
		if msg == "" {
			msg = "unknown error"
		}
		return nil, &Error{Provider: "openai", Status: resp.StatusCode, Message: msg}
	}

	var data openaiResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, &Error{Provider: "openai", Message: "decode response", Err: err}
	}
	if len(data.Choices) == 0 {
		return nil, &Error{Provider: "openai", Message: "response contained no choices"}
	}

	var usage *Usage
	if data.Usage != nil {
		usage = &Usage{
			PromptTokens:     data.Usage.PromptTokens,
			CompletionTokens: data.Usage.CompletionTokens,
			TotalTokens:      data.Usage.TotalTokens,
		}
	}

	model := data.Model
	if model == "" {
		model = p.cfg.Model
	}

	p.logger.Info("openai generation completed", zap.String("model", model))

	return &Response{
		Content:  data.Choices[0].Message.Content,
		Model:    model,
		Provider: "openai",
		Usage:    usage,
	}, nil
}

// IsAvailable checks authentication against the models endpoint.
func (p *OpenAIProvider) IsAvailable(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, p.cfg.BaseURL+"/models", nil)
	if err != nil {
		return false
	}
	p.buildHeaders(httpReq)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		p.logger.Warn("openai availability check failed", zap.Error(err))
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}

// SupportsVision reports whether the configured model accepts images.
func (p *OpenAIProvider) SupportsVision() bool {
	visionModels := []string{"gpt-4-vision-preview", "gpt-4-turbo", "gpt-4o"}
	for _, vm := range visionModels {
		if strings.Contains(p.cfg.Model, vm) {
			return true
		}
	}
	return false
}
