package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// OllamaProvider talks to a locally hosted Ollama instance. Multi-modal
// models such as the llava family handle diagram images.
type OllamaProvider struct {
	cfg    OllamaConfig
	client *http.Client
	logger *zap.Logger
}

// NewOllamaProvider creates an Ollama provider.
func NewOllamaProvider(cfg OllamaConfig, logger *zap.Logger) *OllamaProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:11434"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Model == "" {
		cfg.Model = "llava"
	}
	if cfg.Timeout == 0 {
		// Local vision inference is slow on CPU
		cfg.Timeout = 5 * time.Minute
	}

	return &OllamaProvider{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

func (p *OllamaProvider) Name() string { return "ollama" }

type ollamaOptions struct {
	Temperature float32 `json:"temperature"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type ollamaRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	Stream  bool          `json:"stream"`
	Images  []string      `json:"images,omitempty"`
	Options ollamaOptions `json:"options"`
}

type ollamaResponse struct {
	Response        string `json:"response"`
	PromptEvalCount int    `json:"prompt_eval_count"`
	EvalCount       int    `json:"eval_count"`
	TotalDuration   int64  `json:"total_duration"`
}

type ollamaTagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// Generate runs a single blocking completion against /api/generate.
func (p *OllamaProvider) Generate(ctx context.Context, req *Request) (*Response, error) {
	payload := ollamaRequest{
		Model:  p.cfg.Model,
		Prompt: req.Prompt,
		Stream: false,
		Options: ollamaOptions{
			Temperature: req.Temperature,
			NumPredict:  req.MaxTokens,
		},
	}
	// Ollama takes bare base64 strings, no data URL wrapper
	for _, img := range req.Images {
		payload.Images = append(payload.Images, img.Base64)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &Error{Provider: "ollama", Message: "encode request", Err: err}
	}

	endpoint := p.cfg.BaseURL + "/api/generate"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &Error{Provider: "ollama", Message: "build request", Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	p.logger.Debug("sending request to ollama", zap.String("endpoint", endpoint), zap.String("model", p.cfg.Model))

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, &Error{Provider: "ollama", Message: fmt.Sprintf("failed to reach %s", p.cfg.BaseURL), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &Error{Provider: "ollama", Status: resp.StatusCode, Message: strings.TrimSpace(string(msg))}
	}

	var data ollamaResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, &Error{Provider: "ollama", Message: "decode response", Err: err}
	}

	var usage *Usage
	if data.EvalCount > 0 {
		usage = &Usage{
			PromptTokens:     data.PromptEvalCount,
			CompletionTokens: data.EvalCount,
			TotalTokens:      data.PromptEvalCount + data.EvalCount,
		}
	}

	p.logger.Info("ollama generation completed",
		zap.Float64("duration_s", float64(data.TotalDuration)/1e9),
		zap.String("model", p.cfg.Model),
	)

	return &Response{
		Content:  data.Response,
		Model:    p.cfg.Model,
		Provider: "ollama",
		Usage:    usage,
	}, nil
}

// IsAvailable checks that Ollama responds and has the configured model pulled.
func (p *OllamaProvider) IsAvailable(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, p.cfg.BaseURL+"/api/tags", nil)
	if err != nil {
		return false
	}
	resp, err := p.client.Do(httpReq)
	if err != nil {
		p.logger.Warn("ollama availability check failed", zap.Error(err))
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		p.logger.Warn("ollama not responding properly", zap.Int("status", resp.StatusCode))
		return false
	}

	var tags ollamaTagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return false
	}

	want := baseModelName(p.cfg.Model)
	for _, m := range tags.Models {
		if baseModelName(m.Name) == want {
			return true
		}
	}
	p.logger.Warn("configured model not found in ollama", zap.String("model", p.cfg.Model))
	return false
}

// SupportsVision reports whether the configured model is a known
// multi-modal model.
func (p *OllamaProvider) SupportsVision() bool {
	multimodal := []string{"llava", "bakllava", "llava-v1.5", "llava-v1.6", "cogvlm"}
	base := strings.ToLower(baseModelName(p.cfg.Model))
	for _, m := range multimodal {
		if base == m {
			return true
		}
	}
	return false
}

// baseModelName strips an Ollama tag, e.g. "llava:13b" -> "llava".
func baseModelName(name string) string {
	if i := strings.Index(name, ":"); i >= 0 {
		return name[:i]
	}
	return name
}
