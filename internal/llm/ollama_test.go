package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestOllamaGenerate(t *testing.T) {
	var captured ollamaRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/generate", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		json.NewEncoder(w).Encode(ollamaResponse{
			Response:        "```hcl\nresource \"aws_s3_bucket\" \"b\" {}\n```",
			PromptEvalCount: 120,
			EvalCount:       80,
		})
	}))
	defer server.Close()

	p := NewOllamaProvider(OllamaConfig{BaseURL: server.URL, Model: "llava"}, zap.NewNop())

	resp, err := p.Generate(context.Background(), &Request{
		Prompt:      "describe the diagram",
		Images:      []ImageInput{{Base64: "aGVsbG8=", MIMEType: "image/png"}},
		Temperature: 0.1,
		MaxTokens:   4000,
	})
	require.NoError(t, err)

	assert.Equal(t, "ollama", resp.Provider)
	assert.Equal(t, "llava", resp.Model)
	assert.Contains(t, resp.Content, "aws_s3_bucket")
	require.NotNil(t, resp.Usage)
	assert.Equal(t, 200, resp.Usage.TotalTokens)

	assert.Equal(t, "llava", captured.Model)
	assert.False(t, captured.Stream)
	assert.Equal(t, []string{"aGVsbG8="}, captured.Images)
	assert.Equal(t, float32(0.1), captured.Options.Temperature)
	assert.Equal(t, 4000, captured.Options.NumPredict)
}

func TestOllamaGenerateErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer server.Close()

	p := NewOllamaProvider(OllamaConfig{BaseURL: server.URL}, zap.NewNop())

	_, err := p.Generate(context.Background(), &Request{Prompt: "hi"})
	require.Error(t, err)

	var provErr *Error
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, http.StatusNotFound, provErr.Status)
	assert.Equal(t, "ollama", provErr.Provider)
}

func TestOllamaGenerateTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	p := NewOllamaProvider(OllamaConfig{BaseURL: server.URL, Timeout: 50 * time.Millisecond}, zap.NewNop())

	start := time.Now()
	_, err := p.Generate(context.Background(), &Request{Prompt: "hi"})
	elapsed := time.Since(start)

	require.Error(t, err)
	var provErr *Error
	require.ErrorAs(t, err, &provErr)
	assert.Zero(t, provErr.Status)

	// The call must give up at the client timeout, not wait on the server.
	assert.Less(t, elapsed, 2*time.Second)
}

func TestOllamaGenerateUnreachable(t *testing.T) {
	p := NewOllamaProvider(OllamaConfig{BaseURL: "http://127.0.0.1:1"}, zap.NewNop())

	_, err := p.Generate(context.Background(), &Request{Prompt: "hi"})
	require.Error(t, err)

	var provErr *Error
	require.ErrorAs(t, err, &provErr)
	assert.Zero(t, provErr.Status)
}

func TestOllamaIsAvailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/tags", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"models": []map[string]string{
				{"name": "llava:13b"},
				{"name": "codellama:7b"},
			},
		})
	}))
	defer server.Close()

	// Tag variants of the configured model count as present.
	p := NewOllamaProvider(OllamaConfig{BaseURL: server.URL, Model: "llava"}, zap.NewNop())
	assert.True(t, p.IsAvailable(context.Background()))

	p = NewOllamaProvider(OllamaConfig{BaseURL: server.URL, Model: "bakllava"}, zap.NewNop())
	assert.False(t, p.IsAvailable(context.Background()))
}

func TestOllamaIsAvailableDown(t *testing.T) {
	p := NewOllamaProvider(OllamaConfig{BaseURL: "http://127.0.0.1:1"}, zap.NewNop())
	assert.False(t, p.IsAvailable(context.Background()))
}

func TestOllamaSupportsVision(t *testing.T) {
	cases := map[string]bool{
		"llava":      true,
		"llava:13b":  true,
		"bakllava":   true,
		"llava-v1.6": true,
		"codellama":  false,
		"mistral:7b": false,
	}
	for model, want := range cases {
		p := NewOllamaProvider(OllamaConfig{Model: model}, zap.NewNop())
		assert.Equal(t, want, p.SupportsVision(), "model %s", model)
	}
}

func TestBaseModelName(t *testing.T) {
	assert.Equal(t, "llava", baseModelName("llava:13b"))
	assert.Equal(t, "llava", baseModelName("llava"))
}
