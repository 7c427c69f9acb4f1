// Package generator orchestrates one diagram-to-IaC round trip: prepare
// the image, call the configured provider, parse and clean the reply.
package generator

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/arch-i-tect/api/internal/imaging"
	"github.com/arch-i-tect/api/internal/llm"
	"github.com/arch-i-tect/api/internal/models"
	"github.com/arch-i-tect/api/internal/prompt"
)

const (
	generationTemperature = 0.1
	generationMaxTokens   = 4000
)

// Generator converts architecture diagrams into Infrastructure as Code
// through the single configured provider.
type Generator struct {
	provider llm.Provider
	logger   *zap.Logger
}

// New creates a generator bound to one provider.
func New(provider llm.Provider, logger *zap.Logger) *Generator {
	return &Generator{provider: provider, logger: logger}
}

// Provider exposes the active provider, mainly for health checks.
func (g *Generator) Provider() llm.Provider { return g.provider }

// Options control one generation request.
type Options struct {
	Format             models.OutputFormat
	IncludeExplanation bool
	AdditionalContext  string
}

// GenerateFromImage runs the whole-or-nothing generation cycle: no
// retries, no streaming, a single synchronous provider reply.
func (g *Generator) GenerateFromImage(ctx context.Context, imagePath string, opts Options) (*models.GenerateResult, error) {
	if !opts.Format.Valid() {
		return nil, fmt.Errorf("invalid output format: %s", opts.Format)
	}

	if !g.provider.IsAvailable(ctx) {
		return nil, &llm.Error{Provider: g.provider.Name(), Message: "LLM service is not available"}
	}
	if !g.provider.SupportsVision() {
		return nil, &llm.Error{Provider: g.provider.Name(), Message: "configured model does not support image analysis"}
	}

	b64, err := imaging.EncodeBase64(imagePath)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}

	instruction, err := prompt.Architecture(opts.Format, opts.AdditionalContext)
	if err != nil {
		return nil, err
	}

	g.logger.Info("starting IaC generation",
		zap.String("image", filepath.Base(imagePath)),
		zap.String("format", string(opts.Format)),
		zap.String("provider", g.provider.Name()),
	)

	resp, err := g.provider.Generate(ctx, &llm.Request{
		Prompt:      instruction,
		Images:      []llm.ImageInput{{Base64: b64, MIMEType: mimeTypeForPath(imagePath)}},
		Temperature: generationTemperature,
		MaxTokens:   generationMaxTokens,
	})
	if err != nil {
		return nil, err
	}

	parsed := ParseResponse(resp.Content)

	if verr := ValidateResponse(resp.Content, opts.Format); verr != nil {
		g.logger.Warn("initial generation failed validation, refining", zap.String("reason", verr.Error()))
		refined, rerr := g.refine(ctx, parsed, verr.Error(), opts.Format)
		if rerr != nil {
			return nil, rerr
		}
		parsed = refined
	}

	code := PostProcess(parsed.Code, opts.Format)
	if code == "" {
		return nil, &ParseError{Reason: "provider reply did not contain an extractable code block"}
	}

	result := &models.GenerateResult{
		Code:              code,
		DetectedResources: parsed.DetectedResources,
		Format:            opts.Format,
		Model:             resp.Model,
		Provider:          resp.Provider,
	}
	if result.DetectedResources == nil {
		result.DetectedResources = []string{}
	}
	if opts.IncludeExplanation && parsed.Explanation != "" {
		explanation := parsed.Explanation
		result.Explanation = &explanation
	}

	g.logger.Info("IaC generation completed",
		zap.String("format", string(opts.Format)),
		zap.Int("resources", len(result.DetectedResources)),
	)
	return result, nil
}

// refine asks the model once to fix output that failed validation. The
// detected resources from the first pass are kept.
func (g *Generator) refine(ctx context.Context, initial *Parsed, feedback string, format models.OutputFormat) (*Parsed, error) {
	resp, err := g.provider.Generate(ctx, &llm.Request{
		Prompt:      prompt.Refinement(initial.Code, feedback, format),
		Temperature: generationTemperature,
		MaxTokens:   generationMaxTokens,
	})
	if err != nil {
		return nil, err
	}

	refined := ParseResponse(resp.Content)
	refined.DetectedResources = initial.DetectedResources
	return refined, nil
}

func mimeTypeForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".webp":
		return "image/webp"
	case ".gif":
		return "image/gif"
	default:
		return "image/png"
	}
}
