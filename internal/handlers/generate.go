package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/arch-i-tect/api/internal/database"
	"github.com/arch-i-tect/api/internal/eventbus"
	"github.com/arch-i-tect/api/internal/generator"
	"github.com/arch-i-tect/api/internal/llm"
	"github.com/arch-i-tect/api/internal/metrics"
	"github.com/arch-i-tect/api/internal/middleware"
	"github.com/arch-i-tect/api/internal/models"
	"github.com/arch-i-tect/api/internal/store"
)

// GenerateHandler runs the diagram-to-IaC pipeline for stored uploads
type GenerateHandler struct {
	store  *store.Store
	db     *database.Postgres
	bus    *eventbus.Bus
	gen    *generator.Generator
	logger *zap.Logger
}

// NewGenerateHandler creates a new generation handler
func NewGenerateHandler(st *store.Store, db *database.Postgres, bus *eventbus.Bus, gen *generator.Generator, logger *zap.Logger) *GenerateHandler {
	return &GenerateHandler{store: st, db: db, bus: bus, gen: gen, logger: logger}
}

// Generate turns a previously uploaded diagram into IaC.
// @Summary Generate Infrastructure as Code from an uploaded diagram
// @Accept json
// @Param request body models.GenerateRequest true "Generation request"
// @Success 200 {object} models.GenerateResult
// @Router /generate [post]
func (h *GenerateHandler) Generate(c *gin.Context) {
	var req models.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.ValidationFailed(c, "image_id is required")
		return
	}

	format := req.OutputFormat
	if format == "" {
		format = models.FormatTerraform
	}
	if !format.Valid() {
		middleware.ValidationFailed(c, "output_format must be terraform or cloudformation")
		return
	}

	// Resolve the upload before touching the provider so an unknown id
	// never burns an inference call.
	imagePath, err := h.store.Find(req.ImageID.String())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			middleware.NotFound(c, "no uploaded image with that id")
			return
		}
		h.logger.Error("failed to locate upload", zap.Error(err))
		middleware.InternalError(c, "failed to locate upload")
		return
	}

	includeExplanation := true
	if req.IncludeExplanation != nil {
		includeExplanation = *req.IncludeExplanation
	}

	provider := h.gen.Provider().Name()
	start := time.Now()
	result, err := h.gen.GenerateFromImage(c.Request.Context(), imagePath, generator.Options{
		Format:             format,
		IncludeExplanation: includeExplanation,
	})
	latency := time.Since(start)
	metrics.ProviderLatency.WithLabelValues(provider).Observe(latency.Seconds())

	var model string
	if result != nil {
		model = result.Model
	}
	h.record(c, req.ImageID, provider, model, format, err == nil, latency)

	if err != nil {
		middleware.ProviderCircuitBreaker.RecordFailure()
		metrics.GenerationsTotal.WithLabelValues(provider, string(format), "failed").Inc()

		var provErr *llm.Error
		if errors.As(err, &provErr) {
			if provErr.Status == 0 {
				h.logger.Warn("provider unavailable", zap.String("provider", provider), zap.Error(err))
				middleware.ProviderUnavailable(c)
				return
			}
			h.logger.Error("provider request failed",
				zap.String("provider", provider), zap.Int("status", provErr.Status), zap.Error(err))
			middleware.ProviderFailed(c, provErr.Message)
			return
		}

		var parseErr *generator.ParseError
		if errors.As(err, &parseErr) {
			h.logger.Error("provider reply could not be parsed", zap.Error(err))
			middleware.RespondError(c, http.StatusBadGateway, middleware.ErrCodeParseError, parseErr.Reason)
			return
		}

		h.logger.Error("generation failed", zap.Error(err))
		middleware.InternalError(c, "generation failed")
		return
	}

	middleware.ProviderCircuitBreaker.RecordSuccess()
	metrics.GenerationsTotal.WithLabelValues(provider, string(format), "succeeded").Inc()

	c.JSON(http.StatusOK, result)
}

// record writes the audit row and lifecycle event for one attempt.
func (h *GenerateHandler) record(c *gin.Context, imageID uuid.UUID, provider, model string, format models.OutputFormat, succeeded bool, latency time.Duration) {
	now := time.Now().UTC()
	log := &models.GenerationLog{
		ID:        uuid.New(),
		ImageID:   imageID,
		Provider:  provider,
		Model:     model,
		Format:    format,
		Succeeded: succeeded,
		LatencyMS: latency.Milliseconds(),
		CreatedAt: now,
	}
	if err := h.db.LogGeneration(c.Request.Context(), log); err != nil {
		h.logger.Warn("failed to write generation audit log", zap.Error(err))
	}

	h.bus.Publish(eventbus.SubjectGenerationCompleted, eventbus.GenerationCompletedEvent{
		ImageID:   imageID.String(),
		Provider:  provider,
		Format:    string(format),
		Succeeded: succeeded,
		LatencyMS: latency.Milliseconds(),
		Timestamp: now,
	})
}
