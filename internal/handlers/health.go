package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/arch-i-tect/api/internal/database"
	"github.com/arch-i-tect/api/internal/llm"
)

// HealthHandler reports service and dependency health
type HealthHandler struct {
	db       *database.Postgres
	rdb      *database.Redis
	provider llm.Provider
	logger   *zap.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db *database.Postgres, rdb *database.Redis, provider llm.Provider, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{db: db, rdb: rdb, provider: provider, logger: logger}
}

// Health is the liveness probe: the process is up and serving.
// @Summary Liveness probe
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"service":  "arch-i-tect-api",
		"version":  "0.1.0",
		"provider": h.provider.Name(),
	})
}

// DeepHealth checks each dependency. Optional infrastructure reports
// "disabled" rather than failing the probe; only the model provider
// being unreachable degrades overall status.
// @Summary Readiness probe with dependency checks
// @Success 200 {object} map[string]any
// @Router /health/deep [get]
func (h *HealthHandler) DeepHealth(c *gin.Context) {
	ctx := c.Request.Context()

	checks := gin.H{}

	if h.db != nil {
		if err := h.db.Pool().Ping(ctx); err != nil {
			checks["postgres"] = "unreachable"
		} else {
			checks["postgres"] = "ok"
		}
	} else {
		checks["postgres"] = "disabled"
	}

	if h.rdb != nil {
		if err := h.rdb.Ping(ctx); err != nil {
			checks["redis"] = "unreachable"
		} else {
			checks["redis"] = "ok"
		}
	} else {
		checks["redis"] = "disabled"
	}

	status := "ok"
	httpStatus := http.StatusOK
	start := time.Now()
	if h.provider.IsAvailable(ctx) {
		checks["provider"] = "ok"
	} else {
		checks["provider"] = "unreachable"
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}
	h.logger.Debug("deep health provider check",
		zap.String("provider", h.provider.Name()),
		zap.Duration("took", time.Since(start)),
	)

	c.JSON(httpStatus, gin.H{
		"status":   status,
		"provider": h.provider.Name(),
		"checks":   checks,
	})
}
