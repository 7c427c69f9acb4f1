package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/arch-i-tect/api/internal/middleware"
	"github.com/arch-i-tect/api/internal/models"
	"github.com/arch-i-tect/api/internal/store"
)

// PreviewHandler serves stored diagram images back to clients
type PreviewHandler struct {
	store  *store.Store
	logger *zap.Logger
}

// NewPreviewHandler creates a new preview handler
func NewPreviewHandler(st *store.Store, logger *zap.Logger) *PreviewHandler {
	return &PreviewHandler{store: st, logger: logger}
}

// Preview streams an uploaded diagram. The preprocessed variant is
// preferred when the background pass has finished.
// @Summary Fetch an uploaded diagram image
// @Param image_id path string true "Image identifier"
// @Produce png
// @Router /preview/{image_id} [get]
func (h *PreviewHandler) Preview(c *gin.Context) {
	id, err := uuid.Parse(c.Param("image_id"))
	if err != nil {
		middleware.ValidationFailed(c, "image_id must be a UUID")
		return
	}

	c.Header("Cache-Control", "public, max-age=3600")

	if path, ok := h.store.ProcessedPath(id.String()); ok {
		c.File(path)
		return
	}

	path, err := h.store.Find(id.String())
	if err != nil {
		middleware.NotFound(c, "no uploaded image with that id")
		return
	}
	c.File(path)
}

// StatusResponse reports the preprocessing state of an upload
type StatusResponse struct {
	ImageID         uuid.UUID          `json:"image_id"`
	Status          models.ImageStatus `json:"status"`
	OriginalExists  bool               `json:"original_exists"`
	ProcessedExists bool               `json:"processed_exists"`
}

// Status reports whether the upload exists and whether preprocessing
// has completed.
// @Summary Report preprocessing status for an upload
// @Param image_id path string true "Image identifier"
// @Success 200 {object} StatusResponse
// @Router /status/{image_id} [get]
func (h *PreviewHandler) Status(c *gin.Context) {
	id, err := uuid.Parse(c.Param("image_id"))
	if err != nil {
		middleware.ValidationFailed(c, "image_id must be a UUID")
		return
	}

	if !h.store.Exists(id.String()) {
		middleware.NotFound(c, "no uploaded image with that id")
		return
	}

	_, processed := h.store.ProcessedPath(id.String())
	status := models.ImageStatusProcessing
	if processed {
		status = models.ImageStatusProcessed
	}

	c.JSON(http.StatusOK, StatusResponse{
		ImageID:         id,
		Status:          status,
		OriginalExists:  true,
		ProcessedExists: processed,
	})
}
