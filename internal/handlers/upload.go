package handlers

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/arch-i-tect/api/internal/config"
	"github.com/arch-i-tect/api/internal/database"
	"github.com/arch-i-tect/api/internal/eventbus"
	"github.com/arch-i-tect/api/internal/imaging"
	"github.com/arch-i-tect/api/internal/metrics"
	"github.com/arch-i-tect/api/internal/middleware"
	"github.com/arch-i-tect/api/internal/models"
	"github.com/arch-i-tect/api/internal/store"
)

// UploadHandler accepts architecture diagram uploads
type UploadHandler struct {
	store  *store.Store
	db     *database.Postgres
	rdb    *database.Redis
	bus    *eventbus.Bus
	cfg    *config.Config
	logger *zap.Logger
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(st *store.Store, db *database.Postgres, rdb *database.Redis, bus *eventbus.Bus, cfg *config.Config, logger *zap.Logger) *UploadHandler {
	return &UploadHandler{store: st, db: db, rdb: rdb, bus: bus, cfg: cfg, logger: logger}
}

// UploadResponse is the response body for a successful upload
type UploadResponse struct {
	ImageID    uuid.UUID    `json:"image_id"`
	Filename   string       `json:"filename"`
	Metadata   UploadedMeta `json:"metadata"`
	PreviewURL string       `json:"preview_url"`
}

// UploadedMeta echoes the image properties detected during validation
type UploadedMeta struct {
	Format    string `json:"format"`
	MIMEType  string `json:"mime_type"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	SizeBytes int64  `json:"size_bytes"`
}

// Upload accepts a multipart diagram image, validates it and stores it.
// @Summary Upload an architecture diagram
// @Accept multipart/form-data
// @Param file formData file true "Diagram image"
// @Success 200 {object} UploadResponse
// @Router /upload [post]
func (h *UploadHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		metrics.UploadsTotal.WithLabelValues("rejected").Inc()
		middleware.ValidationFailed(c, "file field is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		metrics.UploadsTotal.WithLabelValues("rejected").Inc()
		middleware.ValidationFailed(c, "failed to read file")
		return
	}
	defer file.Close()

	// Read at most one byte past the ceiling; anything larger is rejected
	// by validation without buffering the full body.
	maxBytes := int64(h.cfg.MaxImageSizeMB) * 1024 * 1024
	content, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
	if err != nil {
		h.logger.Error("failed to read uploaded file", zap.Error(err))
		metrics.UploadsTotal.WithLabelValues("rejected").Inc()
		middleware.ValidationFailed(c, "failed to read file")
		return
	}

	meta, err := imaging.Validate(content, fileHeader.Filename, h.cfg.MaxImageSizeMB, h.cfg.AllowedImageTypes)
	if err != nil {
		metrics.UploadsTotal.WithLabelValues("rejected").Inc()
		middleware.ValidationFailed(c, err.Error())
		return
	}

	imageID := uuid.New()
	safeFilename := imaging.SanitizeFilename(fileHeader.Filename)

	path, err := h.store.Save(imageID, safeFilename, content)
	if err != nil {
		h.logger.Error("failed to save file", zap.Error(err))
		metrics.UploadsTotal.WithLabelValues("failed").Inc()
		middleware.InternalError(c, "failed to save file")
		return
	}
	h.logger.Info("saved uploaded file",
		zap.String("image_id", imageID.String()),
		zap.String("path", path),
		zap.Int("width", meta.Width),
		zap.Int("height", meta.Height),
	)

	img := &models.UploadedImage{
		ID:         imageID,
		Filename:   safeFilename,
		Path:       path,
		Format:     meta.Format,
		MIMEType:   meta.MIMEType,
		Width:      meta.Width,
		Height:     meta.Height,
		Size:       meta.Size,
		UploadedAt: time.Now().UTC(),
	}

	if err := h.db.SaveUpload(c.Request.Context(), img); err != nil {
		h.logger.Warn("failed to record upload in database", zap.Error(err))
	}
	if err := h.rdb.CacheImage(c.Request.Context(), img, h.cfg.RetentionTTL); err != nil {
		h.logger.Warn("failed to cache upload metadata", zap.Error(err))
	}

	// Preprocess in the background; preview falls back to the original
	// until the processed variant lands.
	go func() {
		if err := imaging.Preprocess(path, h.store.SaveProcessed(imageID.String()), h.logger); err != nil {
			h.logger.Warn("image preprocessing failed",
				zap.String("image_id", imageID.String()), zap.Error(err))
		}
	}()

	h.bus.Publish(eventbus.SubjectImageUploaded, eventbus.ImageUploadedEvent{
		ImageID:   imageID.String(),
		Filename:  safeFilename,
		SizeBytes: meta.Size,
		Timestamp: img.UploadedAt,
	})
	metrics.UploadsTotal.WithLabelValues("accepted").Inc()

	c.JSON(http.StatusOK, UploadResponse{
		ImageID:  imageID,
		Filename: safeFilename,
		Metadata: UploadedMeta{
			Format:    meta.Format,
			MIMEType:  meta.MIMEType,
			Width:     meta.Width,
			Height:    meta.Height,
			SizeBytes: meta.Size,
		},
		PreviewURL: "/api/v1/preview/" + imageID.String(),
	})
}
