package models

import (
	"time"

	"github.com/google/uuid"
)

// OutputFormat enumerates the supported Infrastructure as Code dialects.
type OutputFormat string

const (
	FormatTerraform      OutputFormat = "terraform"
	FormatCloudFormation OutputFormat = "cloudformation"
)

// Valid reports whether the format is a supported IaC dialect.
func (f OutputFormat) Valid() bool {
	return f == FormatTerraform || f == FormatCloudFormation
}

// ImageStatus represents the preprocessing state of an uploaded image
type ImageStatus string

const (
	ImageStatusProcessing ImageStatus = "processing"
	ImageStatusProcessed  ImageStatus = "processed"
)

// UploadedImage is the metadata record for an accepted upload. The bytes
// themselves live on disk under the upload directory.
type UploadedImage struct {
	ID       uuid.UUID `json:"image_id"`
	Filename string    `json:"filename"`
	Path     string    `json:"-"`

	Format   string `json:"format"`
	MIMEType string `json:"mime_type"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Size     int64  `json:"size_bytes"`

	UploadedAt time.Time `json:"uploaded_at"`
}

// GenerateRequest is the request body for code generation
type GenerateRequest struct {
	ImageID            uuid.UUID    `json:"image_id" binding:"required"`
	OutputFormat       OutputFormat `json:"output_format"`
	IncludeExplanation *bool        `json:"include_explanation"`
}

// GenerateResult holds the outcome of one generation round trip.
// It is produced per request and never persisted beyond the audit log.
type GenerateResult struct {
	Code              string       `json:"code"`
	Explanation       *string      `json:"explanation"`
	DetectedResources []string     `json:"detected_resources"`
	Format            OutputFormat `json:"format"`
	Model             string       `json:"model,omitempty"`
	Provider          string       `json:"provider,omitempty"`
}

// GenerationLog is one audit row per generation attempt
type GenerationLog struct {
	ID        uuid.UUID    `json:"id"`
	ImageID   uuid.UUID    `json:"image_id"`
	Provider  string       `json:"provider"`
	Model     string       `json:"model"`
	Format    OutputFormat `json:"format"`
	Succeeded bool         `json:"succeeded"`
	LatencyMS int64        `json:"latency_ms"`
	CreatedAt time.Time    `json:"created_at"`
}
