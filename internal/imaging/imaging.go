// Package imaging validates uploaded diagram images and prepares them
// for vision-model analysis.
package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

const (
	// MinDimension is the smallest usable diagram edge in pixels.
	MinDimension = 100
	// MaxDimension is the largest accepted diagram edge in pixels.
	MaxDimension = 4096
	// maxAnalysisDimension bounds the preprocessed image sent to providers.
	maxAnalysisDimension = 2048
)

// ValidationError describes a rejected upload. It maps to HTTP 400.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// Metadata describes an accepted image.
type Metadata struct {
	Format   string
	MIMEType string
	Width    int
	Height   int
	Size     int64
}

// Validate checks size ceiling, extension allow-list and decodability of
// an uploaded file and returns its metadata.
func Validate(content []byte, filename string, maxSizeMB int, allowedTypes []string) (*Metadata, error) {
	sizeMB := float64(len(content)) / (1024 * 1024)
	if sizeMB > float64(maxSizeMB) {
		return nil, &ValidationError{
			Reason: fmt.Sprintf("file size (%.2fMB) exceeds maximum (%dMB)", sizeMB, maxSizeMB),
		}
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	allowed := false
	for _, t := range allowedTypes {
		if ext == t {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, &ValidationError{
			Reason: fmt.Sprintf("file type %q not allowed. Allowed types: %s", ext, strings.Join(allowedTypes, ", ")),
		}
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(content))
	if err != nil {
		return nil, &ValidationError{Reason: "invalid image file or corrupted content"}
	}

	if cfg.Width < MinDimension || cfg.Height < MinDimension {
		return nil, &ValidationError{
			Reason: fmt.Sprintf("image too small. Minimum dimension: %dpx", MinDimension),
		}
	}
	if cfg.Width > MaxDimension || cfg.Height > MaxDimension {
		return nil, &ValidationError{
			Reason: fmt.Sprintf("image too large. Maximum dimension: %dpx", MaxDimension),
		}
	}

	return &Metadata{
		Format:   format,
		MIMEType: "image/" + format,
		Width:    cfg.Width,
		Height:   cfg.Height,
		Size:     int64(len(content)),
	}, nil
}

// SanitizeFilename strips path components and characters that are unsafe
// in stored filenames.
func SanitizeFilename(filename string) string {
	filename = filepath.Base(filename)

	for _, c := range `<>:"|?*` {
		filename = strings.ReplaceAll(filename, string(c), "_")
	}
	filename = strings.ReplaceAll(filename, string(filepath.Separator), "_")

	const maxLength = 255
	if len(filename) > maxLength {
		ext := filepath.Ext(filename)
		filename = filename[:maxLength-len(ext)] + ext
	}
	return filename
}

// Preprocess resizes, flattens and re-encodes an upload as PNG for
// better model recognition. It runs in the background after upload.
func Preprocess(srcPath, dstPath string, logger *zap.Logger) error {
	img, err := imaging.Open(srcPath)
	if err != nil {
		return fmt.Errorf("open image: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() > maxAnalysisDimension || bounds.Dy() > maxAnalysisDimension {
		img = imaging.Fit(img, maxAnalysisDimension, maxAnalysisDimension, imaging.Lanczos)
		logger.Debug("resized image for analysis",
			zap.Int("width", img.Bounds().Dx()),
			zap.Int("height", img.Bounds().Dy()),
		)
	}

	img = imaging.AdjustContrast(img, 20)
	img = imaging.Sharpen(img, 0.5)

	// Diagram exports often carry an alpha channel; flatten onto white so
	// models see the same canvas a browser renders.
	background := imaging.New(img.Bounds().Dx(), img.Bounds().Dy(), color.White)
	img = imaging.Overlay(background, img, image.Pt(0, 0), 1.0)

	if err := imaging.Save(img, dstPath); err != nil {
		return fmt.Errorf("save processed image: %w", err)
	}
	return nil
}

// EncodeBase64 reads an image file and returns its base64 form for
// provider payloads.
func EncodeBase64(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(content), nil
}
