package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, width, height))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

var defaultTypes = []string{"png", "jpg", "jpeg", "webp"}

func TestValidateAcceptsPNG(t *testing.T) {
	content := pngBytes(t, 640, 480)

	meta, err := Validate(content, "diagram.png", 10, defaultTypes)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	if meta.Format != "png" {
		t.Errorf("Format = %q, want png", meta.Format)
	}
	if meta.MIMEType != "image/png" {
		t.Errorf("MIMEType = %q, want image/png", meta.MIMEType)
	}
	if meta.Width != 640 || meta.Height != 480 {
		t.Errorf("dimensions = %dx%d, want 640x480", meta.Width, meta.Height)
	}
	if meta.Size != int64(len(content)) {
		t.Errorf("Size = %d, want %d", meta.Size, len(content))
	}
}

func TestValidateRejectsOversizeFile(t *testing.T) {
	content := make([]byte, 2*1024*1024)

	_, err := Validate(content, "diagram.png", 1, defaultTypes)

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if !strings.Contains(verr.Reason, "exceeds maximum") {
		t.Errorf("unexpected reason: %q", verr.Reason)
	}
}

func TestValidateRejectsDisallowedExtension(t *testing.T) {
	content := pngBytes(t, 640, 480)

	_, err := Validate(content, "diagram.bmp", 10, defaultTypes)

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if !strings.Contains(verr.Reason, "not allowed") {
		t.Errorf("unexpected reason: %q", verr.Reason)
	}
}

func TestValidateRejectsCorruptContent(t *testing.T) {
	_, err := Validate([]byte("not an image"), "diagram.png", 10, defaultTypes)

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestValidateRejectsTinyImage(t *testing.T) {
	_, err := Validate(pngBytes(t, 50, 50), "diagram.png", 10, defaultTypes)

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if !strings.Contains(verr.Reason, "too small") {
		t.Errorf("unexpected reason: %q", verr.Reason)
	}
}

func TestValidateRejectsHugeImage(t *testing.T) {
	_, err := Validate(pngBytes(t, 5000, 200), "diagram.png", 100, defaultTypes)

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if !strings.Contains(verr.Reason, "too large") {
		t.Errorf("unexpected reason: %q", verr.Reason)
	}
}

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"diagram.png":            "diagram.png",
		"../../etc/passwd":       "passwd",
		`what<is>this:"file.png`: "what_is_this__file.png",
	}
	for input, want := range cases {
		if got := SanitizeFilename(input); got != want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestPreprocessBoundsDimensions(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "big.png")
	if err := os.WriteFile(src, pngBytes(t, 3000, 1500), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	dst := filepath.Join(dir, "big_processed.png")

	if err := Preprocess(src, dst, zap.NewNop()); err != nil {
		t.Fatalf("Preprocess failed: %v", err)
	}

	file, err := os.Open(dst)
	if err != nil {
		t.Fatalf("open processed: %v", err)
	}
	defer file.Close()
	cfg, format, err := image.DecodeConfig(file)
	if err != nil {
		t.Fatalf("decode processed: %v", err)
	}
	if format != "png" {
		t.Errorf("format = %q, want png", format)
	}
	if cfg.Width > maxAnalysisDimension || cfg.Height > maxAnalysisDimension {
		t.Errorf("dimensions %dx%d exceed %d", cfg.Width, cfg.Height, maxAnalysisDimension)
	}
}

func TestEncodeBase64(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "img.png")
	if err := os.WriteFile(path, []byte("hello"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	got, err := EncodeBase64(path)
	if err != nil {
		t.Fatalf("EncodeBase64 failed: %v", err)
	}
	if got != base64.StdEncoding.EncodeToString([]byte("hello")) {
		t.Errorf("unexpected encoding: %q", got)
	}
}

func TestSanitizeFilenameTruncatesLongNames(t *testing.T) {
	long := strings.Repeat("a", 300) + ".png"
	got := SanitizeFilename(long)
	if len(got) > 255 {
		t.Errorf("length = %d, want <= 255", len(got))
	}
	if !strings.HasSuffix(got, ".png") {
		t.Errorf("extension lost: %q", got)
	}
}
