// Package store keeps uploaded diagram bytes on local disk, keyed by the
// upload identifier. Metadata lives in Redis when configured; the
// filesystem is the source of truth.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrNotFound is returned when no stored file matches an identifier.
var ErrNotFound = errors.New("image not found")

const processedSuffix = "_processed.png"

// Store is a disk-backed image store.
type Store struct {
	dir    string
	ttl    time.Duration
	logger *zap.Logger
}

// New creates the upload directory if needed and returns a store.
// A zero ttl disables retention sweeps.
func New(dir string, ttl time.Duration, logger *zap.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{dir: dir, ttl: ttl, logger: logger}, nil
}

// Dir returns the upload directory.
func (s *Store) Dir() string { return s.dir }

// Save persists the original upload bytes as {id}_{filename}. The write
// goes through a temp file and rename so a failed request never leaves a
// partial upload behind.
func (s *Store) Save(id uuid.UUID, filename string, content []byte) (string, error) {
	path := filepath.Join(s.dir, id.String()+"_"+filename)

	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("write upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("close upload: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("store upload: %w", err)
	}
	return path, nil
}

// Find returns the path of the original upload for an identifier.
func (s *Store) Find(id string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(s.dir, id+"_*"))
	if err != nil {
		return "", err
	}
	for _, m := range matches {
		if !strings.HasSuffix(m, processedSuffix) {
			return m, nil
		}
	}
	return "", ErrNotFound
}

// Read returns the original upload bytes for an identifier.
func (s *Store) Read(id string) ([]byte, error) {
	path, err := s.Find(id)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}

// ProcessedPath reports the preprocessed variant of an upload, if the
// background preprocessing has completed.
func (s *Store) ProcessedPath(id string) (string, bool) {
	path := filepath.Join(s.dir, id+processedSuffix)
	if _, err := os.Stat(path); err != nil {
		return "", false
	}
	return path, true
}

// SaveProcessed is the destination path for the preprocessed variant.
func (s *Store) SaveProcessed(id string) string {
	return filepath.Join(s.dir, id+processedSuffix)
}

// Exists reports whether an original upload is present for the identifier.
func (s *Store) Exists(id string) bool {
	_, err := s.Find(id)
	return err == nil
}

// Sweep removes uploads whose modification time predates the retention
// window. It returns the number of files removed.
func (s *Store) Sweep(now time.Time) int {
	if s.ttl <= 0 {
		return 0
	}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		s.logger.Warn("retention sweep failed to read upload dir", zap.Error(err))
		return 0
	}

	cutoff := now.Add(-s.ttl)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, entry.Name())); err != nil {
			s.logger.Warn("retention sweep failed to remove file",
				zap.String("file", entry.Name()), zap.Error(err))
			continue
		}
		removed++
	}
	if removed > 0 {
		s.logger.Info("retention sweep removed expired uploads", zap.Int("count", removed))
	}
	return removed
}
