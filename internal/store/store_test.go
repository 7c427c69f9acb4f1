package store

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T, ttl time.Duration) *Store {
	t.Helper()
	st, err := New(t.TempDir(), ttl, zap.NewNop())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return st
}

func TestSaveAndReadRoundTrip(t *testing.T) {
	st := newTestStore(t, 0)
	id := uuid.New()
	content := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 1, 2, 3}

	path, err := st.Save(id, "diagram.png", content)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if filepath.Dir(path) != st.Dir() {
		t.Errorf("file saved outside store dir: %s", path)
	}

	got, err := st.Read(id.String())
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if !bytes.Equal(got, content) {
		t.Error("stored bytes differ from uploaded bytes")
	}
}

func TestFindUnknownID(t *testing.T) {
	st := newTestStore(t, 0)

	_, err := st.Find(uuid.NewString())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if st.Exists(uuid.NewString()) {
		t.Error("Exists reported true for unknown id")
	}
}

func TestFindSkipsProcessedVariant(t *testing.T) {
	st := newTestStore(t, 0)
	id := uuid.New()

	if _, err := st.Save(id, "diagram.png", []byte("original")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := os.WriteFile(st.SaveProcessed(id.String()), []byte("processed"), 0o644); err != nil {
		t.Fatalf("write processed: %v", err)
	}

	got, err := st.Read(id.String())
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if string(got) != "original" {
		t.Errorf("Read returned %q, want the original upload", got)
	}

	path, ok := st.ProcessedPath(id.String())
	if !ok {
		t.Fatal("ProcessedPath did not find the processed variant")
	}
	if filepath.Base(path) != id.String()+"_processed.png" {
		t.Errorf("unexpected processed path: %s", path)
	}
}

func TestProcessedPathMissing(t *testing.T) {
	st := newTestStore(t, 0)
	if _, ok := st.ProcessedPath(uuid.NewString()); ok {
		t.Error("ProcessedPath reported a variant that does not exist")
	}
}

func TestSweepRemovesExpiredUploads(t *testing.T) {
	st := newTestStore(t, time.Hour)
	oldID, newID := uuid.New(), uuid.New()

	oldPath, err := st.Save(oldID, "old.png", []byte("old"))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := st.Save(newID, "new.png", []byte("new")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	stale := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(oldPath, stale, stale); err != nil {
		t.Fatalf("Chtimes failed: %v", err)
	}

	removed := st.Sweep(time.Now())
	if removed != 1 {
		t.Errorf("Sweep removed %d files, want 1", removed)
	}

	if st.Exists(oldID.String()) {
		t.Error("expired upload survived the sweep")
	}
	if !st.Exists(newID.String()) {
		t.Error("fresh upload was removed by the sweep")
	}
}

func TestSweepDisabledWithZeroTTL(t *testing.T) {
	st := newTestStore(t, 0)
	id := uuid.New()

	path, err := st.Save(id, "diagram.png", []byte("data"))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	stale := time.Now().Add(-48 * time.Hour)
	if err := os.Chtimes(path, stale, stale); err != nil {
		t.Fatalf("Chtimes failed: %v", err)
	}

	if removed := st.Sweep(time.Now()); removed != 0 {
		t.Errorf("Sweep removed %d files with retention disabled", removed)
	}
}
