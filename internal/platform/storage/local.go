// Package storage implements the upload-directory file store.
package storage

import (
	"bytes"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"

	// Registered for image.DecodeConfig dimension probing.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"imagevault_backend/internal/feature/entries/usecase"
)

// LocalStore writes uploaded images into a single content directory,
// one file per entry. Names are prefixed with the owner ID and a
// timestamp so concurrent uploads of the same file name cannot collide.
type LocalStore struct {
	dir string
	now func() time.Time
}

var _ usecase.FileStore = (*LocalStore)(nil)

// NewLocalStore creates the store rooted at dir, creating it if needed.
func NewLocalStore(dir string) (*LocalStore, error) {
	if dir == "" {
		dir = "uploads"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &LocalStore{dir: dir, now: time.Now}, nil
}

// Save writes the image under a collision-safe name and returns the
// stored path and byte size.
func (s *LocalStore) Save(ownerID uint, filename string, data []byte) (string, int64, error) {
	name := fmt.Sprintf("%d_%s_%s", ownerID, s.now().Format("20060102_150405"), filepath.Base(filename))
	path := filepath.Join(s.dir, name)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", 0, fmt.Errorf("failed to write upload: %w", err)
	}
	return path, int64(len(data)), nil
}

// Remove deletes a stored file. A missing file is not an error.
func (s *LocalStore) Remove(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Dimensions probes the pixel size of an encoded image. ok is false for
// formats the registered decoders cannot read; callers treat that as
// "dimensions unknown", not as a failure.
func (s *LocalStore) Dimensions(data []byte) (int, int, bool) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, false
	}
	return cfg.Width, cfg.Height, true
}
