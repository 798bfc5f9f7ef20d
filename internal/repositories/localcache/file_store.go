package localcache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mdnahid/baki_khata_app/internal/apperrors"
	"github.com/mdnahid/baki_khata_app/internal/core/ports"
)

// FileStore is a file-backed key-value store: one JSON document per
// key under a data directory. Writes go through a temp file and
// rename so a crash mid-write never leaves a half-written document.
type FileStore struct {
	dir string
}

// NewFileStore creates the data directory if needed and returns a
// store rooted at it.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

var _ ports.LocalCache = (*FileStore)(nil)

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Get decodes the document stored under key into v. Returns false
// when the key has never been written. A document that exists but
// cannot be decoded reports apperrors.ErrStorageCorrupt.
func (s *FileStore) Get(key string, v any) (bool, error) {
	data, err := os.ReadFile(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read cache key %s: %w", key, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return true, fmt.Errorf("%w: key %s: %v", apperrors.ErrStorageCorrupt, key, err)
	}
	return true, nil
}

// Put encodes v as JSON and atomically replaces the document under key.
func (s *FileStore) Put(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode cache key %s: %w", key, err)
	}

	tmp, err := os.CreateTemp(s.dir, key+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for key %s: %w", key, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write cache key %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file for key %s: %w", key, err)
	}
	if err := os.Rename(tmpName, s.path(key)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace cache key %s: %w", key, err)
	}
	return nil
}

// Delete removes the document under key. Deleting an absent key is a no-op.
func (s *FileStore) Delete(key string) error {
	err := os.Remove(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
