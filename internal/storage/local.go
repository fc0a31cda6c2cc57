package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// LocalStore stores blobs as files under a base directory.
type LocalStore struct {
	dir string
}

// NewLocalStore creates the base directory if needed.
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

// Save writes the blob to disk and returns its serving path.
func (s *LocalStore) Save(key string, r io.Reader) (string, error) {
	dst := filepath.Join(s.dir, key)

	f, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(dst)
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return "/uploads/" + key, nil
}

// Delete removes the blob. A missing file is treated as already deleted.
func (s *LocalStore) Delete(key string) error {
	err := os.Remove(filepath.Join(s.dir, key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// GenerateKey builds a collision-resistant storage key: millisecond timestamp
// prefix, random suffix, then the sanitized original filename.
func GenerateKey(originalName string) string {
	base := filepath.Base(originalName)
	base = strings.ReplaceAll(base, " ", "_")
	return fmt.Sprintf("%d-%s-%s", time.Now().UnixMilli(), uuid.NewString()[:8], base)
}
