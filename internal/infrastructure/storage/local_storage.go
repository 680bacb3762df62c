// Package storage provides object storage for rendered reports and
// uploaded photos.
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	appcma "github.com/closeline/backend/internal/application/cma"
	infraconfig "github.com/closeline/backend/internal/infrastructure/config"
)

// Ensure LocalObjectStorage implements the storage port
var _ appcma.ObjectStorage = (*LocalObjectStorage)(nil)

// LocalObjectStorage stores objects on the local filesystem. Meant for
// development; download URLs are plain file paths with no expiry.
type LocalObjectStorage struct {
	baseDir string
}

// NewLocalObjectStorage creates a LocalObjectStorage rooted at baseDir
func NewLocalObjectStorage(baseDir string) (*LocalObjectStorage, error) {
	if baseDir == "" {
		return nil, errors.New("storage local directory is required")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &LocalObjectStorage{baseDir: baseDir}, nil
}

// path maps a storage key to a filesystem path, rejecting traversal
func (s *LocalObjectStorage) path(key string) (string, error) {
	if key == "" {
		return "", errors.New("storage key is required")
	}
	cleaned := filepath.Clean(key)
	if strings.HasPrefix(cleaned, "..") || filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("invalid storage key: %q", key)
	}
	return filepath.Join(s.baseDir, cleaned), nil
}

// Upload writes an object to disk
func (s *LocalObjectStorage) Upload(_ context.Context, key string, data []byte, _ string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create object directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write object: %w", err)
	}
	return nil
}

// Download reads an object from disk
func (s *LocalObjectStorage) Download(_ context.Context, key string) ([]byte, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read object: %w", err)
	}
	return data, nil
}

// GenerateDownloadURL returns a file URL for the object
func (s *LocalObjectStorage) GenerateDownloadURL(_ context.Context, key string, _ time.Duration) (string, error) {
	path, err := s.path(key)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("object not found: %w", err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return "file://" + abs, nil
}

// DeleteObject removes an object from disk. Deleting a missing object
// is not an error.
func (s *LocalObjectStorage) DeleteObject(_ context.Context, key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// NewObjectStorage creates the storage backend selected by configuration
func NewObjectStorage(cfg *infraconfig.StorageConfig, opts ...S3ObjectStorageOption) (appcma.ObjectStorage, error) {
	if cfg == nil {
		return nil, errors.New("storage configuration is required")
	}
	switch cfg.Provider {
	case "local":
		return NewLocalObjectStorage(cfg.LocalDir)
	case "", "s3":
		return NewS3ObjectStorage(cfg, opts...)
	default:
		return nil, fmt.Errorf("unknown storage provider: %q", cfg.Provider)
	}
}
