// Package fs implements simpleblog.BlobStore on the local filesystem.
package fs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/tendant/simple-blog/pkg/simpleblog"
)

// Config options for the filesystem backend.
type Config struct {
	BaseDir   string // Base directory for storing files
	URLPrefix string // URL prefix the HTTP layer serves BaseDir under
}

// Backend is a filesystem implementation of the simpleblog.BlobStore interface.
type Backend struct {
	baseDir   string
	urlPrefix string
}

// New creates a new filesystem storage backend.
func New(config Config) (simpleblog.BlobStore, error) {
	if config.BaseDir == "" {
		return nil, errors.New("base directory is required")
	}
	if err := os.MkdirAll(config.BaseDir, 0755); err != nil {
		return nil, fmt.Errorf("create base directory: %w", err)
	}
	return &Backend{
		baseDir:   config.BaseDir,
		urlPrefix: config.URLPrefix,
	}, nil
}

// path resolves an object key inside the base directory, rejecting keys that
// would escape it.
func (b *Backend) path(objectKey string) (string, error) {
	clean := filepath.Clean("/" + objectKey)
	full := filepath.Join(b.baseDir, clean)
	if full == b.baseDir {
		return "", fmt.Errorf("invalid object key %q", objectKey)
	}
	return full, nil
}

// Save writes the object to disk, creating parent directories as needed.
func (b *Backend) Save(ctx context.Context, objectKey string, reader io.Reader) error {
	filePath, err := b.path(objectKey)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, reader); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

// Open opens the object for reading.
func (b *Backend) Open(ctx context.Context, objectKey string) (io.ReadCloser, error) {
	filePath, err := b.path(objectKey)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(filePath)
	if os.IsNotExist(err) {
		return nil, simpleblog.ErrObjectNotFound
	} else if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	return file, nil
}

// Delete removes the object and any directories it leaves empty.
func (b *Backend) Delete(ctx context.Context, objectKey string) error {
	filePath, err := b.path(objectKey)
	if err != nil {
		return err
	}

	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return simpleblog.ErrObjectNotFound
	}
	if err := os.Remove(filePath); err != nil {
		return fmt.Errorf("delete file: %w", err)
	}

	b.cleanupEmptyDirectories(filepath.Dir(filePath))
	return nil
}

// URL returns the public URL the object is served under.
func (b *Backend) URL(ctx context.Context, objectKey string) (string, error) {
	if b.urlPrefix == "" {
		return "", errors.New("no URL prefix configured for filesystem backend")
	}
	return fmt.Sprintf("%s/%s", b.urlPrefix, objectKey), nil
}

// cleanupEmptyDirectories recursively removes empty directories up to baseDir.
func (b *Backend) cleanupEmptyDirectories(dir string) {
	if dir == b.baseDir {
		return
	}
	if entries, err := os.ReadDir(dir); err == nil && len(entries) == 0 {
		if os.Remove(dir) == nil {
			b.cleanupEmptyDirectories(filepath.Dir(dir))
		}
	}
}
