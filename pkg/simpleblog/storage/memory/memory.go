// Package memory implements simpleblog.BlobStore with an in-memory map,
// primarily for tests.
package memory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/tendant/simple-blog/pkg/simpleblog"
)

// Backend is an in-memory implementation of the simpleblog.BlobStore interface.
type Backend struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

// New creates a new in-memory storage backend.
func New() simpleblog.BlobStore {
	return &Backend{objects: make(map[string][]byte)}
}

// Save stores the object bytes under the key, replacing any existing object.
func (b *Backend) Save(ctx context.Context, objectKey string, reader io.Reader) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("read object data: %w", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[objectKey] = data
	return nil
}

// Open returns a reader over the stored object bytes.
func (b *Backend) Open(ctx context.Context, objectKey string) (io.ReadCloser, error) {
	b.mu.RLock()
	data, ok := b.objects[objectKey]
	b.mu.RUnlock()
	if !ok {
		return nil, simpleblog.ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Delete removes the object.
func (b *Backend) Delete(ctx context.Context, objectKey string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.objects[objectKey]; !ok {
		return simpleblog.ErrObjectNotFound
	}
	delete(b.objects, objectKey)
	return nil
}

// URL returns a memory pseudo-URL for the object.
func (b *Backend) URL(ctx context.Context, objectKey string) (string, error) {
	return "memory://" + objectKey, nil
}
