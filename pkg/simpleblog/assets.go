package simpleblog

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// AssetKind classifies an uploaded asset for key layout purposes.
type AssetKind string

// Asset kinds.
const (
	AssetAvatar AssetKind = "avatar"
	AssetLogo   AssetKind = "logo"
	AssetCover  AssetKind = "cover"
	AssetImage  AssetKind = "image"
)

// AssetStore wraps a BlobStore with the engine's object key layout:
// assets/{profileID}/{kind}/{shard}/{id}_{filename}, sharded on the first
// two hex characters of a random id so no single directory grows unbounded.
type AssetStore struct {
	blobs BlobStore
}

// NewAssetStore creates an asset store over the given blob backend.
func NewAssetStore(blobs BlobStore) *AssetStore {
	return &AssetStore{blobs: blobs}
}

// Upload stores the asset and returns its object key and public URL.
func (a *AssetStore) Upload(ctx context.Context, profileID int64, kind AssetKind, filename string, reader io.Reader) (string, string, error) {
	key := NewObjectKey(profileID, kind, filename)
	if err := a.blobs.Save(ctx, key, reader); err != nil {
		return "", "", fmt.Errorf("save asset: %w", err)
	}
	url, err := a.blobs.URL(ctx, key)
	if err != nil {
		return "", "", fmt.Errorf("resolve asset url: %w", err)
	}
	return key, url, nil
}

// Open returns a reader over the asset bytes.
func (a *AssetStore) Open(ctx context.Context, objectKey string) (io.ReadCloser, error) {
	return a.blobs.Open(ctx, objectKey)
}

// Delete removes the asset.
func (a *AssetStore) Delete(ctx context.Context, objectKey string) error {
	return a.blobs.Delete(ctx, objectKey)
}

// URL resolves the asset's public URL.
func (a *AssetStore) URL(ctx context.Context, objectKey string) (string, error) {
	return a.blobs.URL(ctx, objectKey)
}

// NewObjectKey builds a collision-free object key for an uploaded asset.
func NewObjectKey(profileID int64, kind AssetKind, filename string) string {
	id := strings.ReplaceAll(uuid.New().String(), "-", "")
	shard := id[:2]
	rest := id[2:]
	if filename != "" {
		return fmt.Sprintf("assets/%d/%s/%s/%s_%s", profileID, kind, shard, rest, sanitizeFilename(filename))
	}
	return fmt.Sprintf("assets/%d/%s/%s/%s", profileID, kind, shard, rest)
}

// sanitizeFilename keeps only the base name and replaces characters unsafe
// for object keys.
func sanitizeFilename(filename string) string {
	base := filepath.Base(filename)
	var sb strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		case r == '.', r == '-', r == '_':
			sb.WriteRune(r)
		default:
			sb.WriteRune('_')
		}
	}
	return sb.String()
}
