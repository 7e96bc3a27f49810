package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/savemate/deals-api/internal/core/domain"
)

// DefaultMaxBytes caps uploads at 5 MiB unless configured otherwise.
const DefaultMaxBytes = 5 << 20

var extByMIME = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// LocalBlobStore writes uploaded images to a directory on disk and returns
// URL paths under /uploads. Good enough for a single-node deployment; the
// BlobStore port keeps an object-store swap contained here.
type LocalBlobStore struct {
	dir      string
	maxBytes int64
}

func NewLocalBlobStore(dir string, maxBytes int64) (*LocalBlobStore, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalBlobStore{dir: dir, maxBytes: maxBytes}, nil
}

func (s *LocalBlobStore) Save(_ context.Context, data []byte, mime string) (string, error) {
	ext, ok := extByMIME[mime]
	if !ok {
		return "", domain.FieldValidationError("image", "unsupported image type")
	}
	if int64(len(data)) > s.maxBytes {
		return "", domain.FieldValidationError("image", fmt.Sprintf("image exceeds %d bytes", s.maxBytes))
	}

	name := uuid.NewString() + ext
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}
	return "/uploads/" + name, nil
}

// Dir exposes the storage directory so the router can serve it statically.
func (s *LocalBlobStore) Dir() string {
	return s.dir
}
