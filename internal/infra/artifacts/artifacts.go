// Package artifacts stores and serves produced result files.
package artifacts

import (
	"context"
	"errors"
	"io"
	"path/filepath"
)

// ErrNotFound is returned when no artifact exists under a key.
var ErrNotFound = errors.New("artifact not found")

// Store persists result artifacts by key. Local disk is the default
// backend; Cloudflare R2 is used when credentials are configured.
type Store interface {
	// Save writes the artifact bytes under key, replacing any previous one.
	Save(ctx context.Context, key string, r io.Reader) error

	// Open returns the artifact bytes and size, or ErrNotFound.
	Open(ctx context.Context, key string) (io.ReadCloser, int64, error)
}

// ContentType returns the MIME type for an artifact key by extension.
func ContentType(key string) string {
	switch filepath.Ext(key) {
	case ".mp3":
		return "audio/mpeg"
	case ".wav":
		return "audio/wav"
	case ".flac":
		return "audio/flac"
	case ".m4a":
		return "audio/mp4"
	default:
		return "application/octet-stream"
	}
}
