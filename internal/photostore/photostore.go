package photostore

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
)

// ErrNotFound is returned by Get and Delete for unknown keys.
var ErrNotFound = errors.New("photo not found")

// PhotoStore holds uploaded leaf images until they are cleared or replaced.
type PhotoStore interface {
	Save(ctx context.Context, prefix, mimeType string, r io.Reader) (storageKey string, err error)
	Get(ctx context.Context, storageKey string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, storageKey string) error
}

// NewKey returns a fresh storage key whose extension encodes mimeType.
func NewKey(prefix, mimeType string) string {
	return prefix + "_" + uuid.NewString() + ExtForMIME(mimeType)
}

// ExtForMIME maps an accepted image MIME type to a file extension, falling
// back to .jpg.
func ExtForMIME(mimeType string) string {
	switch strings.ToLower(mimeType) {
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}

// MIMEForKey is the inverse of ExtForMIME.
func MIMEForKey(storageKey string) string {
	switch strings.ToLower(path.Ext(storageKey)) {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}
