package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"
)

// ErrObjectNotFound is returned when no object is stored under a key.
var ErrObjectNotFound = errors.New("object not found")

// ErrInvalidKey is returned for keys that cannot name a stored object.
var ErrInvalidKey = errors.New("invalid object key")

// StorageDriver defines how archived reports are written to and read from binary storage
type StorageDriver interface {
	// Save writes the content under key
	Save(ctx context.Context, key string, body io.Reader, contentType string) error

	// Open streams an object back together with its content type
	Open(ctx context.Context, key string) (io.ReadCloser, string, error)

	// Delete removes the object; deleting a missing object is not an error
	Delete(ctx context.Context, key string) error

	// URL returns a link clients can fetch the object from
	URL(ctx context.Context, key string, expires time.Duration) (string, error)
}

// metaSuffix marks the content-type sidecar the local driver writes next to
// each object. Sidecars are never addressable as objects.
const metaSuffix = ".meta"

// validKey accepts flat keys made of letters, digits, dot, dash and underscore.
func validKey(key string) bool {
	if key == "" || len(key) > 200 || key[0] == '.' || strings.HasSuffix(key, metaSuffix) {
		return false
	}
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '.', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}
