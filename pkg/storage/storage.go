package storage

import (
	"context"
	"io"
)

// BlobStore persists uploaded source files outside the database. Keys are
// opaque to callers; PublicURL maps a key to the path the HTTP layer serves
// it from.
type BlobStore interface {
	// Upload writes the content under key, overwriting any previous blob.
	Upload(ctx context.Context, key string, content io.Reader) error

	// Read opens the blob for reading. The caller closes the returned reader.
	Read(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the blob. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// PublicURL returns the URL path clients can fetch the blob from.
	PublicURL(key string) string
}
