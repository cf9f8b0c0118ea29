// Package bucket abstracts the flat key-value blob store that holds all
// content documents. Backends exist for the hosted HTTP blob API, Postgres,
// Redis, and an in-memory map used by tests.
package bucket

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	// ErrKeyExists is returned by Put when the key is already present and
	// overwrite was not requested.
	ErrKeyExists = errors.New("bucket: key already exists")

	// ErrNotFound is returned when a key or URL resolves to no object.
	ErrNotFound = errors.New("bucket: object not found")
)

// ObjectInfo describes one stored object as reported by a listing.
type ObjectInfo struct {
	Key        string    `json:"key"`
	URL        string    `json:"url"`
	Size       int64     `json:"size"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// PutOptions control a single write.
type PutOptions struct {
	ContentType    string
	AllowOverwrite bool
}

// Bucket is the blob-store contract consumed by the content service. All
// implementations must be safe for concurrent use.
type Bucket interface {
	// List returns every object whose key starts with prefix, in a stable
	// order.
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)

	// Put writes body under key. Without AllowOverwrite an existing key
	// fails with ErrKeyExists. Writes are atomic put-or-fail.
	Put(ctx context.Context, key string, body []byte, opts PutOptions) (*ObjectInfo, error)

	// Delete removes the object behind a URL previously returned by List or
	// Put. Returns ErrNotFound if nothing is stored there.
	Delete(ctx context.Context, url string) error

	// Fetch retrieves the content bytes behind a URL.
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// keyFromURL strips a backend scheme prefix ("pg://", "redis://", "mem://")
// from an object URL, leaving the bucket key.
func keyFromURL(url, scheme string) string {
	return strings.TrimPrefix(url, scheme)
}
