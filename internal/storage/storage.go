// Package storage abstracts the managed document store: the application-owned
// location where ingested files are copied once and never modified in place.
// The default backend is a local directory; an S3-compatible backend is
// available for deployments that already run object storage.
package storage

import (
	"context"
	"io"
)

// PutOptions carries optional parameters for storing an object. Size should
// be the exact byte count when known, -1 otherwise. ContentType and Metadata
// are optional.
type PutOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo describes a stored object.
type ObjectInfo struct {
	Key  string
	Size int64
}

// Storage is the managed storage backend. Keys are slash-separated relative
// paths such as "documents/ab12cd34_report.pdf". Implementations must be safe
// for concurrent use; each write targets a distinct key by construction, so
// no cross-request contention arises.
type Storage interface {
	// Put stores the reader's bytes under key, replacing nothing but the
	// object at that exact key.
	Put(ctx context.Context, key string, r io.Reader, opt PutOptions) (ObjectInfo, error)
	// Get opens the object at key for reading.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	// Delete removes the object at key.
	Delete(ctx context.Context, key string) error
}
