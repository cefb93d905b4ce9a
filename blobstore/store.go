// Package blobstore abstracts where snapshot files live: local disk,
// memory, or S3-compatible object storage. Snapshots are written and read
// as whole streams; there is no random access.
package blobstore

import (
	"context"
	"io"
	"os"
)

// ErrNotFound is returned when a blob does not exist.
//
// Implementations should return an error that satisfies
// `errors.Is(err, ErrNotFound)`. The default maps to `os.ErrNotExist`.
var ErrNotFound = os.ErrNotExist

// BlobStore stores immutable snapshot blobs by name.
type BlobStore interface {
	// Open opens an existing blob for reading.
	Open(ctx context.Context, name string) (Blob, error)
	// Create creates a blob for writing. The blob becomes visible only
	// when Close returns nil; a failed or abandoned write leaves no
	// partial blob behind.
	Create(ctx context.Context, name string) (WritableBlob, error)
	// Delete removes a blob. Deleting a missing blob is not an error.
	Delete(ctx context.Context, name string) error
	// List returns all blob names with the given prefix, sorted.
	List(ctx context.Context, prefix string) ([]string, error)
}

// Blob is a read-only handle to a stored snapshot.
type Blob interface {
	io.Closer
	// Size returns the size of the blob in bytes.
	Size() int64
	// Reader returns a reader over the whole blob.
	Reader(ctx context.Context) (io.ReadCloser, error)
}

// WritableBlob is a streaming write handle. Close finalizes the blob.
type WritableBlob interface {
	io.WriteCloser
	// Abort discards the write. Calling Abort after Close is a no-op.
	Abort() error
}
