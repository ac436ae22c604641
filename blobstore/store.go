package blobstore

import (
	"context"
	"io"
	"os"
)

// ErrNotFound is returned when a blob does not exist.
//
// Implementations should return an error that satisfies `errors.Is(err, ErrNotFound)`.
// The default maps to `os.ErrNotExist`.
var ErrNotFound = os.ErrNotExist

// Store is an abstraction for reading and writing archive blobs.
// Blobs are written and read as sequential streams. Implementations
// must be safe for concurrent use.
type Store interface {
	// Create opens a named blob for writing. Closing the returned blob
	// publishes it, replacing any previous content under the name.
	Create(ctx context.Context, name string) (WritableBlob, error)

	// Open opens a named blob for reading.
	Open(ctx context.Context, name string) (io.ReadCloser, error)

	// Delete removes a named blob. Deleting a missing blob is not an error.
	Delete(ctx context.Context, name string) error

	// List returns the blob names under prefix, sorted.
	List(ctx context.Context, prefix string) ([]string, error)
}

// WritableBlob is a streaming write handle for a blob under construction.
type WritableBlob interface {
	io.WriteCloser

	// Sync flushes buffered data to durable storage where the backend
	// supports it. Object stores finalize on Close and treat Sync as a
	// no-op.
	Sync() error

	// Abort discards the blob instead of publishing it. Aborting after a
	// successful Close is a no-op.
	Abort() error
}
