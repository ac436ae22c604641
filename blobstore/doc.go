// Package blobstore provides the storage abstraction archives are
// exported to and imported from.
//
// Store is the interface for reading and writing archive blobs. Blobs
// are sequential streams; implementations must be safe for concurrent
// use.
//
// # Built-in Implementations
//
//   - Local: local filesystem with atomic publish on close
//   - Memory: in-memory store for tests
//   - s3.Store: Amazon S3 with streaming multipart uploads
//   - minio.Store: MinIO and other S3-compatible object stores
//
// # Custom Implementations
//
// Implement the Store interface to support custom storage backends:
//
//	type Store interface {
//	    Create(ctx, name) (WritableBlob, error)  // Create for writing
//	    Open(ctx, name) (io.ReadCloser, error)   // Open for reading
//	    Delete(ctx, name) error
//	    List(ctx, prefix) ([]string, error)
//	}
//
// Create must publish the blob only when the returned WritableBlob is
// closed, so a failed export never leaves a partial archive behind.
// Abort discards an unfinished blob without publishing it.
package blobstore
