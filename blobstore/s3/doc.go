// Package s3 provides an Amazon S3 implementation of the blobstore.Store interface.
//
// # Usage
//
//	store, err := s3.NewDefault(ctx, "my-bucket", func(o *s3.Options) {
//	    o.Prefix = "archives/"
//	})
//
//	err = archive.Export(ctx, docgo.Coll[*User](), store, "app/users.dgar")
//
// # Features
//
//   - Streaming multipart uploads for large archives
//   - Automatic pagination for listing
//   - Configurable prefix for multi-tenant isolation
package s3
