// Package archive exports collections to portable archive blobs and
// restores them.
//
// An archive is a single sequential stream: a fixed header naming the
// format version and compression codec, an uncompressed BSON meta
// document recording the source namespace, and a compressed stream of
// length-prefixed raw documents terminated by a footer carrying the
// document count. Readers verify the count, so a truncated archive is
// detected instead of silently restoring a partial collection.
//
// Export and Import move a single collection:
//
//	store, err := blobstore.NewLocal("/var/backups")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	n, err := archive.Export(ctx, docgo.Coll[*User](), store, archive.BlobName("app", "users"))
//
// ExportAll and ImportAll walk every collection bound in a Registry,
// naming blobs "<database>/<collection>.dgar" and fanning out across
// collections with bounded concurrency and an optional shared document
// rate limit.
//
// Documents travel as raw BSON, not through the record structs, so
// fields unknown to the current Go types survive an export/import
// round trip unchanged.
package archive
