package archive

import (
	"errors"
	"time"
)

var (
	// ErrInvalidMagic reports a stream that does not begin with an
	// archive header.
	ErrInvalidMagic = errors.New("invalid archive magic")

	// ErrUnsupportedVersion reports an archive written by a newer format
	// revision than this build understands.
	ErrUnsupportedVersion = errors.New("unsupported archive version")

	// ErrUnknownCompressor reports a header naming a codec this build
	// does not provide.
	ErrUnknownCompressor = errors.New("unknown archive compressor")

	// ErrTruncated reports a stream that ends before its footer.
	ErrTruncated = errors.New("truncated archive")

	// ErrCorrupt reports a malformed entry or a footer count that does
	// not match the documents read.
	ErrCorrupt = errors.New("corrupt archive")
)

// Entry tags in the document stream.
const (
	tagDocument = 0x01
	tagFooter   = 0x02
)

// maxDocLen caps a single entry at the server's maximum BSON document
// size plus slack, so a corrupt length prefix cannot force a huge
// allocation.
const maxDocLen = 16*1024*1024 + 16*1024

const blobSuffix = ".dgar"

// Meta describes an archive's provenance. It is stored uncompressed
// right after the header so tooling can inspect an archive without
// decoding the document stream.
type Meta struct {
	// Database and Collection name the source namespace.
	Database   string `bson:"database,omitempty"`
	Collection string `bson:"collection"`

	// CreatedAt is when the export started.
	CreatedAt time.Time `bson:"createdAt,omitempty"`
}

// BlobName returns the conventional blob name for a namespace,
// "<database>/<collection>.dgar". ExportAll uses this convention.
func BlobName(database, collection string) string {
	return database + "/" + collection + blobSuffix
}
