package archive

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"go.mongodb.org/mongo-driver/v2/bson"
)

var (
	archiveMagic          = [4]byte{'D', 'G', 'A', 'R'}
	archiveHeaderVersion  = uint16(1)
	archiveHeaderFixedLen = 16 // excludes variable codec name and meta bytes
)

func writeHeader(w io.Writer, codec string, meta Meta) error {
	if len(codec) == 0 || len(codec) > 255 {
		return fmt.Errorf("invalid compressor name length: %d", len(codec))
	}

	metaBytes, err := bson.Marshal(meta)
	if err != nil {
		return fmt.Errorf("failed to marshal archive meta: %w", err)
	}

	buf := make([]byte, 0, archiveHeaderFixedLen+len(codec)+4+len(metaBytes))
	buf = append(buf, archiveMagic[:]...)
	var fixed [12]byte
	binary.LittleEndian.PutUint16(fixed[0:2], archiveHeaderVersion)
	// fixed[2:4] flags, zero for now
	fixed[4] = uint8(len(codec))
	// fixed[5:12] reserved
	buf = append(buf, fixed[:]...)
	buf = append(buf, codec...)

	var metaLen [4]byte
	binary.LittleEndian.PutUint32(metaLen[:], uint32(len(metaBytes)))
	buf = append(buf, metaLen[:]...)
	buf = append(buf, metaBytes...)

	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("failed to write archive header: %w", err)
	}
	return nil
}

func readHeader(r io.Reader) (string, Meta, error) {
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return "", Meta{}, fmt.Errorf("failed to read archive magic: %w", truncated(err))
	}
	if magic != archiveMagic {
		return "", Meta{}, ErrInvalidMagic
	}

	fixed := make([]byte, archiveHeaderFixedLen-4)
	if _, err := io.ReadFull(r, fixed); err != nil {
		return "", Meta{}, fmt.Errorf("failed to read archive header: %w", truncated(err))
	}

	version := binary.LittleEndian.Uint16(fixed[0:2])
	if version != archiveHeaderVersion {
		return "", Meta{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}
	// fixed[2:4] flags, ignored
	codec := make([]byte, int(fixed[4]))
	if _, err := io.ReadFull(r, codec); err != nil {
		return "", Meta{}, fmt.Errorf("failed to read compressor name: %w", truncated(err))
	}

	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return "", Meta{}, fmt.Errorf("failed to read archive meta: %w", truncated(err))
	}
	metaLen := binary.LittleEndian.Uint32(lenBuf[:])
	if metaLen > maxDocLen {
		return "", Meta{}, fmt.Errorf("%w: meta length %d", ErrCorrupt, metaLen)
	}
	metaBytes := make([]byte, metaLen)
	if _, err := io.ReadFull(r, metaBytes); err != nil {
		return "", Meta{}, fmt.Errorf("failed to read archive meta: %w", truncated(err))
	}

	var meta Meta
	if err := bson.Unmarshal(metaBytes, &meta); err != nil {
		return "", Meta{}, fmt.Errorf("failed to unmarshal archive meta: %w", err)
	}
	return string(codec), meta, nil
}

// truncated maps short reads onto ErrTruncated so callers can test for
// it with errors.Is.
func truncated(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return ErrTruncated
	}
	return err
}
