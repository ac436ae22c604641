package archive

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
)

// Reader reads a document archive produced by Writer. The caller owns
// the underlying stream; Close releases the codec without closing it.
type Reader struct {
	payload io.ReadCloser
	buf     *bufio.Reader
	meta    Meta
	codec   string
	count   uint64
	done    bool
}

// NewReader reads the header from r and prepares the document stream.
func NewReader(r io.Reader) (*Reader, error) {
	codecName, meta, err := readHeader(r)
	if err != nil {
		return nil, err
	}

	codec, err := ByName(codecName)
	if err != nil {
		return nil, err
	}

	payload, err := codec.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create decompressor: %w", err)
	}

	return &Reader{
		payload: payload,
		buf:     bufio.NewReader(payload),
		meta:    meta,
		codec:   codecName,
	}, nil
}

// Meta returns the archive's meta document.
func (r *Reader) Meta() Meta {
	return r.meta
}

// CompressorName returns the codec recorded in the header.
func (r *Reader) CompressorName() string {
	return r.codec
}

// Count returns the number of documents read so far.
func (r *Reader) Count() int64 {
	return int64(r.count)
}

// Next returns the next document's raw BSON bytes. It returns io.EOF
// once the footer has been reached and the document count verified.
func (r *Reader) Next() ([]byte, error) {
	if r.done {
		return nil, io.EOF
	}

	tag, err := r.buf.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("failed to read archive entry: %w", truncated(err))
	}

	switch tag {
	case tagDocument:
		var lenBuf [4]byte
		if _, err := io.ReadFull(r.buf, lenBuf[:]); err != nil {
			return nil, fmt.Errorf("failed to read document length: %w", truncated(err))
		}
		docLen := binary.LittleEndian.Uint32(lenBuf[:])
		if docLen > maxDocLen {
			return nil, fmt.Errorf("%w: document length %d", ErrCorrupt, docLen)
		}
		doc := make([]byte, docLen)
		if _, err := io.ReadFull(r.buf, doc); err != nil {
			return nil, fmt.Errorf("failed to read document: %w", truncated(err))
		}
		r.count++
		return doc, nil

	case tagFooter:
		var countBuf [8]byte
		if _, err := io.ReadFull(r.buf, countBuf[:]); err != nil {
			return nil, fmt.Errorf("failed to read archive footer: %w", truncated(err))
		}
		if want := binary.LittleEndian.Uint64(countBuf[:]); want != r.count {
			return nil, fmt.Errorf("%w: footer counts %d documents, read %d", ErrCorrupt, want, r.count)
		}
		r.done = true
		return nil, io.EOF

	default:
		return nil, fmt.Errorf("%w: unknown entry tag 0x%02x", ErrCorrupt, tag)
	}
}

// Close releases the codec. It does not close the underlying stream.
func (r *Reader) Close() error {
	return r.payload.Close()
}
