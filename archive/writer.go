package archive

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// WriterOptions contains options for an archive Writer.
type WriterOptions struct {
	// Compressor encodes the document stream. Defaults to Zstd.
	Compressor Compressor
}

// Writer writes a document archive to an underlying stream. The caller
// owns the stream; Close finalizes the archive without closing it.
type Writer struct {
	payload io.WriteCloser
	buf     *bufio.Writer
	count   uint64
	closed  bool
}

// NewWriter writes the archive header and meta to w and returns a
// Writer for appending documents.
func NewWriter(w io.Writer, meta Meta, optFns ...func(o *WriterOptions)) (*Writer, error) {
	opts := WriterOptions{
		Compressor: Zstd,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	if err := writeHeader(w, opts.Compressor.Name(), meta); err != nil {
		return nil, err
	}

	payload, err := opts.Compressor.NewWriter(w)
	if err != nil {
		return nil, fmt.Errorf("failed to create compressor: %w", err)
	}

	return &Writer{
		payload: payload,
		buf:     bufio.NewWriter(payload),
	}, nil
}

// WriteDocument appends one marshaled BSON document.
func (w *Writer) WriteDocument(doc []byte) error {
	if w.closed {
		return errors.New("archive writer is closed")
	}
	if len(doc) > maxDocLen {
		return fmt.Errorf("document too large: %d bytes", len(doc))
	}

	if err := w.buf.WriteByte(tagDocument); err != nil {
		return err
	}
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(doc)))
	if _, err := w.buf.Write(lenBuf[:]); err != nil {
		return err
	}
	if _, err := w.buf.Write(doc); err != nil {
		return err
	}
	w.count++
	return nil
}

// Count returns the number of documents written so far.
func (w *Writer) Count() int64 {
	return int64(w.count)
}

// Close writes the footer and flushes the codec. It does not close the
// underlying stream.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	if err := w.buf.WriteByte(tagFooter); err != nil {
		return err
	}
	var countBuf [8]byte
	binary.LittleEndian.PutUint64(countBuf[:], w.count)
	if _, err := w.buf.Write(countBuf[:]); err != nil {
		return err
	}
	if err := w.buf.Flush(); err != nil {
		return fmt.Errorf("failed to flush archive: %w", err)
	}
	if err := w.payload.Close(); err != nil {
		return fmt.Errorf("failed to close compressor: %w", err)
	}
	return nil
}
