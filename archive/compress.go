package archive

import (
	"fmt"
	"io"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compressor encodes an archive's document stream. The codec name is
// recorded in the header, so Import picks the matching codec without
// caller configuration.
type Compressor interface {
	// Name identifies the codec in archive headers.
	Name() string
	// NewWriter wraps w. Closing the returned writer flushes the codec
	// but must not close w.
	NewWriter(w io.Writer) (io.WriteCloser, error)
	// NewReader wraps r for decompression.
	NewReader(r io.Reader) (io.ReadCloser, error)
}

var (
	// None stores documents uncompressed.
	None Compressor = noneCompressor{}
	// Snappy favors throughput over ratio.
	Snappy Compressor = snappyCompressor{}
	// LZ4 compresses slightly better than Snappy at similar speed.
	LZ4 Compressor = lz4Compressor{}
	// Zstd is the default codec, balancing ratio and speed.
	Zstd Compressor = zstdCompressor{}
)

// ByName returns the codec recorded under name in an archive header.
func ByName(name string) (Compressor, error) {
	switch name {
	case None.Name():
		return None, nil
	case Snappy.Name():
		return Snappy, nil
	case LZ4.Name():
		return LZ4, nil
	case Zstd.Name():
		return Zstd, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCompressor, name)
	}
}

type noneCompressor struct{}

func (noneCompressor) Name() string { return "none" }

func (noneCompressor) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return nopWriteCloser{w}, nil
}

func (noneCompressor) NewReader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(r), nil
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

type snappyCompressor struct{}

func (snappyCompressor) Name() string { return "snappy" }

func (snappyCompressor) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return snappy.NewBufferedWriter(w), nil
}

func (snappyCompressor) NewReader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(snappy.NewReader(r)), nil
}

type lz4Compressor struct{}

func (lz4Compressor) Name() string { return "lz4" }

func (lz4Compressor) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return lz4.NewWriter(w), nil
}

func (lz4Compressor) NewReader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(lz4.NewReader(r)), nil
}

type zstdCompressor struct{}

func (zstdCompressor) Name() string { return "zstd" }

func (zstdCompressor) NewWriter(w io.Writer) (io.WriteCloser, error) {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, err
	}
	return enc, nil
}

func (zstdCompressor) NewReader(r io.Reader) (io.ReadCloser, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	// IOReadCloser releases the decoder's goroutines on Close.
	return dec.IOReadCloser(), nil
}
