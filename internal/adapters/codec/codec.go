// Package codec picks and builds the stream compression used on either side of a conversion.
// Input is detected by magic bytes; output is chosen by file extension
package codec

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Kind is a stream compression format
type Kind uint8

const (
	// None is plain text
	None Kind = iota
	// Gzip is RFC 1952 gzip
	Gzip
	// Zstd is Zstandard
	Zstd
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// MagicLen is how many leading bytes Sniff wants to see
const MagicLen = 4

// String returns a short label for logs
func (k Kind) String() string {
	switch k {
	case Gzip:
		return "gzip"
	case Zstd:
		return "zstd"
	default:
		return "none"
	}
}

// Sniff identifies the format from the first bytes of a stream
func Sniff(head []byte) Kind {
	switch {
	case bytes.HasPrefix(head, zstdMagic):
		return Zstd
	case bytes.HasPrefix(head, gzipMagic):
		return Gzip
	default:
		return None
	}
}

// FromPath identifies the format from a file extension (.gz, .gzip, .zst, .zstd)
func FromPath(p string) Kind {
	switch strings.ToLower(filepath.Ext(p)) {
	case ".gz", ".gzip":
		return Gzip
	case ".zst", ".zstd":
		return Zstd
	default:
		return None
	}
}

// NewReader wraps r with a decompressor for k. Closing the result does not close r
func NewReader(k Kind, r io.Reader) (io.ReadCloser, error) {
	switch k {
	case Gzip:
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, err
		}
		return zr, nil
	case Zstd:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return dec.IOReadCloser(), nil
	default:
		return io.NopCloser(r), nil
	}
}

// NewWriter wraps w with a compressor for k. Close flushes the compressor but does not close w
func NewWriter(k Kind, w io.Writer) (io.WriteCloser, error) {
	switch k {
	case Gzip:
		return gzip.NewWriter(w), nil
	case Zstd:
		// single-threaded encoding keeps output byte-identical across runs
		enc, err := zstd.NewWriter(w, zstd.WithEncoderConcurrency(1))
		if err != nil {
			return nil, err
		}
		return enc, nil
	default:
		return nopWriteCloser{w}, nil
	}
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }
