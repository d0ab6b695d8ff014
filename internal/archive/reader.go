// Package archive opens and creates document files with transparent
// compression. The compression is chosen by the file suffix: ".xz" uses
// xz and ".gz" uses gzip; any other file is read and written as is.
package archive

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"
)

// Compression identifies a compression scheme.
type Compression int

const (
	// None is an uncompressed file.
	None Compression = iota
	// XZ is an xz stream.
	XZ
	// Gzip is a gzip stream.
	Gzip
)

// String returns the scheme name.
func (c Compression) String() string {
	switch c {
	case XZ:
		return "xz"
	case Gzip:
		return "gzip"
	default:
		return "none"
	}
}

// Suffix returns the file suffix of the scheme, "" for None.
func (c Compression) Suffix() string {
	switch c {
	case XZ:
		return ".xz"
	case Gzip:
		return ".gz"
	default:
		return ""
	}
}

// CompressionOf returns the scheme implied by the suffix of path.
func CompressionOf(path string) Compression {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xz":
		return XZ
	case ".gz":
		return Gzip
	default:
		return None
	}
}

// TrimCompression removes a compression suffix from path.
func TrimCompression(path string) string {
	if CompressionOf(path) == None {
		return path
	}
	return strings.TrimSuffix(path, filepath.Ext(path))
}

// Reader reads a possibly compressed file.
type Reader struct {
	io.Reader
	file         *os.File
	decompressor io.Closer
}

// Open opens path for reading, decompressing according to its suffix.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	r, err := NewReader(f, CompressionOf(path))
	if err != nil {
		f.Close()
		return nil, err
	}
	r.file = f
	return r, nil
}

// NewReader wraps src with a decompressor for c.
func NewReader(src io.Reader, c Compression) (*Reader, error) {
	switch c {
	case XZ:
		xzr, err := xz.NewReader(bufio.NewReader(src))
		if err != nil {
			return nil, fmt.Errorf("xz reader: %w", err)
		}
		return &Reader{Reader: xzr}, nil
	case Gzip:
		gzr, err := gzip.NewReader(src)
		if err != nil {
			return nil, fmt.Errorf("gzip reader: %w", err)
		}
		return &Reader{Reader: gzr, decompressor: gzr}, nil
	default:
		return &Reader{Reader: src}, nil
	}
}

// Close closes the reader and any underlying decompressors.
func (r *Reader) Close() error {
	var errs []error
	if r.decompressor != nil {
		if err := r.decompressor.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if r.file != nil {
		if err := r.file.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}

// ReadFile returns the decompressed content of path.
func ReadFile(path string) ([]byte, error) {
	r, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// Peek returns up to n decompressed bytes from the start of path.
func Peek(path string, n int) ([]byte, error) {
	r, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	buf := make([]byte, n)
	m, err := io.ReadFull(r, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return buf[:m], nil
}
