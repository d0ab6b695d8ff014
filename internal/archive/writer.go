package archive

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ulikunitz/xz"
)

// Writer writes a possibly compressed file. Content goes to a temporary
// file next to the destination, which replaces the destination on Close.
type Writer struct {
	io.Writer
	file       *os.File
	dst        string
	compressor io.Closer
	done       bool
}

// Create opens path for writing, compressing according to its suffix.
// If createParentDir is true, parent directories of path are created.
func Create(path string, createParentDir bool) (*Writer, error) {
	if createParentDir {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create parent directory: %w", err)
		}
	}
	f, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	w, err := NewWriter(f, CompressionOf(path))
	if err != nil {
		f.Close()
		os.Remove(f.Name())
		return nil, err
	}
	w.file = f
	w.dst = path
	return w, nil
}

// NewWriter wraps dst with a compressor for c. Close flushes the
// compressor but leaves dst open.
func NewWriter(dst io.Writer, c Compression) (*Writer, error) {
	switch c {
	case XZ:
		xzw, err := xz.NewWriter(dst)
		if err != nil {
			return nil, fmt.Errorf("xz writer: %w", err)
		}
		return &Writer{Writer: xzw, compressor: xzw}, nil
	case Gzip:
		gzw := gzip.NewWriter(dst)
		return &Writer{Writer: gzw, compressor: gzw}, nil
	default:
		return &Writer{Writer: dst}, nil
	}
}

// Close flushes the compressor and moves the file into place.
func (w *Writer) Close() error {
	if w.done {
		return nil
	}
	w.done = true
	if w.compressor != nil {
		if err := w.compressor.Close(); err != nil {
			w.discard()
			return fmt.Errorf("failed to finish compression: %w", err)
		}
	}
	if w.file == nil {
		return nil
	}
	if err := w.file.Close(); err != nil {
		os.Remove(w.file.Name())
		return fmt.Errorf("failed to close file: %w", err)
	}
	if err := os.Rename(w.file.Name(), w.dst); err != nil {
		os.Remove(w.file.Name())
		return fmt.Errorf("failed to move file into place: %w", err)
	}
	return nil
}

// Abort drops everything written so far. The destination is untouched.
func (w *Writer) Abort() {
	if w.done {
		return
	}
	w.done = true
	w.discard()
}

func (w *Writer) discard() {
	if w.file != nil {
		w.file.Close()
		os.Remove(w.file.Name())
	}
}

// WriteFile writes data to path, compressing according to its suffix.
func WriteFile(path string, data []byte) error {
	w, err := Create(path, false)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		w.Abort()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return w.Close()
}
