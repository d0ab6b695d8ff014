// Package format provides the registry of document formats.
//
// A format registers a Handler from its package init function; importing
// the package is enough to make it available:
//
//	import _ "github.com/FocuswithJustin/earmark/core/format/ntriples"
//
// Files are read and written through ReadFile and WriteFile, which pick the
// format by name or by detection and compress or decompress ".xz" and
// ".gz" files transparently.
package format

import (
	"context"
	"io"
	"sort"
	"sync"

	"github.com/FocuswithJustin/earmark/core/earmark"
)

// Reader decodes a document from a stream.
type Reader interface {
	Read(ctx context.Context, r io.Reader, opts ...earmark.Option) (*earmark.Document, error)
}

// Writer encodes a document to a stream.
type Writer interface {
	Write(ctx context.Context, w io.Writer, doc *earmark.Document) error
}

// ReaderFunc adapts a function to the Reader interface.
type ReaderFunc func(ctx context.Context, r io.Reader, opts ...earmark.Option) (*earmark.Document, error)

// Read calls f.
func (f ReaderFunc) Read(ctx context.Context, r io.Reader, opts ...earmark.Option) (*earmark.Document, error) {
	return f(ctx, r, opts...)
}

// WriterFunc adapts a function to the Writer interface.
type WriterFunc func(ctx context.Context, w io.Writer, doc *earmark.Document) error

// Write calls f.
func (f WriterFunc) Write(ctx context.Context, w io.Writer, doc *earmark.Document) error {
	return f(ctx, w, doc)
}

// Manifest describes a format.
type Manifest struct {
	// Name is the registry key (e.g., "ntriples").
	Name string

	// Version of the encoding.
	Version string

	// Description is a one-line summary shown by the CLI.
	Description string

	// Extensions lists the file extensions, with the leading dot.
	Extensions []string

	// MediaType is the IANA media type, if any.
	MediaType string

	// Binary marks formats that are not human-readable.
	Binary bool

	// Markers are byte sequences found near the start of a file in this
	// format. A file matches when it contains all of them.
	Markers []string
}

// Handler is a registered format. Reader or Writer may be nil for
// read-only or write-only formats.
type Handler struct {
	Manifest *Manifest
	Reader   Reader
	Writer   Writer
}

// Name returns the manifest name.
func (h *Handler) Name() string { return h.Manifest.Name }

// CanRead reports whether the format can be read.
func (h *Handler) CanRead() bool { return h.Reader != nil }

// CanWrite reports whether the format can be written.
func (h *Handler) CanWrite() bool { return h.Writer != nil }

var (
	mu       sync.RWMutex
	registry = make(map[string]*Handler)
)

// Register adds h to the registry, replacing any handler with the same
// name. Handlers without a name are ignored.
func Register(h *Handler) {
	if h == nil || h.Manifest == nil || h.Manifest.Name == "" {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	registry[h.Manifest.Name] = h
}

// Get returns the handler registered under name, or nil.
func Get(name string) *Handler {
	mu.RLock()
	defer mu.RUnlock()
	return registry[name]
}

// Has reports whether a handler is registered under name.
func Has(name string) bool {
	return Get(name) != nil
}

// List returns every registered handler sorted by name.
func List() []*Handler {
	mu.RLock()
	result := make([]*Handler, 0, len(registry))
	for _, h := range registry {
		result = append(result, h)
	}
	mu.RUnlock()
	sort.Slice(result, func(i, j int) bool { return result[i].Name() < result[j].Name() })
	return result
}

// Names returns the sorted names of every registered handler.
func Names() []string {
	hs := List()
	names := make([]string, len(hs))
	for i, h := range hs {
		names[i] = h.Name()
	}
	return names
}

// Clear empties the registry (for testing).
func Clear() {
	mu.Lock()
	defer mu.Unlock()
	registry = make(map[string]*Handler)
}
