package format

import (
	"context"
	"io"

	"github.com/FocuswithJustin/earmark/core/earmark"
	"github.com/FocuswithJustin/earmark/core/errors"
	"github.com/FocuswithJustin/earmark/internal/archive"
	"github.com/FocuswithJustin/earmark/internal/logging"
)

// Resolve returns the handler for name, detecting the format of path when
// name is empty.
func Resolve(path, name string) (*Handler, error) {
	if name == "" {
		res, err := Detect(path)
		if err != nil {
			return nil, err
		}
		if !res.Detected {
			return nil, errors.NewUnsupported("format detection", path+": "+res.Reason)
		}
		name = res.Format
	}
	h := Get(name)
	if h == nil {
		return nil, errors.NewNotFound("format", name)
	}
	return h, nil
}

// ReadFile reads the document stored at path. An empty name detects the
// format.
func ReadFile(ctx context.Context, path, name string, opts ...earmark.Option) (*earmark.Document, error) {
	h, err := Resolve(path, name)
	if err != nil {
		return nil, err
	}
	if !h.CanRead() {
		return nil, errors.NewUnsupported(h.Name(), "format cannot be read")
	}

	r, err := archive.Open(path)
	if err != nil {
		return nil, errors.NewIO("read", path, err)
	}
	defer r.Close()

	doc, err := h.Reader.Read(ctx, r, opts...)
	if err != nil {
		logging.FormatError(h.Name(), "read", err, "path", path)
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	logging.DocumentLoaded(ctx, doc.ID(), h.Name(), doc.Len(), "path", path)
	return doc, nil
}

// WriteFile writes doc to path. An empty name picks the format from the
// extension of path. The destination is replaced only when the write
// succeeds.
func WriteFile(ctx context.Context, path, name string, doc *earmark.Document) error {
	var h *Handler
	if name == "" {
		if h = ByExtension(path); h == nil {
			return errors.NewUnsupported("format detection", "no format for "+path)
		}
	} else if h = Get(name); h == nil {
		return errors.NewNotFound("format", name)
	}
	return WriteHandler(ctx, path, h, doc)
}

// WriteHandler writes doc to path with h. Use it for writers configured
// beyond their registered defaults.
func WriteHandler(ctx context.Context, path string, h *Handler, doc *earmark.Document) error {
	if !h.CanWrite() {
		return errors.NewUnsupported(h.Name(), "format cannot be written")
	}

	w, err := archive.Create(path, true)
	if err != nil {
		return errors.NewIO("write", path, err)
	}
	cw := &countingWriter{w: w}
	if err := h.Writer.Write(ctx, cw, doc); err != nil {
		w.Abort()
		logging.FormatError(h.Name(), "write", err, "path", path)
		return errors.Wrapf(err, "writing %s", path)
	}
	if err := w.Close(); err != nil {
		return errors.NewIO("write", path, err)
	}
	logging.DocumentWritten(ctx, doc.ID(), h.Name(), cw.n, "path", path)
	return nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
