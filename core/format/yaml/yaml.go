// Package yaml reads and writes documents as human-editable YAML.
//
// The layout mirrors earmark.Snapshot under a leading "earmark" version
// key. Unknown keys are rejected.
package yaml

import (
	"context"
	"fmt"
	"io"

	"github.com/goccy/go-yaml"

	"github.com/FocuswithJustin/earmark/core/earmark"
	"github.com/FocuswithJustin/earmark/core/errors"
	"github.com/FocuswithJustin/earmark/core/format"
)

// Name is the registry name of the format.
const Name = "yaml"

// Version is the layout version stored under the "earmark" key.
const Version = 1

// Manifest returns the format manifest for registration.
func Manifest() *format.Manifest {
	return &format.Manifest{
		Name:        Name,
		Version:     "1.0.0",
		Description: "Document snapshot as YAML",
		Extensions:  []string{".yaml", ".yml"},
		MediaType:   "application/yaml",
		Markers:     []string{"earmark: 1"},
	}
}

// Register registers this format with the format registry.
func Register() {
	format.Register(&format.Handler{
		Manifest: Manifest(),
		Reader:   Reader{},
		Writer:   Writer{},
	})
}

func init() {
	Register()
}

type file struct {
	Earmark          int `yaml:"earmark"`
	earmark.Snapshot `yaml:",inline"`
}

// Reader decodes YAML.
type Reader struct{}

// Read parses r and restores the document it describes.
func (Reader) Read(ctx context.Context, r io.Reader, opts ...earmark.Option) (*earmark.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.NewIO("read", "", err)
	}
	var f file
	if err := yaml.UnmarshalWithOptions(data, &f, yaml.Strict()); err != nil {
		return nil, &errors.ParseError{Format: Name, Message: "invalid YAML", Err: err}
	}
	if f.Earmark != Version {
		return nil, errors.NewUnsupported(Name, fmt.Sprintf("layout version %d", f.Earmark))
	}
	if f.ID == "" {
		return nil, errors.NewParse(Name, "", "missing document id")
	}
	return f.Restore(opts...)
}

// Writer encodes YAML.
type Writer struct{}

// Write serializes doc.
func (Writer) Write(ctx context.Context, w io.Writer, doc *earmark.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := yaml.Marshal(file{Earmark: Version, Snapshot: *earmark.TakeSnapshot(doc)})
	if err != nil {
		return errors.NewIO("encode", "", err)
	}
	if _, err := w.Write(data); err != nil {
		return errors.NewIO("write", "", err)
	}
	return nil
}
