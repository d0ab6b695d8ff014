// Package ntriples reads and writes documents as RDF N-Triples using the
// EARMARK and collections ontologies.
//
// Markup items, ranges and docuverses become resources named by their ids.
// Set children are linked with co:element, Bag children through co:item
// blank nodes and List children through a co:firstItem / co:nextItem chain.
// Nodes that are nobody's child become document roots when read back.
// Statements that are not part of the markup graph are kept as document
// assertions.
package ntriples

import (
	"context"
	"io"

	"github.com/FocuswithJustin/earmark/core/earmark"
	"github.com/FocuswithJustin/earmark/core/errors"
	"github.com/FocuswithJustin/earmark/core/format"
	"github.com/FocuswithJustin/earmark/core/rdf"
)

// Name is the registry name of the format.
const Name = "ntriples"

// Manifest returns the format manifest for registration.
func Manifest() *format.Manifest {
	return &format.Manifest{
		Name:        Name,
		Version:     "1.0.0",
		Description: "EARMARK ontology as RDF N-Triples",
		Extensions:  []string{".nt", ".ntriples"},
		MediaType:   "application/n-triples",
		Markers:     []string{"<" + rdf.EARMARKNS},
	}
}

// Register registers this format with the format registry.
func Register() {
	format.Register(&format.Handler{
		Manifest: Manifest(),
		Reader:   &Reader{},
		Writer:   &Writer{},
	})
}

func init() {
	Register()
}

// Reader decodes N-Triples.
type Reader struct{}

// Read parses r and builds a document from the resulting graph.
func (Reader) Read(ctx context.Context, r io.Reader, opts ...earmark.Option) (*earmark.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	g, err := rdf.ParseNTriples(r)
	if err != nil {
		return nil, &errors.ParseError{Format: Name, Message: "invalid N-Triples", Err: err}
	}
	return Decode(g, opts...)
}

// Writer encodes N-Triples.
type Writer struct {
	// StandardStatements adds the statements the ontology can infer:
	// collection and item types, co:size, co:lastItem and co:previousItem.
	StandardStatements bool
}

// Write serializes doc.
func (w Writer) Write(ctx context.Context, out io.Writer, doc *earmark.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	g := Encode(doc, EncodeOptions{StandardStatements: w.StandardStatements})
	if _, err := rdf.WriteNTriples(out, g); err != nil {
		return errors.NewIO("write", "", err)
	}
	return nil
}
