// Package snapshot stores documents in a compact MessagePack image.
//
// The stream starts with the magic "EARMARK-SNAPSHOT\x00" and a version
// byte, followed by one MessagePack-encoded earmark.Snapshot.
package snapshot

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/FocuswithJustin/earmark/core/earmark"
	"github.com/FocuswithJustin/earmark/core/errors"
	"github.com/FocuswithJustin/earmark/core/format"
)

// Name is the registry name of the format.
const Name = "snapshot"

// Version is the image version written after the magic.
const Version byte = 1

// Magic starts every image.
var Magic = []byte("EARMARK-SNAPSHOT\x00")

// Manifest returns the format manifest for registration.
func Manifest() *format.Manifest {
	return &format.Manifest{
		Name:        Name,
		Version:     "1.0.0",
		Description: "Binary MessagePack document image",
		Extensions:  []string{".emk", ".earmark"},
		MediaType:   "application/vnd.msgpack",
		Binary:      true,
		Markers:     []string{"EARMARK-SNAPSHOT"},
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

// Reader decodes images.
type Reader struct{}

// Read checks the header and restores the image.
func (Reader) Read(ctx context.Context, r io.Reader, opts ...earmark.Option) (*earmark.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	br := bufio.NewReader(r)
	header := make([]byte, len(Magic)+1)
	if _, err := io.ReadFull(br, header); err != nil {
		return nil, &errors.ParseError{Format: Name, Message: "truncated header", Err: err}
	}
	if !bytes.Equal(header[:len(Magic)], Magic) {
		return nil, errors.NewParse(Name, "", "missing EARMARK-SNAPSHOT magic")
	}
	if v := header[len(Magic)]; v != Version {
		return nil, errors.NewUnsupported(Name, fmt.Sprintf("image version %d", v))
	}

	var s earmark.Snapshot
	if err := msgpack.NewDecoder(br).Decode(&s); err != nil {
		return nil, &errors.ParseError{Format: Name, Message: "invalid image body", Err: err}
	}
	return s.Restore(opts...)
}

// Writer encodes images.
type Writer struct{}

// Write serializes doc.
func (Writer) Write(ctx context.Context, w io.Writer, doc *earmark.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := w.Write(append(append([]byte{}, Magic...), Version)); err != nil {
		return errors.NewIO("write", "", err)
	}
	if err := msgpack.NewEncoder(w).Encode(earmark.TakeSnapshot(doc)); err != nil {
		return errors.NewIO("write", "", err)
	}
	return nil
}
