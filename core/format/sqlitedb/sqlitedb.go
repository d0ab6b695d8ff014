// Package sqlitedb stores documents in a SQLite database file.
//
// Markup items, ranges, docuverses, ordered child links and assertions
// each get a table; see schema.go. Save and Load work on an open
// database. The registered Reader and Writer stage the database in a
// temporary file so it can travel through the stream-based format
// registry.
package sqlitedb

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/FocuswithJustin/earmark/core/earmark"
	"github.com/FocuswithJustin/earmark/core/errors"
	"github.com/FocuswithJustin/earmark/core/format"
	"github.com/FocuswithJustin/earmark/core/sqlite"
)

// Name is the registry name of the format.
const Name = "sqlite"

// Manifest returns the format manifest for registration.
func Manifest() *format.Manifest {
	return &format.Manifest{
		Name:        Name,
		Version:     "1.0.0",
		Description: "Relational document store (SQLite " + sqlite.DriverType() + ")",
		Extensions:  []string{".db", ".sqlite"},
		MediaType:   "application/vnd.sqlite3",
		Binary:      true,
		Markers:     []string{"SQLite format 3\x00"},
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

// SaveFile writes doc to a new database at path.
func SaveFile(ctx context.Context, path string, doc *earmark.Document) error {
	db, err := sqlite.Open(path)
	if err != nil {
		return errors.NewIO("open", path, err)
	}
	if err := Save(ctx, db, doc); err != nil {
		db.Close()
		return err
	}
	if err := db.Close(); err != nil {
		return errors.NewIO("close", path, err)
	}
	return nil
}

// LoadFile reads the document stored in the database at path.
func LoadFile(ctx context.Context, path string, opts ...earmark.Option) (*earmark.Document, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, errors.NewIO("stat", path, err)
	}
	db, err := sqlite.OpenReadOnly(path)
	if err != nil {
		return nil, errors.NewIO("open", path, err)
	}
	defer db.Close()
	return Load(ctx, db, opts...)
}

// Reader reads a database image from a stream.
type Reader struct{}

// Read copies r into a temporary database file and loads it.
func (Reader) Read(ctx context.Context, r io.Reader, opts ...earmark.Option) (*earmark.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dir, err := os.MkdirTemp("", "earmark-sqlite-*")
	if err != nil {
		return nil, errors.NewIO("create temp dir", "", err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "document.db")
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.NewIO("create", path, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return nil, errors.NewIO("read", "", err)
	}
	if err := f.Close(); err != nil {
		return nil, errors.NewIO("close", path, err)
	}
	return LoadFile(ctx, path, opts...)
}

// Writer writes a database image to a stream.
type Writer struct{}

// Write saves doc into a temporary database file and copies it to w.
func (Writer) Write(ctx context.Context, w io.Writer, doc *earmark.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dir, err := os.MkdirTemp("", "earmark-sqlite-*")
	if err != nil {
		return errors.NewIO("create temp dir", "", err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "document.db")
	if err := SaveFile(ctx, path, doc); err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return errors.NewIO("open", path, err)
	}
	defer f.Close()
	if _, err := io.Copy(w, f); err != nil {
		return errors.NewIO("write", "", err)
	}
	return nil
}
