package format_test

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/FocuswithJustin/earmark/core/earmark"
	"github.com/FocuswithJustin/earmark/core/errors"
	"github.com/FocuswithJustin/earmark/core/format"
	"github.com/FocuswithJustin/earmark/internal/archive"
	_ "github.com/FocuswithJustin/earmark/internal/embedded"
)

func newDocument(t *testing.T) *earmark.Document {
	t.Helper()
	d := earmark.NewDocument("http://example.org/fmt")
	dv := d.CreateStringDocuverse("to be or not to be")
	first, err := d.CreatePointerRange(dv, earmark.At(0), earmark.At(5))
	if err != nil {
		t.Fatal(err)
	}
	rest, err := d.CreatePointerRange(dv, earmark.At(6), earmark.Open)
	if err != nil {
		t.Fatal(err)
	}
	line := d.CreateElement("l", "", earmark.List)
	for _, c := range []earmark.ChildNode{first, rest} {
		if err := line.AppendChild(c); err != nil {
			t.Fatal(err)
		}
	}
	if err := d.AppendChild(line); err != nil {
		t.Fatal(err)
	}
	return d
}

func TestRegistry(t *testing.T) {
	const name = "test-upper"
	h := &format.Handler{
		Manifest: &format.Manifest{Name: name, Extensions: []string{".UPPER"}},
		Writer: format.WriterFunc(func(_ context.Context, w io.Writer, doc *earmark.Document) error {
			_, err := io.WriteString(w, doc.ID())
			return err
		}),
	}
	format.Register(h)
	format.Register(nil)
	format.Register(&format.Handler{Manifest: &format.Manifest{}})

	if got := format.Get(name); got != h {
		t.Fatalf("Get(%q) = %v", name, got)
	}
	if !format.Has(name) || format.Has("no-such-format") {
		t.Error("Has() mismatch")
	}
	if h.CanRead() || !h.CanWrite() {
		t.Errorf("CanRead=%v CanWrite=%v, want write-only", h.CanRead(), h.CanWrite())
	}
	if got := format.ByExtension("shout.upper"); got != h {
		t.Errorf("ByExtension() = %v, want case-insensitive match", got)
	}
	names := format.Names()
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Errorf("Names() not sorted: %v", names)
		}
	}

	path := filepath.Join(t.TempDir(), "doc.upper")
	if err := format.WriteFile(context.Background(), path, "", newDocument(t)); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if _, err := format.ReadFile(context.Background(), path, name); !errors.Is(err, errors.ErrUnsupported) {
		t.Errorf("ReadFile() of a write-only format error = %v, want unsupported", err)
	}
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := archive.WriteFile(path, data); err != nil {
		t.Fatal(err)
	}
}

func TestDetect(t *testing.T) {
	dir := t.TempDir()
	nt := []byte("<http://example.org/d> <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <http://www.essepuntato.it/2008/12/earmark#Element> .\n")
	yml := []byte("earmark: 1\nid: http://example.org/d\n")

	files := map[string][]byte{
		"doc.nt":       nt,
		"ntriples.txt": nt,
		"doc.yaml.xz":  yml,
		"doc.yml.gz":   yml,
		"renamed.nt":   yml,
		"empty.yaml":   nil,
		"unknown.bin":  []byte("nothing to see"),
	}
	for name, data := range files {
		writeFile(t, filepath.Join(dir, name), data)
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.nt"), 0o755); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		file        string
		detected    bool
		format      string
		compression archive.Compression
	}{
		{"doc.nt", true, "ntriples", archive.None},
		{"ntriples.txt", true, "ntriples", archive.None},
		{"doc.yaml.xz", true, "yaml", archive.XZ},
		{"doc.yml.gz", true, "yaml", archive.Gzip},
		{"renamed.nt", true, "yaml", archive.None},
		{"empty.yaml", true, "yaml", archive.None},
		{"unknown.bin", false, "", archive.None},
		{"sub.nt", false, "", archive.None},
		{"missing.nt", false, "", archive.None},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			res, err := format.Detect(filepath.Join(dir, tt.file))
			if err != nil {
				t.Fatalf("Detect() error = %v", err)
			}
			if res.Detected != tt.detected || res.Format != tt.format || res.Compression != tt.compression {
				t.Errorf("Detect() = %+v, want detected=%v format=%q compression=%v", res, tt.detected, tt.format, tt.compression)
			}
			if res.Reason == "" {
				t.Error("Detect() gave no reason")
			}
		})
	}
}

func TestReadWriteFile(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	want := newDocument(t)

	for _, name := range []string{
		"doc.nt", "doc.nt.xz", "doc.emk", "doc.earmark.gz",
		"doc.yaml", "doc.yml.xz", "doc.db", "doc.sqlite.gz",
	} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, "nested", name)
			if err := format.WriteFile(ctx, path, "", want); err != nil {
				t.Fatalf("WriteFile() error = %v", err)
			}
			got, err := format.ReadFile(ctx, path, "")
			if err != nil {
				t.Fatalf("ReadFile() error = %v", err)
			}
			if !earmark.Equal(want, got) {
				t.Error("read document differs from the written one")
			}
			if text, _ := got.TextContent(); text != "to be or not to be" {
				t.Errorf("TextContent() = %q", text)
			}
		})
	}
}

func TestWriteFileErrors(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	doc := newDocument(t)

	if err := format.WriteFile(ctx, filepath.Join(dir, "doc.unknown"), "", doc); !errors.Is(err, errors.ErrUnsupported) {
		t.Errorf("WriteFile() with an unknown extension error = %v", err)
	}
	if err := format.WriteFile(ctx, filepath.Join(dir, "doc.nt"), "no-such-format", doc); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("WriteFile() with an unknown format error = %v", err)
	}

	ctxCanceled, cancel := context.WithCancel(ctx)
	cancel()
	path := filepath.Join(dir, "keep.nt")
	writeFile(t, path, []byte("original"))
	if err := format.WriteFile(ctxCanceled, path, "", doc); err == nil {
		t.Fatal("WriteFile() with a canceled context should fail")
	}
	data, err := os.ReadFile(path)
	if err != nil || !bytes.Equal(data, []byte("original")) {
		t.Errorf("destination = %q, %v; a failed write must leave it untouched", data, err)
	}
}

func TestReadFileErrors(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.nt")
	writeFile(t, bad, []byte("<http://www.essepuntato.it/2008/12/earmark#x> is not a triple\n"))

	tests := []struct {
		name  string
		path  string
		check func(error) bool
	}{
		{"undetectable", filepath.Join(dir, "missing.bin"), func(err error) bool { return errors.Is(err, errors.ErrUnsupported) }},
		{"malformed", bad, func(err error) bool {
			var pe *errors.ParseError
			return errors.As(err, &pe)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := format.ReadFile(ctx, tt.path, "")
			if !tt.check(err) {
				t.Errorf("ReadFile() error = %v", err)
			}
		})
	}

	if _, err := format.Resolve(bad, "no-such-format"); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("Resolve() error = %v, want not found", err)
	}
}
