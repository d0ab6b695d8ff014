package yaml

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/FocuswithJustin/earmark/core/earmark"
	"github.com/FocuswithJustin/earmark/core/errors"
	"github.com/FocuswithJustin/earmark/core/format"
	"github.com/google/go-cmp/cmp"
)

const handWritten = `earmark: 1
id: http://example.org/note
docuverses:
  - id: http://example.org/note/text
    kind: StringDocuverse
    source: "Meet at noon"
markup_items:
  - id: http://example.org/note/p
    kind: Element
    gi: p
    container: List
    children:
      - http://example.org/note/when
      - http://example.org/note/all
ranges:
  - id: http://example.org/note/all
    kind: PointerRange
    docuverse: http://example.org/note/text
  - id: http://example.org/note/when
    kind: PointerRange
    docuverse: http://example.org/note/text
    begin: 8
roots:
  - http://example.org/note/p
`

func TestReadHandWritten(t *testing.T) {
	d, err := Reader{}.Read(context.Background(), strings.NewReader(handWritten))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if d.ID() != "http://example.org/note" {
		t.Errorf("ID() = %q", d.ID())
	}
	if got, _ := d.TextContent(); got != "noonMeet at noon" {
		t.Errorf("TextContent() = %q", got)
	}
	if err := d.Check(); err != nil {
		t.Errorf("Check() error = %v", err)
	}
}

func TestRoundTrip(t *testing.T) {
	d, err := Reader{}.Read(context.Background(), strings.NewReader(handWritten))
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := (Writer{}).Write(context.Background(), &buf, d); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if !strings.HasPrefix(buf.String(), "earmark: 1\n") {
		t.Errorf("output does not start with the version key:\n%s", buf.String())
	}
	back, err := Reader{}.Read(context.Background(), &buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if !earmark.Equal(d, back) {
		t.Error("read document differs from the written one")
	}
	if diff := cmp.Diff(earmark.TakeSnapshot(d), earmark.TakeSnapshot(back)); diff != "" {
		t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
	}
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		check func(error) bool
	}{
		{"not yaml", "earmark: [1", isParse},
		{"unknown key", "earmark: 1\nid: x\ncolour: red\n", isParse},
		{"missing id", "earmark: 1\n", isParse},
		{"future version", "earmark: 2\nid: x\n", func(err error) bool { return errors.Is(err, errors.ErrUnsupported) }},
		{"no version", "id: x\n", func(err error) bool { return errors.Is(err, errors.ErrUnsupported) }},
		{"dangling child", strings.Replace(handWritten, "note/all\nranges", "note/gone\nranges", 1), func(err error) bool {
			return errors.Is(err, errors.ErrNotFound)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Reader{}.Read(context.Background(), strings.NewReader(tt.input))
			if !tt.check(err) {
				t.Errorf("Read() error = %v", err)
			}
		})
	}
}

func isParse(err error) bool {
	var pe *errors.ParseError
	return errors.As(err, &pe)
}

func TestRegistered(t *testing.T) {
	h := format.Get(Name)
	if h == nil {
		t.Fatalf("format %q is not registered", Name)
	}
	if diff := cmp.Diff([]string{".yaml", ".yml"}, h.Manifest.Extensions); diff != "" {
		t.Errorf("Extensions mismatch (-want +got):\n%s", diff)
	}
}
