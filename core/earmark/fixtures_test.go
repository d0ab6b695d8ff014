package earmark

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/FocuswithJustin/earmark/core/errors"
	"github.com/FocuswithJustin/earmark/core/fetch"
)

const (
	aliceID = "http://www.essepuntato.it/2011/01/alice"

	aliceText1 = "Alice was beginning to get very tired of sitting by her sister on the bank, and of having nothing to do: once or twice she had peeped into the book her sister was reading, but it had no pictures or conversations in it, "
	aliceText2 = "and what is the use of a book,"
	aliceText3 = " thought Alice "
	aliceText4 = "without pictures or conversation?"

	imlNS   = "http://www.cs.unibo.it/2006/iml"
	xhtmlNS = "http://www.w3.org/1999/xhtml"
)

// noFetch fails every fetch so tests never touch the network.
var noFetch = fetch.Func(func(_ context.Context, location string) ([]byte, error) {
	return nil, errors.NewNotFound("content", location)
})

func newTestDocument(t *testing.T, id string, opts ...Option) *Document {
	t.Helper()
	return NewDocument(id, append([]Option{WithFetcher(noFetch)}, opts...)...)
}

// bufferLogger returns a logger writing text records to the returned buffer.
func bufferLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}

func must[T any](t *testing.T) func(T, error) T {
	return func(v T, err error) T {
		t.Helper()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return v
	}
}

func mustDo(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func checkConsistent(t *testing.T, d *Document) {
	t.Helper()
	if err := d.Check(); err != nil {
		t.Fatalf("Check() error = %v", err)
	}
}

type alice struct {
	doc        *Document
	dv         *Docuverse
	p, q       *MarkupItem
	r1, r2     *Range
	r3, r4     *Range
	fullString string
}

// newAlice builds two overlapping paragraphs over the opening of Alice in
// Wonderland: p holds r1, q and r3; q holds r2 and r4.
func newAlice(t *testing.T) *alice {
	t.Helper()
	rng := must[*Range](t)

	d := newTestDocument(t, aliceID)
	a := &alice{doc: d, fullString: aliceText1 + aliceText2 + aliceText3 + aliceText4}
	a.dv = d.CreateStringDocuverse(a.fullString)

	a.p = d.CreateElement("p", "", List)
	mustDo(t, d.AppendChild(a.p))
	a.r1 = rng(d.CreatePointerRange(a.dv, At(0), At(219)))
	mustDo(t, a.p.AppendChild(a.r1))

	a.q = d.CreateElement("q", "", List)
	mustDo(t, a.p.AppendChild(a.q))
	a.r2 = rng(d.CreatePointerRange(a.dv, At(219), At(249)))
	mustDo(t, a.q.AppendChild(a.r2))

	a.r3 = rng(d.CreatePointerRange(a.dv, At(249), At(264)))
	mustDo(t, a.p.AppendChild(a.r3))
	a.r4 = rng(d.CreatePointerRange(a.dv, At(264), At(297)))
	mustDo(t, a.q.AppendChild(a.r4))
	return a
}

type paradise struct {
	doc                    *Document
	dv                     *Docuverse
	stanza, syntax         *MarkupItem
	verse1, verse2, verse3 *MarkupItem
	unit1, unit2           *MarkupItem
	r                      []*Range
}

// newParadise builds two independent hierarchies over three verses of
// Paradise Lost: stanza/verse in the IML namespace and syntax/unit in
// XHTML. The syntactic units overlap the verse boundaries.
func newParadise(t *testing.T, id string) *paradise {
	t.Helper()
	elem := must[*MarkupItem](t)
	rng := must[*Range](t)

	d := newTestDocument(t, id)
	p := &paradise{doc: d}
	p.dv = must[*Docuverse](t)(d.CreateStringDocuverseWithID("content",
		"Of Man's first disobedience, and the fruit"+
			"Of that forbidden tree whose mortal taste"+
			"Brought death into the World, and all our woe,"))

	for _, span := range [][2]int{{0, 28}, {28, 42}, {42, 64}, {64, 83}, {83, 113}, {113, 129}} {
		p.r = append(p.r, rng(d.CreatePointerRange(p.dv, At(span[0]), At(span[1]))))
	}

	p.stanza = elem(d.CreateElementWithID("stanza", "div", imlNS, Set))
	p.verse1 = elem(d.CreateElementWithID("verse1", "p", imlNS, List))
	p.verse2 = elem(d.CreateElementWithID("verse2", "p", imlNS, List))
	p.verse3 = elem(d.CreateElementWithID("verse3", "p", imlNS, List))
	p.syntax = elem(d.CreateElementWithID("syntax", "div", xhtmlNS, Set))
	p.unit1 = elem(d.CreateElementWithID("unit1", "span", xhtmlNS, List))
	p.unit2 = elem(d.CreateElementWithID("unit2", "span", xhtmlNS, List))

	mustDo(t, d.AppendChild(p.stanza))
	mustDo(t, d.AppendChild(p.syntax))
	for _, v := range []*MarkupItem{p.verse1, p.verse2, p.verse3} {
		mustDo(t, p.stanza.AppendChild(v))
	}
	mustDo(t, p.verse1.AppendChild(p.r[0]))
	mustDo(t, p.verse1.AppendChild(p.r[1]))
	mustDo(t, p.verse2.AppendChild(p.r[2]))
	mustDo(t, p.verse2.AppendChild(p.r[3]))
	mustDo(t, p.verse3.AppendChild(p.r[4]))
	mustDo(t, p.verse3.AppendChild(p.r[5]))

	mustDo(t, p.syntax.AppendChild(p.unit1))
	mustDo(t, p.syntax.AppendChild(p.unit2))
	mustDo(t, p.unit1.AppendChild(p.r[1]))
	mustDo(t, p.unit1.AppendChild(p.r[2]))
	mustDo(t, p.unit2.AppendChild(p.r[3]))
	mustDo(t, p.unit2.AppendChild(p.r[4]))
	return p
}

func ids[T Item](items []T) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID())
	}
	return out
}

func wantKind(t *testing.T, err error, want errors.Kind) {
	t.Helper()
	got, ok := errors.KindOf(err)
	if !ok {
		t.Fatalf("error = %v, want a %s error", err, want)
	}
	if got != want {
		t.Fatalf("error kind = %s, want %s (%v)", got, want, err)
	}
}
