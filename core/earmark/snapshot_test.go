package earmark

import (
	"strings"
	"testing"

	"github.com/FocuswithJustin/earmark/core/collection"
	"github.com/FocuswithJustin/earmark/core/errors"
	"github.com/FocuswithJustin/earmark/core/rdf"
	"github.com/google/go-cmp/cmp"
)

func TestSnapshotRoundTrip(t *testing.T) {
	p := newParadise(t, "http://www.essepuntato.it/2011/01/paradiselost")
	d := p.doc
	open, err := d.CreateXPathPointerRangeWithID("whole", p.dv, Open, Open, "")
	if err != nil {
		t.Fatal(err)
	}
	mustDo(t, p.syntax.AppendChild(open))
	mustDo(t, d.Assert(TermOf(p.stanza), rdf.IRI("http://example.org/label"), rdf.LangLiteral("stanza", "en")))

	s := TakeSnapshot(d)
	if got := len(s.MarkupItems); got != 7 {
		t.Errorf("len(MarkupItems) = %d, want 7", got)
	}
	if diff := cmp.Diff([]string{p.stanza.ID(), p.syntax.ID()}, s.Roots); diff != "" {
		t.Errorf("Roots mismatch (-want +got):\n%s", diff)
	}

	restored, err := s.Restore(WithFetcher(noFetch))
	if err != nil {
		t.Fatal(err)
	}
	checkConsistent(t, restored)
	if !Equal(d, restored) {
		t.Error("a restored document should equal its source")
	}
	if diff := cmp.Diff(d.IDs(), restored.IDs()); diff != "" {
		t.Errorf("IDs() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(s, TakeSnapshot(restored)); diff != "" {
		t.Errorf("snapshot of the restored document mismatch (-want +got):\n%s", diff)
	}

	it, _ := restored.EntityByID("whole")
	r := it.(*Range)
	if r.NodeType() != XPathPointerRangeNode || !r.Begin().IsOpen() || !r.End().IsOpen() {
		t.Errorf("restored range = %v", r)
	}
	if restored.Assertions().Len() != 1 {
		t.Errorf("Assertions().Len() = %d, want 1", restored.Assertions().Len())
	}
}

func TestSnapshotRestoreErrors(t *testing.T) {
	base := func() *Snapshot {
		return &Snapshot{
			ID:         "http://example.org/doc",
			Docuverses: []DocuverseRecord{{ID: "http://example.org/doc/t", Kind: "StringDocuverse", Source: "abc"}},
			Ranges: []RangeRecord{{
				ID: "http://example.org/doc/r", Kind: "PointerRange", Docuverse: "http://example.org/doc/t",
			}},
			MarkupItems: []MarkupRecord{{
				ID: "http://example.org/doc/p", Kind: "Element", GeneralIdentifier: "p",
				Container: "List", Children: []string{"http://example.org/doc/r"},
			}},
			Roots: []string{"http://example.org/doc/p"},
		}
	}
	if _, err := base().Restore(); err != nil {
		t.Fatalf("Restore() of a valid snapshot error = %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Snapshot)
		check  func(error) bool
	}{
		{"bad docuverse kind", func(s *Snapshot) { s.Docuverses[0].Kind = "Blob" }, isInvalid},
		{"bad range kind", func(s *Snapshot) { s.Ranges[0].Kind = "Element" }, isInvalid},
		{"bad markup kind", func(s *Snapshot) { s.MarkupItems[0].Kind = "PointerRange" }, isInvalid},
		{"bad container", func(s *Snapshot) { s.MarkupItems[0].Container = "Heap" }, isInvalid},
		{"unknown docuverse", func(s *Snapshot) { s.Ranges[0].Docuverse = "nope" }, isNotFound},
		{"unknown child", func(s *Snapshot) { s.MarkupItems[0].Children = []string{"nope"} }, isNotFound},
		{"unknown root", func(s *Snapshot) { s.Roots = []string{"nope"} }, isNotFound},
		{"duplicate id", func(s *Snapshot) { s.MarkupItems[0].ID = "http://example.org/doc/r" }, isDuplicate},
		{"bad assertion", func(s *Snapshot) { s.Assertions = []string{"not n-triples"} }, func(err error) bool {
			return err != nil && strings.Contains(err.Error(), "restoring assertions")
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := base()
			tt.mutate(s)
			_, err := s.Restore()
			if !tt.check(err) {
				t.Errorf("Restore() error = %v", err)
			}
		})
	}
}

func isInvalid(err error) bool   { return errors.Is(err, errors.ErrInvalidInput) }
func isNotFound(err error) bool  { return errors.Is(err, errors.ErrNotFound) }
func isDuplicate(err error) bool { return errors.Is(err, errors.ErrDuplicateID) }

func TestCheckDetectsCorruption(t *testing.T) {
	tests := []struct {
		name    string
		corrupt func(a *alice)
		want    string
	}{
		{"child without parent link", func(a *alice) { a.doc.parents[a.r1.ID()].RemoveFirst(a.p.ID()) }, "not one of its parents"},
		{"parent without child link", func(a *alice) { a.doc.children[a.p.ID()].RemoveAll(a.r1.ID()) }, "not one of its children"},
		{"unindexed markup", func(a *alice) { a.doc.unindexMarkup(a.q) }, "not indexed"},
		{"stale range index", func(a *alice) { delete(a.doc.ranges, a.r2.key()) }, "indexed range"},
		{"docuverse back reference", func(a *alice) { a.dv.ranges.RemoveFirst(a.r3.ID()) }, "does not list"},
		{"stray parent set", func(a *alice) { a.doc.parents["ghost"] = collection.New[string](collection.Set) }, "live node"},
		{"container kind", func(a *alice) { a.q.container = Set }, "container of"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newAlice(t)
			checkConsistent(t, a.doc)
			tt.corrupt(a)
			err := a.doc.Check()
			if err == nil {
				t.Fatal("Check() = nil on a corrupted document")
			}
			wantKind(t, err, errors.KindInternal)
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Check() = %q, want it to mention %q", err, tt.want)
			}
		})
	}
}
