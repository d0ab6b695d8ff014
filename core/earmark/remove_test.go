package earmark

import (
	"testing"

	"github.com/FocuswithJustin/earmark/core/errors"
	"github.com/FocuswithJustin/earmark/core/rdf"
)

func TestRemoveRangeCascadesToDocuverse(t *testing.T) {
	d := newTestDocument(t, "http://example.org/doc")
	dv := d.CreateStringDocuverse("only text")
	r, err := d.CreatePointerRange(dv, Open, Open)
	if err != nil {
		t.Fatal(err)
	}
	p := d.CreateElement("p", "", List)
	mustDo(t, p.AppendChild(r))

	removed, err := d.RemoveRange(r)
	if err != nil || !removed {
		t.Fatalf("RemoveRange() = %v, %v; want true, nil", removed, err)
	}
	if got := len(d.AllDocuverses()); got != 0 {
		t.Errorf("len(AllDocuverses()) = %d, want 0", got)
	}
	if p.HasChildNodes() {
		t.Error("the parent still holds the removed range")
	}
	if _, ok := d.EntityByID(dv.ID()); ok {
		t.Error("the docuverse id is still bound")
	}

	removed, err = d.RemoveRange(r)
	if err != nil || removed {
		t.Errorf("second RemoveRange() = %v, %v; want false, nil", removed, err)
	}
	checkConsistent(t, d)
}

func TestRemoveRangeKeepsSharedDocuverse(t *testing.T) {
	a := newAlice(t)
	if _, err := a.doc.RemoveRange(a.r1); err != nil {
		t.Fatal(err)
	}
	if len(a.doc.AllDocuverses()) != 1 {
		t.Error("a docuverse with remaining ranges must survive")
	}
	if got, _ := a.p.TextContent(); got != aliceText2+aliceText4+aliceText3 {
		t.Errorf("p.TextContent() = %q", got)
	}

	r, err := a.doc.CreatePointerRange(a.dv, At(0), At(219))
	if err != nil {
		t.Fatal(err)
	}
	if r == a.r1 {
		t.Error("a removed range must not be returned by deduplication")
	}
	checkConsistent(t, a.doc)
}

func TestRemoveDocuverse(t *testing.T) {
	a := newAlice(t)
	removed, err := a.doc.RemoveDocuverse(a.dv)
	if err != nil || removed {
		t.Errorf("RemoveDocuverse() of a referenced docuverse = %v, %v; want false, nil", removed, err)
	}

	unused := a.doc.CreateURIDocuverse("http://example.org/unused")
	removed, err = a.doc.RemoveDocuverse(unused)
	if err != nil || !removed {
		t.Errorf("RemoveDocuverse() = %v, %v; want true, nil", removed, err)
	}
	if unused.Fetched() {
		t.Error("removal should not fetch")
	}
	checkConsistent(t, a.doc)
}

func TestPartialRemoval(t *testing.T) {
	p := newParadise(t, "http://example.org/paradise")
	d := p.doc
	shared := p.r[1] // in verse1 and unit1

	removed, err := d.RemoveMarkupItem(p.verse1, false)
	if err != nil || !removed {
		t.Fatalf("RemoveMarkupItem() = %v, %v", removed, err)
	}
	if _, ok := d.EntityByID(shared.ID()); !ok {
		t.Fatal("a child with another parent must survive a weak removal")
	}
	if _, ok := d.EntityByID(p.r[0].ID()); ok {
		t.Error("a child whose only parent was removed must go too")
	}
	if shared.ParentNode() != ParentNode(p.unit1) {
		t.Errorf("ParentNode() = %v, want %v", shared.ParentNode(), p.unit1)
	}
	if got := len(p.stanza.ChildNodes()); got != 2 {
		t.Errorf("stanza children = %d, want 2", got)
	}
	checkConsistent(t, d)

	if _, err := d.RemoveMarkupItem(p.unit1, false); err != nil {
		t.Fatal(err)
	}
	if _, ok := d.EntityByID(shared.ID()); ok {
		t.Error("the child must go once its last parent is removed")
	}
	if _, ok := d.EntityByID(p.r[2].ID()); !ok {
		t.Error("r[2] still belongs to verse2")
	}
	checkConsistent(t, d)
}

func TestStrongRemoval(t *testing.T) {
	p := newParadise(t, "http://example.org/paradise")
	d := p.doc

	if _, err := d.RemoveMarkupItem(p.syntax, true); err != nil {
		t.Fatal(err)
	}
	for _, r := range p.r[1:5] {
		if _, ok := d.EntityByID(r.ID()); ok {
			t.Errorf("%s should be removed by a strong removal", r.ID())
		}
	}
	for _, r := range []*Range{p.r[0], p.r[5]} {
		if _, ok := d.EntityByID(r.ID()); !ok {
			t.Errorf("%s is not under syntax and must survive", r.ID())
		}
	}
	if got, _ := p.verse1.TextContent(); got != "Of Man's first disobedience," {
		t.Errorf("verse1.TextContent() = %q", got)
	}
	if got := len(d.AllMarkupItems()); got != 4 {
		t.Errorf("len(AllMarkupItems()) = %d, want 4", got)
	}
	if len(d.MarkupItemsByGeneralIdentifier("span")) != 0 {
		t.Error("removed items are still indexed")
	}
	checkConsistent(t, d)
}

func TestRemoveMarkupItemWithSharedSubtree(t *testing.T) {
	d := newTestDocument(t, "http://example.org/doc")
	outer := d.CreateElement("outer", "", List)
	inner := d.CreateElement("inner", "", List)
	leaf := d.CreateElement("leaf", "", List)
	mustDo(t, outer.AppendChild(inner))
	mustDo(t, outer.AppendChild(inner))
	mustDo(t, inner.AppendChild(leaf))
	mustDo(t, inner.AppendChild(inner))

	if _, err := d.RemoveMarkupItem(outer, false); err != nil {
		t.Fatal(err)
	}
	// inner kept itself as a parent, so it survives a weak removal.
	if _, ok := d.EntityByID(inner.ID()); !ok {
		t.Error("inner is still its own parent")
	}
	checkConsistent(t, d)

	if _, err := d.RemoveMarkupItem(inner, true); err != nil {
		t.Fatal(err)
	}
	if d.Len() != 0 {
		t.Errorf("Len() = %d after strong removal, want 0: %v", d.Len(), d.IDs())
	}
	checkConsistent(t, d)
}

func TestRemovePurgesSideStores(t *testing.T) {
	a := newAlice(t)
	d := a.doc
	mustDo(t, d.SetUserData(a.q, "k", 1))
	mustDo(t, d.Assert(TermOf(a.q), rdf.IRI("http://example.org/p"), rdf.Literal("v")))
	mustDo(t, d.Assert(rdf.IRI("http://example.org/s"), rdf.IRI("http://example.org/p"), TermOf(a.q)))
	if _, err := d.AddLinguisticAct(a.q, rdf.IRI("http://example.org/ref"), rdf.Term{}, rdf.Term{}); err != nil {
		t.Fatal(err)
	}

	if _, err := d.RemoveMarkupItem(a.q, false); err != nil {
		t.Fatal(err)
	}
	if _, ok := d.userData[a.q.ID()]; ok {
		t.Error("user data survived removal")
	}
	if n := d.Assertions().Len(); n != 0 {
		t.Errorf("Assertions().Len() = %d, want 0: %v", n, d.Assertions().Triples())
	}
	if _, ok := d.EntityByID(a.r2.ID()); ok {
		t.Error("r2 only belonged to q")
	}
	checkConsistent(t, d)
}

func TestRemoveErrors(t *testing.T) {
	a := newAlice(t)
	other := newTestDocument(t, "http://example.org/other")

	_, err := other.RemoveRange(a.r1)
	wantKind(t, err, errors.KindWrongDocument)
	_, err = other.RemoveMarkupItem(a.p, true)
	wantKind(t, err, errors.KindWrongDocument)
	_, err = other.RemoveDocuverse(a.dv)
	wantKind(t, err, errors.KindWrongDocument)

	var nilRange *Range
	if removed, err := a.doc.RemoveRange(nilRange); removed || err != nil {
		t.Errorf("RemoveRange(nil) = %v, %v; want false, nil", removed, err)
	}
	if removed, err := a.doc.RemoveNode(nil, false); removed || err == nil {
		t.Errorf("RemoveNode(nil) = %v, %v; want an error", removed, err)
	}
	if removed, err := a.doc.RemoveNode(a.q, false); !removed || err != nil {
		t.Errorf("RemoveNode(q) = %v, %v", removed, err)
	}
	checkConsistent(t, a.doc)
}
