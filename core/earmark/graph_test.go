package earmark

import (
	"testing"

	"github.com/FocuswithJustin/earmark/core/errors"
	"github.com/google/go-cmp/cmp"
)

// graphFixture is a List element over three single-letter ranges.
type graphFixture struct {
	doc     *Document
	list    *MarkupItem
	a, b, c *Range
}

func newGraphFixture(t *testing.T, ct ContainerType) *graphFixture {
	t.Helper()
	rng := must[*Range](t)
	d := newTestDocument(t, "http://example.org/doc")
	dv := d.CreateStringDocuverse("abc")
	f := &graphFixture{doc: d, list: d.CreateElement("seq", "", ct)}
	f.a = rng(d.CreatePointerRange(dv, At(0), At(1)))
	f.b = rng(d.CreatePointerRange(dv, At(1), At(2)))
	f.c = rng(d.CreatePointerRange(dv, At(2), At(3)))
	mustDo(t, d.AppendChild(f.list))
	return f
}

func (f *graphFixture) text(t *testing.T) string {
	t.Helper()
	s, _ := f.list.TextContent()
	return s
}

func TestAppendChild(t *testing.T) {
	tests := []struct {
		ct   ContainerType
		want string
	}{
		{List, "abab"},
		{Bag, "abab"},
		{Set, "ab"},
	}
	for _, tt := range tests {
		t.Run(tt.ct.String(), func(t *testing.T) {
			f := newGraphFixture(t, tt.ct)
			for _, r := range []*Range{f.a, f.b, f.a, f.b} {
				mustDo(t, f.list.AppendChild(r))
			}
			if got := f.text(t); got != tt.want {
				t.Errorf("TextContent() = %q, want %q", got, tt.want)
			}
			if got := len(f.a.ParentNodes()); got != 1 {
				t.Errorf("len(ParentNodes()) = %d, want 1", got)
			}
			checkConsistent(t, f.doc)
		})
	}
}

func TestInsertBefore(t *testing.T) {
	f := newGraphFixture(t, List)
	for _, r := range []*Range{f.a, f.b, f.a} {
		mustDo(t, f.list.AppendChild(r))
	}

	mustDo(t, f.list.InsertBefore(f.c, f.a))
	if got := f.text(t); got != "caba" {
		t.Errorf("after InsertBefore(c, a) = %q, want caba", got)
	}
	mustDo(t, f.list.InsertBeforeOccurrence(f.c, f.a, 2))
	if got := f.text(t); got != "cabca" {
		t.Errorf("after InsertBeforeOccurrence(c, a, 2) = %q, want cabca", got)
	}
	mustDo(t, f.list.InsertBefore(f.b, nil))
	if got := f.text(t); got != "cabcab" {
		t.Errorf("after InsertBefore(b, nil) = %q, want cabcab", got)
	}

	err := f.list.InsertBeforeOccurrence(f.c, f.a, 3)
	wantKind(t, err, errors.KindNoChild)
	if got := f.text(t); got != "cabcab" {
		t.Errorf("failed insert changed the children: %q", got)
	}
	checkConsistent(t, f.doc)
}

func TestInsertBeforeIgnoresReferenceOutsideLists(t *testing.T) {
	f := newGraphFixture(t, Bag)
	mustDo(t, f.list.AppendChild(f.a))

	// c is not a child, yet a Bag appends regardless.
	mustDo(t, f.list.InsertBefore(f.b, f.c))
	if got := f.text(t); got != "ab" {
		t.Errorf("TextContent() = %q, want ab", got)
	}
	mustDo(t, f.doc.InsertBefore(f.a, f.c))
	if got := len(f.doc.Roots()); got != 2 {
		t.Errorf("len(Roots()) = %d, want 2", got)
	}
	checkConsistent(t, f.doc)
}

func TestRemoveChild(t *testing.T) {
	f := newGraphFixture(t, List)
	for _, r := range []*Range{f.a, f.b, f.a, f.c, f.a} {
		mustDo(t, f.list.AppendChild(r))
	}

	mustDo(t, f.list.RemoveChildOccurrence(f.a, 2))
	if got := f.text(t); got != "abca" {
		t.Errorf("after RemoveChildOccurrence(a, 2) = %q, want abca", got)
	}
	mustDo(t, f.list.RemoveChild(f.a))
	if got := f.text(t); got != "bca" {
		t.Errorf("after RemoveChild(a) = %q, want bca", got)
	}
	// One occurrence remains, so list is still a parent of a.
	if got := f.a.ParentNode(); got != ParentNode(f.list) {
		t.Errorf("ParentNode() = %v, want %v", got, f.list)
	}
	mustDo(t, f.list.RemoveChild(f.a))
	if got := f.a.ParentNode(); got != nil {
		t.Errorf("ParentNode() = %v after the last occurrence went, want nil", got)
	}

	wantKind(t, f.list.RemoveChild(f.a), errors.KindNoChild)
	wantKind(t, f.list.RemoveChildOccurrence(f.b, 2), errors.KindNoChild)
	checkConsistent(t, f.doc)
}

func TestRemoveAllChild(t *testing.T) {
	f := newGraphFixture(t, List)
	for _, r := range []*Range{f.a, f.b, f.a} {
		mustDo(t, f.list.AppendChild(r))
	}

	removed, err := f.list.RemoveAllChild(f.a)
	if err != nil || !removed {
		t.Fatalf("RemoveAllChild() = %v, %v; want true, nil", removed, err)
	}
	if got := f.text(t); got != "b" {
		t.Errorf("TextContent() = %q, want b", got)
	}
	removed, err = f.list.RemoveAllChild(f.a)
	if err != nil || removed {
		t.Errorf("second RemoveAllChild() = %v, %v; want false, nil", removed, err)
	}
	if len(f.a.ParentNodes()) != 0 {
		t.Error("removed child still lists the parent")
	}
	checkConsistent(t, f.doc)
}

func TestReplaceChild(t *testing.T) {
	f := newGraphFixture(t, List)
	for _, r := range []*Range{f.a, f.b, f.a} {
		mustDo(t, f.list.AppendChild(r))
	}

	mustDo(t, f.list.ReplaceChildOccurrence(f.c, f.a, 2))
	if got := f.text(t); got != "abc" {
		t.Errorf("after ReplaceChildOccurrence(c, a, 2) = %q, want abc", got)
	}
	if f.c.ParentNode() != ParentNode(f.list) || f.a.ParentNode() != ParentNode(f.list) {
		t.Error("both the old child (still present once) and the new one should have the parent")
	}

	mustDo(t, f.list.ReplaceChild(f.b, f.a))
	if got := f.text(t); got != "bbc" {
		t.Errorf("after ReplaceChild(b, a) = %q, want bbc", got)
	}
	if f.a.ParentNode() != nil {
		t.Error("replaced child still lists the parent")
	}

	wantKind(t, f.list.ReplaceChild(f.c, f.a), errors.KindNoChild)
	checkConsistent(t, f.doc)
}

func TestReplaceChildWithItself(t *testing.T) {
	f := newGraphFixture(t, List)
	mustDo(t, f.list.AppendChild(f.a))

	if err := f.list.ReplaceChild(f.a, f.a); err != nil {
		t.Errorf("ReplaceChild(a, a) error = %v, want nil", err)
	}
	if got := f.text(t); got != "a" {
		t.Errorf("TextContent() = %q, want a", got)
	}
	wantKind(t, f.list.ReplaceChild(f.b, f.b), errors.KindNoChild)

	replaced, err := f.list.ReplaceAllChild(f.a, f.a)
	if err != nil || replaced {
		t.Errorf("ReplaceAllChild(a, a) = %v, %v; want false, nil", replaced, err)
	}
	checkConsistent(t, f.doc)
}

func TestReplaceAllChild(t *testing.T) {
	f := newGraphFixture(t, Bag)
	for _, r := range []*Range{f.a, f.b, f.a} {
		mustDo(t, f.list.AppendChild(r))
	}

	replaced, err := f.list.ReplaceAllChild(f.c, f.a)
	if err != nil || !replaced {
		t.Fatalf("ReplaceAllChild() = %v, %v; want true, nil", replaced, err)
	}
	if got := f.text(t); got != "cbc" {
		t.Errorf("TextContent() = %q, want cbc", got)
	}
	replaced, err = f.list.ReplaceAllChild(f.c, f.a)
	if err != nil || replaced {
		t.Errorf("second ReplaceAllChild() = %v, %v; want false, nil", replaced, err)
	}
	checkConsistent(t, f.doc)
}

func TestReplaceInSetMergesDuplicates(t *testing.T) {
	f := newGraphFixture(t, Set)
	mustDo(t, f.list.AppendChild(f.a))
	mustDo(t, f.list.AppendChild(f.b))

	mustDo(t, f.list.ReplaceChild(f.b, f.a))
	if got := f.text(t); got != "b" {
		t.Errorf("TextContent() = %q, want b", got)
	}
	if f.a.ParentNode() != nil {
		t.Error("replaced member still lists the set as parent")
	}
	checkConsistent(t, f.doc)
}

func TestWrongDocument(t *testing.T) {
	f := newGraphFixture(t, List)
	other := newTestDocument(t, "http://example.org/other")
	foreign := other.CreateElement("x", "", List)

	tests := []struct {
		name string
		op   func() error
	}{
		{"append foreign child", func() error { return f.list.AppendChild(foreign) }},
		{"append to foreign parent", func() error { return foreign.AppendChild(f.a) }},
		{"append foreign child to root", func() error { return f.doc.AppendChild(foreign) }},
		{"insert before foreign reference", func() error {
			mustDo(t, f.list.AppendChild(f.a))
			return f.list.InsertBefore(f.b, foreign)
		}},
		{"remove foreign child", func() error { return f.list.RemoveChild(foreign) }},
		{"replace with foreign child", func() error { return f.list.ReplaceChild(foreign, f.a) }},
		{"replace foreign child", func() error { return f.list.ReplaceChild(f.b, foreign) }},
		{"remove all foreign", func() error {
			_, err := f.list.RemoveAllChild(foreign)
			return err
		}},
		{"replace all foreign", func() error {
			_, err := f.list.ReplaceAllChild(foreign, f.a)
			return err
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.op()
			wantKind(t, err, errors.KindWrongDocument)
			if !errors.Is(err, errors.ErrWrongDocument) {
				t.Errorf("errors.Is(%v, ErrWrongDocument) = false", err)
			}
		})
	}
	checkConsistent(t, f.doc)
	checkConsistent(t, other)
}

func TestRemovedNodesAreForeign(t *testing.T) {
	f := newGraphFixture(t, List)
	mustDo(t, f.list.AppendChild(f.a))
	if _, err := f.doc.RemoveRange(f.b); err != nil {
		t.Fatal(err)
	}
	wantKind(t, f.list.AppendChild(f.b), errors.KindWrongDocument)
	if got := f.b.ParentNodes(); got != nil {
		t.Errorf("ParentNodes() of a removed range = %v, want nil", got)
	}
}

func TestChildQueries(t *testing.T) {
	d := newTestDocument(t, "http://example.org/doc")
	root := d.CreateElement("root", "", List)
	elem := d.CreateElement("child", "", List)
	attr := d.CreateAttribute("lang", "", Set)
	comment := d.CreateComment("", "", List)
	mustDo(t, d.AppendChild(root))

	if root.HasChildNodes() || root.FirstChild() != nil || root.LastChild() != nil {
		t.Error("new element should have no children")
	}
	for _, c := range []ChildNode{attr, elem, comment} {
		mustDo(t, root.AppendChild(c))
	}

	if !root.HasChildNodes() {
		t.Error("HasChildNodes() = false")
	}
	if root.FirstChild() != ChildNode(attr) || root.LastChild() != ChildNode(comment) {
		t.Errorf("FirstChild()/LastChild() = %v/%v", root.FirstChild(), root.LastChild())
	}
	if diff := cmp.Diff([]string{elem.ID()}, ids(root.ChildElements())); diff != "" {
		t.Errorf("ChildElements() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{attr.ID()}, ids(root.Attributes())); diff != "" {
		t.Errorf("Attributes() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{comment.ID()}, ids(root.Comments())); diff != "" {
		t.Errorf("Comments() mismatch (-want +got):\n%s", diff)
	}
	if !root.HasAttributes() || !root.HasElementNodes() {
		t.Error("HasAttributes()/HasElementNodes() = false")
	}
	if !d.HasElementNodes() || d.HasAttributes() {
		t.Error("document root holds one element and no attribute")
	}
	if d.FirstChild() != ChildNode(root) || d.LastChild() != ChildNode(root) {
		t.Error("document FirstChild()/LastChild() should be the root element")
	}
	if elem.ParentNode() != ParentNode(root) {
		t.Errorf("ParentNode() = %v", elem.ParentNode())
	}
	if root.ParentNode() != ParentNode(d) {
		t.Errorf("root ParentNode() = %v, want the document", root.ParentNode())
	}
}

func TestSiblings(t *testing.T) {
	a := newAlice(t)

	tests := []struct {
		name string
		got  ChildNode
		want ChildNode
	}{
		{"r1 next", a.r1.NextSibling(), a.q},
		{"q next", a.q.NextSibling(), a.r3},
		{"q previous", a.q.PreviousSibling(), a.r1},
		{"r2 next", a.r2.NextSibling(), a.r4},
		{"r4 previous", a.r4.PreviousSibling(), a.r2},
		{"r1 previous", a.r1.PreviousSibling(), nil},
		{"r3 next", a.r3.NextSibling(), nil},
		{"root next", a.p.NextSibling(), nil},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestSiblingsAcrossParents(t *testing.T) {
	p := newParadise(t, "http://example.org/paradise")

	// r[1] ends verse1 and starts unit1.
	if diff := cmp.Diff([]string{p.r[2].ID()}, ids(p.r[1].NextSiblings())); diff != "" {
		t.Errorf("NextSiblings() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{p.r[0].ID()}, ids(p.r[1].PreviousSiblings())); diff != "" {
		t.Errorf("PreviousSiblings() mismatch (-want +got):\n%s", diff)
	}

	// r[2] starts verse2 and ends unit1.
	if diff := cmp.Diff([]string{p.r[3].ID()}, ids(p.r[2].NextSiblings())); diff != "" {
		t.Errorf("NextSiblings() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{p.r[1].ID()}, ids(p.r[2].PreviousSiblings())); diff != "" {
		t.Errorf("PreviousSiblings() mismatch (-want +got):\n%s", diff)
	}

	// In a Set every other member is a sibling in both directions.
	want := []string{p.verse1.ID(), p.verse3.ID()}
	if diff := cmp.Diff(want, ids(p.verse2.NextSiblings())); diff != "" {
		t.Errorf("Set NextSiblings() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, ids(p.verse2.PreviousSiblings())); diff != "" {
		t.Errorf("Set PreviousSiblings() mismatch (-want +got):\n%s", diff)
	}
	if got := p.verse2.NextSibling(); got != ChildNode(p.verse1) && got != ChildNode(p.verse3) {
		t.Errorf("Set NextSibling() = %v", got)
	}

	wantParents := []string{p.unit1.ID(), p.verse1.ID()}
	if diff := cmp.Diff(wantParents, ids(p.r[1].ParentNodes())); diff != "" {
		t.Errorf("ParentNodes() mismatch (-want +got):\n%s", diff)
	}
}

// TestModification edits the Alice document in place: the quotation is
// moved under a new element, a range is replaced and one is removed.
func TestModification(t *testing.T) {
	a := newAlice(t)
	d := a.doc

	em := d.CreateElement("em", "", List)
	mustDo(t, a.p.ReplaceChild(em, a.q))
	mustDo(t, em.AppendChild(a.q))
	if got, _ := d.TextContent(); got != aliceText1+aliceText2+aliceText4+aliceText3 {
		t.Errorf("TextContent() after wrapping q = %q", got)
	}
	if a.q.ParentNode() != ParentNode(em) || em.ParentNode() != ParentNode(a.p) {
		t.Error("q should now live under em, under p")
	}

	whole, err := d.CreatePointerRange(a.dv, At(219), At(297))
	if err != nil {
		t.Fatal(err)
	}
	mustDo(t, a.p.InsertBefore(whole, a.r3))
	if _, err := a.p.RemoveAllChild(a.r3); err != nil {
		t.Fatal(err)
	}
	if got, _ := a.p.TextContent(); got != aliceText1+aliceText2+aliceText4+aliceText2+aliceText3+aliceText4 {
		t.Errorf("p.TextContent() = %q", got)
	}

	if _, err := d.RemoveRange(a.r3); err != nil {
		t.Fatal(err)
	}
	if _, ok := d.EntityByID(a.r3.ID()); ok {
		t.Error("removed range still registered")
	}
	if got := len(d.AllNodes()); got != 7 {
		t.Errorf("len(AllNodes()) = %d, want 7", got)
	}
	checkConsistent(t, d)
}
