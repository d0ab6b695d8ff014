package earmark

import (
	"fmt"
	"slices"
	"unicode/utf8"

	"github.com/FocuswithJustin/earmark/core/collection"
	"github.com/FocuswithJustin/earmark/core/errors"
	"github.com/FocuswithJustin/earmark/core/xml"
)

// Range projects a span of a docuverse into the graph. Offsets count
// Unicode code points.
type Range struct {
	doc       *Document
	id        string
	kind      NodeType
	docuverse *Docuverse
	begin     Location
	end       Location
	xpath     string
}

// ID returns the range id.
func (r *Range) ID() string {
	if r == nil {
		return ""
	}
	return r.id
}

// LocalID returns the last segment of the id.
func (r *Range) LocalID() string { return localID(r.ID()) }

// OwnerDocument returns the document the range was created in.
func (r *Range) OwnerDocument() *Document {
	if r == nil {
		return nil
	}
	return r.doc
}

// NodeType returns PointerRangeNode or XPathPointerRangeNode.
func (r *Range) NodeType() NodeType { return r.kind }

// Docuverse returns the docuverse the range refers to.
func (r *Range) Docuverse() *Docuverse { return r.docuverse }

// Begin returns the begin location.
func (r *Range) Begin() Location { return r.begin }

// End returns the end location.
func (r *Range) End() Location { return r.end }

// XPathContext returns the XPath expression of an XPathPointerRange, ""
// when absent or for a PointerRange.
func (r *Range) XPathContext() string { return r.xpath }

func (r *Range) key() rangeKey {
	return rangeKey{docuverse: r.docuverse, kind: r.kind, begin: r.begin, end: r.end, xpath: r.xpath}
}

func (r *Range) childNode() {}

func (r *Range) String() string {
	s := fmt.Sprintf("%s(%s %s [%s,%s])", r.kind, r.id, r.docuverse.ID(), r.begin, r.end)
	if r.kind == XPathPointerRangeNode {
		s += fmt.Sprintf(" xpath=%q", r.xpath)
	}
	return s
}

// content returns the text the offsets apply to: the docuverse content,
// filtered through the XPath context for an XPathPointerRange.
func (r *Range) content() string {
	content := r.docuverse.Content()
	if r.kind != XPathPointerRangeNode {
		return content
	}
	text, err := xml.SelectText(content, r.xpath)
	if err != nil {
		args := []any{"range", r.id, "xpath", r.xpath, "error", err}
		var verr *xml.ValidationError
		if errors.As(err, &verr) {
			args = append(args, "line", verr.Line)
		}
		r.doc.logger.Debug("xpath range has no content", args...)
		return ""
	}
	return text
}

// TextContent returns the text of the range. Open locations stand for the
// start and the end of the content; when end < begin the span is read
// backwards. The second result is false when a location lies beyond the
// content.
func (r *Range) TextContent() (string, bool) {
	content := r.content()
	n := utf8.RuneCountInString(content)

	begin, end := r.begin.or(0), r.end.or(n)
	reversed := end < begin
	if reversed {
		begin, end = end, begin
	}
	if begin < 0 || begin > n || end > n {
		return "", false
	}

	runes := []rune(content)[begin:end]
	if reversed {
		slices.Reverse(runes)
	}
	return string(runes), true
}

// ParentNode returns the first parent r was attached to, or nil.
func (r *Range) ParentNode() ParentNode { return r.doc.parentNode(r) }

// ParentNodes returns every parent, sorted by id.
func (r *Range) ParentNodes() []ParentNode { return r.doc.parentNodes(r) }

// NextSibling returns a next sibling, or nil.
func (r *Range) NextSibling() ChildNode { return r.doc.sibling(r, 1) }

// PreviousSibling returns a previous sibling, or nil.
func (r *Range) PreviousSibling() ChildNode { return r.doc.sibling(r, -1) }

// NextSiblings returns every next sibling across all parents.
func (r *Range) NextSiblings() []ChildNode { return r.doc.siblings(r, 1) }

// PreviousSiblings returns every previous sibling across all parents.
func (r *Range) PreviousSiblings() []ChildNode { return r.doc.siblings(r, -1) }

// Detach creates, in the same document, a copy of r that no longer depends
// on its docuverse: a new string docuverse holding the text of r and a
// range covering it. An XPathPointerRange is detached into an XML
// docuverse read with the default text selector. Open locations stay open.
func (r *Range) Detach() (*Range, error) {
	d := r.doc
	if !d.owns(r) {
		return nil, errors.NewWrongDocument("detach", r.id)
	}
	text, _ := r.TextContent()

	begin, end := Open, Open
	if !r.begin.IsOpen() {
		begin = At(0)
	}
	if !r.end.IsOpen() {
		end = At(utf8.RuneCountInString(text))
	}

	if r.kind == XPathPointerRangeNode {
		dv := d.CreateStringDocuverse(xml.WrapText(text))
		return d.CreateXPathPointerRange(dv, begin, end, xml.DefaultTextSelector)
	}
	dv := d.CreateStringDocuverse(text)
	return d.CreatePointerRange(dv, begin, end)
}

// CreatePointerRange creates, or returns the existing, pointer range over
// dv between begin and end.
func (d *Document) CreatePointerRange(dv *Docuverse, begin, end Location) (*Range, error) {
	return d.createRange("createPointerRange", PointerRangeNode, "", dv, begin, end, "")
}

// CreatePointerRangeWithID is CreatePointerRange with an explicit id. The id
// is checked before deduplication.
func (d *Document) CreatePointerRangeWithID(id string, dv *Docuverse, begin, end Location) (*Range, error) {
	if id == "" {
		return nil, errors.NewReservedID("createPointerRange")
	}
	return d.createRange("createPointerRange", PointerRangeNode, d.ResolveID(id), dv, begin, end, "")
}

// CreateXPathPointerRange creates, or returns the existing, XPath pointer
// range over dv.
func (d *Document) CreateXPathPointerRange(dv *Docuverse, begin, end Location, xpath string) (*Range, error) {
	return d.createRange("createXPathPointerRange", XPathPointerRangeNode, "", dv, begin, end, xpath)
}

// CreateXPathPointerRangeWithID is CreateXPathPointerRange with an explicit
// id.
func (d *Document) CreateXPathPointerRangeWithID(id string, dv *Docuverse, begin, end Location, xpath string) (*Range, error) {
	if id == "" {
		return nil, errors.NewReservedID("createXPathPointerRange")
	}
	return d.createRange("createXPathPointerRange", XPathPointerRangeNode, d.ResolveID(id), dv, begin, end, xpath)
}

// createRange registers a range under id, or a generated id when id is "".
func (d *Document) createRange(op string, kind NodeType, id string, dv *Docuverse, begin, end Location, xpath string) (*Range, error) {
	if dv == nil || !d.owns(dv) {
		return nil, errors.NewWrongDocument(op, dv.ID())
	}
	if id != "" {
		if err := d.checkFree(op, id); err != nil {
			return nil, err
		}
	}

	r := &Range{doc: d, kind: kind, docuverse: dv, begin: begin, end: end, xpath: xpath}
	if existing, ok := d.ranges[r.key()]; ok {
		return existing, nil
	}
	if id == "" {
		id = d.makeID(RangeHint)
	}
	r.id = id
	if err := d.register(op, id, r); err != nil {
		return nil, err
	}
	d.parents[id] = collection.New[string](collection.Set)
	d.ranges[r.key()] = r
	dv.ranges.Insert(id)
	return r, nil
}

// CreateRange creates a range of the given type. An empty id asks for a
// generated one.
func (d *Document) CreateRange(kind NodeType, id string, dv *Docuverse, begin, end Location, xpath string) (*Range, error) {
	if !kind.IsRange() {
		return nil, errors.NewValidation("kind", fmt.Sprintf("%s is not a range type", kind))
	}
	if kind == PointerRangeNode {
		xpath = ""
	}
	return d.createRange("createRange", kind, d.ResolveID(id), dv, begin, end, xpath)
}
