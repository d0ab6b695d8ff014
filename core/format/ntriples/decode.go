package ntriples

import (
	"sort"
	"strconv"

	"github.com/FocuswithJustin/earmark/core/earmark"
	"github.com/FocuswithJustin/earmark/core/errors"
	"github.com/FocuswithJustin/earmark/core/rdf"
)

type decoder struct {
	g     *rdf.Graph
	doc   *earmark.Document
	used  map[rdf.Triple]bool
	dvs   map[rdf.Term]*earmark.Docuverse
	nodes map[rdf.Term]earmark.ChildNode
	items []rdf.Term
}

// Decode builds a document from g. Resources that cannot be turned into
// entities are skipped with a warning; statements outside the markup graph
// become assertions of the document.
func Decode(g *rdf.Graph, opts ...earmark.Option) (*earmark.Document, error) {
	d := &decoder{
		g:     g,
		used:  make(map[rdf.Triple]bool),
		dvs:   make(map[rdf.Term]*earmark.Docuverse),
		nodes: make(map[rdf.Term]earmark.ChildNode),
	}
	d.doc = earmark.NewDocument(d.documentID(), opts...)

	d.readDocuverses()
	d.readRanges()
	d.readMarkupItems()
	d.linkChildren()

	for _, t := range g.Triples() {
		if d.used[t] {
			continue
		}
		if err := d.doc.Assert(t.Subject, t.Predicate, t.Object); err != nil {
			return nil, errors.Wrap(err, "keeping assertion")
		}
	}
	return d.doc, nil
}

func (d *decoder) take(s, p rdf.Term) []rdf.Term {
	ts := d.g.Match(s, p, rdf.Term{})
	out := make([]rdf.Term, len(ts))
	for i, t := range ts {
		d.used[t] = true
		out[i] = t.Object
	}
	return out
}

func (d *decoder) first(s, p rdf.Term) (rdf.Term, bool) {
	objs := d.take(s, p)
	if len(objs) == 0 {
		return rdf.Term{}, false
	}
	return objs[0], true
}

func (d *decoder) drop(s, p, o rdf.Term) {
	if t := rdf.T(s, p, o); d.g.Has(t) {
		d.used[t] = true
	}
}

func (d *decoder) hasType(s, class rdf.Term) bool {
	return d.g.Has(rdf.T(s, rdf.Type, class))
}

func (d *decoder) dropStandardTypes(s rdf.Term) {
	d.drop(s, rdf.Type, rdf.OWLThing)
	d.drop(s, rdf.Type, rdf.OWLNamedIndividual)
}

func (d *decoder) warn(s rdf.Term, reason string, err error) {
	args := []any{"resource", s.Value, "reason", reason}
	if err != nil {
		args = append(args, "error", err.Error())
	}
	d.doc.Logger().Warn("resource_skipped", args...)
}

// subjects returns the IRI subjects having any of the predicates or any of
// the types, sorted.
func (d *decoder) subjects(predicates []rdf.Term, classes []rdf.Term) []rdf.Term {
	seen := make(map[rdf.Term]bool)
	for _, p := range predicates {
		for _, s := range d.g.Subjects(p, rdf.Term{}) {
			seen[s] = true
		}
	}
	for _, c := range classes {
		for _, s := range d.g.Subjects(rdf.Type, c) {
			seen[s] = true
		}
	}
	out := make([]rdf.Term, 0, len(seen))
	for s := range seen {
		if s.IsIRI() {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Value < out[j].Value })
	return out
}

func (d *decoder) documentID() string {
	for _, s := range d.g.Subjects(rdf.Type, rdf.OWLOntology) {
		if s.IsIRI() {
			d.drop(s, rdf.Type, rdf.OWLOntology)
			d.dropStandardTypes(s)
			return s.Value
		}
	}
	return ""
}

func (d *decoder) readDocuverses() {
	for _, s := range d.subjects([]rdf.Term{rdf.HasContent}, []rdf.Term{rdf.Docuverse, rdf.StringDocuverse, rdf.URIDocuverse}) {
		content, ok := d.first(s, rdf.HasContent)
		if !ok {
			d.warn(s, "docuverse without content", nil)
			continue
		}
		uri := d.hasType(s, rdf.URIDocuverse) ||
			(!d.hasType(s, rdf.StringDocuverse) && content.Datatype == rdf.XSDAnyURI)
		for _, c := range []rdf.Term{rdf.Docuverse, rdf.StringDocuverse, rdf.URIDocuverse} {
			d.drop(s, rdf.Type, c)
		}
		d.dropStandardTypes(s)

		var dv *earmark.Docuverse
		var err error
		if uri {
			dv, err = d.doc.CreateURIDocuverseWithID(s.Value, content.Value)
		} else {
			dv, err = d.doc.CreateStringDocuverseWithID(s.Value, content.Value)
		}
		if err != nil {
			d.warn(s, "docuverse not created", err)
			continue
		}
		d.dvs[s] = dv
	}
}

func (d *decoder) readRanges() {
	rangeClasses := []rdf.Term{rdf.Range, rdf.PointerRange, rdf.XPathRange, rdf.XPathPointerRange}
	for _, s := range d.subjects([]rdf.Term{rdf.Begins, rdf.Ends, rdf.RefersTo, rdf.HasXPathContext}, rangeClasses) {
		kind := earmark.PointerRangeNode
		if d.hasType(s, rdf.XPathPointerRange) || d.hasType(s, rdf.XPathRange) || len(d.g.Objects(s, rdf.HasXPathContext)) > 0 {
			kind = earmark.XPathPointerRangeNode
		}
		begin := d.location(s, rdf.Begins)
		end := d.location(s, rdf.Ends)
		var xpath string
		if x, ok := d.first(s, rdf.HasXPathContext); ok {
			xpath = x.Value
		}
		ref, _ := d.first(s, rdf.RefersTo)
		for _, c := range rangeClasses {
			d.drop(s, rdf.Type, c)
		}
		d.dropStandardTypes(s)

		dv, ok := d.dvs[ref]
		if !ok {
			d.warn(s, "range refers to an unknown docuverse", nil)
			continue
		}
		r, err := d.doc.CreateRange(kind, s.Value, dv, begin, end, xpath)
		if err != nil {
			d.warn(s, "range not created", err)
			continue
		}
		d.nodes[s] = r
	}
}

func (d *decoder) location(s, p rdf.Term) earmark.Location {
	v, ok := d.first(s, p)
	if !ok {
		return earmark.Open
	}
	n, err := strconv.Atoi(v.Value)
	if err != nil {
		d.warn(s, "location is not an integer", err)
		return earmark.Open
	}
	return earmark.At(n)
}

func (d *decoder) readMarkupItems() {
	markupClasses := []rdf.Term{rdf.MarkupItem, rdf.Element, rdf.Attribute, rdf.Comment}
	for _, s := range d.subjects([]rdf.Term{rdf.HasGeneralIdentifier, rdf.HasNamespace}, markupClasses) {
		kind := earmark.ElementNode
		switch {
		case d.hasType(s, rdf.Attribute):
			kind = earmark.AttributeNode
		case d.hasType(s, rdf.Comment):
			kind = earmark.CommentNode
		}
		var gi, ns string
		if v, ok := d.first(s, rdf.HasGeneralIdentifier); ok {
			gi = v.Value
		}
		if v, ok := d.first(s, rdf.HasNamespace); ok {
			ns = v.Value
		}
		ct := d.containerType(s)
		for _, c := range markupClasses {
			d.drop(s, rdf.Type, c)
		}
		for _, c := range []rdf.Term{rdf.Collection, rdf.List, rdf.Bag, rdf.Set} {
			d.drop(s, rdf.Type, c)
		}
		d.take(s, rdf.Size)
		d.dropStandardTypes(s)

		m, err := d.doc.CreateMarkupItem(kind, s.Value, gi, ns, ct)
		if err != nil {
			d.warn(s, "markup item not created", err)
			continue
		}
		d.nodes[s] = m
		d.items = append(d.items, s)
	}
}

func (d *decoder) containerType(s rdf.Term) earmark.ContainerType {
	switch {
	case d.hasType(s, rdf.List):
		return earmark.List
	case d.hasType(s, rdf.Bag):
		return earmark.Bag
	case d.hasType(s, rdf.Set):
		return earmark.Set
	case len(d.g.Objects(s, rdf.FirstItem)) > 0 || len(d.g.Objects(s, rdf.LastItem)) > 0:
		return earmark.List
	case len(d.g.Objects(s, rdf.ItemProp)) > 0:
		return earmark.Bag
	case len(d.g.Objects(s, rdf.ElementProp)) > 0:
		return earmark.Set
	default:
		return earmark.List
	}
}

func (d *decoder) linkChildren() {
	linked := make(map[rdf.Term]bool)
	for _, s := range d.items {
		m := d.nodes[s].(*earmark.MarkupItem)
		var contents []rdf.Term
		switch m.ContainerType() {
		case earmark.Set:
			contents = d.take(s, rdf.ElementProp)
		case earmark.Bag:
			for _, item := range d.take(s, rdf.ItemProp) {
				contents = append(contents, d.itemContent(item)...)
			}
		default:
			contents = d.listContents(s)
		}
		for _, c := range contents {
			child, ok := d.nodes[c]
			if !ok {
				d.warn(c, "child of "+s.Value+" is not a markup item or range", nil)
				continue
			}
			if err := m.AppendChild(child); err != nil {
				d.warn(c, "child not appended", err)
				continue
			}
			linked[c] = true
		}
	}

	var roots []rdf.Term
	for s := range d.nodes {
		if !linked[s] {
			roots = append(roots, s)
		}
	}
	sort.Slice(roots, func(i, j int) bool { return roots[i].Value < roots[j].Value })
	for _, s := range roots {
		if err := d.doc.AppendChild(d.nodes[s]); err != nil {
			d.warn(s, "root not appended", err)
		}
	}
}

func (d *decoder) itemContent(item rdf.Term) []rdf.Term {
	d.drop(item, rdf.Type, rdf.Item)
	d.drop(item, rdf.Type, rdf.ListItem)
	d.dropStandardTypes(item)
	return d.take(item, rdf.ItemContent)
}

func (d *decoder) listContents(s rdf.Term) []rdf.Term {
	d.take(s, rdf.LastItem)
	// Middle items may be linked with co:item as well.
	d.take(s, rdf.ItemProp)
	var out []rdf.Term
	seen := make(map[rdf.Term]bool)
	item, ok := d.first(s, rdf.FirstItem)
	for ok && !seen[item] {
		seen[item] = true
		out = append(out, d.itemContent(item)...)
		d.take(item, rdf.PreviousItem)
		item, ok = d.first(item, rdf.NextItem)
	}
	return out
}
