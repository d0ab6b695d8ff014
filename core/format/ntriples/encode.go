package ntriples

import (
	"strconv"

	"github.com/FocuswithJustin/earmark/core/earmark"
	"github.com/FocuswithJustin/earmark/core/rdf"
)

// EncodeOptions controls Encode.
type EncodeOptions struct {
	StandardStatements bool
}

type encoder struct {
	g    *rdf.Graph
	opts EncodeOptions
}

// Encode returns the RDF graph of doc, including its assertions.
func Encode(doc *earmark.Document, opts EncodeOptions) *rdf.Graph {
	e := &encoder{g: doc.Assertions().Clone(), opts: opts}
	if doc.ID() != "" {
		e.g.Add(rdf.T(rdf.IRI(doc.ID()), rdf.Type, rdf.OWLOntology))
	}
	for _, dv := range doc.AllDocuverses() {
		e.docuverse(dv)
	}
	for _, r := range doc.AllRanges() {
		e.rangeNode(r)
	}
	for _, m := range doc.AllMarkupItems() {
		e.markupItem(m)
	}
	return e.g
}

func (e *encoder) add(s, p, o rdf.Term) {
	e.g.Add(rdf.T(s, p, o))
}

func (e *encoder) standard(s, p, o rdf.Term) {
	if e.opts.StandardStatements {
		e.add(s, p, o)
	}
}

func (e *encoder) docuverse(dv *earmark.Docuverse) {
	s := earmark.TermOf(dv)
	switch dv.Kind() {
	case earmark.URIDocuverseType:
		e.add(s, rdf.HasContent, rdf.TypedLiteral(dv.Source(), rdf.XSDAnyURI))
		e.standard(s, rdf.Type, rdf.URIDocuverse)
	default:
		e.add(s, rdf.HasContent, rdf.Literal(dv.Source()))
		e.standard(s, rdf.Type, rdf.StringDocuverse)
	}
}

func (e *encoder) rangeNode(r *earmark.Range) {
	s := earmark.TermOf(r)
	if n, ok := r.Begin().Offset(); ok {
		e.add(s, rdf.Begins, nonNegative(n))
	}
	if n, ok := r.End().Offset(); ok {
		e.add(s, rdf.Ends, nonNegative(n))
	}
	e.add(s, rdf.RefersTo, earmark.TermOf(r.Docuverse()))
	if r.NodeType() == earmark.XPathPointerRangeNode {
		e.add(s, rdf.Type, rdf.XPathPointerRange)
		if r.XPathContext() != "" {
			e.add(s, rdf.HasXPathContext, rdf.Literal(r.XPathContext()))
		}
		return
	}
	e.add(s, rdf.Type, rdf.PointerRange)
}

func (e *encoder) markupItem(m *earmark.MarkupItem) {
	s := earmark.TermOf(m)
	if gi := m.GeneralIdentifier(); gi != "" {
		e.add(s, rdf.HasGeneralIdentifier, rdf.Literal(gi))
	}
	if ns := m.Namespace(); ns != "" {
		e.add(s, rdf.HasNamespace, rdf.TypedLiteral(ns, rdf.XSDAnyURI))
	}
	e.add(s, rdf.Type, markupClass[m.NodeType()])

	children := m.ChildNodes()
	// A non-empty List or Bag is recognizable from its links.
	if m.ContainerType() == earmark.Set || len(children) == 0 {
		e.add(s, rdf.Type, collectionClass[m.ContainerType()])
	} else {
		e.standard(s, rdf.Type, collectionClass[m.ContainerType()])
	}
	e.standard(s, rdf.Size, rdf.TypedLiteral(strconv.Itoa(len(children)), rdf.XSDInt))

	switch m.ContainerType() {
	case earmark.List:
		var prev rdf.Term
		for i, child := range children {
			item := e.g.NewBlank()
			switch {
			case i == 0:
				e.add(s, rdf.FirstItem, item)
			case i == len(children)-1:
				e.standard(s, rdf.LastItem, item)
			default:
				e.standard(s, rdf.ItemProp, item)
			}
			e.standard(item, rdf.Type, rdf.ListItem)
			e.add(item, rdf.ItemContent, earmark.TermOf(child))
			if !prev.IsZero() {
				e.add(prev, rdf.NextItem, item)
				e.standard(item, rdf.PreviousItem, prev)
			}
			prev = item
		}
	case earmark.Bag:
		for _, child := range children {
			item := e.g.NewBlank()
			e.add(s, rdf.ItemProp, item)
			e.add(item, rdf.ItemContent, earmark.TermOf(child))
			e.standard(item, rdf.Type, rdf.Item)
		}
	default:
		for _, child := range children {
			e.add(s, rdf.ElementProp, earmark.TermOf(child))
		}
	}
}

func nonNegative(n int) rdf.Term {
	return rdf.TypedLiteral(strconv.Itoa(n), rdf.XSDNonNegativeInteger)
}

var markupClass = map[earmark.NodeType]rdf.Term{
	earmark.ElementNode:   rdf.Element,
	earmark.AttributeNode: rdf.Attribute,
	earmark.CommentNode:   rdf.Comment,
}

var collectionClass = map[earmark.ContainerType]rdf.Term{
	earmark.List: rdf.List,
	earmark.Bag:  rdf.Bag,
	earmark.Set:  rdf.Set,
}
