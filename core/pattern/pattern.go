// Package pattern classifies the elements of a document into structural
// patterns (Milestone, Meta, Atom, Inline, Block, Container, Record and
// Table).
//
// Elements are grouped by namespace and general identifier; every element
// of a group gets the same pattern. Classification looks at what the
// members of a group contain (text, elements, both or nothing) and at
// where they are contained.
package pattern

import (
	"slices"

	"github.com/FocuswithJustin/earmark/core/earmark"
	"github.com/FocuswithJustin/earmark/core/rdf"
)

// Namespace is the pattern ontology namespace.
const Namespace = "http://www.essepuntato.it/2008/12/pattern#"

// Ontology is the pattern ontology IRI imported by annotated documents.
const Ontology = "http://www.essepuntato.it/2008/12/pattern"

// Pattern is a structural pattern.
type Pattern int

const (
	Unknown Pattern = iota
	Milestone
	Meta
	Atom
	Inline
	Block
	Container
	Record
	Table
)

var patternNames = [...]string{"Unknown", "Milestone", "Meta", "Atom", "Inline", "Block", "Container", "Record", "Table"}

func (p Pattern) String() string {
	if p < 0 || int(p) >= len(patternNames) {
		return "Unknown"
	}
	return patternNames[p]
}

// Term returns the ontology class of p.
func (p Pattern) Term() rdf.Term {
	return rdf.IRI(Namespace + p.String())
}

// RootElement is the class asserted for root elements by Annotate.
var RootElement = rdf.IRI(Namespace + "RootElement")

// Key identifies a group of elements.
type Key struct {
	Namespace         string
	GeneralIdentifier string
}

// KeyOf returns the group key of m.
func KeyOf(m *earmark.MarkupItem) Key {
	return Key{Namespace: m.Namespace(), GeneralIdentifier: m.GeneralIdentifier()}
}

func (k Key) String() string {
	if k.Namespace == "" {
		return k.GeneralIdentifier
	}
	return k.Namespace + "#" + k.GeneralIdentifier
}

func (k Key) less(o Key) bool {
	if k.Namespace != o.Namespace {
		return k.Namespace < o.Namespace
	}
	return k.GeneralIdentifier < o.GeneralIdentifier
}

// Result maps element groups to their pattern.
type Result struct {
	patterns map[Key]Pattern
	members  map[Key][]*earmark.MarkupItem
}

// Of returns the pattern of m, or Unknown if m is not a classified element.
func (r *Result) Of(m *earmark.MarkupItem) Pattern {
	return r.patterns[KeyOf(m)]
}

// Pattern returns the pattern of the group k.
func (r *Result) Pattern(k Key) Pattern {
	return r.patterns[k]
}

// Keys returns every group key, sorted.
func (r *Result) Keys() []Key {
	keys := make([]Key, 0, len(r.patterns))
	for k := range r.patterns {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b Key) int {
		switch {
		case a.less(b):
			return -1
		case b.less(a):
			return 1
		}
		return 0
	})
	return keys
}

// Groups returns the sorted keys classified as p.
func (r *Result) Groups(p Pattern) []Key {
	var out []Key
	for _, k := range r.Keys() {
		if r.patterns[k] == p {
			out = append(out, k)
		}
	}
	return out
}

// Members returns the elements of group k, sorted by id.
func (r *Result) Members(k Key) []*earmark.MarkupItem {
	return slices.Clone(r.members[k])
}

// Annotate asserts the pattern class of every classified element, marks
// root elements and records the import of the pattern ontology on doc.
func Annotate(doc *earmark.Document, r *Result) error {
	for _, k := range r.Keys() {
		class := r.patterns[k].Term()
		for _, m := range r.members[k] {
			if err := doc.Assert(earmark.TermOf(m), rdf.Type, class); err != nil {
				return err
			}
		}
	}
	for _, m := range doc.ChildElements() {
		if err := doc.Assert(earmark.TermOf(m), rdf.Type, RootElement); err != nil {
			return err
		}
	}
	return doc.Assert(earmark.TermOf(doc), rdf.IRI(rdf.OWLNS+"imports"), rdf.IRI(Ontology))
}
