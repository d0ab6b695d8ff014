// Package rdf provides the small RDF model used by earmark documents: terms,
// triples, an indexed in-memory graph, the EARMARK and collections
// vocabularies, and an N-Triples parser and serializer.
package rdf

import (
	"strings"

	"github.com/FocuswithJustin/earmark/core/encoding"
)

// TermKind distinguishes the three kinds of RDF term.
type TermKind uint8

const (
	// KindIRI is an IRI reference.
	KindIRI TermKind = iota + 1
	// KindBlank is a blank node.
	KindBlank
	// KindLiteral is a literal, optionally typed or language-tagged.
	KindLiteral
)

// String returns the kind name.
func (k TermKind) String() string {
	switch k {
	case KindIRI:
		return "iri"
	case KindBlank:
		return "blank"
	case KindLiteral:
		return "literal"
	default:
		return "invalid"
	}
}

// Term is an RDF term. Terms are comparable and can be used as map keys.
// A literal with neither Datatype nor Lang is a simple (xsd:string) literal.
type Term struct {
	Kind     TermKind
	Value    string
	Datatype string
	Lang     string
}

// IRI returns an IRI term.
func IRI(iri string) Term { return Term{Kind: KindIRI, Value: iri} }

// Blank returns a blank node term with the given label.
func Blank(label string) Term { return Term{Kind: KindBlank, Value: label} }

// Literal returns a simple literal.
func Literal(value string) Term { return Term{Kind: KindLiteral, Value: value} }

// TypedLiteral returns a literal with a datatype IRI. xsd:string literals
// are normalized to simple literals.
func TypedLiteral(value, datatype string) Term {
	if datatype == XSDString {
		datatype = ""
	}
	return Term{Kind: KindLiteral, Value: value, Datatype: datatype}
}

// LangLiteral returns a language-tagged literal.
func LangLiteral(value, lang string) Term {
	return Term{Kind: KindLiteral, Value: value, Lang: strings.ToLower(lang)}
}

// IsZero reports whether t is the zero Term.
func (t Term) IsZero() bool { return t.Kind == 0 }

// IsIRI reports whether t is an IRI.
func (t Term) IsIRI() bool { return t.Kind == KindIRI }

// IsBlank reports whether t is a blank node.
func (t Term) IsBlank() bool { return t.Kind == KindBlank }

// IsLiteral reports whether t is a literal.
func (t Term) IsLiteral() bool { return t.Kind == KindLiteral }

// IsResource reports whether t can be the subject of a triple.
func (t Term) IsResource() bool { return t.Kind == KindIRI || t.Kind == KindBlank }

// String renders t in N-Triples syntax.
func (t Term) String() string {
	switch t.Kind {
	case KindIRI:
		return "<" + encoding.EscapeNTriplesIRI(t.Value) + ">"
	case KindBlank:
		return "_:" + t.Value
	case KindLiteral:
		s := `"` + encoding.EscapeNTriplesString(t.Value) + `"`
		switch {
		case t.Lang != "":
			s += "@" + t.Lang
		case t.Datatype != "":
			s += "^^<" + encoding.EscapeNTriplesIRI(t.Datatype) + ">"
		}
		return s
	default:
		return ""
	}
}

// Triple is an RDF statement.
type Triple struct {
	Subject   Term
	Predicate Term
	Object    Term
}

// T builds a triple.
func T(s, p, o Term) Triple { return Triple{Subject: s, Predicate: p, Object: o} }

// String renders the triple as one N-Triples line without the newline.
func (t Triple) String() string {
	return t.Subject.String() + " " + t.Predicate.String() + " " + t.Object.String() + " ."
}

// Valid reports whether the triple respects the RDF term positions.
func (t Triple) Valid() bool {
	return t.Subject.IsResource() && t.Predicate.IsIRI() && !t.Object.IsZero()
}
