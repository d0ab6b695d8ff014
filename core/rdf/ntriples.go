package rdf

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/FocuswithJustin/earmark/core/encoding"
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// ntDocument is the participle grammar for an N-Triples document.
//
//nolint:govet // participle grammar tags are not standard struct tags
type ntDocument struct {
	Triples []*ntTriple `@@*`
}

//nolint:govet // participle grammar tags are not standard struct tags
type ntTriple struct {
	Pos       lexer.Position
	Subject   *ntTerm `@@`
	Predicate string  `@IRI`
	Object    *ntTerm `@@ "."`
}

//nolint:govet // participle grammar tags are not standard struct tags
type ntTerm struct {
	IRI     *string    `  @IRI`
	Blank   *string    `| @BNode`
	Literal *ntLiteral `| @@`
}

//nolint:govet // participle grammar tags are not standard struct tags
type ntLiteral struct {
	Value    string `@String`
	Datatype string `( "^^" @IRI`
	Lang     string `| @LangTag )?`
}

// ntLexer defines the tokens of N-Triples.
var ntLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "IRI", Pattern: `<(\\[uU][0-9A-Fa-f]+|[^<>"{}|^\x60\\\x00-\x20])*>`},
	{Name: "BNode", Pattern: `_:[A-Za-z0-9_]([A-Za-z0-9_.\-]*[A-Za-z0-9_\-])?`},
	{Name: "String", Pattern: `"(\\.|[^"\\\n\r])*"`},
	{Name: "LangTag", Pattern: `@[a-zA-Z]+(-[a-zA-Z0-9]+)*`},
	{Name: "Datatype", Pattern: `\^\^`},
	{Name: "Dot", Pattern: `\.`},
	{Name: "Comment", Pattern: `#[^\n]*`},
	{Name: "Whitespace", Pattern: `\s+`},
})

// ntParser is the participle parser for N-Triples.
var ntParser = participle.MustBuild[ntDocument](
	participle.Lexer(ntLexer),
	participle.Elide("Whitespace", "Comment"),
)

// ParseNTriples reads an N-Triples document into a new graph.
func ParseNTriples(r io.Reader) (*Graph, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return ParseNTriplesString(string(data))
}

// ParseNTriplesString parses an N-Triples document held in a string.
func ParseNTriplesString(s string) (*Graph, error) {
	doc, err := ntParser.ParseString("", s)
	if err != nil {
		return nil, fmt.Errorf("parsing N-Triples: %w", err)
	}

	g := NewGraph()
	for _, nt := range doc.Triples {
		t, err := nt.triple()
		if err != nil {
			return nil, fmt.Errorf("parsing N-Triples at line %d: %w", nt.Pos.Line, err)
		}
		if t.Subject.IsLiteral() {
			return nil, fmt.Errorf("parsing N-Triples at line %d: literal subject", nt.Pos.Line)
		}
		g.Add(t)
	}
	return g, nil
}

func (nt *ntTriple) triple() (Triple, error) {
	s, err := nt.Subject.term()
	if err != nil {
		return Triple{}, err
	}
	p, err := unescapeIRI(nt.Predicate)
	if err != nil {
		return Triple{}, err
	}
	o, err := nt.Object.term()
	if err != nil {
		return Triple{}, err
	}
	return T(s, IRI(p), o), nil
}

func (t *ntTerm) term() (Term, error) {
	switch {
	case t.IRI != nil:
		iri, err := unescapeIRI(*t.IRI)
		if err != nil {
			return Term{}, err
		}
		return IRI(iri), nil
	case t.Blank != nil:
		return Blank(strings.TrimPrefix(*t.Blank, "_:")), nil
	default:
		value, err := encoding.UnescapeNTriples(t.Literal.Value[1 : len(t.Literal.Value)-1])
		if err != nil {
			return Term{}, err
		}
		switch {
		case t.Literal.Lang != "":
			return LangLiteral(value, strings.TrimPrefix(t.Literal.Lang, "@")), nil
		case t.Literal.Datatype != "":
			dt, err := unescapeIRI(t.Literal.Datatype)
			if err != nil {
				return Term{}, err
			}
			return TypedLiteral(value, dt), nil
		default:
			return Literal(value), nil
		}
	}
}

func unescapeIRI(token string) (string, error) {
	return encoding.UnescapeNTriples(token[1 : len(token)-1])
}

// WriteNTriples writes g in canonical order, one triple per line.
func WriteNTriples(w io.Writer, g *Graph) (int64, error) {
	bw := bufio.NewWriter(w)
	var n int64
	for _, t := range g.Triples() {
		c, err := bw.WriteString(t.String() + "\n")
		n += int64(c)
		if err != nil {
			return n, err
		}
	}
	return n, bw.Flush()
}
