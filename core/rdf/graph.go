package rdf

import (
	"fmt"
	"slices"
	"strings"
)

type tripleSet map[Triple]struct{}

// Graph is an in-memory set of triples indexed by subject and object.
// A Graph is not safe for concurrent mutation.
type Graph struct {
	triples   tripleSet
	bySubject map[Term]tripleSet
	byObject  map[Term]tripleSet
	blank     int
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{
		triples:   make(tripleSet),
		bySubject: make(map[Term]tripleSet),
		byObject:  make(map[Term]tripleSet),
	}
}

// Len returns the number of triples.
func (g *Graph) Len() int { return len(g.triples) }

// Has reports whether t is in the graph.
func (g *Graph) Has(t Triple) bool {
	_, ok := g.triples[t]
	return ok
}

// Add inserts t and reports whether it was new.
func (g *Graph) Add(t Triple) bool {
	if g.Has(t) {
		return false
	}
	g.triples[t] = struct{}{}
	index(g.bySubject, t.Subject, t)
	index(g.byObject, t.Object, t)
	return true
}

// AddAll inserts every triple of ts.
func (g *Graph) AddAll(ts ...Triple) {
	for _, t := range ts {
		g.Add(t)
	}
}

// Remove deletes t and reports whether it was present.
func (g *Graph) Remove(t Triple) bool {
	if !g.Has(t) {
		return false
	}
	delete(g.triples, t)
	unindex(g.bySubject, t.Subject, t)
	unindex(g.byObject, t.Object, t)
	return true
}

// RemoveAll deletes every triple of ts and returns those that were present.
func (g *Graph) RemoveAll(ts []Triple) []Triple {
	var removed []Triple
	for _, t := range ts {
		if g.Remove(t) {
			removed = append(removed, t)
		}
	}
	return removed
}

// Match returns the triples matching the pattern, sorted. A zero Term is a
// wildcard.
func (g *Graph) Match(s, p, o Term) []Triple {
	var candidates tripleSet
	switch {
	case !s.IsZero():
		candidates = g.bySubject[s]
	case !o.IsZero():
		candidates = g.byObject[o]
	default:
		candidates = g.triples
	}

	var out []Triple
	for t := range candidates {
		if (s.IsZero() || t.Subject == s) &&
			(p.IsZero() || t.Predicate == p) &&
			(o.IsZero() || t.Object == o) {
			out = append(out, t)
		}
	}
	sortTriples(out)
	return out
}

// Objects returns the objects of the triples (s, p, *), sorted.
func (g *Graph) Objects(s, p Term) []Term {
	ts := g.Match(s, p, Term{})
	out := make([]Term, len(ts))
	for i, t := range ts {
		out[i] = t.Object
	}
	return out
}

// Object returns the first object of (s, p, *).
func (g *Graph) Object(s, p Term) (Term, bool) {
	objs := g.Objects(s, p)
	if len(objs) == 0 {
		return Term{}, false
	}
	return objs[0], true
}

// Subjects returns the subjects of the triples (*, p, o), sorted.
func (g *Graph) Subjects(p, o Term) []Term {
	ts := g.Match(Term{}, p, o)
	out := make([]Term, 0, len(ts))
	for _, t := range ts {
		if len(out) == 0 || out[len(out)-1] != t.Subject {
			out = append(out, t.Subject)
		}
	}
	return out
}

// Triples returns every triple in N-Triples order.
func (g *Graph) Triples() []Triple {
	return g.Match(Term{}, Term{}, Term{})
}

// NewBlank returns a blank node whose label is unused in the graph.
func (g *Graph) NewBlank() Term {
	for {
		g.blank++
		b := Blank(fmt.Sprintf("b%d", g.blank))
		if len(g.bySubject[b]) == 0 && len(g.byObject[b]) == 0 {
			return b
		}
	}
}

// Merge adds every triple of other to g.
func (g *Graph) Merge(other *Graph) {
	if other == nil {
		return
	}
	for t := range other.triples {
		g.Add(t)
	}
}

// Clone returns an independent copy of g.
func (g *Graph) Clone() *Graph {
	c := NewGraph()
	c.Merge(g)
	c.blank = g.blank
	return c
}

// RenameResource replaces every occurrence of from, as subject or object,
// with to.
func (g *Graph) RenameResource(from, to Term) {
	affected := make(tripleSet)
	for t := range g.bySubject[from] {
		affected[t] = struct{}{}
	}
	for t := range g.byObject[from] {
		affected[t] = struct{}{}
	}
	for t := range affected {
		g.Remove(t)
		if t.Subject == from {
			t.Subject = to
		}
		if t.Object == from {
			t.Object = to
		}
		g.Add(t)
	}
}

func index(m map[Term]tripleSet, k Term, t Triple) {
	set, ok := m[k]
	if !ok {
		set = make(tripleSet)
		m[k] = set
	}
	set[t] = struct{}{}
}

func unindex(m map[Term]tripleSet, k Term, t Triple) {
	set := m[k]
	delete(set, t)
	if len(set) == 0 {
		delete(m, k)
	}
}

func sortTriples(ts []Triple) {
	slices.SortFunc(ts, func(a, b Triple) int {
		return strings.Compare(a.String(), b.String())
	})
}
