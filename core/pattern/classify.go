package pattern

import (
	"github.com/FocuswithJustin/earmark/core/earmark"
)

type keySet map[Key]bool

func (s keySet) union(o keySet) keySet {
	out := make(keySet, len(s)+len(o))
	for k := range s {
		out[k] = true
	}
	for k := range o {
		out[k] = true
	}
	return out
}

type classifier struct {
	members map[Key][]*earmark.MarkupItem
}

// Classify groups the elements of doc and assigns each group a pattern.
// Attributes, comments and ranges are not classified.
func Classify(doc *earmark.Document) *Result {
	c := &classifier{members: make(map[Key][]*earmark.MarkupItem)}
	for _, m := range doc.AllMarkupItems() {
		if m.NodeType() == earmark.ElementNode {
			k := KeyOf(m)
			c.members[k] = append(c.members[k], m)
		}
	}

	mixed, hierarchical, atom, marker := keySet{}, keySet{}, keySet{}, keySet{}
	for k := range c.members {
		elements, text := c.any(k, hasElements), c.any(k, hasText)
		switch {
		case elements && text:
			mixed[k] = true
		case elements:
			hierarchical[k] = true
		case text:
			atom[k] = true
		default:
			marker[k] = true
		}
	}

	inline := keySet{}
	for k := range mixed.union(hierarchical) {
		if c.parentIn(k, mixed) {
			inline[k] = true
		}
	}
	for changed := true; changed; {
		changed = false
		for k := range mixed {
			if !inline[k] && (c.containsItself(k) || c.siblingIn(k, inline)) {
				inline[k] = true
				changed = true
			}
		}
	}

	// Hierarchical groups holding inline content behave as mixed ones.
	for k := range hierarchical {
		if !inline[k] && c.childIn(k, inline) {
			mixed[k] = true
		}
	}

	r := &Result{patterns: make(map[Key]Pattern, len(c.members)), members: c.members}
	for k := range c.members {
		switch {
		case hierarchical[k] && !mixed[k] && !inline[k]:
			r.patterns[k] = c.container(k)
		case mixed[k] && !inline[k]:
			r.patterns[k] = Block
		case inline[k]:
			r.patterns[k] = Inline
		case atom[k]:
			r.patterns[k] = Atom
		case c.parentIn(k, mixed):
			r.patterns[k] = Milestone
		default:
			r.patterns[k] = Meta
		}
	}
	return r
}

// container refines a container group: Record when no two child elements
// share a name, Table when they all do.
func (c *classifier) container(k Key) Pattern {
	nodes := make(map[string]bool)
	names := keySet{}
	for _, m := range c.members[k] {
		for _, child := range m.ChildElements() {
			nodes[child.ID()] = true
			names[KeyOf(child)] = true
		}
	}
	switch {
	case len(names) == len(nodes):
		return Record
	case len(names) == 1:
		return Table
	}
	return Container
}

func (c *classifier) any(k Key, pred func(*earmark.MarkupItem) bool) bool {
	for _, m := range c.members[k] {
		if pred(m) {
			return true
		}
	}
	return false
}

func hasElements(m *earmark.MarkupItem) bool { return m.HasElementNodes() }

func hasText(m *earmark.MarkupItem) bool {
	for _, n := range m.ChildNodes() {
		if _, ok := n.(*earmark.Range); ok {
			return true
		}
	}
	return false
}

func elementParents(m *earmark.MarkupItem) []*earmark.MarkupItem {
	var out []*earmark.MarkupItem
	for _, p := range m.ParentNodes() {
		if pm, ok := p.(*earmark.MarkupItem); ok && pm.NodeType() == earmark.ElementNode {
			out = append(out, pm)
		}
	}
	return out
}

func (c *classifier) parentIn(k Key, set keySet) bool {
	return c.any(k, func(m *earmark.MarkupItem) bool {
		for _, p := range elementParents(m) {
			if set[KeyOf(p)] {
				return true
			}
		}
		return false
	})
}

func (c *classifier) childIn(k Key, set keySet) bool {
	return c.any(k, func(m *earmark.MarkupItem) bool {
		for _, child := range m.ChildElements() {
			if set[KeyOf(child)] {
				return true
			}
		}
		return false
	})
}

func (c *classifier) siblingIn(k Key, set keySet) bool {
	return c.any(k, func(m *earmark.MarkupItem) bool {
		for _, p := range elementParents(m) {
			for _, sib := range p.ChildElements() {
				if sib.ID() != m.ID() && set[KeyOf(sib)] {
					return true
				}
			}
		}
		return false
	})
}

// containsItself reports whether some member of k has a descendant
// element in the same group.
func (c *classifier) containsItself(k Key) bool {
	visited := make(map[string]bool)
	var walk func(*earmark.MarkupItem) bool
	walk = func(m *earmark.MarkupItem) bool {
		for _, child := range m.ChildElements() {
			if visited[child.ID()] {
				continue
			}
			visited[child.ID()] = true
			if KeyOf(child) == k || walk(child) {
				return true
			}
		}
		return false
	}
	return c.any(k, walk)
}
