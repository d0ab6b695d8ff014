package earmark

import "slices"

// Same reports whether a and b denote the same node: the same document
// instance, or items with the same id in the same document.
func Same(a, b Node) bool {
	if a == nil || b == nil {
		return false
	}
	da, aIsDoc := a.(*Document)
	db, bIsDoc := b.(*Document)
	if aIsDoc || bIsDoc {
		return aIsDoc && bIsDoc && da == db
	}
	return a.OwnerDocument() != nil && a.OwnerDocument() == b.OwnerDocument() && a.ID() == b.ID()
}

// Equal reports whether a and b are the same node, or nodes of the same
// type with the same name and namespace whose children are Equal in turn.
// Ranges are equal when they resolve to the same text. A pair of nodes met
// again below itself compares equal, so cyclic graphs terminate.
func Equal(a, b Node) bool {
	return newComparison(true).equal(a, b)
}

// StructurallyEqual is Equal without the identity shortcut at any depth:
// only shape and content are compared.
func StructurallyEqual(a, b Node) bool {
	return newComparison(false).equal(a, b)
}

type nodePair struct{ a, b Node }

// comparison holds the state of one Equal or StructurallyEqual call.
type comparison struct {
	sameness bool
	// pairs of parents on the current recursion path
	path map[nodePair]bool
}

func newComparison(sameness bool) *comparison {
	return &comparison{sameness: sameness, path: make(map[nodePair]bool)}
}

func (c *comparison) equal(a, b Node) bool {
	if a == nil || b == nil {
		return false
	}
	if c.sameness && Same(a, b) {
		return true
	}

	switch x := a.(type) {
	case *Range:
		y, ok := b.(*Range)
		if !ok {
			return false
		}
		ta, okA := x.TextContent()
		tb, okB := y.TextContent()
		return okA && okB && ta == tb
	case *MarkupItem:
		y, ok := b.(*MarkupItem)
		return ok && x.kind == y.kind && x.gi == y.gi && x.ns == y.ns &&
			c.children(x, y)
	case *Document:
		y, ok := b.(*Document)
		return ok && c.children(x, y)
	}
	return false
}

// children compares the children of two parents. A List compares them
// pairwise in order; Bag and Set match each child of n1 against a distinct
// child of n2.
func (c *comparison) children(n1, n2 ParentNode) bool {
	key := nodePair{n1, n2}
	if c.path[key] {
		return true
	}
	c.path[key] = true
	defer delete(c.path, key)

	c1, c2 := n1.ChildNodes(), n2.ChildNodes()
	if len(c1) != len(c2) {
		return false
	}

	if n1.ContainerType() == List {
		for i := range c1 {
			if !c.equal(c1[i], c2[i]) {
				return false
			}
		}
		return true
	}

	remaining := slices.Clone(c2)
	for _, x := range c1 {
		i := slices.IndexFunc(remaining, func(o ChildNode) bool {
			return c.equal(x, o)
		})
		if i < 0 {
			return false
		}
		remaining = slices.Delete(remaining, i, i+1)
	}
	return len(remaining) == 0
}
