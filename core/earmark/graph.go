package earmark

import (
	"slices"

	"github.com/FocuswithJustin/earmark/core/collection"
	"github.com/FocuswithJustin/earmark/core/errors"
)

// AppendChild adds child to the root children.
func (d *Document) AppendChild(child ChildNode) error {
	return d.appendChild(d, child)
}

// InsertBefore adds newChild to the root. The root is a Set, so refChild is
// ignored.
func (d *Document) InsertBefore(newChild, refChild ChildNode) error {
	return d.insertBefore(d, newChild, refChild, 1)
}

// InsertBeforeOccurrence behaves like InsertBefore.
func (d *Document) InsertBeforeOccurrence(newChild, refChild ChildNode, n int) error {
	return d.insertBefore(d, newChild, refChild, n)
}

// RemoveChild removes child from the root.
func (d *Document) RemoveChild(child ChildNode) error {
	return d.removeChild(d, child, 1)
}

// RemoveChildOccurrence behaves like RemoveChild.
func (d *Document) RemoveChildOccurrence(child ChildNode, n int) error {
	return d.removeChild(d, child, n)
}

// RemoveAllChild removes child from the root and reports whether it was
// there.
func (d *Document) RemoveAllChild(child ChildNode) (bool, error) {
	return d.removeAllChild(d, child)
}

// ReplaceChild replaces oldChild with newChild among the root children.
func (d *Document) ReplaceChild(newChild, oldChild ChildNode) error {
	return d.replaceChild(d, newChild, oldChild, 1)
}

// ReplaceChildOccurrence behaves like ReplaceChild.
func (d *Document) ReplaceChildOccurrence(newChild, oldChild ChildNode, n int) error {
	return d.replaceChild(d, newChild, oldChild, n)
}

// ReplaceAllChild replaces oldChild with newChild among the root children.
func (d *Document) ReplaceAllChild(newChild, oldChild ChildNode) (bool, error) {
	return d.replaceAllChild(d, newChild, oldChild)
}

// ChildNodes returns the root children in insertion order.
func (d *Document) ChildNodes() []ChildNode { return d.childNodes(d) }

// HasChildNodes reports whether the root has children.
func (d *Document) HasChildNodes() bool { return d.hasChildNodes(d) }

// FirstChild returns the first root child, or nil.
func (d *Document) FirstChild() ChildNode { return d.firstChild(d) }

// LastChild returns the last root child, or nil.
func (d *Document) LastChild() ChildNode { return d.lastChild(d) }

// ChildElements returns the root elements.
func (d *Document) ChildElements() []*MarkupItem { return d.childrenOfType(d, ElementNode) }

// Attributes returns the root attributes.
func (d *Document) Attributes() []*MarkupItem { return d.childrenOfType(d, AttributeNode) }

// Comments returns the root comments.
func (d *Document) Comments() []*MarkupItem { return d.childrenOfType(d, CommentNode) }

// HasAttributes reports whether the root has attribute children.
func (d *Document) HasAttributes() bool { return len(d.Attributes()) > 0 }

// HasElementNodes reports whether the root has element children.
func (d *Document) HasElementNodes() bool { return len(d.ChildElements()) > 0 }

// edge resolves the keys of a parent/child pair, both owned by d.
func (d *Document) edge(op string, parent ParentNode, child ChildNode) (string, string, error) {
	pk, err := d.key(op, parent)
	if err != nil {
		return "", "", err
	}
	ck, err := d.key(op, child)
	if err != nil {
		return "", "", err
	}
	return pk, ck, nil
}

func (d *Document) appendChild(parent ParentNode, child ChildNode) error {
	pk, ck, err := d.edge("appendChild", parent, child)
	if err != nil {
		return err
	}
	d.link(pk, ck)
	return nil
}

func (d *Document) link(pk, ck string) {
	d.children[pk].Insert(ck)
	d.parents[ck].Insert(pk)
}

// unlinkIfGone drops pk from the parent set of ck once no occurrence of ck
// is left in pk.
func (d *Document) unlinkIfGone(pk, ck string) {
	if !d.children[pk].Contains(ck) {
		d.parents[ck].RemoveFirst(pk)
	}
}

func (d *Document) insertBefore(parent ParentNode, newChild, refChild ChildNode, n int) error {
	const op = "insertBefore"
	pk, ck, err := d.edge(op, parent, newChild)
	if err != nil {
		return err
	}
	c := d.children[pk]
	if refChild == nil || c.Kind() != collection.List {
		d.link(pk, ck)
		return nil
	}
	rk, err := d.key(op, refChild)
	if err != nil {
		return err
	}
	i := c.IndexOfOccurrence(rk, n)
	if i < 0 {
		return errors.NewNoChild(op, rk)
	}
	c.InsertAt(i, ck)
	d.parents[ck].Insert(pk)
	return nil
}

func (d *Document) removeChild(parent ParentNode, child ChildNode, n int) error {
	const op = "removeChild"
	pk, ck, err := d.edge(op, parent, child)
	if err != nil {
		return err
	}
	if !d.children[pk].RemoveNth(ck, n) {
		return errors.NewNoChild(op, ck)
	}
	d.unlinkIfGone(pk, ck)
	return nil
}

func (d *Document) removeAllChild(parent ParentNode, child ChildNode) (bool, error) {
	pk, ck, err := d.edge("removeAllChild", parent, child)
	if err != nil {
		return false, err
	}
	if d.children[pk].RemoveAll(ck) == 0 {
		return false, nil
	}
	d.parents[ck].RemoveFirst(pk)
	return true, nil
}

func (d *Document) replaceChild(parent ParentNode, newChild, oldChild ChildNode, n int) error {
	const op = "replaceChild"
	pk, nk, err := d.edge(op, parent, newChild)
	if err != nil {
		return err
	}
	oldKey, err := d.key(op, oldChild)
	if err != nil {
		return err
	}

	c := d.children[pk]
	if nk == oldKey {
		if c.IndexOfOccurrence(oldKey, n) < 0 {
			return errors.NewNoChild(op, oldKey)
		}
		return nil
	}
	if !c.ReplaceNth(oldKey, nk, n) {
		return errors.NewNoChild(op, oldKey)
	}
	d.unlinkIfGone(pk, oldKey)
	d.parents[nk].Insert(pk)
	return nil
}

func (d *Document) replaceAllChild(parent ParentNode, newChild, oldChild ChildNode) (bool, error) {
	const op = "replaceAllChild"
	pk, nk, err := d.edge(op, parent, newChild)
	if err != nil {
		return false, err
	}
	oldKey, err := d.key(op, oldChild)
	if err != nil {
		return false, err
	}
	if nk == oldKey {
		return false, nil
	}
	if d.children[pk].ReplaceAll(oldKey, nk) == 0 {
		return false, nil
	}
	d.parents[oldKey].RemoveFirst(pk)
	d.parents[nk].Insert(pk)
	return true, nil
}

// container returns the child container of an owned parent.
func (d *Document) container(parent ParentNode) (*collection.Container[string], bool) {
	if parent == nil || !d.owns(parent) {
		return nil, false
	}
	if _, ok := parent.(*Document); ok {
		return d.children[rootKey], true
	}
	c, ok := d.children[parent.ID()]
	return c, ok
}

func (d *Document) childNodes(parent ParentNode) []ChildNode {
	c, ok := d.container(parent)
	if !ok {
		return nil
	}
	out := make([]ChildNode, 0, c.Len())
	for id := range c.All() {
		if n, ok := d.registry[id].(ChildNode); ok {
			out = append(out, n)
		}
	}
	return out
}

func (d *Document) hasChildNodes(parent ParentNode) bool {
	c, ok := d.container(parent)
	return ok && !c.IsEmpty()
}

func (d *Document) firstChild(parent ParentNode) ChildNode {
	c, ok := d.container(parent)
	if !ok || c.IsEmpty() {
		return nil
	}
	return d.childByID(c.At(0))
}

func (d *Document) lastChild(parent ParentNode) ChildNode {
	c, ok := d.container(parent)
	if !ok || c.IsEmpty() {
		return nil
	}
	return d.childByID(c.At(c.Len() - 1))
}

func (d *Document) childrenOfType(parent ParentNode, t NodeType) []*MarkupItem {
	var out []*MarkupItem
	for _, n := range d.childNodes(parent) {
		if m, ok := n.(*MarkupItem); ok && m.kind == t {
			out = append(out, m)
		}
	}
	return out
}

func (d *Document) childByID(id string) ChildNode {
	n, _ := d.registry[id].(ChildNode)
	return n
}

func (d *Document) parentByID(id string) ParentNode {
	if id == rootKey {
		return d
	}
	if m, ok := d.registry[id].(*MarkupItem); ok {
		return m
	}
	return nil
}

// parentSet returns the parent set of an owned child.
func (d *Document) parentSet(child ChildNode) (*collection.Container[string], bool) {
	if child == nil || !d.owns(child) {
		return nil, false
	}
	ps, ok := d.parents[child.ID()]
	return ps, ok
}

func (d *Document) parentNode(child ChildNode) ParentNode {
	ps, ok := d.parentSet(child)
	if !ok || ps.IsEmpty() {
		return nil
	}
	return d.parentByID(ps.At(0))
}

func (d *Document) parentNodes(child ChildNode) []ParentNode {
	ps, ok := d.parentSet(child)
	if !ok {
		return nil
	}
	ids := ps.Items()
	slices.Sort(ids)
	out := make([]ParentNode, 0, len(ids))
	for _, id := range ids {
		if p := d.parentByID(id); p != nil {
			out = append(out, p)
		}
	}
	return out
}

// siblingIDs collects, parent by parent, the neighbours of child in
// direction dir (+1 next, -1 previous). In a Set of more than one element
// every other member is a neighbour; elsewhere it is the element at the
// position of the first occurrence plus dir.
func (d *Document) siblingIDs(child ChildNode, dir int, first bool) []string {
	ps, ok := d.parentSet(child)
	if !ok {
		return nil
	}
	id := child.ID()
	var out []string
	for pid := range ps.All() {
		c := d.children[pid]
		if c == nil {
			continue
		}
		if c.Kind() == collection.Set && c.Len() > 1 {
			for other := range c.All() {
				if other != id {
					out = append(out, other)
					if first {
						return out
					}
				}
			}
			continue
		}
		pos := c.IndexOf(id)
		if pos < 0 {
			continue
		}
		if i := pos + dir; i >= 0 && i < c.Len() {
			out = append(out, c.At(i))
			if first {
				return out
			}
		}
	}
	return out
}

func (d *Document) sibling(child ChildNode, dir int) ChildNode {
	ids := d.siblingIDs(child, dir, true)
	if len(ids) == 0 {
		return nil
	}
	return d.childByID(ids[0])
}

func (d *Document) siblings(child ChildNode, dir int) []ChildNode {
	ids := distinct(d.siblingIDs(child, dir, false))
	slices.Sort(ids)
	out := make([]ChildNode, 0, len(ids))
	for _, id := range ids {
		if n := d.childByID(id); n != nil {
			out = append(out, n)
		}
	}
	return out
}
