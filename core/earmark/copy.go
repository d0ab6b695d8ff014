package earmark

import (
	"slices"

	"github.com/FocuswithJustin/earmark/core/errors"
)

// CopyNode copies node, which may belong to another document, into d under
// the same id. When the id is already bound in d the bound node is
// returned unchanged, which also applies to descendants of a deep copy: a
// deep copy can therefore be partial. A range brings its docuverse along
// (same id and content) unless d already has one under that id. On error
// every item created by the call is removed again.
func (d *Document) CopyNode(node ChildNode, deep bool) (ChildNode, error) {
	var created []Item
	n, err := d.copyNode(node, deep, &created)
	if err != nil {
		d.discard(created)
		return nil, err
	}
	return n, nil
}

func (d *Document) copyNode(node ChildNode, deep bool, created *[]Item) (ChildNode, error) {
	const op = "copyNode"
	if node == nil || node.OwnerDocument() == nil {
		return nil, errors.NewNoChild(op, "")
	}
	if existing, ok := d.registry[node.ID()]; ok {
		if n, ok := existing.(ChildNode); ok {
			return n, nil
		}
		return nil, errors.NewDuplicateID(op, node.ID())
	}

	switch n := node.(type) {
	case *Range:
		dv, err := d.copyDocuverse(n.docuverse, created)
		if err != nil {
			return nil, err
		}
		r, err := d.createRange(op, n.kind, n.id, dv, n.begin, n.end, n.xpath)
		if err != nil {
			return nil, err
		}
		if r.id == n.id {
			*created = append(*created, r)
		}
		return r, nil
	case *MarkupItem:
		m := d.newMarkupItem(n.kind, n.id, n.gi, n.ns, n.container)
		*created = append(*created, m)
		if !deep {
			return m, nil
		}
		for _, child := range n.ChildNodes() {
			c, err := d.copyNode(child, true, created)
			if err != nil {
				return nil, err
			}
			d.link(m.id, c.ID())
		}
		return m, nil
	default:
		return nil, errors.NewNoChild(op, node.ID())
	}
}

// copyDocuverse returns the docuverse of d bound to the id of src, creating
// it with the same kind and source when missing. Fetched content travels
// with the copy. A created docuverse is appended to created when it is not
// nil.
func (d *Document) copyDocuverse(src *Docuverse, created *[]Item) (*Docuverse, error) {
	if existing, ok := d.registry[src.id]; ok {
		if dv, ok := existing.(*Docuverse); ok {
			return dv, nil
		}
		return nil, errors.NewDuplicateID("copyDocuverse", src.id)
	}
	dv := d.newDocuverse(src.kind, src.id, src.source)
	dv.fetched, dv.cached = src.fetched, src.cached
	if created != nil {
		*created = append(*created, dv)
	}
	return dv, nil
}

// discard deletes the items of a failed copy, newest first. Items that
// existed before the copy only lose the links to discarded parents.
func (d *Document) discard(created []Item) {
	for _, it := range slices.Backward(created) {
		switch x := it.(type) {
		case *Range:
			d.detach(x.id)
			delete(d.ranges, x.key())
			x.docuverse.ranges.RemoveFirst(x.id)
			d.unregister(x.id)
		case *MarkupItem:
			d.detach(x.id)
			for _, cid := range distinct(d.children[x.id].Items()) {
				if ps, ok := d.parents[cid]; ok {
					ps.RemoveFirst(x.id)
				}
			}
			delete(d.children, x.id)
			d.unindexMarkup(x)
			d.unregister(x.id)
		case *Docuverse:
			d.unregister(x.id)
		}
	}
}

// AdoptNode moves node into d: a deep copy followed by a strong removal
// from its original document. A node already owned by d is returned as is.
func (d *Document) AdoptNode(node ChildNode) (ChildNode, error) {
	if node == nil {
		return nil, errors.NewNoChild("adoptNode", "")
	}
	if d.owns(node) {
		return node, nil
	}
	copied, err := d.CopyNode(node, true)
	if err != nil {
		return nil, err
	}
	if src := node.OwnerDocument(); src != nil {
		if _, err := src.RemoveNode(node, true); err != nil {
			return nil, err
		}
	}
	return copied, nil
}

// Clone returns a new document with the same id and options. A deep clone
// also copies every docuverse, every node reachable from the root (the
// root children are appended to the clone root), every remaining detached
// node, the assertions and the user data. Generated ids continue from the
// ids present in the clone.
func (d *Document) Clone(deep bool) *Document {
	c := NewDocument(d.id, d.options()...)
	c.now = d.now
	if !deep {
		return c
	}

	for _, dv := range d.AllDocuverses() {
		if _, err := c.copyDocuverse(dv, nil); err != nil {
			c.logger.Warn("clone: docuverse not copied", "docuverse", dv.id, "error", err)
		}
	}
	for _, root := range d.ChildNodes() {
		n, err := c.CopyNode(root, true)
		if err != nil {
			c.logger.Warn("clone: root not copied", "node", root.ID(), "error", err)
			continue
		}
		c.link(rootKey, n.ID())
	}
	for _, n := range d.AllNodes() {
		if _, err := c.CopyNode(n, true); err != nil {
			c.logger.Warn("clone: node not copied", "node", n.ID(), "error", err)
		}
	}

	c.graph = d.graph.Clone()
	for id, data := range d.userData {
		if _, ok := c.registry[id]; !ok {
			continue
		}
		cp := make(map[string]any, len(data))
		for k, v := range data {
			cp[k] = v
		}
		c.userData[id] = cp
	}
	return c
}
