package earmark

import (
	"github.com/FocuswithJustin/earmark/core/errors"
)

// RemoveRange detaches r from every parent and deletes it. The docuverse of
// r is deleted too when no other range refers to it. It returns false when
// r was already removed.
func (d *Document) RemoveRange(r *Range) (bool, error) {
	if ok, err := d.removable("removeRange", r); !ok {
		return false, err
	}
	d.detach(r.id)
	delete(d.ranges, r.key())
	r.docuverse.ranges.RemoveFirst(r.id)
	d.unregister(r.id)
	d.logger.Debug("range removed", "range", r.id)

	d.RemoveDocuverse(r.docuverse)
	return true, nil
}

// RemoveMarkupItem detaches m from every parent and deletes it. Each child
// of m loses m as a parent and is deleted as well when it has no parent
// left, or always when strong is true. It returns false when m was already
// removed.
func (d *Document) RemoveMarkupItem(m *MarkupItem, strong bool) (bool, error) {
	if ok, err := d.removable("removeMarkupItem", m); !ok {
		return false, err
	}
	d.detach(m.id)
	kids := d.children[m.id]
	delete(d.children, m.id)
	d.unindexMarkup(m)
	d.unregister(m.id)
	d.logger.Debug("markup item removed", "item", m.id, "strong", strong)

	for _, cid := range distinct(kids.Items()) {
		ps, ok := d.parents[cid]
		if !ok {
			continue
		}
		ps.RemoveFirst(m.id)
		if !strong && !ps.IsEmpty() {
			continue
		}
		switch child := d.registry[cid].(type) {
		case *Range:
			d.RemoveRange(child)
		case *MarkupItem:
			d.RemoveMarkupItem(child, strong)
		}
	}
	return true, nil
}

// RemoveDocuverse deletes dv. It returns false, and keeps dv, while a range
// still refers to it.
func (d *Document) RemoveDocuverse(dv *Docuverse) (bool, error) {
	if ok, err := d.removable("removeDocuverse", dv); !ok {
		return false, err
	}
	if dv.IsReferenced() {
		return false, nil
	}
	d.unregister(dv.id)
	d.logger.Debug("docuverse removed", "docuverse", dv.id)
	return true, nil
}

// RemoveNode removes a markup item (strongly or not) or a range.
func (d *Document) RemoveNode(n ChildNode, strong bool) (bool, error) {
	switch x := n.(type) {
	case *MarkupItem:
		return d.RemoveMarkupItem(x, strong)
	case *Range:
		return d.RemoveRange(x)
	default:
		return false, errors.NewNoChild("removeNode", "")
	}
}

// removable reports whether it is a live item of d. Items of another
// document are an error; items already removed are not.
func (d *Document) removable(op string, it Item) (bool, error) {
	if it == nil || it.OwnerDocument() == nil {
		return false, nil
	}
	if it.OwnerDocument() != d {
		return false, errors.NewWrongDocument(op, it.ID())
	}
	return d.registry[it.ID()] == it, nil
}

// detach removes every occurrence of id from its parents and drops its
// parent set.
func (d *Document) detach(id string) {
	ps, ok := d.parents[id]
	if !ok {
		return
	}
	for pid := range ps.All() {
		if c, ok := d.children[pid]; ok {
			c.RemoveAll(id)
		}
	}
	delete(d.parents, id)
}
