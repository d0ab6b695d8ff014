package earmark

import (
	"fmt"
	"slices"

	"github.com/FocuswithJustin/earmark/core/errors"
)

// Check verifies the internal consistency of d: child containers and
// parent sets mirror each other, every graph key is registered, and range
// indices and docuverse back references agree. It returns the first
// inconsistency found.
func (d *Document) Check() error {
	const op = "check"
	fail := func(format string, args ...any) error {
		return errors.NewInternal(op, fmt.Sprintf(format, args...))
	}

	pkeys := make([]string, 0, len(d.children))
	for pk := range d.children {
		pkeys = append(pkeys, pk)
	}
	slices.Sort(pkeys)
	for _, pk := range pkeys {
		if pk != rootKey {
			m, ok := d.registry[pk].(*MarkupItem)
			if !ok {
				return fail("container %q has no markup item", pk)
			}
			if d.children[pk].Kind() != m.container {
				return fail("container of %q is a %s, want %s", pk, d.children[pk].Kind(), m.container)
			}
		}
		for ck := range d.children[pk].All() {
			ps, ok := d.parents[ck]
			if !ok {
				return fail("child %q of %q is not a live node", ck, pk)
			}
			if !ps.Contains(pk) {
				return fail("%q lists %q as a child but is not one of its parents", pk, ck)
			}
		}
	}

	for _, id := range d.IDs() {
		switch it := d.registry[id].(type) {
		case *MarkupItem:
			if _, ok := d.children[id]; !ok {
				return fail("markup item %q has no container", id)
			}
			if _, ok := d.markup[giNS{gi: it.gi, ns: it.ns}][id]; !ok {
				return fail("markup item %q is not indexed", id)
			}
		case *Range:
			if d.ranges[it.key()] != it {
				return fail("range %q is not the indexed range for its span", id)
			}
			if d.registry[it.docuverse.id] != it.docuverse {
				return fail("range %q refers to a removed docuverse", id)
			}
			if !it.docuverse.ranges.Contains(id) {
				return fail("docuverse %q does not list range %q", it.docuverse.id, id)
			}
		case *Docuverse:
			for rid := range it.ranges.All() {
				r, ok := d.registry[rid].(*Range)
				if !ok || r.docuverse != it {
					return fail("docuverse %q lists %q, which does not refer to it", id, rid)
				}
			}
		}
		if it, ok := d.registry[id].(ChildNode); ok {
			ps, ok := d.parents[id]
			if !ok {
				return fail("node %q has no parent set", id)
			}
			for pk := range ps.All() {
				c, ok := d.children[pk]
				if !ok || !c.Contains(id) {
					return fail("%q lists %q as a parent but is not one of its children", it.ID(), pk)
				}
			}
		}
	}

	for pk := range d.parents {
		if _, ok := d.registry[pk].(ChildNode); !ok {
			return fail("parent set %q has no live node", pk)
		}
	}
	return nil
}
