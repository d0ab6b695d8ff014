package earmark

import (
	"fmt"
	"strings"

	"github.com/FocuswithJustin/earmark/core/collection"
	"github.com/FocuswithJustin/earmark/core/errors"
	"github.com/FocuswithJustin/earmark/core/rdf"
)

// Snapshot is a plain-data image of a document, used by the binary, YAML
// and SQLite formats. Records are sorted by id.
type Snapshot struct {
	// ID is the document id.
	ID string `json:"id" yaml:"id" msgpack:"id"`

	// Docuverses holds every docuverse.
	Docuverses []DocuverseRecord `json:"docuverses,omitempty" yaml:"docuverses,omitempty" msgpack:"docuverses,omitempty"`

	// MarkupItems holds every markup item with its children in container
	// order.
	MarkupItems []MarkupRecord `json:"markup_items,omitempty" yaml:"markup_items,omitempty" msgpack:"markup_items,omitempty"`

	// Ranges holds every range.
	Ranges []RangeRecord `json:"ranges,omitempty" yaml:"ranges,omitempty" msgpack:"ranges,omitempty"`

	// Roots lists the root children in insertion order.
	Roots []string `json:"roots,omitempty" yaml:"roots,omitempty" msgpack:"roots,omitempty"`

	// Assertions holds the statement graph as N-Triples lines.
	Assertions []string `json:"assertions,omitempty" yaml:"assertions,omitempty" msgpack:"assertions,omitempty"`
}

// DocuverseRecord describes a docuverse.
type DocuverseRecord struct {
	ID     string `json:"id" yaml:"id" msgpack:"id"`
	Kind   string `json:"kind" yaml:"kind" msgpack:"kind"`
	Source string `json:"source" yaml:"source" msgpack:"source"`
}

// MarkupRecord describes a markup item.
type MarkupRecord struct {
	ID                string   `json:"id" yaml:"id" msgpack:"id"`
	Kind              string   `json:"kind" yaml:"kind" msgpack:"kind"`
	GeneralIdentifier string   `json:"gi,omitempty" yaml:"gi,omitempty" msgpack:"gi,omitempty"`
	Namespace         string   `json:"ns,omitempty" yaml:"ns,omitempty" msgpack:"ns,omitempty"`
	Container         string   `json:"container" yaml:"container" msgpack:"container"`
	Children          []string `json:"children,omitempty" yaml:"children,omitempty" msgpack:"children,omitempty"`
}

// RangeRecord describes a range. Nil offsets are open.
type RangeRecord struct {
	ID        string `json:"id" yaml:"id" msgpack:"id"`
	Kind      string `json:"kind" yaml:"kind" msgpack:"kind"`
	Docuverse string `json:"docuverse" yaml:"docuverse" msgpack:"docuverse"`
	Begin     *int   `json:"begin,omitempty" yaml:"begin,omitempty" msgpack:"begin,omitempty"`
	End       *int   `json:"end,omitempty" yaml:"end,omitempty" msgpack:"end,omitempty"`
	XPath     string `json:"xpath,omitempty" yaml:"xpath,omitempty" msgpack:"xpath,omitempty"`
}

// TakeSnapshot captures d.
func TakeSnapshot(d *Document) *Snapshot {
	s := &Snapshot{ID: d.id}
	for _, dv := range d.AllDocuverses() {
		s.Docuverses = append(s.Docuverses, DocuverseRecord{ID: dv.id, Kind: dv.kind.String(), Source: dv.source})
	}
	for _, m := range d.AllMarkupItems() {
		s.MarkupItems = append(s.MarkupItems, MarkupRecord{
			ID:                m.id,
			Kind:              m.kind.String(),
			GeneralIdentifier: m.gi,
			Namespace:         m.ns,
			Container:         m.container.String(),
			Children:          d.children[m.id].Items(),
		})
	}
	for _, r := range d.AllRanges() {
		s.Ranges = append(s.Ranges, RangeRecord{
			ID:        r.id,
			Kind:      r.kind.String(),
			Docuverse: r.docuverse.id,
			Begin:     r.begin.Ptr(),
			End:       r.end.Ptr(),
			XPath:     r.xpath,
		})
	}
	s.Roots = d.children[rootKey].Items()
	for _, t := range d.graph.Triples() {
		s.Assertions = append(s.Assertions, t.String())
	}
	return s
}

// Restore builds a new document from s. Ids are used verbatim.
func (s *Snapshot) Restore(opts ...Option) (*Document, error) {
	d := NewDocument(s.ID, opts...)

	docuverses := make(map[string]*Docuverse, len(s.Docuverses))
	for _, rec := range s.Docuverses {
		kind, err := ParseDocuverseType(rec.Kind)
		if err != nil {
			return nil, errors.NewValidation("docuverse.kind", err.Error())
		}
		dv, err := d.createDocuverse("restore", kind, rec.ID, rec.Source)
		if err != nil {
			return nil, err
		}
		docuverses[rec.ID] = dv
	}

	nodes := make(map[string]ChildNode, len(s.MarkupItems)+len(s.Ranges))
	for _, rec := range s.Ranges {
		kind, err := ParseNodeType(rec.Kind)
		if err != nil || !kind.IsRange() {
			return nil, errors.NewValidation("range.kind", fmt.Sprintf("invalid range kind %q", rec.Kind))
		}
		dv, ok := docuverses[rec.Docuverse]
		if !ok {
			return nil, errors.NewNotFound("docuverse", rec.Docuverse)
		}
		r, err := d.createRange("restore", kind, rec.ID, dv, LocationOf(rec.Begin), LocationOf(rec.End), rec.XPath)
		if err != nil {
			return nil, err
		}
		nodes[rec.ID] = r
	}

	for _, rec := range s.MarkupItems {
		kind, err := ParseNodeType(rec.Kind)
		if err != nil || !kind.IsMarkup() {
			return nil, errors.NewValidation("markup.kind", fmt.Sprintf("invalid markup kind %q", rec.Kind))
		}
		ct, err := ParseContainerType(rec.Container)
		if err != nil {
			return nil, errors.NewValidation("markup.container", err.Error())
		}
		m, err := d.createMarkupItem("restore", kind, rec.ID, rec.GeneralIdentifier, rec.Namespace, ct)
		if err != nil {
			return nil, err
		}
		nodes[rec.ID] = m
	}

	for _, rec := range s.MarkupItems {
		parent := nodes[rec.ID].(*MarkupItem)
		for _, cid := range rec.Children {
			child, ok := nodes[cid]
			if !ok {
				return nil, errors.NewNotFound("child", cid)
			}
			d.link(parent.id, child.ID())
		}
	}
	for _, id := range s.Roots {
		child, ok := nodes[id]
		if !ok {
			return nil, errors.NewNotFound("root", id)
		}
		d.link(rootKey, child.ID())
	}

	if len(s.Assertions) > 0 {
		g, err := rdf.ParseNTriplesString(strings.Join(s.Assertions, "\n"))
		if err != nil {
			return nil, errors.Wrap(err, "restoring assertions")
		}
		d.graph = g
	}
	return d, nil
}

// ParseContainerType parses List, Bag or Set case-insensitively.
func ParseContainerType(s string) (ContainerType, error) {
	return collection.ParseKind(s)
}
