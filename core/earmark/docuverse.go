package earmark

import (
	"context"
	"fmt"
	"slices"

	"github.com/FocuswithJustin/earmark/core/cas"
	"github.com/FocuswithJustin/earmark/core/collection"
	"github.com/FocuswithJustin/earmark/internal/logging"
)

// Docuverse is a content source that ranges point into: literal text, or
// a URI dereferenced once through the document fetcher.
type Docuverse struct {
	doc    *Document
	id     string
	kind   DocuverseType
	source string

	fetched bool
	cached  string

	ranges *collection.Container[string]
}

// ID returns the docuverse id.
func (dv *Docuverse) ID() string {
	if dv == nil {
		return ""
	}
	return dv.id
}

// LocalID returns the last segment of the id.
func (dv *Docuverse) LocalID() string { return localID(dv.ID()) }

// OwnerDocument returns the document the docuverse was created in.
func (dv *Docuverse) OwnerDocument() *Document {
	if dv == nil {
		return nil
	}
	return dv.doc
}

// Kind returns StringDocuverseType or URIDocuverseType.
func (dv *Docuverse) Kind() DocuverseType { return dv.kind }

// Source returns the literal content or the URI.
func (dv *Docuverse) Source() string { return dv.source }

// Content returns the docuverse text. See ContentContext.
func (dv *Docuverse) Content() string {
	return dv.ContentContext(context.Background())
}

// ContentContext returns the literal content, or the fetched content of a
// URI docuverse. The fetch happens at most once; a failure is logged and
// the content is "" from then on.
func (dv *Docuverse) ContentContext(ctx context.Context) string {
	if dv.kind == StringDocuverseType {
		return dv.source
	}
	if !dv.fetched {
		dv.fetched = true
		data, err := dv.doc.fetcher.Fetch(logging.WithDocumentID(ctx, dv.doc.id), dv.source)
		if err != nil {
			logging.FetchFailed(dv.doc.logger, dv.source, err, "docuverse", dv.id)
			dv.cached = ""
		} else {
			dv.cached = string(data)
		}
	}
	return dv.cached
}

// Fetched reports whether a URI docuverse has already been dereferenced.
func (dv *Docuverse) Fetched() bool { return dv.fetched }

// Fingerprint returns the BLAKE3 hex digest of the content.
func (dv *Docuverse) Fingerprint() string {
	return cas.Blake3String(dv.Content())
}

// Ranges returns the ranges referring to dv, sorted by id.
func (dv *Docuverse) Ranges() []*Range {
	ids := dv.ranges.Items()
	slices.Sort(ids)
	out := make([]*Range, 0, len(ids))
	for _, id := range ids {
		if r, ok := dv.doc.registry[id].(*Range); ok {
			out = append(out, r)
		}
	}
	return out
}

// IsReferenced reports whether any range refers to dv.
func (dv *Docuverse) IsReferenced() bool { return !dv.ranges.IsEmpty() }

func (dv *Docuverse) String() string {
	return fmt.Sprintf("%s(%s)", dv.kind, dv.id)
}

// CreateStringDocuverse creates a docuverse holding content.
func (d *Document) CreateStringDocuverse(content string) *Docuverse {
	return d.newDocuverse(StringDocuverseType, d.makeID(DocuverseHint), content)
}

// CreateStringDocuverseWithID creates a docuverse holding content under an
// explicit id.
func (d *Document) CreateStringDocuverseWithID(id, content string) (*Docuverse, error) {
	return d.createDocuverse("createStringDocuverse", StringDocuverseType, d.ResolveID(id), content)
}

// CreateURIDocuverse creates a docuverse whose content lives at uri.
func (d *Document) CreateURIDocuverse(uri string) *Docuverse {
	return d.newDocuverse(URIDocuverseType, d.makeID(DocuverseHint), uri)
}

// CreateURIDocuverseWithID creates a URI docuverse under an explicit id.
func (d *Document) CreateURIDocuverseWithID(id, uri string) (*Docuverse, error) {
	return d.createDocuverse("createURIDocuverse", URIDocuverseType, d.ResolveID(id), uri)
}

func (d *Document) createDocuverse(op string, kind DocuverseType, id, source string) (*Docuverse, error) {
	if err := d.checkFree(op, id); err != nil {
		return nil, err
	}
	return d.newDocuverse(kind, id, source), nil
}

func (d *Document) newDocuverse(kind DocuverseType, id, source string) *Docuverse {
	dv := &Docuverse{
		doc:    d,
		id:     id,
		kind:   kind,
		source: source,
		ranges: collection.New[string](collection.Set),
	}
	d.registry[id] = dv
	return dv
}
