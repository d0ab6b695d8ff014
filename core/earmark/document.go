package earmark

import (
	"log/slog"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/FocuswithJustin/earmark/core/collection"
	"github.com/FocuswithJustin/earmark/core/errors"
	"github.com/FocuswithJustin/earmark/core/fetch"
	"github.com/FocuswithJustin/earmark/core/rdf"
	"github.com/FocuswithJustin/earmark/internal/logging"
	"github.com/google/uuid"
)

// Default id hints.
const (
	MarkupItemHint = "EARMARKitem"
	RangeHint      = "r"
	DocuverseHint  = "docuverse"
)

// rootKey is the graph key of the document itself. It is never a valid id.
const rootKey = ""

var absoluteID = regexp.MustCompile(`^.+://.+`)

// Option configures a Document.
type Option func(*Document)

// WithLogger sets the logger used for non-fatal content failures.
func WithLogger(l *slog.Logger) Option {
	return func(d *Document) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithFetcher sets the fetcher used to dereference URI docuverses.
func WithFetcher(f fetch.Fetcher) Option {
	return func(d *Document) {
		if f != nil {
			d.fetcher = f
		}
	}
}

type giNS struct {
	gi string
	ns string
}

type rangeKey struct {
	docuverse *Docuverse
	kind      NodeType
	begin     Location
	end       Location
	xpath     string
}

// Document owns the markup graph: the id registry, the child containers,
// the parent sets, the docuverses and every auxiliary index. It is also
// the root node, whose container is always a Set.
//
// A Document is not safe for concurrent use.
type Document struct {
	id      string
	logger  *slog.Logger
	fetcher fetch.Fetcher
	now     func() time.Time

	registry map[string]Item
	children map[string]*collection.Container[string]
	parents  map[string]*collection.Container[string]

	ranges   map[rangeKey]*Range
	markup   map[giNS]map[string]struct{}
	userData map[string]map[string]any
	graph    *rdf.Graph

	// lowest candidate suffix per hint; reset whenever an id is freed
	next map[string]int
}

// NewDocument creates an empty document. An empty id is allowed; generated
// ids then carry no prefix.
func NewDocument(id string, opts ...Option) *Document {
	d := &Document{
		id:       id,
		logger:   logging.GetLogger(),
		fetcher:  fetch.Default,
		now:      time.Now,
		registry: make(map[string]Item),
		children: map[string]*collection.Container[string]{rootKey: collection.New[string](collection.Set)},
		parents:  make(map[string]*collection.Container[string]),
		ranges:   make(map[rangeKey]*Range),
		markup:   make(map[giNS]map[string]struct{}),
		userData: make(map[string]map[string]any),
		graph:    rdf.NewGraph(),
		next:     make(map[string]int),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// NewDocumentID returns a fresh urn:uuid document id.
func NewDocumentID() string {
	return "urn:uuid:" + uuid.NewString()
}

// ID returns the document id.
func (d *Document) ID() string { return d.id }

// LocalID returns the last segment of the document id.
func (d *Document) LocalID() string { return localID(d.id) }

// OwnerDocument returns d.
func (d *Document) OwnerDocument() *Document { return d }

// NodeType returns DocumentNode.
func (d *Document) NodeType() NodeType { return DocumentNode }

// ContainerType returns Set: root children are unordered and unique.
func (d *Document) ContainerType() ContainerType { return collection.Set }

// Logger returns the document logger.
func (d *Document) Logger() *slog.Logger { return d.logger }

// Fetcher returns the fetcher used for URI docuverses.
func (d *Document) Fetcher() fetch.Fetcher { return d.fetcher }

func (d *Document) options() []Option {
	return []Option{WithLogger(d.logger), WithFetcher(d.fetcher)}
}

func (d *Document) prefix() string {
	if d.id == "" || strings.HasSuffix(d.id, "/") || strings.HasSuffix(d.id, "#") {
		return d.id
	}
	return d.id + "/"
}

// ResolveID turns a caller-supplied id into a document id. Absolute ids
// (scheme://..., urn:...) and ids already under the document prefix are
// kept; anything else is placed under the document prefix. The empty id
// stays empty.
func (d *Document) ResolveID(id string) string {
	switch {
	case id == "":
		return ""
	case absoluteID.MatchString(id), strings.HasPrefix(id, "urn:"):
		return id
	case d.id != "" && strings.HasPrefix(id, d.prefix()):
		return id
	default:
		return d.prefix() + id
	}
}

// makeID returns the first unused <prefix><hint><n>, n counting from 1.
func (d *Document) makeID(hint string) string {
	n := max(d.next[hint], 1)
	for {
		id := d.prefix() + hint + strconv.Itoa(n)
		if _, ok := d.registry[id]; !ok {
			d.next[hint] = n + 1
			return id
		}
		n++
	}
}

func (d *Document) register(op, id string, it Item) error {
	if id == rootKey {
		return errors.NewReservedID(op)
	}
	if _, ok := d.registry[id]; ok {
		return errors.NewDuplicateID(op, id)
	}
	d.registry[id] = it
	return nil
}

// checkFree validates an explicit id before anything is created for it.
func (d *Document) checkFree(op, id string) error {
	if id == rootKey {
		return errors.NewReservedID(op)
	}
	if _, ok := d.registry[id]; ok {
		return errors.NewDuplicateID(op, id)
	}
	return nil
}

// unregister drops id from the registry and every side store keyed by it.
func (d *Document) unregister(id string) {
	if it, ok := d.registry[id]; ok {
		d.RemoveLinguisticActs(it)
		d.removeAssertionsOf(id)
	}
	delete(d.registry, id)
	delete(d.userData, id)
	clear(d.next)
}

// owns reports whether it is registered in d under its own id.
func (d *Document) owns(it Item) bool {
	if it == nil || it.OwnerDocument() != d {
		return false
	}
	if doc, ok := it.(*Document); ok {
		return doc == d
	}
	return d.registry[it.ID()] == it
}

// key returns the graph key of a node owned by d.
func (d *Document) key(op string, n Node) (string, error) {
	if n == nil {
		return "", errors.NewNoChild(op, "")
	}
	if !d.owns(n) {
		return "", errors.NewWrongDocument(op, n.ID())
	}
	if _, ok := n.(*Document); ok {
		return rootKey, nil
	}
	return n.ID(), nil
}

// EntityByID returns the item bound to id, resolved with ResolveID.
func (d *Document) EntityByID(id string) (Item, bool) {
	it, ok := d.registry[d.ResolveID(id)]
	return it, ok
}

// IDs returns every registered id, sorted.
func (d *Document) IDs() []string {
	ids := make([]string, 0, len(d.registry))
	for id := range d.registry {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Len returns the number of registered items, docuverses included.
func (d *Document) Len() int { return len(d.registry) }

// AllNodes returns every markup item and range, sorted by id.
func (d *Document) AllNodes() []ChildNode {
	var out []ChildNode
	for _, id := range d.IDs() {
		if c, ok := d.registry[id].(ChildNode); ok {
			out = append(out, c)
		}
	}
	return out
}

// AllMarkupItems returns every markup item, sorted by id.
func (d *Document) AllMarkupItems() []*MarkupItem {
	return collect[*MarkupItem](d)
}

// AllRanges returns every range, sorted by id.
func (d *Document) AllRanges() []*Range {
	return collect[*Range](d)
}

// AllDocuverses returns every docuverse, sorted by id.
func (d *Document) AllDocuverses() []*Docuverse {
	return collect[*Docuverse](d)
}

func collect[T Item](d *Document) []T {
	var out []T
	for _, id := range d.IDs() {
		if it, ok := d.registry[id].(T); ok {
			out = append(out, it)
		}
	}
	return out
}

// Roots returns the children of the document root.
func (d *Document) Roots() []ChildNode { return d.ChildNodes() }

// MarkupItemsByGeneralIdentifier returns the markup items named gi in any
// namespace, sorted by id.
func (d *Document) MarkupItemsByGeneralIdentifier(gi string) []*MarkupItem {
	var ids []string
	for k, set := range d.markup {
		if k.gi == gi {
			for id := range set {
				ids = append(ids, id)
			}
		}
	}
	return d.markupByIDs(ids)
}

// MarkupItemsByGeneralIdentifierAndNamespace returns the markup items named
// gi in namespace ns ("" for none), sorted by id.
func (d *Document) MarkupItemsByGeneralIdentifierAndNamespace(gi, ns string) []*MarkupItem {
	var ids []string
	for id := range d.markup[giNS{gi: gi, ns: ns}] {
		ids = append(ids, id)
	}
	return d.markupByIDs(ids)
}

// Namespaces returns the namespaces used by markup items, sorted.
func (d *Document) Namespaces() []string {
	seen := make(map[string]bool)
	var out []string
	for k, set := range d.markup {
		if k.ns != "" && len(set) > 0 && !seen[k.ns] {
			seen[k.ns] = true
			out = append(out, k.ns)
		}
	}
	slices.Sort(out)
	return out
}

// GeneralIdentifiersInNamespace returns the general identifiers used in ns,
// sorted.
func (d *Document) GeneralIdentifiersInNamespace(ns string) []string {
	var out []string
	for k, set := range d.markup {
		if k.ns == ns && k.gi != "" && len(set) > 0 {
			out = append(out, k.gi)
		}
	}
	slices.Sort(out)
	return out
}

func (d *Document) markupByIDs(ids []string) []*MarkupItem {
	slices.Sort(ids)
	out := make([]*MarkupItem, 0, len(ids))
	for _, id := range ids {
		if m, ok := d.registry[id].(*MarkupItem); ok {
			out = append(out, m)
		}
	}
	return out
}

func (d *Document) indexMarkup(m *MarkupItem) {
	k := giNS{gi: m.gi, ns: m.ns}
	set, ok := d.markup[k]
	if !ok {
		set = make(map[string]struct{})
		d.markup[k] = set
	}
	set[m.id] = struct{}{}
}

func (d *Document) unindexMarkup(m *MarkupItem) {
	k := giNS{gi: m.gi, ns: m.ns}
	delete(d.markup[k], m.id)
	if len(d.markup[k]) == 0 {
		delete(d.markup, k)
	}
}

// TextContent concatenates the text of the root children. The second
// result is false when no child has text.
func (d *Document) TextContent() (string, bool) {
	return d.textOf(rootKey, make(map[string]bool))
}

// textOf concatenates the text of the children of key. path holds the
// markup items being visited, so cycles contribute nothing.
func (d *Document) textOf(key string, path map[string]bool) (string, bool) {
	c, ok := d.children[key]
	if !ok {
		return "", false
	}
	path[key] = true
	defer delete(path, key)

	var sb strings.Builder
	found := false
	for id := range c.All() {
		var (
			text string
			ok   bool
		)
		switch n := d.registry[id].(type) {
		case *Range:
			text, ok = n.TextContent()
		case *MarkupItem:
			if path[id] {
				continue
			}
			text, ok = d.textOf(id, path)
		}
		if ok {
			found = true
			sb.WriteString(text)
		}
	}
	return sb.String(), found
}

// Rename binds it to newID (resolved with ResolveID) and rewrites every
// reference to the old id. It returns false when newID is already the id
// of it.
func (d *Document) Rename(it Item, newID string) (bool, error) {
	const op = "rename"
	if it == nil || !d.owns(it) {
		id := ""
		if it != nil {
			id = it.ID()
		}
		return false, errors.NewWrongDocument(op, id)
	}
	if _, ok := it.(*Document); ok {
		return false, errors.NewUnsupported("rename", "the document id is fixed")
	}

	old := it.ID()
	nid := d.ResolveID(newID)
	if nid == old {
		return false, nil
	}
	if err := d.checkFree(op, nid); err != nil {
		return false, err
	}

	delete(d.registry, old)
	d.registry[nid] = it
	swap := func(id string) string {
		if id == old {
			return nid
		}
		return id
	}

	switch n := it.(type) {
	case *MarkupItem:
		d.unindexMarkup(n)
		n.id = nid
		d.indexMarkup(n)
		d.children[nid] = d.children[old]
		delete(d.children, old)
		d.moveParents(old, nid, swap)
		for _, cid := range distinct(d.children[nid].Items()) {
			if ps, ok := d.parents[swap(cid)]; ok {
				ps.ReplaceFirst(old, nid)
			}
		}
	case *Range:
		delete(d.ranges, n.key())
		n.id = nid
		d.ranges[n.key()] = n
		d.moveParents(old, nid, swap)
		n.docuverse.ranges.ReplaceFirst(old, nid)
	case *Docuverse:
		n.id = nid
	}

	if data, ok := d.userData[old]; ok {
		d.userData[nid] = data
		delete(d.userData, old)
	}
	d.graph.RenameResource(rdf.IRI(old), rdf.IRI(nid))
	clear(d.next)
	return true, nil
}

// moveParents rekeys the parent set of old and rewrites old in every
// parent's container.
func (d *Document) moveParents(old, nid string, swap func(string) string) {
	ps := d.parents[old]
	delete(d.parents, old)
	d.parents[nid] = ps
	for _, pid := range ps.Items() {
		if c, ok := d.children[swap(pid)]; ok {
			c.ReplaceAll(old, nid)
		}
	}
	ps.ReplaceFirst(old, nid)
}

func distinct(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
