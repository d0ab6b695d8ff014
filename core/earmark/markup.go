package earmark

import (
	"fmt"

	"github.com/FocuswithJustin/earmark/core/collection"
	"github.com/FocuswithJustin/earmark/core/errors"
)

// MarkupItem is an Element, Attribute or Comment. It is both a child and a
// parent: its own children are held in a container whose type is fixed at
// creation.
type MarkupItem struct {
	doc       *Document
	id        string
	kind      NodeType
	gi        string
	ns        string
	container ContainerType
}

// ID returns the item id.
func (m *MarkupItem) ID() string {
	if m == nil {
		return ""
	}
	return m.id
}

// LocalID returns the last segment of the id.
func (m *MarkupItem) LocalID() string { return localID(m.ID()) }

// OwnerDocument returns the document the item was created in.
func (m *MarkupItem) OwnerDocument() *Document {
	if m == nil {
		return nil
	}
	return m.doc
}

// NodeType returns ElementNode, AttributeNode or CommentNode.
func (m *MarkupItem) NodeType() NodeType { return m.kind }

// GeneralIdentifier returns the name of the item, "" when absent.
func (m *MarkupItem) GeneralIdentifier() string { return m.gi }

// Namespace returns the namespace of the item, "" when absent.
func (m *MarkupItem) Namespace() string { return m.ns }

// ContainerType returns how the children of the item are organized.
func (m *MarkupItem) ContainerType() ContainerType { return m.container }

// TextContent concatenates the text of the children.
func (m *MarkupItem) TextContent() (string, bool) {
	if !m.doc.owns(m) {
		return "", false
	}
	return m.doc.textOf(m.id, make(map[string]bool))
}

func (m *MarkupItem) String() string {
	return fmt.Sprintf("%s(%s gi=%q ns=%q %s)", m.kind, m.id, m.gi, m.ns, m.container)
}

func (m *MarkupItem) childNode() {}

// CreateElement creates a detached element with a generated id.
func (d *Document) CreateElement(gi, ns string, ct ContainerType) *MarkupItem {
	return d.newMarkupItem(ElementNode, d.makeID(MarkupItemHint), gi, ns, ct)
}

// CreateElementWithID creates a detached element with an explicit id.
func (d *Document) CreateElementWithID(id, gi, ns string, ct ContainerType) (*MarkupItem, error) {
	return d.createMarkupItem("createElement", ElementNode, d.ResolveID(id), gi, ns, ct)
}

// CreateAttribute creates a detached attribute with a generated id.
func (d *Document) CreateAttribute(gi, ns string, ct ContainerType) *MarkupItem {
	return d.newMarkupItem(AttributeNode, d.makeID(MarkupItemHint), gi, ns, ct)
}

// CreateAttributeWithID creates a detached attribute with an explicit id.
func (d *Document) CreateAttributeWithID(id, gi, ns string, ct ContainerType) (*MarkupItem, error) {
	return d.createMarkupItem("createAttribute", AttributeNode, d.ResolveID(id), gi, ns, ct)
}

// CreateComment creates a detached comment with a generated id.
func (d *Document) CreateComment(gi, ns string, ct ContainerType) *MarkupItem {
	return d.newMarkupItem(CommentNode, d.makeID(MarkupItemHint), gi, ns, ct)
}

// CreateCommentWithID creates a detached comment with an explicit id.
func (d *Document) CreateCommentWithID(id, gi, ns string, ct ContainerType) (*MarkupItem, error) {
	return d.createMarkupItem("createComment", CommentNode, d.ResolveID(id), gi, ns, ct)
}

// CreateMarkupItem creates a markup item of the given type. An empty id
// asks for a generated one.
func (d *Document) CreateMarkupItem(kind NodeType, id, gi, ns string, ct ContainerType) (*MarkupItem, error) {
	if !kind.IsMarkup() {
		return nil, errors.NewValidation("kind", fmt.Sprintf("%s is not a markup item type", kind))
	}
	if id == "" {
		return d.newMarkupItem(kind, d.makeID(MarkupItemHint), gi, ns, ct), nil
	}
	return d.createMarkupItem("createMarkupItem", kind, d.ResolveID(id), gi, ns, ct)
}

func (d *Document) createMarkupItem(op string, kind NodeType, id, gi, ns string, ct ContainerType) (*MarkupItem, error) {
	if err := d.checkFree(op, id); err != nil {
		return nil, err
	}
	return d.newMarkupItem(kind, id, gi, ns, ct), nil
}

// newMarkupItem registers a markup item under an id known to be free.
func (d *Document) newMarkupItem(kind NodeType, id, gi, ns string, ct ContainerType) *MarkupItem {
	m := &MarkupItem{doc: d, id: id, kind: kind, gi: gi, ns: ns, container: ct}
	d.registry[id] = m
	d.children[id] = collection.New[string](ct)
	d.parents[id] = collection.New[string](collection.Set)
	d.indexMarkup(m)
	return m
}

// AppendChild appends child to the children of m.
func (m *MarkupItem) AppendChild(child ChildNode) error {
	return m.doc.appendChild(m, child)
}

// InsertBefore inserts newChild before the first occurrence of refChild.
func (m *MarkupItem) InsertBefore(newChild, refChild ChildNode) error {
	return m.doc.insertBefore(m, newChild, refChild, 1)
}

// InsertBeforeOccurrence inserts newChild before the n-th occurrence of
// refChild.
func (m *MarkupItem) InsertBeforeOccurrence(newChild, refChild ChildNode, n int) error {
	return m.doc.insertBefore(m, newChild, refChild, n)
}

// RemoveChild removes the first occurrence of child.
func (m *MarkupItem) RemoveChild(child ChildNode) error {
	return m.doc.removeChild(m, child, 1)
}

// RemoveChildOccurrence removes the n-th occurrence of child.
func (m *MarkupItem) RemoveChildOccurrence(child ChildNode, n int) error {
	return m.doc.removeChild(m, child, n)
}

// RemoveAllChild removes every occurrence of child.
func (m *MarkupItem) RemoveAllChild(child ChildNode) (bool, error) {
	return m.doc.removeAllChild(m, child)
}

// ReplaceChild replaces the first occurrence of oldChild with newChild.
func (m *MarkupItem) ReplaceChild(newChild, oldChild ChildNode) error {
	return m.doc.replaceChild(m, newChild, oldChild, 1)
}

// ReplaceChildOccurrence replaces the n-th occurrence of oldChild.
func (m *MarkupItem) ReplaceChildOccurrence(newChild, oldChild ChildNode, n int) error {
	return m.doc.replaceChild(m, newChild, oldChild, n)
}

// ReplaceAllChild replaces every occurrence of oldChild with newChild.
func (m *MarkupItem) ReplaceAllChild(newChild, oldChild ChildNode) (bool, error) {
	return m.doc.replaceAllChild(m, newChild, oldChild)
}

// ChildNodes returns the children in container order.
func (m *MarkupItem) ChildNodes() []ChildNode { return m.doc.childNodes(m) }

// HasChildNodes reports whether m has children.
func (m *MarkupItem) HasChildNodes() bool { return m.doc.hasChildNodes(m) }

// FirstChild returns the first child, or nil.
func (m *MarkupItem) FirstChild() ChildNode { return m.doc.firstChild(m) }

// LastChild returns the last child, or nil.
func (m *MarkupItem) LastChild() ChildNode { return m.doc.lastChild(m) }

// ChildElements returns the element children.
func (m *MarkupItem) ChildElements() []*MarkupItem { return m.doc.childrenOfType(m, ElementNode) }

// Attributes returns the attribute children.
func (m *MarkupItem) Attributes() []*MarkupItem { return m.doc.childrenOfType(m, AttributeNode) }

// Comments returns the comment children.
func (m *MarkupItem) Comments() []*MarkupItem { return m.doc.childrenOfType(m, CommentNode) }

// HasAttributes reports whether m has attribute children.
func (m *MarkupItem) HasAttributes() bool { return len(m.Attributes()) > 0 }

// HasElementNodes reports whether m has element children.
func (m *MarkupItem) HasElementNodes() bool { return len(m.ChildElements()) > 0 }

// ParentNode returns the first parent m was attached to, or nil.
func (m *MarkupItem) ParentNode() ParentNode { return m.doc.parentNode(m) }

// ParentNodes returns every parent, sorted by id (the document first).
func (m *MarkupItem) ParentNodes() []ParentNode { return m.doc.parentNodes(m) }

// NextSibling returns a next sibling, or nil.
func (m *MarkupItem) NextSibling() ChildNode { return m.doc.sibling(m, 1) }

// PreviousSibling returns a previous sibling, or nil.
func (m *MarkupItem) PreviousSibling() ChildNode { return m.doc.sibling(m, -1) }

// NextSiblings returns every next sibling across all parents.
func (m *MarkupItem) NextSiblings() []ChildNode { return m.doc.siblings(m, 1) }

// PreviousSiblings returns every previous sibling across all parents.
func (m *MarkupItem) PreviousSiblings() []ChildNode { return m.doc.siblings(m, -1) }
