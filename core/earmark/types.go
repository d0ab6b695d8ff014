package earmark

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/FocuswithJustin/earmark/core/collection"
)

// NodeType identifies the kind of a graph node.
type NodeType int

// Node type constants.
const (
	DocumentNode NodeType = iota
	ElementNode
	AttributeNode
	CommentNode
	PointerRangeNode
	XPathPointerRangeNode
)

var nodeTypeNames = map[NodeType]string{
	DocumentNode:          "Document",
	ElementNode:           "Element",
	AttributeNode:         "Attribute",
	CommentNode:           "Comment",
	PointerRangeNode:      "PointerRange",
	XPathPointerRangeNode: "XPathPointerRange",
}

// String returns the node type name.
func (t NodeType) String() string {
	if name, ok := nodeTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("NodeType(%d)", int(t))
}

// ParseNodeType parses a node type name case-insensitively.
func ParseNodeType(s string) (NodeType, error) {
	for t, name := range nodeTypeNames {
		if strings.EqualFold(name, s) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown node type %q", s)
}

// IsMarkup reports whether t is a markup item type.
func (t NodeType) IsMarkup() bool {
	return t == ElementNode || t == AttributeNode || t == CommentNode
}

// IsRange reports whether t is a range type.
func (t NodeType) IsRange() bool {
	return t == PointerRangeNode || t == XPathPointerRangeNode
}

// DocuverseType identifies where a docuverse gets its content.
type DocuverseType int

// Docuverse type constants.
const (
	StringDocuverseType DocuverseType = iota
	URIDocuverseType
)

// String returns the docuverse type name.
func (t DocuverseType) String() string {
	switch t {
	case StringDocuverseType:
		return "StringDocuverse"
	case URIDocuverseType:
		return "URIDocuverse"
	default:
		return fmt.Sprintf("DocuverseType(%d)", int(t))
	}
}

// ParseDocuverseType parses a docuverse type name case-insensitively.
func ParseDocuverseType(s string) (DocuverseType, error) {
	switch strings.ToLower(s) {
	case "stringdocuverse", "string":
		return StringDocuverseType, nil
	case "uridocuverse", "uri":
		return URIDocuverseType, nil
	}
	return 0, fmt.Errorf("unknown docuverse type %q", s)
}

// ContainerType is the discipline a hierarchical node applies to its
// children.
type ContainerType = collection.Kind

// Container types.
const (
	List = collection.List
	Bag  = collection.Bag
	Set  = collection.Set
)

// Location is an optional non-negative offset into range content. The zero
// value is Open.
type Location struct {
	offset int
	set    bool
}

// Open is the absent location: the start or the end of the content.
var Open = Location{}

// At returns the location n. Negative values are stored as |n|;
// math.MinInt, which has no positive counterpart, becomes math.MaxInt.
func At(n int) Location {
	switch {
	case n == math.MinInt:
		n = math.MaxInt
	case n < 0:
		n = -n
	}
	return Location{offset: n, set: true}
}

// LocationOf converts an optional offset to a Location.
func LocationOf(p *int) Location {
	if p == nil {
		return Open
	}
	return At(*p)
}

// Offset returns the offset and whether the location is set.
func (l Location) Offset() (int, bool) { return l.offset, l.set }

// IsOpen reports whether the location is absent.
func (l Location) IsOpen() bool { return !l.set }

// Ptr returns the offset as a pointer, nil when open.
func (l Location) Ptr() *int {
	if !l.set {
		return nil
	}
	n := l.offset
	return &n
}

// String returns the offset, or "open".
func (l Location) String() string {
	if !l.set {
		return "open"
	}
	return strconv.Itoa(l.offset)
}

func (l Location) or(def int) int {
	if !l.set {
		return def
	}
	return l.offset
}

// Item is anything registered under an id in a document.
type Item interface {
	ID() string
	LocalID() string
	OwnerDocument() *Document
}

// Node is an item that takes part in the markup graph.
type Node interface {
	Item
	NodeType() NodeType
	// TextContent returns the text of the node. The second result is false
	// when the node has no text at all.
	TextContent() (string, bool)
}

// ChildNode is a node that can be a child of a hierarchical node.
type ChildNode interface {
	Node
	ParentNode() ParentNode
	ParentNodes() []ParentNode
	NextSibling() ChildNode
	PreviousSibling() ChildNode
	NextSiblings() []ChildNode
	PreviousSiblings() []ChildNode
	childNode()
}

// ParentNode is a node holding children: the Document or a MarkupItem.
type ParentNode interface {
	Node
	ContainerType() ContainerType
	AppendChild(child ChildNode) error
	InsertBefore(newChild, refChild ChildNode) error
	InsertBeforeOccurrence(newChild, refChild ChildNode, n int) error
	RemoveChild(child ChildNode) error
	RemoveChildOccurrence(child ChildNode, n int) error
	RemoveAllChild(child ChildNode) (bool, error)
	ReplaceChild(newChild, oldChild ChildNode) error
	ReplaceChildOccurrence(newChild, oldChild ChildNode, n int) error
	ReplaceAllChild(newChild, oldChild ChildNode) (bool, error)
	ChildNodes() []ChildNode
	HasChildNodes() bool
	FirstChild() ChildNode
	LastChild() ChildNode
	ChildElements() []*MarkupItem
	Attributes() []*MarkupItem
	Comments() []*MarkupItem
	HasAttributes() bool
	HasElementNodes() bool
}

// localID returns the last non-empty segment of id split on '/' or '#'.
func localID(id string) string {
	parts := strings.FieldsFunc(id, func(r rune) bool { return r == '/' || r == '#' })
	if len(parts) == 0 {
		return id
	}
	return parts[len(parts)-1]
}
