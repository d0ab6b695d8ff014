// Package earmark is an in-memory engine for documents made of overlapping
// markup.
//
// A Document is a graph rather than a tree: markup items (elements,
// attributes, comments) can have several parents, and ranges project spans
// of an underlying text source (a docuverse) into the graph.
//
// # Entities
//
//   - Document: owns every entity and is itself the Set-typed root node
//   - MarkupItem: Element, Attribute or Comment with an optional general
//     identifier and namespace, holding children in a List, Bag or Set
//   - Range: PointerRange or XPathPointerRange over one Docuverse
//   - Docuverse: literal string content, or a URI fetched once on demand
//
// Entities are created through Document factory methods only and every
// structural change goes through the Document, so the child containers and
// the parent sets always agree.
//
// # Identity
//
// Ids are unique within a document. Generated ids have the form
// <document-id>/<hint><n> with the smallest unused n. The empty id is
// reserved for the document root.
//
// # Equality
//
// Same compares identity, Equal compares shape and content but accepts
// identical subtrees by id, and StructurallyEqual ignores ids entirely.
// Children of Bag and Set containers are matched as multisets.
//
// # Example
//
//	doc := earmark.NewDocument("http://example.org/alice")
//	dv := doc.CreateStringDocuverse("Alice was beginning to get very tired")
//	p := doc.CreateElement("p", "", earmark.List)
//	_ = doc.AppendChild(p)
//	r, _ := doc.CreatePointerRange(dv, earmark.At(0), earmark.At(5))
//	_ = p.AppendChild(r)
//	text, _ := doc.TextContent() // "Alice"
package earmark
