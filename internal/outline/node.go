// Package outline keeps heading identifiers of a document stable and unique
// and derives a nested table of contents from them.
package outline

// HeadingType is the node type name of headings.
const HeadingType = "heading"

// Node is the read view of a document node.
type Node interface {
	Type() string
	// Level is the heading level; 0 for non-heading nodes.
	Level() int
	// ID is the heading identifier, "" when unset.
	ID() string
	TextContent() string
}

// Document is a mutable document the synchronizer can read and annotate.
type Document interface {
	// Descendants walks all nodes depth first in document order. Returning
	// false from fn skips the node's children.
	Descendants(fn func(n Node, pos int) bool)
	// Apply sets the identifiers of a transaction atomically: either every
	// assignment is applied or none is.
	Apply(tx *Transaction) error
}

// Assignment sets the id of the heading at Pos.
type Assignment struct {
	Pos int
	ID  string
}

// Transaction is an ordered batch of id assignments.
type Transaction struct {
	Assignments []Assignment
}

// Len returns the number of assignments.
func (tx *Transaction) Len() int {
	if tx == nil {
		return 0
	}
	return len(tx.Assignments)
}

func headings(doc Document, fn func(n Node, pos int)) {
	doc.Descendants(func(n Node, pos int) bool {
		if n.Type() == HeadingType {
			fn(n, pos)
			// Headings hold inline content only.
			return false
		}
		return true
	})
}
