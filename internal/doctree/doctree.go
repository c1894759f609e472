// Package doctree is an in-memory editor document: a tree of typed nodes
// with attributes, addressed by ProseMirror-style positions.
package doctree

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf16"

	"github.com/kailas-cloud/inkwell/internal/outline"
)

// Compile-time check: Doc is an outline.Document.
var _ outline.Document = (*Doc)(nil)

// ErrNoHeading is returned by Apply when a position does not hold a heading.
var ErrNoHeading = errors.New("doctree: no heading at position")

// Node is one document node. Text nodes carry Text; other nodes carry
// Content.
type Node struct {
	Type    string            `json:"type"`
	Attrs   map[string]any    `json:"attrs,omitempty"`
	Text    string            `json:"text,omitempty"`
	Marks   []json.RawMessage `json:"marks,omitempty"`
	Content []*Node           `json:"content,omitempty"`
}

// Doc is the document root.
type Doc struct {
	Root *Node
}

// Parse reads an editor JSON document.
func Parse(data []byte) (*Doc, error) {
	var root Node
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	if root.Type != "doc" {
		return nil, fmt.Errorf("parse document: root type %q, want doc", root.Type)
	}
	return &Doc{Root: &root}, nil
}

// MarshalJSON writes the document back in editor JSON form.
func (d *Doc) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Root)
}

// IsText reports whether n is a text node.
func (n *Node) IsText() bool { return n.Type == "text" }

// IsLeaf reports whether n is a non-text node without content.
func (n *Node) IsLeaf() bool { return !n.IsText() && len(n.Content) == 0 && !isContainer(n.Type) }

// NodeSize is the width of the node in position units: text length in
// UTF-16 code units for text, 1 for leaves, content plus open and close
// tokens for containers.
func (n *Node) NodeSize() int {
	if n.IsText() {
		return len(utf16.Encode([]rune(n.Text)))
	}
	if n.IsLeaf() {
		return 1
	}
	size := 2
	for _, c := range n.Content {
		size += c.NodeSize()
	}
	return size
}

// TextContent concatenates the text of all descendant text nodes.
func (n *Node) TextContent() string {
	if n.IsText() {
		return n.Text
	}
	var b strings.Builder
	for _, c := range n.Content {
		b.WriteString(c.TextContent())
	}
	return b.String()
}

// Descendants walks the content of the document depth first. Positions
// are relative to the start of the document content.
func (d *Doc) Descendants(fn func(n outline.Node, pos int) bool) {
	descend(d.Root.Content, 0, fn)
}

func descend(nodes []*Node, pos int, fn func(n outline.Node, pos int) bool) {
	for _, c := range nodes {
		if fn(view{c}, pos) && len(c.Content) > 0 {
			descend(c.Content, pos+1, fn)
		}
		pos += c.NodeSize()
	}
}

// NodeAt returns the node starting at pos, or nil.
func (d *Doc) NodeAt(pos int) *Node {
	var found *Node
	d.Descendants(func(n outline.Node, p int) bool {
		if found != nil {
			return false
		}
		if p == pos {
			found = n.(view).Node
			return false
		}
		return true
	})
	return found
}

// Apply sets heading ids. All positions are checked before any node is
// changed.
func (d *Doc) Apply(tx *outline.Transaction) error {
	targets := make([]*Node, len(tx.Assignments))
	for i, a := range tx.Assignments {
		n := d.NodeAt(a.Pos)
		if n == nil || n.Type != outline.HeadingType {
			return fmt.Errorf("%w: %d", ErrNoHeading, a.Pos)
		}
		targets[i] = n
	}
	for i, a := range tx.Assignments {
		n := targets[i]
		if n.Attrs == nil {
			n.Attrs = make(map[string]any)
		}
		n.Attrs["id"] = a.ID
	}
	return nil
}

// view adapts a Node to outline.Node.
type view struct{ *Node }

func (v view) Type() string { return v.Node.Type }

func (v view) Level() int {
	if v.Node.Type != outline.HeadingType {
		return 0
	}
	switch l := v.Attrs["level"].(type) {
	case float64:
		return int(l)
	case int:
		return l
	case int64:
		return int(l)
	}
	return 1
}

func (v view) ID() string {
	id, _ := v.Attrs["id"].(string)
	return id
}

// isContainer lists node types that take content even when empty.
func isContainer(typ string) bool {
	switch typ {
	case "doc", "paragraph", "heading", "blockquote", "bulletList", "orderedList",
		"listItem", "codeBlock", "taskList", "taskItem", "table", "tableRow", "tableCell", "tableHeader":
		return true
	}
	return false
}
