// Package htmldoc adapts an HTML fragment to outline.Document. Positions are
// element indexes in document order.
package htmldoc

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/kailas-cloud/inkwell/internal/outline"
)

// Compile-time check: Doc is an outline.Document.
var _ outline.Document = (*Doc)(nil)

// ErrNoHeading is returned by Apply when a position does not hold a heading.
var ErrNoHeading = errors.New("htmldoc: no heading at position")

// Doc is a parsed HTML fragment, usually a post body.
type Doc struct {
	nodes []*html.Node
}

// Parse reads an HTML body fragment.
func Parse(r io.Reader) (*Doc, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(r, body)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &Doc{nodes: nodes}, nil
}

// ParseString is Parse for in-memory content.
func ParseString(s string) (*Doc, error) {
	return Parse(strings.NewReader(s))
}

// Descendants walks the element nodes of the fragment.
func (d *Doc) Descendants(fn func(n outline.Node, pos int) bool) {
	pos := 0
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type != html.ElementNode {
			return
		}
		p := pos
		pos++
		descend := fn(element{n}, p)
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if descend {
				walk(c)
			} else {
				skip(c, &pos)
			}
		}
	}
	for _, n := range d.nodes {
		walk(n)
	}
}

// skip advances pos past the elements below n so positions do not depend on
// which subtrees the caller visits.
func skip(n *html.Node, pos *int) {
	if n.Type != html.ElementNode {
		return
	}
	*pos++
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		skip(c, pos)
	}
}

// Apply sets the id attribute of every assigned heading, or none of them.
func (d *Doc) Apply(tx *outline.Transaction) error {
	byPos := make(map[int]*html.Node)
	d.Descendants(func(n outline.Node, pos int) bool {
		byPos[pos] = n.(element).Node
		return true
	})

	targets := make([]*html.Node, len(tx.Assignments))
	for i, a := range tx.Assignments {
		n, ok := byPos[a.Pos]
		if !ok || headingLevel(n) == 0 {
			return fmt.Errorf("%w: %d", ErrNoHeading, a.Pos)
		}
		targets[i] = n
	}
	for i, a := range tx.Assignments {
		setAttr(targets[i], "id", a.ID)
	}
	return nil
}

// Render writes the fragment back as HTML.
func (d *Doc) Render() (string, error) {
	var buf bytes.Buffer
	for _, n := range d.nodes {
		if err := html.Render(&buf, n); err != nil {
			return "", fmt.Errorf("render html: %w", err)
		}
	}
	return buf.String(), nil
}

type element struct{ *html.Node }

func (e element) Type() string {
	if headingLevel(e.Node) > 0 {
		return outline.HeadingType
	}
	return e.Data
}

func (e element) Level() int { return headingLevel(e.Node) }

func (e element) ID() string { return attr(e.Node, "id") }

func (e element) TextContent() string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(e.Node)
	return strings.TrimSpace(b.String())
}

func headingLevel(n *html.Node) int {
	switch n.DataAtom {
	case atom.H1:
		return 1
	case atom.H2:
		return 2
	case atom.H3:
		return 3
	case atom.H4:
		return 4
	case atom.H5:
		return 5
	case atom.H6:
		return 6
	}
	return 0
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func setAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}
