// Package mddoc adapts a Markdown document to outline.Document. Heading ids
// use the {#id} attribute syntax; positions are block indexes in document
// order.
package mddoc

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/kailas-cloud/inkwell/internal/outline"
)

// Compile-time check: Doc is an outline.Document.
var _ outline.Document = (*Doc)(nil)

// ErrNoHeading is returned by Apply when a position does not hold a heading.
var ErrNoHeading = errors.New("mddoc: no heading at position")

var md = goldmark.New(goldmark.WithParserOptions(parser.WithAttribute()))

// Doc is a parsed Markdown document.
type Doc struct {
	src  []byte
	root ast.Node
}

// Parse parses Markdown source.
func Parse(src []byte) *Doc {
	return &Doc{src: src, root: md.Parser().Parse(text.NewReader(src))}
}

// Descendants walks the block nodes of the document.
func (d *Doc) Descendants(fn func(n outline.Node, pos int) bool) {
	pos := 0
	var walk func(n ast.Node, visit bool)
	walk = func(n ast.Node, visit bool) {
		descend := visit
		if visit {
			descend = fn(block{n, d.src}, pos)
		}
		pos++
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			if c.Type() == ast.TypeBlock {
				walk(c, descend)
			}
		}
	}
	for c := d.root.FirstChild(); c != nil; c = c.NextSibling() {
		walk(c, true)
	}
}

// Apply sets heading id attributes, all or none.
func (d *Doc) Apply(tx *outline.Transaction) error {
	byPos := make(map[int]*ast.Heading)
	d.Descendants(func(n outline.Node, pos int) bool {
		if h, ok := n.(block).Node.(*ast.Heading); ok {
			byPos[pos] = h
		}
		return true
	})

	targets := make([]*ast.Heading, len(tx.Assignments))
	for i, a := range tx.Assignments {
		h, ok := byPos[a.Pos]
		if !ok {
			return fmt.Errorf("%w: %d", ErrNoHeading, a.Pos)
		}
		targets[i] = h
	}
	for i, a := range tx.Assignments {
		targets[i].SetAttributeString("id", []byte(a.ID))
	}
	return nil
}

// RenderHTML renders the document; headings carry their id attributes.
func (d *Doc) RenderHTML() (string, error) {
	var buf bytes.Buffer
	if err := md.Renderer().Render(&buf, d.src, d.root); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}

type block struct {
	ast.Node
	src []byte
}

func (b block) Type() string {
	if _, ok := b.Node.(*ast.Heading); ok {
		return outline.HeadingType
	}
	return b.Kind().String()
}

func (b block) Level() int {
	if h, ok := b.Node.(*ast.Heading); ok {
		return h.Level
	}
	return 0
}

func (b block) ID() string {
	v, ok := b.AttributeString("id")
	if !ok {
		return ""
	}
	switch id := v.(type) {
	case []byte:
		return string(id)
	case string:
		return id
	}
	return ""
}

func (b block) TextContent() string {
	var buf bytes.Buffer
	_ = ast.Walk(b.Node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := n.(type) {
		case *ast.Text:
			buf.Write(t.Segment.Value(b.src))
			if t.SoftLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(buf.String())
}
