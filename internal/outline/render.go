package outline

import (
	"bytes"
	"fmt"
	"strconv"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// DefaultCSSClass is the class of the outer outline list.
const DefaultCSSClass = "toc"

// RenderOptions controls RenderHTML.
type RenderOptions struct {
	// Title, when set, is rendered in a div.toc-title before the list.
	Title    string
	CSSClass string
}

// RenderHTML renders the outline as nested lists of anchors pointing at the
// heading ids.
func RenderHTML(items []*Item, opts RenderOptions) (string, error) {
	class := opts.CSSClass
	if class == "" {
		class = DefaultCSSClass
	}

	var nodes []*html.Node
	if opts.Title != "" {
		title := element(atom.Div, html.Attribute{Key: "class", Val: "toc-title"})
		title.AppendChild(text(opts.Title))
		nodes = append(nodes, title)
	}

	list := element(atom.Ul, html.Attribute{Key: "class", Val: class})
	appendItems(list, items)
	nodes = append(nodes, list)

	var buf bytes.Buffer
	for _, n := range nodes {
		if err := html.Render(&buf, n); err != nil {
			return "", fmt.Errorf("render outline: %w", err)
		}
	}
	return buf.String(), nil
}

func appendItems(list *html.Node, items []*Item) {
	for _, it := range items {
		if it.Heading == nil {
			// Skipped level: the deeper list sits directly in this one.
			nested := element(atom.Ul)
			appendItems(nested, it.Children)
			list.AppendChild(nested)
			continue
		}

		h := it.Heading
		a := element(atom.A,
			html.Attribute{Key: "href", Val: "#" + h.ID},
			html.Attribute{Key: "class", Val: "toc-item toc-item-h" + strconv.Itoa(h.Level)},
		)
		a.AppendChild(text(h.Text))

		li := element(atom.Li)
		li.AppendChild(a)
		if len(it.Children) > 0 {
			nested := element(atom.Ul)
			appendItems(nested, it.Children)
			li.AppendChild(nested)
		}
		list.AppendChild(li)
	}
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}
