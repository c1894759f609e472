package outline

import "errors"

type fakeNode struct {
	typ   string
	level int
	id    string
	text  string
}

func (n *fakeNode) Type() string        { return n.typ }
func (n *fakeNode) Level() int          { return n.level }
func (n *fakeNode) ID() string          { return n.id }
func (n *fakeNode) TextContent() string { return n.text }

// fakeDoc is a flat document; positions are node indexes.
type fakeDoc struct {
	nodes   []*fakeNode
	applied int
	failing bool
}

func h(level int, text string) *fakeNode {
	return &fakeNode{typ: HeadingType, level: level, text: text}
}

func hid(level int, text, id string) *fakeNode {
	return &fakeNode{typ: HeadingType, level: level, text: text, id: id}
}

func para(text string) *fakeNode {
	return &fakeNode{typ: "paragraph", text: text}
}

func newDoc(nodes ...*fakeNode) *fakeDoc {
	return &fakeDoc{nodes: nodes}
}

func (d *fakeDoc) Descendants(fn func(n Node, pos int) bool) {
	for i, n := range d.nodes {
		fn(n, i)
	}
}

func (d *fakeDoc) Apply(tx *Transaction) error {
	if d.failing {
		return errors.New("document is read-only")
	}
	for _, a := range tx.Assignments {
		if a.Pos < 0 || a.Pos >= len(d.nodes) || d.nodes[a.Pos].typ != HeadingType {
			return errors.New("no heading at position")
		}
	}
	for _, a := range tx.Assignments {
		d.nodes[a.Pos].id = a.ID
	}
	d.applied++
	return nil
}

func (d *fakeDoc) ids() []string {
	var out []string
	for _, n := range d.nodes {
		if n.typ == HeadingType {
			out = append(out, n.id)
		}
	}
	return out
}
