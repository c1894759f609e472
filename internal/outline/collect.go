package outline

import (
	"slices"
	"strconv"
)

// DefaultLevels are the heading levels listed in the outline.
var DefaultLevels = []int{1, 2, 3}

// Heading is one outline entry.
type Heading struct {
	ID    string `json:"id"`
	Level int    `json:"level"`
	Text  string `json:"text"`
	Pos   int    `json:"pos"`
}

// Collect lists headings of the given levels in document order. Headings
// without an id get a FallbackID, or heading-{pos} when that is empty.
func Collect(doc Document, levels []int) []Heading {
	if len(levels) == 0 {
		levels = DefaultLevels
	}

	var out []Heading
	headings(doc, func(n Node, pos int) {
		if !slices.Contains(levels, n.Level()) {
			return
		}
		text := n.TextContent()
		id := n.ID()
		if id == "" {
			id = FallbackID(text)
		}
		if id == "" {
			id = PlaceholderID + "-" + strconv.Itoa(pos)
		}
		out = append(out, Heading{ID: id, Level: n.Level(), Text: text, Pos: pos})
	})
	return out
}
