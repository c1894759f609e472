package outline

// Item is a node of the nested outline. Heading is nil for the filler items
// that carry a deeper list when levels are skipped (h1 followed by h3).
type Item struct {
	Heading  *Heading `json:"heading,omitempty"`
	Children []*Item  `json:"children,omitempty"`
}

// Nest builds the outline tree from a flat heading list. The first heading's
// level is the root level. Each level step down opens one list: the first
// under the last item of the current list, any further ones under filler
// items. Stepping up closes lists back to the matching depth, never above
// the root.
func Nest(hs []Heading) []*Item {
	if len(hs) == 0 {
		return nil
	}

	var root []*Item
	// stack holds pointers to the open lists; stack[0] is the root list.
	stack := []*[]*Item{&root}
	last := hs[0].Level

	for i := range hs {
		h := hs[i]
		diff := h.Level - last

		switch {
		case diff > 0:
			for range diff {
				top := stack[len(stack)-1]
				var parent *Item
				if n := len(*top); n > 0 {
					parent = (*top)[n-1]
				} else {
					parent = &Item{}
					*top = append(*top, parent)
				}
				stack = append(stack, &parent.Children)
			}
		case diff < 0:
			depth := len(stack) + diff
			if depth < 1 {
				depth = 1
			}
			stack = stack[:depth]
		}

		top := stack[len(stack)-1]
		*top = append(*top, &Item{Heading: &h})
		last = h.Level
	}
	return root
}
