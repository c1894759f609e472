package outline

import "strings"

// IDSet is a set of heading identifiers.
type IDSet map[string]struct{}

// Has reports membership. A nil set is empty.
func (s IDSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Add inserts ids.
func (s IDSet) Add(ids ...string) {
	for _, id := range ids {
		s[id] = struct{}{}
	}
}

// AssignIDs plans identifiers for headings that need one: headings without
// an id and headings repeating an id already used earlier in the document.
// Headings with blank text are left alone until they get text, unless they
// repeat an earlier id; those get a placeholder id. New ids never
// collide with ids present in the document, with each other, or with ids in
// issued. It returns nil when nothing needs an id.
func AssignIDs(doc Document, issued IDSet) *Transaction {
	taken := make(IDSet)
	headings(doc, func(n Node, _ int) {
		if id := n.ID(); id != "" {
			taken.Add(id)
		}
	})

	isTaken := func(id string) bool { return taken.Has(id) || issued.Has(id) }

	kept := make(IDSet)
	var tx *Transaction
	headings(doc, func(n Node, pos int) {
		id := n.ID()
		if id != "" && !kept.Has(id) {
			kept.Add(id)
			return
		}

		text := strings.TrimSpace(n.TextContent())
		if text == "" && id == "" {
			return
		}

		base := Slugify(text)
		if base == "" {
			base = PlaceholderID
		}
		newID := uniqueID(base, isTaken)
		taken.Add(newID)
		kept.Add(newID)

		if tx == nil {
			tx = &Transaction{}
		}
		tx.Assignments = append(tx.Assignments, Assignment{Pos: pos, ID: newID})
	})
	return tx
}
