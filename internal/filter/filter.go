// Package filter composes the subject filter and the search filter into a
// single visibility decision per unit, then restores the ancestor headings
// needed to keep visible articles in context.
package filter

import "github.com/lfarias/normanav/internal/norma"

// Input is the current filter contribution of each owner. An inactive
// filter contributes nothing; toggling one off leaves the other's effect in
// place.
type Input struct {
	SubjectActive bool
	SubjectKeys   map[string]bool // article keys of the active ref-set
	SearchActive  bool
	SearchMatched map[string]bool // matched article uids
}

// Compositor recomputes the filtered-out unit set for one document. It
// walks precomputed per-article heading chains instead of the element
// sequence, so restoration never leaks a heading from a sibling branch.
type Compositor struct {
	doc *norma.Document
}

// New creates a compositor over the document.
func New(doc *norma.Document) *Compositor {
	return &Compositor{doc: doc}
}

// Recompute returns the set of filtered-out unit ids (heading section ids
// and article uids). With both filters off the set is empty: no visibility
// restrictions.
func (c *Compositor) Recompute(in Input) map[string]bool {
	if !in.SubjectActive && !in.SearchActive {
		return map[string]bool{}
	}

	out := make(map[string]bool)
	restored := make(map[string]bool)

	for i := range c.doc.Elements {
		el := &c.doc.Elements[i]
		if h := el.Heading; h != nil {
			// Headings are filtered out by default and selectively restored.
			out[h.SectionID] = true
			continue
		}
		a := el.Article
		if a == nil {
			continue
		}
		hidden := in.SubjectActive && !in.SubjectKeys[a.Key()] ||
			in.SearchActive && !in.SearchMatched[a.UID]
		if hidden {
			out[a.UID] = true
			continue
		}
		for _, anc := range c.doc.Ancestors(a.UID) {
			restored[anc.SectionID] = true
		}
	}

	for id := range restored {
		delete(out, id)
	}
	return out
}
