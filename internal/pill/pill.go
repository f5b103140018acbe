// Package pill implements the stateful cursor over an ordered ref-set: the
// "pill" that steps through a subject's cross-references while its filter
// contribution is composed with any active search.
package pill

import (
	"strings"

	"github.com/lfarias/normanav/internal/norma"
	"github.com/lfarias/normanav/internal/textnorm"
)

// State is the active subject: the label shown on the pill, the ordered
// ref-set being stepped through, the cursor position and whether the subject
// filter is applied. It exists only between Open and Close.
type State struct {
	Label         string       `json:"label"`
	Refs          norma.RefSet `json:"refs"`
	Current       int          `json:"current"`
	FilterEnabled bool         `json:"filter_enabled"`
}

// Navigation is the scroll/highlight request produced by a pill step,
// consumed by the external rendering layer.
type Navigation struct {
	TargetUID    string `json:"target_uid"`    // article to bring to the reading line
	HighlightUID string `json:"highlight_uid"` // detail-level highlight target
	Index        int    `json:"index"`
	Total        int    `json:"total"`
}

// Pill is the navigator state machine: Closed -> Open(State) -> Closed.
type Pill struct {
	doc   *norma.Document
	state *State
}

// New creates a closed pill over the document.
func New(doc *norma.Document) *Pill {
	return &Pill{doc: doc}
}

// State returns the active subject, or nil when closed.
func (p *Pill) State() *State { return p.state }

// FilterActive reports whether the pill currently contributes a subject
// filter.
func (p *Pill) FilterActive() bool {
	return p.state != nil && p.state.FilterEnabled
}

// Keys returns the active ref-key set, or nil when no filter applies.
func (p *Pill) Keys() map[string]bool {
	if !p.FilterActive() {
		return nil
	}
	return p.state.Refs.Keys()
}

// Open activates the subject: cursor at ref 0, filter enabled, and a
// navigation to the first ref. Opening supersedes any previous subject.
func (p *Pill) Open(label string, refs norma.RefSet) *Navigation {
	p.state = &State{Label: label, Refs: refs, Current: 0, FilterEnabled: true}
	return p.navigation()
}

// Next steps the cursor forward, wrapping around.
func (p *Pill) Next() *Navigation {
	if p.state == nil || len(p.state.Refs) == 0 {
		return nil
	}
	p.state.Current = (p.state.Current + 1) % len(p.state.Refs)
	return p.navigation()
}

// Prev steps the cursor backward, wrapping around.
func (p *Pill) Prev() *Navigation {
	if p.state == nil || len(p.state.Refs) == 0 {
		return nil
	}
	n := len(p.state.Refs)
	p.state.Current = (p.state.Current - 1 + n) % n
	return p.navigation()
}

// JumpTo sets the cursor directly (from the all-refs dropdown). Out-of-range
// indexes are ignored.
func (p *Pill) JumpTo(i int) *Navigation {
	if p.state == nil || i < 0 || i >= len(p.state.Refs) {
		return nil
	}
	p.state.Current = i
	return p.navigation()
}

// ToggleFilter flips the filter contribution without moving the cursor, and
// reports the new state.
func (p *Pill) ToggleFilter() bool {
	if p.state == nil {
		return false
	}
	p.state.FilterEnabled = !p.state.FilterEnabled
	return p.state.FilterEnabled
}

// Close clears the active subject and releases its filter contribution.
func (p *Pill) Close() {
	p.state = nil
}

func (p *Pill) navigation() *Navigation {
	if p.state == nil || len(p.state.Refs) == 0 {
		return nil
	}
	ref := p.state.Refs[p.state.Current]
	nav := &Navigation{Index: p.state.Current, Total: len(p.state.Refs)}
	art := p.doc.ArticleByKey(ref.LawPrefix, ref.Article)
	if art == nil {
		// Stale ref: the step is a silent no-op beyond the cursor move.
		return nav
	}
	nav.TargetUID = art.UID
	nav.HighlightUID = ResolveDetail(art, ref.Detail)
	return nav
}

// ResolveDetail finds the highlight target for a ref's detail within the
// article. No detail highlights the whole article; "caput" resolves to the
// first non-paragraph text block; any other detail is matched against each
// block's path or label, with "§ú" recognized as the abbreviation of
// "Parágrafo único". First match wins; a miss falls back to the article.
func ResolveDetail(art *norma.Article, detail string) string {
	switch detail {
	case "":
		return art.UID
	case "caput":
		for i := range art.Blocks {
			if art.Blocks[i].Kind != norma.KindParagrafo {
				return art.Blocks[i].UID
			}
		}
		return art.UID
	}

	want := textnorm.Normalize(detail)
	if want == "§ú" || want == "§u" {
		want = "paragrafo unico"
	}
	for i := range art.Blocks {
		blk := &art.Blocks[i]
		if textnorm.Normalize(blk.Path) == want || matchLabel(blk.Label, want) {
			return blk.UID
		}
	}
	return art.UID
}

// matchLabel compares a block label against the folded detail, tolerating
// trailing punctuation such as "b)" vs "b" and "§ 1º" vs "§ 1".
func matchLabel(label, want string) bool {
	folded := textnorm.Normalize(label)
	if folded == want {
		return true
	}
	trim := func(s string) string {
		return strings.TrimRight(strings.TrimSpace(s), ".)°º-")
	}
	return trim(folded) == trim(want)
}
