// Package reader owns the interaction state: the current search, the active
// subject pill and the composed visibility set. Every operation runs under
// one lock and commits a consistent new state before returning, so each
// request observes a snapshot — the single-logical-owner model of the
// original interaction thread.
package reader

import (
	"sync"

	"github.com/lfarias/normanav/internal/filter"
	"github.com/lfarias/normanav/internal/index"
	"github.com/lfarias/normanav/internal/norma"
	"github.com/lfarias/normanav/internal/pill"
	"github.com/lfarias/normanav/internal/search"
	"github.com/lfarias/normanav/internal/versdiff"
)

// NavTarget asks the rendering layer to scroll a unit to the reading line
// and move the selection highlight there.
type NavTarget struct {
	UID          string  `json:"uid"`
	HighlightUID string  `json:"highlight_uid,omitempty"`
	ReadingLine  float64 `json:"reading_line"`
}

// SearchResponse is the outcome of a search invocation.
type SearchResponse struct {
	Kind               search.Kind              `json:"kind"`
	MatchCount         int                      `json:"match_count"`
	MatchIndex         int                      `json:"match_index"`
	Nav                *NavTarget               `json:"nav,omitempty"`
	Highlights         map[string][]search.Span `json:"highlights,omitempty"`
	FootnoteHighlights []search.FootnoteSpans   `json:"footnote_highlights,omitempty"`
}

// PillResponse is the outcome of a pill operation.
type PillResponse struct {
	State *pill.State `json:"state,omitempty"`
	Nav   *NavTarget  `json:"nav,omitempty"`
	// FilterFallback carries the raw vide text to filter the subject index
	// by when the vide target did not resolve.
	FilterFallback string `json:"filter_fallback,omitempty"`
}

// Reader composes the search engine, the pill and the filter compositor
// over one loaded document.
type Reader struct {
	mu sync.Mutex

	doc    *norma.Document
	idx    *index.Set
	engine *search.Engine
	comp   *filter.Compositor
	pill   *pill.Pill

	searchState *search.State
	highlights  map[string][]search.Span
	footnotes   []search.FootnoteSpans
	filteredOut map[string]bool

	readingLine float64
}

// New creates a reader with empty interaction state.
func New(doc *norma.Document, idx *index.Set, readingLine float64) *Reader {
	return &Reader{
		doc:         doc,
		idx:         idx,
		engine:      search.New(doc),
		comp:        filter.New(doc),
		pill:        pill.New(doc),
		filteredOut: map[string]bool{},
		readingLine: readingLine,
	}
}

// Document returns the loaded document.
func (r *Reader) Document() *norma.Document { return r.doc }

// Indexes returns the loaded index set.
func (r *Reader) Indexes() *index.Set { return r.idx }

// FilteredOut returns the current filtered-out unit ids.
func (r *Reader) FilteredOut() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.filteredOut))
	for id := range r.filteredOut {
		out = append(out, id)
	}
	return out
}

// Search runs the search engine on term. A quick-jump term navigates
// directly and clears any previous search; an empty term clears matches and
// highlighting without touching the pill's filter.
func (r *Reader) Search(term string) SearchResponse {
	r.mu.Lock()
	defer r.mu.Unlock()

	res := r.engine.Search(term, r.pill.Keys())
	switch res.Kind {
	case search.KindCleared:
		r.clearSearchLocked()
		return SearchResponse{Kind: res.Kind}

	case search.KindQuickJump:
		r.clearSearchLocked()
		resp := SearchResponse{Kind: res.Kind}
		if res.Jump != nil {
			resp.Nav = r.nav(res.Jump.UID, "")
		}
		return resp

	default:
		r.searchState = res.State
		r.highlights = res.Highlights
		r.footnotes = res.FootnoteHighlights
		r.recomputeLocked()
		resp := SearchResponse{
			Kind:               res.Kind,
			MatchCount:         len(res.State.Matched),
			MatchIndex:         res.State.MatchIndex,
			Highlights:         res.Highlights,
			FootnoteHighlights: res.FootnoteHighlights,
		}
		if uid := res.State.Current(); uid != "" {
			resp.Nav = r.nav(uid, "")
		}
		return resp
	}
}

// SearchNext moves the cyclic match cursor forward.
func (r *Reader) SearchNext() SearchResponse { return r.searchStep((*search.State).Next) }

// SearchPrev moves the cyclic match cursor backward.
func (r *Reader) SearchPrev() SearchResponse { return r.searchStep((*search.State).Prev) }

func (r *Reader) searchStep(step func(*search.State) string) SearchResponse {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.searchState == nil {
		return SearchResponse{Kind: search.KindCleared}
	}
	resp := SearchResponse{
		Kind:       search.KindMatches,
		MatchCount: len(r.searchState.Matched),
	}
	if uid := step(r.searchState); uid != "" {
		resp.Nav = r.nav(uid, "")
	}
	resp.MatchIndex = r.searchState.MatchIndex
	return resp
}

// SearchClear drops the search state and its filter contribution; an active
// subject filter persists.
func (r *Reader) SearchClear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clearSearchLocked()
}

// PillOpen activates the subject (optionally a specific sub-subject) as the
// pill's ref-set. An unknown subject leaves all state untouched.
func (r *Reader) PillOpen(subject, subSubject string) PillResponse {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry := r.idx.Subjects.Entry(subject)
	if entry == nil {
		return PillResponse{}
	}
	refs, ok := r.idx.Subjects.Find(subject, subSubject)
	if !ok {
		return PillResponse{}
	}
	return r.openLocked(entry.DisplayName(subSubject), refs)
}

// PillOpenVide resolves a vide and opens its target; a stale vide returns
// the raw text as a filter fallback instead.
func (r *Reader) PillOpenVide(vide string) PillResponse {
	r.mu.Lock()
	defer r.mu.Unlock()

	res := r.idx.Subjects.ResolveVide(vide)
	if res.FilterFallback != "" {
		return PillResponse{FilterFallback: res.FilterFallback}
	}
	return r.openLocked(res.Label, res.Refs)
}

func (r *Reader) openLocked(label string, refs norma.RefSet) PillResponse {
	nav := r.pill.Open(label, refs)
	r.recomputeLocked()
	return r.pillResponse(nav)
}

// PillNext steps the pill cursor forward.
func (r *Reader) PillNext() PillResponse {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pillResponse(r.pill.Next())
}

// PillPrev steps the pill cursor backward.
func (r *Reader) PillPrev() PillResponse {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pillResponse(r.pill.Prev())
}

// PillJump sets the pill cursor directly.
func (r *Reader) PillJump(i int) PillResponse {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pillResponse(r.pill.JumpTo(i))
}

// PillToggleFilter flips the subject filter without moving the cursor.
func (r *Reader) PillToggleFilter() PillResponse {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pill.ToggleFilter()
	r.recomputeLocked()
	return r.pillResponse(nil)
}

// PillClose destroys the active subject, releases its filter contribution
// and re-runs any active search so its own contribution is restored over
// the full document.
func (r *Reader) PillClose() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pill.Close()
	if r.searchState.Active() {
		res := r.engine.Search(r.searchState.RawTerm, nil)
		if res.Kind == search.KindMatches {
			r.searchState = res.State
			r.highlights = res.Highlights
			r.footnotes = res.FootnoteHighlights
		}
	}
	r.recomputeLocked()
}

// PillState returns the active subject, or nil.
func (r *Reader) PillState() *pill.State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pill.State()
}

// Diff computes the edit script between the article's n-th historical
// version and its current counterpart. ok is false when the uid, version or
// counterpart does not resolve; the caller offers no diff affordance then.
func (r *Reader) Diff(uid string, version int) ([]versdiff.Edit, bool) {
	art := r.doc.ArticleByUID(uid)
	if art == nil {
		return nil, false
	}
	return versdiff.DiffVersion(art, version)
}

func (r *Reader) pillResponse(nav *pill.Navigation) PillResponse {
	resp := PillResponse{State: r.pill.State()}
	if nav != nil && nav.TargetUID != "" {
		resp.Nav = r.nav(nav.TargetUID, nav.HighlightUID)
	}
	return resp
}

func (r *Reader) nav(uid, highlight string) *NavTarget {
	return &NavTarget{UID: uid, HighlightUID: highlight, ReadingLine: r.readingLine}
}

func (r *Reader) clearSearchLocked() {
	r.searchState = nil
	r.highlights = nil
	r.footnotes = nil
	r.recomputeLocked()
}

func (r *Reader) recomputeLocked() {
	r.filteredOut = r.comp.Recompute(filter.Input{
		SubjectActive: r.pill.FilterActive(),
		SubjectKeys:   r.pill.Keys(),
		SearchActive:  r.searchState.Active(),
		SearchMatched: r.searchState.MatchedSet(),
	})
}
