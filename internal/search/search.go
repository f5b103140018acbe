// Package search implements the multi-term substring search over article
// text, the article quick-jump grammar, and the cyclic match cursor.
package search

import (
	"regexp"
	"sort"
	"strings"

	"github.com/lfarias/normanav/internal/norma"
	"github.com/lfarias/normanav/internal/textnorm"
)

// quickJumpRE recognizes the article quick-jump grammar: "a" + optional
// uppercase law prefix (2+ letters) + article token (digits optionally
// followed by letters/hyphen). Examples: a43, a43-A, aADT12.
var quickJumpRE = regexp.MustCompile(`^a([A-Z]{2,})?([0-9]+(?:-?[A-Za-z]+)?)$`)

// Kind discriminates what a search invocation did.
type Kind string

const (
	KindCleared   Kind = "cleared"    // empty term: highlighting and matches dropped
	KindQuickJump Kind = "quick_jump" // direct navigation, no full-text pass
	KindMatches   Kind = "matches"    // full-text search ran
)

// Span is a byte range into a block's original text to be wrapped in a
// highlight marker. Offsets address the accented source text, which is never
// normalized.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// FootnoteSpans carries highlight spans inside one footnote of a block.
type FootnoteSpans struct {
	UID   string `json:"uid"`
	Note  int    `json:"note"` // footnote index within the block
	Spans []Span `json:"spans"`
}

// State is the live search state: the parsed term, the ordered match list
// and the cyclic cursor over it.
type State struct {
	RawTerm          string
	Terms            []string // normalized, whitespace-split, non-empty
	IncludeFootnotes bool
	Matched          []string // article UIDs in document order
	MatchIndex       int
}

// Active reports whether the state contributes a filter: an empty term
// clears matches but does not alone change filter state.
func (s *State) Active() bool {
	return s != nil && len(s.Terms) > 0
}

// MatchedSet returns the matched article uids as a set.
func (s *State) MatchedSet() map[string]bool {
	if s == nil {
		return nil
	}
	set := make(map[string]bool, len(s.Matched))
	for _, uid := range s.Matched {
		set[uid] = true
	}
	return set
}

// Next advances the cyclic cursor and returns the current match uid, or ""
// when there are no matches.
func (s *State) Next() string {
	if s == nil || len(s.Matched) == 0 {
		return ""
	}
	s.MatchIndex = (s.MatchIndex + 1) % len(s.Matched)
	return s.Matched[s.MatchIndex]
}

// Prev steps the cyclic cursor backwards and returns the current match uid,
// or "" when there are no matches.
func (s *State) Prev() string {
	if s == nil || len(s.Matched) == 0 {
		return ""
	}
	s.MatchIndex = (s.MatchIndex - 1 + len(s.Matched)) % len(s.Matched)
	return s.Matched[s.MatchIndex]
}

// Current returns the match uid under the cursor without moving it.
func (s *State) Current() string {
	if s == nil || len(s.Matched) == 0 {
		return ""
	}
	return s.Matched[s.MatchIndex]
}

// Result is the outcome of one search invocation.
type Result struct {
	Kind  Kind
	State *State         // nil for KindCleared
	Jump  *norma.Article // set for KindQuickJump

	// Highlights maps block uids to spans over the block's body text.
	// Label text is never included: spans address Block.Text only.
	Highlights map[string][]Span
	// FootnoteHighlights is populated only when footnotes were included.
	FootnoteHighlights []FootnoteSpans
}

// Engine runs searches over one loaded document.
type Engine struct {
	doc *norma.Document
}

// New creates an engine over the document.
func New(doc *norma.Document) *Engine {
	return &Engine{doc: doc}
}

// Search parses raw and runs the appropriate operation. restrict, when
// non-nil, limits full-text matching to articles whose key is in the set
// (an active subject filter composes with search, it is not replaced by it).
func (e *Engine) Search(raw string, restrict map[string]bool) *Result {
	term := strings.TrimSpace(raw)
	if term == "" {
		return &Result{Kind: KindCleared}
	}

	if m := quickJumpRE.FindStringSubmatch(term); m != nil {
		return e.quickJump(m[1], m[2])
	}

	includeFootnotes := false
	if len(term) > 2 && (term[0] == 'r' || term[0] == 'R') && term[1] == ' ' {
		includeFootnotes = true
		term = strings.TrimSpace(term[2:])
	}

	terms := strings.Fields(textnorm.Normalize(term))
	if len(terms) == 0 {
		return &Result{Kind: KindCleared}
	}

	state := &State{
		RawTerm:          raw,
		Terms:            terms,
		IncludeFootnotes: includeFootnotes,
	}

	for _, a := range e.doc.Articles() {
		if restrict != nil && !restrict[a.Key()] {
			continue
		}
		body := textnorm.Normalize(a.Text())
		var notes string
		if includeFootnotes {
			notes = textnorm.Normalize(a.FootnoteText())
		}
		matched := true
		for _, t := range terms {
			if !strings.Contains(body, t) && (!includeFootnotes || !strings.Contains(notes, t)) {
				matched = false
				break
			}
		}
		if matched {
			state.Matched = append(state.Matched, a.UID)
		}
	}

	res := &Result{Kind: KindMatches, State: state}
	e.highlight(res, state)
	return res
}

// quickJump resolves the article token directly. With no law prefix the
// unprefixed article wins; otherwise any article with that number is taken.
func (e *Engine) quickJump(lawPrefix, number string) *Result {
	var art *norma.Article
	if lawPrefix != "" {
		art = e.doc.ArticleByKey(lawPrefix, number)
	} else {
		art = e.doc.ArticleByNumber(number)
	}
	// A resolution miss degrades to an ineffective input, not an error.
	return &Result{Kind: KindQuickJump, Jump: art}
}

// highlight computes spans wrapping each term occurrence inside matched
// articles. Patterns are re-expanded accent-insensitively so the original
// accented text is matched (and preserved) rather than normalized.
func (e *Engine) highlight(res *Result, state *State) {
	patterns := make([]*regexp.Regexp, 0, len(state.Terms))
	for _, t := range state.Terms {
		re, err := textnorm.CompilePattern(t)
		if err != nil {
			continue
		}
		patterns = append(patterns, re)
	}
	if len(patterns) == 0 {
		return
	}

	res.Highlights = make(map[string][]Span)
	for _, uid := range state.Matched {
		a := e.doc.ArticleByUID(uid)
		if a == nil {
			continue
		}
		for i := range a.Blocks {
			blk := &a.Blocks[i]
			if spans := findSpans(blk.Text, patterns); len(spans) > 0 {
				res.Highlights[blk.UID] = spans
			}
			if !state.IncludeFootnotes {
				continue
			}
			for n, fn := range blk.Footnotes {
				if spans := findSpans(fn, patterns); len(spans) > 0 {
					res.FootnoteHighlights = append(res.FootnoteHighlights, FootnoteSpans{
						UID: blk.UID, Note: n, Spans: spans,
					})
				}
			}
		}
	}
}

// findSpans collects the merged occurrence ranges of all patterns in text.
func findSpans(text string, patterns []*regexp.Regexp) []Span {
	var spans []Span
	for _, re := range patterns {
		for _, loc := range re.FindAllStringIndex(text, -1) {
			spans = append(spans, Span{Start: loc[0], End: loc[1]})
		}
	}
	if len(spans) == 0 {
		return nil
	}
	sort.Slice(spans, func(i, j int) bool {
		if spans[i].Start != spans[j].Start {
			return spans[i].Start < spans[j].Start
		}
		return spans[i].End < spans[j].End
	})
	// Merge overlaps so nested highlight markers never occur.
	merged := spans[:1]
	for _, s := range spans[1:] {
		last := &merged[len(merged)-1]
		if s.Start <= last.End {
			if s.End > last.End {
				last.End = s.End
			}
			continue
		}
		merged = append(merged, s)
	}
	return merged
}
