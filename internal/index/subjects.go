package index

import (
	"sort"
	"strconv"
	"strings"

	"github.com/lfarias/normanav/internal/norma"
	"github.com/lfarias/normanav/internal/textnorm"
)

// SubEntry is a nested sub-subject under a subject entry.
type SubEntry struct {
	SubSubject string       `json:"sub_subject"`
	Refs       norma.RefSet `json:"refs,omitempty"`
	Vides      []string     `json:"vides,omitempty"`
}

// Entry is one subject of the subject index. Vides are textual pointers to
// other entries, "TARGET" or "TARGET|sub" for a qualified target.
type Entry struct {
	Subject  string       `json:"subject"`
	Refs     norma.RefSet `json:"refs,omitempty"`
	Children []SubEntry   `json:"children,omitempty"`
	Vides    []string     `json:"vides,omitempty"`
}

// DisplayName joins subject and sub-subject for pill labels.
func (e *Entry) DisplayName(sub string) string {
	if sub != "" {
		return e.Subject + " — " + sub
	}
	return e.Subject
}

// CollectAllRefs returns the entry's own refs followed by every child's
// refs, the ref-set used when a parent subject is opened.
func (e *Entry) CollectAllRefs() norma.RefSet {
	refs := make(norma.RefSet, 0, len(e.Refs))
	refs = append(refs, e.Refs...)
	for _, c := range e.Children {
		refs = append(refs, c.Refs...)
	}
	return refs
}

// Subjects is the loaded subject index.
type Subjects struct {
	Entries []Entry `json:"entries"`

	byFolded map[string]*Entry
}

// NewSubjects indexes the entries by folded subject name.
func NewSubjects(entries []Entry) *Subjects {
	s := &Subjects{Entries: entries, byFolded: make(map[string]*Entry, len(entries))}
	for i := range s.Entries {
		s.byFolded[textnorm.Normalize(s.Entries[i].Subject)] = &s.Entries[i]
	}
	return s
}

// Find resolves a subject (and optional sub-subject) by case/accent
// insensitive exact match. With no sub-subject the parent's full ref-set
// (own plus all children) is returned.
func (s *Subjects) Find(subject, subSubject string) (norma.RefSet, bool) {
	e := s.byFolded[textnorm.Normalize(subject)]
	if e == nil {
		return nil, false
	}
	if subSubject == "" {
		return e.CollectAllRefs(), true
	}
	want := textnorm.Normalize(subSubject)
	for i := range e.Children {
		if textnorm.Normalize(e.Children[i].SubSubject) == want {
			return e.Children[i].Refs, true
		}
	}
	return nil, false
}

// Entry returns the subject entry by folded exact match, or nil.
func (s *Subjects) Entry(subject string) *Entry {
	return s.byFolded[textnorm.Normalize(subject)]
}

// VideResult is the outcome of resolving a vide. On a stale target no error
// is raised: FilterFallback carries the raw text to filter the index by
// instead.
type VideResult struct {
	Label          string
	Refs           norma.RefSet
	FilterFallback string
}

// ResolveVide resolves a "TARGET" or "TARGET|sub" vide against the index.
func (s *Subjects) ResolveVide(vide string) VideResult {
	target, sub := vide, ""
	if i := strings.IndexByte(vide, '|'); i >= 0 {
		target, sub = vide[:i], vide[i+1:]
	}
	e := s.byFolded[textnorm.Normalize(target)]
	if e == nil {
		return VideResult{FilterFallback: target}
	}
	refs, ok := s.Find(target, sub)
	if !ok {
		return VideResult{FilterFallback: target}
	}
	return VideResult{Label: e.DisplayName(sub), Refs: refs}
}

// Filter returns the entries whose subject or any sub-subject contains all
// filter tokens. An empty filter returns everything.
func (s *Subjects) Filter(q string) []Entry {
	tokens := strings.Fields(textnorm.Normalize(q))
	if len(tokens) == 0 {
		return s.Entries
	}
	var out []Entry
	for _, e := range s.Entries {
		if containsAll(textnorm.Normalize(e.Subject), tokens) {
			out = append(out, e)
			continue
		}
		for _, c := range e.Children {
			if containsAll(textnorm.Normalize(e.Subject+" "+c.SubSubject), tokens) {
				out = append(out, e)
				break
			}
		}
	}
	return out
}

// CompactRefs renders a ref list for display. Refs are grouped by law
// prefix; within a group, detail-less numeric articles are sorted and runs
// of three or more consecutive numbers merge into a range, while a run of
// exactly two is emitted as two singles. Refs carrying a detail (or a
// non-numeric number such as "4-A") are always emitted individually.
func CompactRefs(refs norma.RefSet) string {
	type group struct {
		prefix  string
		numeric []int
		rest    []norma.Ref
	}
	var order []string
	groups := make(map[string]*group)
	for _, r := range refs {
		g := groups[r.LawPrefix]
		if g == nil {
			g = &group{prefix: r.LawPrefix}
			groups[r.LawPrefix] = g
			order = append(order, r.LawPrefix)
		}
		if r.Detail == "" {
			if n, err := strconv.Atoi(r.Article); err == nil {
				g.numeric = append(g.numeric, n)
				continue
			}
		}
		g.rest = append(g.rest, r)
	}

	var parts []string
	for _, prefix := range order {
		g := groups[prefix]
		var items []string

		sort.Ints(g.numeric)
		nums := dedupeInts(g.numeric)
		var singles, ranges []string
		for i := 0; i < len(nums); {
			j := i
			for j+1 < len(nums) && nums[j+1] == nums[j]+1 {
				j++
			}
			if j-i+1 >= 3 {
				ranges = append(ranges, "arts. "+strconv.Itoa(nums[i])+" – "+strconv.Itoa(nums[j]))
			} else {
				for k := i; k <= j; k++ {
					singles = append(singles, "art. "+strconv.Itoa(nums[k]))
				}
			}
			i = j + 1
		}
		// Singles render ahead of ranges within the group.
		items = append(items, singles...)
		items = append(items, ranges...)
		for _, r := range g.rest {
			item := "art. " + r.Article
			if r.Detail != "" && r.Detail != "caput" {
				item += ", " + r.Detail
			}
			items = append(items, item)
		}
		joined := strings.Join(items, "; ")
		if prefix != "" {
			joined = prefix + ": " + joined
		}
		parts = append(parts, joined)
	}
	return strings.Join(parts, " | ")
}

func dedupeInts(sorted []int) []int {
	out := sorted[:0]
	for i, n := range sorted {
		if i == 0 || n != sorted[i-1] {
			out = append(out, n)
		}
	}
	return out
}
