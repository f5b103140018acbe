package index

import (
	"regexp"
	"strings"

	"github.com/lfarias/normanav/internal/norma"
	"github.com/lfarias/normanav/internal/textnorm"
)

// RefEntry is one entry of the references index. Text may carry simple
// inline markup from the source document; Ref, when present, anchors the
// entry to an article for direct navigation.
type RefEntry struct {
	Text string     `json:"text"`
	Ref  *norma.Ref `json:"ref,omitempty"`
}

// RefGroup is a titled group of entries within a category.
type RefGroup struct {
	Title   string     `json:"title"`
	Entries []RefEntry `json:"entries"`
}

// RefCategory is a top-level category of the references index.
type RefCategory struct {
	Category string     `json:"category"`
	Groups   []RefGroup `json:"groups"`
}

// References is the loaded references index: a flat categorized list.
type References struct {
	Categories []RefCategory `json:"categories"`
}

var tagRE = regexp.MustCompile(`<[^>]+>`)

// stripTags removes inline markup so filtering matches the visible text.
func stripTags(s string) string {
	return tagRE.ReplaceAllString(s, "")
}

// Filter keeps the entries whose de-tagged text or group title contains all
// filter tokens, preserving the category/group structure around them. An
// empty filter returns everything.
func (r *References) Filter(q string) []RefCategory {
	tokens := strings.Fields(textnorm.Normalize(q))
	if len(tokens) == 0 {
		return r.Categories
	}
	var out []RefCategory
	for _, cat := range r.Categories {
		var groups []RefGroup
		for _, grp := range cat.Groups {
			titleMatch := containsAll(textnorm.Normalize(grp.Title), tokens)
			var entries []RefEntry
			for _, e := range grp.Entries {
				if titleMatch || containsAll(textnorm.Normalize(stripTags(e.Text)), tokens) {
					entries = append(entries, e)
				}
			}
			if entries != nil {
				groups = append(groups, RefGroup{Title: grp.Title, Entries: entries})
			}
		}
		if groups != nil {
			out = append(out, RefCategory{Category: cat.Category, Groups: groups})
		}
	}
	return out
}
