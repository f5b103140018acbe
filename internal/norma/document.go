package norma

import (
	"encoding/json"
	"fmt"
	"os"
)

// Document is the loaded norm: the ordered element sequence plus the lookup
// tables derived from it once at load time. All fields are read-only after
// Load returns.
type Document struct {
	Elements []Element

	byKey     map[string]*Article // (lawPrefix, number) -> article
	byNumber  map[string][]*Article
	byUID     map[string]*Article // article uid and block uids -> owning article
	bySection map[string]*Heading

	// ancestors holds, per article uid, the chain of nearest preceding
	// headings, outermost first. Context-heading restoration unions these
	// chains instead of walking the element sequence backwards.
	ancestors map[string][]*Heading
}

type documentFile struct {
	Elements []Element `json:"elements"`
}

// Load reads the document artifact produced by the build step and derives
// the lookup tables.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}
	var f documentFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing document: %w", err)
	}
	return New(f.Elements), nil
}

// New builds a Document from an element sequence.
func New(elements []Element) *Document {
	d := &Document{
		Elements:  elements,
		byKey:     make(map[string]*Article),
		byNumber:  make(map[string][]*Article),
		byUID:     make(map[string]*Article),
		bySection: make(map[string]*Heading),
		ancestors: make(map[string][]*Heading),
	}

	// Current heading per hierarchy depth. A heading at depth n clears all
	// deeper slots so a sibling branch never leaks into the next chain.
	var chain [6]*Heading

	for i := range d.Elements {
		el := &d.Elements[i]
		if h := el.Heading; h != nil {
			if h.SectionID == "" {
				// Headings must be addressable for visibility restoration
				// even when the build step assigned no section id.
				h.SectionID = fmt.Sprintf("sec-%d", i)
			}
			depth := h.Level.Depth()
			chain[depth] = h
			for j := depth + 1; j < len(chain); j++ {
				chain[j] = nil
			}
			d.bySection[h.SectionID] = h
			continue
		}
		if a := el.Article; a != nil {
			d.byKey[a.Key()] = a
			d.byNumber[a.Number] = append(d.byNumber[a.Number], a)
			d.byUID[a.UID] = a
			for j := range a.Blocks {
				d.byUID[a.Blocks[j].UID] = a
			}
			var anc []*Heading
			for _, h := range chain {
				if h != nil {
					anc = append(anc, h)
				}
			}
			d.ancestors[a.UID] = anc
		}
	}
	return d
}

// ArticleByKey resolves an article by its (lawPrefix, number) key. Returns
// nil on a resolution miss.
func (d *Document) ArticleByKey(lawPrefix, number string) *Article {
	return d.byKey[ArticleKey(lawPrefix, number)]
}

// ArticleByNumber resolves an article by number alone, preferring the
// unprefixed article of the primary norm. When only annexed laws carry the
// number, the first in document order wins.
func (d *Document) ArticleByNumber(number string) *Article {
	candidates := d.byNumber[number]
	for _, a := range candidates {
		if a.LawPrefix == "" {
			return a
		}
	}
	if len(candidates) > 0 {
		return candidates[0]
	}
	return nil
}

// ArticleByUID resolves the article owning the given uid. The uid may be
// the article's own or any of its blocks'.
func (d *Document) ArticleByUID(uid string) *Article {
	return d.byUID[uid]
}

// HeadingBySection resolves a systematic-index navigation target. Returns
// nil on a resolution miss.
func (d *Document) HeadingBySection(sectionID string) *Heading {
	return d.bySection[sectionID]
}

// Ancestors returns the article's heading chain, outermost first. The
// returned slice must not be modified.
func (d *Document) Ancestors(articleUID string) []*Heading {
	return d.ancestors[articleUID]
}

// Articles returns all articles in document order.
func (d *Document) Articles() []*Article {
	arts := make([]*Article, 0, len(d.byKey))
	for i := range d.Elements {
		if a := d.Elements[i].Article; a != nil {
			arts = append(arts, a)
		}
	}
	return arts
}
