// Package index holds the three read-only index views over the norm: the
// systematic (hierarchical) index, the subject index with its vides, and the
// free-form references index. Resolvers turn a selection into a navigation
// target or a ref-set; filters prune the views accent-insensitively.
package index

import (
	"strings"

	"github.com/lfarias/normanav/internal/norma"
	"github.com/lfarias/normanav/internal/textnorm"
)

// SysNode is a node of the systematic index. Inner nodes mirror the
// document hierarchy and may carry a navigation target (SectionID) and a
// display hint (ArtRange); leaves point at single articles.
type SysNode struct {
	Title     string     `json:"title,omitempty"`
	SectionID string     `json:"section_id,omitempty"`
	ArtRange  string     `json:"art_range,omitempty"`
	Label     string     `json:"label,omitempty"` // leaf: "Art. 43 — Eleição..."
	Art       string     `json:"art,omitempty"`   // leaf: "43"
	Children  []*SysNode `json:"children,omitempty"`
}

// Leaf reports whether the node is an article leaf.
func (n *SysNode) Leaf() bool { return n.Art != "" }

// Systematic is the loaded systematic index.
type Systematic struct {
	Roots []*SysNode `json:"roots"`
}

// FindPath filters the tree: a node is kept when its own title (or leaf
// label) contains every filter token, or when any descendant is kept. A node
// matching on its own keeps its whole subtree; matched ancestors are always
// shown. An empty filter returns the full tree.
func (s *Systematic) FindPath(filterText string) []*SysNode {
	tokens := strings.Fields(textnorm.Normalize(filterText))
	if len(tokens) == 0 {
		return s.Roots
	}
	var kept []*SysNode
	for _, n := range s.Roots {
		if m := filterNode(n, tokens); m != nil {
			kept = append(kept, m)
		}
	}
	return kept
}

func filterNode(n *SysNode, tokens []string) *SysNode {
	text := n.Title
	if n.Leaf() {
		text = n.Label
	}
	if containsAll(textnorm.Normalize(text), tokens) {
		return n
	}
	var kept []*SysNode
	for _, c := range n.Children {
		if m := filterNode(c, tokens); m != nil {
			kept = append(kept, m)
		}
	}
	if kept == nil {
		return nil
	}
	pruned := *n
	pruned.Children = kept
	return &pruned
}

// Resolve turns a node selection into its navigation target: the heading
// unit for inner nodes, or the article for leaves. Either result may be nil
// when the section id or article number went stale.
func (s *Systematic) Resolve(n *SysNode, doc *norma.Document) (*norma.Heading, *norma.Article) {
	if n.Leaf() {
		return nil, doc.ArticleByNumber(n.Art)
	}
	if n.SectionID == "" {
		return nil, nil
	}
	return doc.HeadingBySection(n.SectionID), nil
}

func containsAll(folded string, tokens []string) bool {
	for _, t := range tokens {
		if !strings.Contains(folded, t) {
			return false
		}
	}
	return true
}
