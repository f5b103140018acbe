// Package norma holds the read-only document model: the tree of headings and
// articles produced by the external build step, plus the lookup tables the
// navigation core needs (article keys, uids, section ids and per-article
// heading chains). Everything here is immutable after Load.
package norma

import "strings"

// Level identifies a heading's place in the document hierarchy, from the
// norm header down to sub-sections.
type Level string

const (
	LevelNorma    Level = "norma"
	LevelTitulo   Level = "titulo"
	LevelCapitulo Level = "capitulo"
	LevelSecao    Level = "secao"
	LevelSubsecao Level = "subsecao"
)

// Depth returns the hierarchy depth of the level, norma being 0. Unknown
// levels sort below sub-sections.
func (l Level) Depth() int {
	switch l {
	case LevelNorma:
		return 0
	case LevelTitulo:
		return 1
	case LevelCapitulo:
		return 2
	case LevelSecao:
		return 3
	case LevelSubsecao:
		return 4
	}
	return 5
}

// Kind classifies a block inside an article.
type Kind string

const (
	KindCaput     Kind = "caput"
	KindParagrafo Kind = "paragrafo" // § 1º, § 2º, Parágrafo único
	KindInciso    Kind = "inciso"
	KindAlinea    Kind = "alinea"
	KindItem      Kind = "item"
)

// Heading is a title/chapter/section card. SectionID is the navigation
// target used by the systematic index.
type Heading struct {
	Level     Level  `json:"level"`
	Text      string `json:"text"`
	Subtitle  string `json:"subtitle,omitempty"`
	SectionID string `json:"section_id"`
}

// Block is one addressable text block of an article: the caput, a numbered
// paragraph, an inciso, an alínea or an item. Path is the stable position
// inside the article (e.g. "I,b,2"); UID is globally unique and is what
// markers attach to.
type Block struct {
	Kind      Kind     `json:"kind"`
	Label     string   `json:"label"` // e.g. "§ 1º", "I", "b)", "Parágrafo único"
	Path      string   `json:"path,omitempty"`
	UID       string   `json:"uid"`
	Text      string   `json:"text"`
	Revoked   bool     `json:"revoked,omitempty"`
	Footnotes []string `json:"footnotes,omitempty"`
}

// Version is a superseded redaction of an article block, kept for the
// historical comparison view. Label identifies which current block it is a
// former redaction of; an empty label means the caput.
type Version struct {
	Label         string `json:"label,omitempty"`
	Text          string `json:"text"`
	AmendmentNote string `json:"amendment_note,omitempty"`
}

// Article is one article of the norm or of an annexed law. (LawPrefix,
// Number) uniquely identifies it; an empty LawPrefix denotes the primary
// norm.
type Article struct {
	LawPrefix string    `json:"law_prefix,omitempty"`
	Number    string    `json:"number"`
	UID       string    `json:"uid"`
	Revoked   bool      `json:"revoked,omitempty"`
	LawName   string    `json:"law_name,omitempty"`
	Blocks    []Block   `json:"blocks"`
	Versions  []Version `json:"versions,omitempty"`
}

// Key returns the article's identity key.
func (a *Article) Key() string {
	return ArticleKey(a.LawPrefix, a.Number)
}

// ArticleKey builds the identity key for a (lawPrefix, number) pair.
func ArticleKey(lawPrefix, number string) string {
	if lawPrefix == "" {
		return number
	}
	return lawPrefix + ":" + number
}

// Caput returns the article's caput block, or nil for a stub article.
func (a *Article) Caput() *Block {
	for i := range a.Blocks {
		if a.Blocks[i].Kind == KindCaput {
			return &a.Blocks[i]
		}
	}
	return nil
}

// Label renders the human-readable article reference, e.g. "Art. 43" or
// "LO, art. 5".
func (a *Article) Label() string {
	if a.LawPrefix == "" {
		return "Art. " + a.Number
	}
	return a.LawPrefix + ", art. " + a.Number
}

// Text concatenates the article's block texts in document order, excluding
// footnotes. Used by the search engine as the article's body.
func (a *Article) Text() string {
	var b strings.Builder
	for i := range a.Blocks {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(a.Blocks[i].Text)
	}
	return b.String()
}

// FootnoteText concatenates all footnote texts of the article.
func (a *Article) FootnoteText() string {
	var b strings.Builder
	for i := range a.Blocks {
		for _, fn := range a.Blocks[i].Footnotes {
			if b.Len() > 0 {
				b.WriteByte('\n')
			}
			b.WriteString(fn)
		}
	}
	return b.String()
}

// Element is one entry of the document sequence: either a heading or an
// article, never both.
type Element struct {
	Heading *Heading `json:"heading,omitempty"`
	Article *Article `json:"article,omitempty"`
}

// UnitID returns the element's addressable id: the heading's section id or
// the article's uid.
func (e Element) UnitID() string {
	if e.Heading != nil {
		return e.Heading.SectionID
	}
	if e.Article != nil {
		return e.Article.UID
	}
	return ""
}
