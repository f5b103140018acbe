package norma

// Ref is a pointer into the document: a whole article, its caput, or one of
// its sub-blocks addressed by path or label. An empty LawPrefix points into
// the primary norm.
type Ref struct {
	LawPrefix string `json:"law_prefix,omitempty"`
	Article   string `json:"art"`
	Detail    string `json:"detail,omitempty"` // "", "caput", "§ 1º", "I,b", "§ú"
	Hint      string `json:"hint,omitempty"`
}

// Key returns the identity key of the referenced article. Refs that differ
// only in Detail share a key: filtering is article-granular.
func (r Ref) Key() string {
	return ArticleKey(r.LawPrefix, r.Article)
}

// Display renders the ref for dropdowns and pill labels, e.g. "art. 43",
// "art. 43, § 1º" or "LO, art. 5, II".
func (r Ref) Display() string {
	s := "art. " + r.Article
	if r.LawPrefix != "" {
		s = r.LawPrefix + ", " + s
	}
	if r.Detail != "" && r.Detail != "caput" {
		s += ", " + r.Detail
	}
	return s
}

// RefSet is an ordered list of refs forming one navigable cross-reference
// sequence. Order is navigation order; duplicates are meaningful.
type RefSet []Ref

// Keys returns the set of article keys covered by the refs. This is the
// filter contribution of an active subject.
func (rs RefSet) Keys() map[string]bool {
	keys := make(map[string]bool, len(rs))
	for _, r := range rs {
		keys[r.Key()] = true
	}
	return keys
}
