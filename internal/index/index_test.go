package index

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lfarias/normanav/internal/norma"
)

func TestLoadSet(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		SystematicFile: `{"roots": [{"title": "TÍTULO I", "section_id": "tit1"}]}`,
		SubjectsFile:   `{"entries": [{"subject": "Sessão", "refs": [{"art": "5"}]}]}`,
		ReferencesFile: `{"categories": [{"category": "Correlata", "groups": []}]}`,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatalf("writing %s: %v", name, err)
		}
	}

	set, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(set.Systematic.Roots) != 1 || set.Systematic.Roots[0].SectionID != "tit1" {
		t.Errorf("systematic = %+v", set.Systematic.Roots)
	}
	if refs, ok := set.Subjects.Find("sessao", ""); !ok || len(refs) != 1 {
		t.Errorf("subjects = %v, %v", refs, ok)
	}
	if len(set.References.Categories) != 1 {
		t.Errorf("references = %+v", set.References.Categories)
	}

	if _, err := Load(t.TempDir()); err == nil {
		t.Error("expected an error when artifacts are missing")
	}
}

func testSystematic() *Systematic {
	return &Systematic{Roots: []*SysNode{
		{Title: "TÍTULO I — Da Câmara Municipal", SectionID: "tit1", ArtRange: "arts. 1 – 12", Children: []*SysNode{
			{Title: "CAPÍTULO I — Disposições Preliminares", SectionID: "cap1", Children: []*SysNode{
				{Label: "Art. 5 — Competências da Câmara", Art: "5"},
				{Label: "Art. 9 — Declaração de vacância", Art: "9"},
			}},
			{Title: "CAPÍTULO II — Da Eleição da Mesa", SectionID: "cap2", Children: []*SysNode{
				{Label: "Art. 12 — Eleição da Mesa", Art: "12"},
			}},
		}},
	}}
}

func TestFindPathEmptyFilter(t *testing.T) {
	s := testSystematic()
	if got := s.FindPath("  "); len(got) != 1 || got[0] != s.Roots[0] {
		t.Errorf("empty filter must return the full tree")
	}
}

func TestFindPathPrunesToMatches(t *testing.T) {
	s := testSystematic()
	kept := s.FindPath("vacância")
	if len(kept) != 1 {
		t.Fatalf("kept %d roots", len(kept))
	}
	root := kept[0]
	if len(root.Children) != 1 || root.Children[0].SectionID != "cap1" {
		t.Fatalf("pruned root children = %+v", root.Children)
	}
	leaves := root.Children[0].Children
	if len(leaves) != 1 || leaves[0].Art != "9" {
		t.Errorf("expected only the vacância leaf, got %+v", leaves)
	}
	// The original tree is untouched.
	if len(s.Roots[0].Children) != 2 {
		t.Error("FindPath must not mutate the source tree")
	}
}

func TestFindPathSelfMatchKeepsSubtree(t *testing.T) {
	s := testSystematic()
	kept := s.FindPath("eleicao")
	if len(kept) != 1 {
		t.Fatalf("kept %d roots", len(kept))
	}
	// cap2 matches on its own title: its leaf comes along unpruned.
	var cap2 *SysNode
	for _, c := range kept[0].Children {
		if c.SectionID == "cap2" {
			cap2 = c
		}
	}
	if cap2 == nil || len(cap2.Children) != 1 {
		t.Errorf("self-matched node must keep its subtree: %+v", cap2)
	}
}

func TestFindPathNoMatch(t *testing.T) {
	if kept := testSystematic().FindPath("inexistente"); kept != nil {
		t.Errorf("expected nil, got %+v", kept)
	}
}

func TestSystematicResolve(t *testing.T) {
	doc := norma.New([]norma.Element{
		{Heading: &norma.Heading{Level: norma.LevelCapitulo, Text: "CAPÍTULO I", SectionID: "cap1"}},
		{Article: &norma.Article{Number: "5", UID: "art5"}},
	})
	s := testSystematic()

	h, a := s.Resolve(s.Roots[0].Children[0], doc)
	if h == nil || h.SectionID != "cap1" || a != nil {
		t.Errorf("inner node resolve = (%+v, %+v)", h, a)
	}

	h, a = s.Resolve(s.Roots[0].Children[0].Children[0], doc)
	if h != nil || a == nil || a.UID != "art5" {
		t.Errorf("leaf resolve = (%+v, %+v)", h, a)
	}

	// Stale references resolve to nil, not an error.
	h, a = s.Resolve(&SysNode{SectionID: "gone"}, doc)
	if h != nil || a != nil {
		t.Errorf("stale section resolve = (%+v, %+v)", h, a)
	}
	if _, a = s.Resolve(&SysNode{Label: "x", Art: "404"}, doc); a != nil {
		t.Errorf("stale leaf resolve = %+v", a)
	}
}

func testSubjects() *Subjects {
	return NewSubjects([]Entry{
		{
			Subject: "Sessão",
			Refs:    norma.RefSet{{Article: "5"}},
			Children: []SubEntry{
				{SubSubject: "Ordinária", Refs: norma.RefSet{{Article: "10"}, {Article: "11"}}},
				{SubSubject: "Extraordinária", Refs: norma.RefSet{{Article: "12"}}},
			},
		},
		{
			Subject: "Eleição",
			Refs:    norma.RefSet{{Article: "9"}},
			Vides:   []string{"Sessão|Ordinária", "Mesa Diretora"},
		},
	})
}

func TestSubjectsFind(t *testing.T) {
	s := testSubjects()

	// Parent lookup collects own refs plus every child's.
	refs, ok := s.Find("sessao", "")
	if !ok || len(refs) != 4 {
		t.Fatalf("Find(sessao) = %v, %v", refs, ok)
	}

	// Sub-subject lookup is accent/case insensitive and scoped.
	refs, ok = s.Find("SESSÃO", "ordinaria")
	if !ok || len(refs) != 2 || refs[0].Article != "10" {
		t.Errorf("Find(sessão, ordinária) = %v, %v", refs, ok)
	}

	if _, ok = s.Find("sessao", "noturna"); ok {
		t.Error("unknown sub-subject must miss")
	}
	if _, ok = s.Find("plenário", ""); ok {
		t.Error("unknown subject must miss")
	}
}

func TestDisplayName(t *testing.T) {
	e := &Entry{Subject: "Sessão"}
	if e.DisplayName("") != "Sessão" {
		t.Errorf("DisplayName() = %q", e.DisplayName(""))
	}
	if e.DisplayName("Ordinária") != "Sessão — Ordinária" {
		t.Errorf("DisplayName(sub) = %q", e.DisplayName("Ordinária"))
	}
}

func TestResolveVide(t *testing.T) {
	s := testSubjects()

	res := s.ResolveVide("Sessão|Ordinária")
	if res.FilterFallback != "" {
		t.Fatalf("unexpected fallback %q", res.FilterFallback)
	}
	if res.Label != "Sessão — Ordinária" || len(res.Refs) != 2 {
		t.Errorf("vide result = %+v", res)
	}

	res = s.ResolveVide("eleicao")
	if res.Label != "Eleição" || len(res.Refs) != 1 {
		t.Errorf("unqualified vide = %+v", res)
	}

	// A stale target degrades to an index filter, never an error.
	res = s.ResolveVide("Mesa Diretora")
	if res.FilterFallback != "Mesa Diretora" || res.Refs != nil {
		t.Errorf("stale vide = %+v", res)
	}
	res = s.ResolveVide("Sessão|Noturna")
	if res.FilterFallback != "Sessão" {
		t.Errorf("stale sub-subject vide = %+v", res)
	}
}

func TestSubjectsFilter(t *testing.T) {
	s := testSubjects()
	if got := s.Filter(""); len(got) != 2 {
		t.Errorf("empty filter returned %d entries", len(got))
	}
	got := s.Filter("eleicao")
	if len(got) != 1 || got[0].Subject != "Eleição" {
		t.Errorf("Filter(eleicao) = %+v", got)
	}
	// A sub-subject hit surfaces the parent entry.
	got = s.Filter("ordinaria")
	if len(got) != 1 || got[0].Subject != "Sessão" {
		t.Errorf("Filter(ordinaria) = %+v", got)
	}
	if got = s.Filter("inexistente"); got != nil {
		t.Errorf("Filter miss = %+v", got)
	}
}

func TestCompactRefs(t *testing.T) {
	cases := []struct {
		name string
		refs norma.RefSet
		want string
	}{
		{
			"run of three or more becomes a range, single first",
			norma.RefSet{{Article: "10"}, {Article: "11"}, {Article: "12"}, {Article: "14"}},
			"art. 14; arts. 10 – 12",
		},
		{
			"run of two stays as singles",
			norma.RefSet{{Article: "7"}, {Article: "8"}},
			"art. 7; art. 8",
		},
		{
			"details are never compacted",
			norma.RefSet{{Article: "5", Detail: "§ 1º"}, {Article: "6"}},
			"art. 6; art. 5, § 1º",
		},
		{
			"non-numeric article stays individual",
			norma.RefSet{{Article: "4-A"}, {Article: "4"}},
			"art. 4; art. 4-A",
		},
		{
			"duplicates collapse",
			norma.RefSet{{Article: "9"}, {Article: "9"}},
			"art. 9",
		},
		{
			"groups joined by law prefix",
			norma.RefSet{{Article: "3"}, {LawPrefix: "LO", Article: "15"}},
			"art. 3 | LO: art. 15",
		},
		{
			"caput detail renders as a plain article",
			norma.RefSet{{Article: "2", Detail: "caput"}},
			"art. 2",
		},
	}
	for _, c := range cases {
		if got := CompactRefs(c.refs); got != c.want {
			t.Errorf("%s: got %q, want %q", c.name, got, c.want)
		}
	}
}

func testReferences() *References {
	return &References{Categories: []RefCategory{
		{Category: "Legislação correlata", Groups: []RefGroup{
			{Title: "Resoluções", Entries: []RefEntry{
				{Text: "Resolução nº 21/2017 — <i>altera prazos</i>"},
				{Text: "Resolução nº 30/2019", Ref: &norma.Ref{Article: "12"}},
			}},
			{Title: "Emendas", Entries: []RefEntry{
				{Text: "Emenda à Lei Orgânica nº 5"},
			}},
		}},
	}}
}

func TestReferencesFilter(t *testing.T) {
	r := testReferences()

	if got := r.Filter(""); len(got) != 1 {
		t.Fatalf("empty filter = %+v", got)
	}

	// Tags are stripped before matching.
	got := r.Filter("altera prazos")
	if len(got) != 1 || len(got[0].Groups) != 1 || len(got[0].Groups[0].Entries) != 1 {
		t.Fatalf("Filter(altera prazos) = %+v", got)
	}

	// A group-title match keeps the whole group.
	got = r.Filter("resolucoes")
	if len(got) != 1 || len(got[0].Groups[0].Entries) != 2 {
		t.Errorf("title match = %+v", got)
	}

	if got = r.Filter("inexistente"); got != nil {
		t.Errorf("miss = %+v", got)
	}
}
