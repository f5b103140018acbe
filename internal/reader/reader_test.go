package reader

import (
	"testing"

	"github.com/lfarias/normanav/internal/index"
	"github.com/lfarias/normanav/internal/norma"
	"github.com/lfarias/normanav/internal/search"
)

func testReader() *Reader {
	doc := norma.New([]norma.Element{
		{Heading: &norma.Heading{Level: norma.LevelTitulo, Text: "TÍTULO I", SectionID: "tit1"}},
		{Article: &norma.Article{Number: "5", UID: "art5", Blocks: []norma.Block{
			{Kind: norma.KindCaput, Label: "Art. 5º", UID: "art5", Text: "A sessão ordinária terá quatro horas."},
		}}},
		{Article: &norma.Article{Number: "9", UID: "art9", Blocks: []norma.Block{
			{Kind: norma.KindCaput, Label: "Art. 9º", UID: "art9", Text: "A eleição ocorre em sessão preparatória."},
		}}},
		{Article: &norma.Article{Number: "10", UID: "art10", Blocks: []norma.Block{
			{Kind: norma.KindCaput, Label: "Art. 10", UID: "art10", Text: "A eleição das comissões é anual."},
		}}},
	})
	idx := &index.Set{
		Systematic: &index.Systematic{},
		Subjects: index.NewSubjects([]index.Entry{
			{Subject: "Sessão", Refs: norma.RefSet{{Article: "5"}, {Article: "9"}}},
			{Subject: "Eleição", Vides: []string{"Sessão"}},
		}),
		References: &index.References{},
	}
	return New(doc, idx, 0.38)
}

func filteredSet(r *Reader) map[string]bool {
	out := make(map[string]bool)
	for _, id := range r.FilteredOut() {
		out[id] = true
	}
	return out
}

func TestSearchNavigatesAndFilters(t *testing.T) {
	r := testReader()

	resp := r.Search("eleicao")
	if resp.Kind != search.KindMatches || resp.MatchCount != 2 {
		t.Fatalf("resp = %+v", resp)
	}
	if resp.Nav == nil || resp.Nav.UID != "art9" || resp.Nav.ReadingLine != 0.38 {
		t.Errorf("Nav = %+v", resp.Nav)
	}
	if len(resp.Highlights["art9"]) == 0 {
		t.Error("expected highlight spans for art9")
	}

	out := filteredSet(r)
	if !out["art5"] || out["art9"] || out["art10"] || out["tit1"] {
		t.Errorf("filtered = %v", out)
	}
}

func TestSearchStepCycles(t *testing.T) {
	r := testReader()
	r.Search("eleicao")

	resp := r.SearchNext()
	if resp.Nav == nil || resp.Nav.UID != "art10" || resp.MatchIndex != 1 {
		t.Errorf("next = %+v", resp)
	}
	resp = r.SearchNext()
	if resp.Nav == nil || resp.Nav.UID != "art9" {
		t.Errorf("next must wrap, got %+v", resp)
	}
	resp = r.SearchPrev()
	if resp.Nav == nil || resp.Nav.UID != "art10" {
		t.Errorf("prev = %+v", resp)
	}

	// Stepping without a search is inert.
	r.SearchClear()
	if resp = r.SearchNext(); resp.Kind != search.KindCleared {
		t.Errorf("step after clear = %+v", resp)
	}
}

func TestQuickJumpClearsSearch(t *testing.T) {
	r := testReader()
	r.Search("eleicao")

	resp := r.Search("a5")
	if resp.Kind != search.KindQuickJump || resp.Nav == nil || resp.Nav.UID != "art5" {
		t.Fatalf("quick jump = %+v", resp)
	}
	if len(r.FilteredOut()) != 0 {
		t.Errorf("quick jump must drop the search filter: %v", r.FilteredOut())
	}
	if resp = r.SearchNext(); resp.Kind != search.KindCleared {
		t.Error("search state must be gone after a quick jump")
	}
}

func TestPillOpenFiltersAndNavigates(t *testing.T) {
	r := testReader()

	resp := r.PillOpen("sessao", "")
	if resp.State == nil || resp.State.Label != "Sessão" {
		t.Fatalf("state = %+v", resp.State)
	}
	if resp.Nav == nil || resp.Nav.UID != "art5" {
		t.Errorf("nav = %+v", resp.Nav)
	}
	out := filteredSet(r)
	if !out["art10"] || out["art5"] || out["art9"] {
		t.Errorf("filtered = %v", out)
	}

	// Unknown subject leaves state untouched.
	if resp = r.PillOpen("plenário", ""); resp.State != nil || resp.Nav != nil {
		t.Errorf("unknown subject = %+v", resp)
	}
	if r.PillState() == nil {
		t.Error("previous subject must survive a failed open")
	}
}

func TestSearchComposesWithPill(t *testing.T) {
	r := testReader()
	r.PillOpen("sessao", "")

	// The subject admits art5 and art9; only art9 mentions eleição. A search
	// inside the pill scope must not surface art10.
	resp := r.Search("eleicao")
	if resp.MatchCount != 1 || resp.Nav == nil || resp.Nav.UID != "art9" {
		t.Fatalf("restricted search = %+v", resp)
	}
	out := filteredSet(r)
	if !out["art5"] || !out["art10"] || out["art9"] {
		t.Errorf("composed filter = %v", out)
	}
}

func TestPillCloseRestoresSearchScope(t *testing.T) {
	r := testReader()
	r.PillOpen("sessao", "")
	r.Search("eleicao")

	r.PillClose()
	if r.PillState() != nil {
		t.Fatal("pill must be closed")
	}
	// The search re-runs over the full document: art10 matches again.
	out := filteredSet(r)
	if out["art9"] || out["art10"] || !out["art5"] {
		t.Errorf("filter after close = %v", out)
	}
	if resp := r.SearchNext(); resp.MatchCount != 2 {
		t.Errorf("match count after close = %+v", resp)
	}
}

func TestPillToggleFilter(t *testing.T) {
	r := testReader()
	r.PillOpen("sessao", "")

	r.PillToggleFilter()
	if len(r.FilteredOut()) != 0 {
		t.Errorf("disabled filter must hide nothing: %v", r.FilteredOut())
	}
	r.PillToggleFilter()
	if out := filteredSet(r); !out["art10"] {
		t.Errorf("re-enabled filter = %v", out)
	}
}

func TestPillOpenVide(t *testing.T) {
	r := testReader()

	resp := r.PillOpenVide("Sessão")
	if resp.FilterFallback != "" || resp.State == nil || resp.State.Label != "Sessão" {
		t.Fatalf("vide = %+v", resp)
	}

	resp = r.PillOpenVide("Mesa Diretora")
	if resp.FilterFallback != "Mesa Diretora" || resp.State != nil {
		t.Errorf("stale vide = %+v", resp)
	}
}

func TestSearchClearKeepsPillFilter(t *testing.T) {
	r := testReader()
	r.PillOpen("sessao", "")
	r.Search("eleicao")

	r.SearchClear()
	out := filteredSet(r)
	if out["art5"] || out["art9"] || !out["art10"] {
		t.Errorf("after clear = %v", out)
	}
}
