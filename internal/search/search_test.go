package search

import (
	"regexp"
	"strings"
	"testing"

	"github.com/lfarias/normanav/internal/norma"
	"github.com/lfarias/normanav/internal/textnorm"
)

func testDoc() *norma.Document {
	return norma.New([]norma.Element{
		{Heading: &norma.Heading{Level: norma.LevelTitulo, Text: "TÍTULO I", SectionID: "tit1"}},
		{Article: &norma.Article{Number: "5", UID: "art5", Blocks: []norma.Block{
			{Kind: norma.KindCaput, Label: "Art. 5º", UID: "art5", Text: "A sessão ordinária terá duração de quatro horas."},
		}}},
		{Article: &norma.Article{Number: "9", UID: "art9", Blocks: []norma.Block{
			{Kind: norma.KindCaput, Label: "Art. 9º", UID: "art9",
				Text:      "A eleição da Mesa ocorrerá em sessão preparatória.",
				Footnotes: []string{"Ver Acórdão nº 12 sobre a eleição suplementar."}},
		}}},
		{Article: &norma.Article{Number: "43", UID: "art43", Blocks: []norma.Block{
			{Kind: norma.KindCaput, Label: "Art. 43", UID: "art43", Text: "As comissões permanentes serão eleitas."},
		}}},
		{Article: &norma.Article{LawPrefix: "ADT", Number: "12", UID: "ADTart12", Blocks: []norma.Block{
			{Kind: norma.KindCaput, Label: "Art. 12", UID: "ADTart12", Text: "Disposição transitória sobre a sessão."},
		}}},
	})
}

func TestSearchEmptyTermClears(t *testing.T) {
	e := New(testDoc())
	for _, raw := range []string{"", "   "} {
		res := e.Search(raw, nil)
		if res.Kind != KindCleared {
			t.Errorf("Search(%q).Kind = %s, want cleared", raw, res.Kind)
		}
		if res.State != nil {
			t.Errorf("cleared result must carry no state")
		}
	}
}

func TestSearchSingleTerm(t *testing.T) {
	e := New(testDoc())
	res := e.Search("eleição", nil)
	if res.Kind != KindMatches {
		t.Fatalf("Kind = %s", res.Kind)
	}
	if len(res.State.Matched) != 1 || res.State.Matched[0] != "art9" {
		t.Errorf("Matched = %v, want [art9]", res.State.Matched)
	}
}

func TestSearchIsAccentInsensitive(t *testing.T) {
	e := New(testDoc())
	// Plain input matches accented text and vice versa.
	if res := e.Search("sessao", nil); len(res.State.Matched) != 3 {
		t.Errorf("sessao matched %v", res.State.Matched)
	}
	if res := e.Search("SESSÃO", nil); len(res.State.Matched) != 3 {
		t.Errorf("SESSÃO matched %v", res.State.Matched)
	}
}

func TestSearchMultiTermIsConjunctive(t *testing.T) {
	e := New(testDoc())
	res := e.Search("sessao eleicao", nil)
	if len(res.State.Matched) != 1 || res.State.Matched[0] != "art9" {
		t.Errorf("Matched = %v, want only the article containing both terms", res.State.Matched)
	}
}

func TestSearchMatchOrderIsDocumentOrder(t *testing.T) {
	e := New(testDoc())
	res := e.Search("sessao", nil)
	want := []string{"art5", "art9", "ADTart12"}
	if len(res.State.Matched) != len(want) {
		t.Fatalf("Matched = %v", res.State.Matched)
	}
	for i, uid := range want {
		if res.State.Matched[i] != uid {
			t.Errorf("Matched[%d] = %s, want %s", i, res.State.Matched[i], uid)
		}
	}
}

func TestSearchRestrict(t *testing.T) {
	e := New(testDoc())
	restrict := map[string]bool{"9": true, "ADT:12": true}
	res := e.Search("sessao", restrict)
	want := []string{"art9", "ADTart12"}
	if len(res.State.Matched) != 2 || res.State.Matched[0] != want[0] || res.State.Matched[1] != want[1] {
		t.Errorf("restricted Matched = %v, want %v", res.State.Matched, want)
	}
}

func TestQuickJump(t *testing.T) {
	e := New(testDoc())

	res := e.Search("a43", nil)
	if res.Kind != KindQuickJump {
		t.Fatalf("Kind = %s, want quick_jump", res.Kind)
	}
	if res.Jump == nil || res.Jump.UID != "art43" {
		t.Errorf("Jump = %+v, want art43", res.Jump)
	}

	res = e.Search("aADT12", nil)
	if res.Kind != KindQuickJump || res.Jump == nil || res.Jump.UID != "ADTart12" {
		t.Errorf("aADT12 -> %+v", res.Jump)
	}

	// Miss is not an error: the input is simply ineffective.
	res = e.Search("a999", nil)
	if res.Kind != KindQuickJump || res.Jump != nil {
		t.Errorf("a999 -> kind=%s jump=%+v", res.Kind, res.Jump)
	}
}

func TestQuickJumpGrammarBoundaries(t *testing.T) {
	e := New(testDoc())
	// A lowercase word starting with "a" is a search term, not a jump.
	if res := e.Search("as", nil); res.Kind == KindQuickJump {
		t.Error("\"as\" must not parse as quick-jump")
	}
	// Single-letter prefix is not a law prefix.
	if res := e.Search("aB12", nil); res.Kind == KindQuickJump {
		t.Error("single-letter prefix must not parse as quick-jump")
	}
}

func TestFootnotePrefix(t *testing.T) {
	e := New(testDoc())

	// "Acórdão" lives only in a footnote: invisible without the prefix.
	res := e.Search("acordao", nil)
	if len(res.State.Matched) != 0 {
		t.Errorf("without prefix, Matched = %v", res.State.Matched)
	}

	res = e.Search("r acordao", nil)
	if !res.State.IncludeFootnotes {
		t.Fatal("expected footnote inclusion")
	}
	if len(res.State.Matched) != 1 || res.State.Matched[0] != "art9" {
		t.Errorf("with prefix, Matched = %v", res.State.Matched)
	}
	if len(res.FootnoteHighlights) != 1 || res.FootnoteHighlights[0].UID != "art9" {
		t.Errorf("FootnoteHighlights = %+v", res.FootnoteHighlights)
	}

	// A bare "r" is an ordinary term, not the footnote prefix.
	res = e.Search("r", nil)
	if res.Kind != KindMatches || res.State.IncludeFootnotes {
		t.Error("\"r\" alone must not enable footnote inclusion")
	}
}

func TestHighlightSpansAddressOriginalText(t *testing.T) {
	e := New(testDoc())
	res := e.Search("eleicao", nil)
	spans, ok := res.Highlights["art9"]
	if !ok || len(spans) != 1 {
		t.Fatalf("Highlights[art9] = %v", spans)
	}
	text := "A eleição da Mesa ocorrerá em sessão preparatória."
	if got := text[spans[0].Start:spans[0].End]; got != "eleição" {
		t.Errorf("span covers %q, want the accented original", got)
	}
}

func TestHighlightMergesOverlaps(t *testing.T) {
	patterns := compile(t, "sess", "sessao")
	spans := findSpans("a sessão seguinte", patterns)
	if len(spans) != 1 {
		t.Fatalf("expected merged span, got %v", spans)
	}
	text := "a sessão seguinte"
	if got := text[spans[0].Start:spans[0].End]; !strings.HasPrefix(got, "sess") {
		t.Errorf("merged span covers %q", got)
	}
}

func compile(t *testing.T, terms ...string) []*regexp.Regexp {
	t.Helper()
	var out []*regexp.Regexp
	for _, term := range terms {
		re, err := textnorm.CompilePattern(term)
		if err != nil {
			t.Fatalf("CompilePattern(%q): %v", term, err)
		}
		out = append(out, re)
	}
	return out
}

func TestCyclicCursor(t *testing.T) {
	s := &State{Matched: []string{"a", "b", "c"}}
	if s.Current() != "a" {
		t.Errorf("Current = %s", s.Current())
	}
	got := []string{s.Next(), s.Next(), s.Next(), s.Next()}
	want := []string{"b", "c", "a", "b"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Next #%d = %s, want %s", i+1, got[i], want[i])
		}
	}
	if s.Prev() != "a" {
		t.Error("Prev must wrap backwards")
	}

	var nilState *State
	if nilState.Next() != "" || nilState.Prev() != "" || nilState.Current() != "" {
		t.Error("nil state cursor must be inert")
	}
	if nilState.Active() {
		t.Error("nil state must not be active")
	}
}
