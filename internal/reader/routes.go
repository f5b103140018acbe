package reader

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lfarias/normanav/internal/index"
)

// RegisterRoutes mounts the document, search, index, pill and diff routes.
func RegisterRoutes(r chi.Router, rd *Reader) {
	r.Get("/api/document", handleDocument(rd))
	r.Get("/api/document/visibility", handleVisibility(rd))

	r.Route("/api/search", func(r chi.Router) {
		r.Post("/", handleSearch(rd))
		r.Post("/next", handleSearchStep(rd, (*Reader).SearchNext))
		r.Post("/prev", handleSearchStep(rd, (*Reader).SearchPrev))
		r.Post("/clear", handleSearchClear(rd))
	})

	r.Route("/api/index", func(r chi.Router) {
		r.Get("/systematic", handleSystematic(rd))
		r.Get("/systematic/{sectionID}", handleSection(rd))
		r.Get("/subjects", handleSubjects(rd))
		r.Get("/references", handleReferences(rd))
	})

	r.Route("/api/pill", func(r chi.Router) {
		r.Get("/", handlePillState(rd))
		r.Post("/open", handlePillOpen(rd))
		r.Post("/vide", handlePillVide(rd))
		r.Post("/next", handlePillStep(rd, (*Reader).PillNext))
		r.Post("/prev", handlePillStep(rd, (*Reader).PillPrev))
		r.Post("/jump", handlePillJump(rd))
		r.Post("/toggle-filter", handlePillStep(rd, (*Reader).PillToggleFilter))
		r.Post("/close", handlePillClose(rd))
	})

	r.Post("/api/diff", handleDiff(rd))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// documentUnit is the per-unit summary handed to the rendering layer.
type documentUnit struct {
	UnitID    string `json:"unit_id"`
	Heading   bool   `json:"heading,omitempty"`
	Level     string `json:"level,omitempty"`
	Label     string `json:"label"`
	LawPrefix string `json:"law_prefix,omitempty"`
	Number    string `json:"number,omitempty"`
	Revoked   bool   `json:"revoked,omitempty"`
	Versions  int    `json:"versions,omitempty"`
}

func handleDocument(rd *Reader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc := rd.Document()
		units := make([]documentUnit, 0, len(doc.Elements))
		for _, el := range doc.Elements {
			if h := el.Heading; h != nil {
				label := h.Text
				if h.Subtitle != "" {
					label += " — " + h.Subtitle
				}
				units = append(units, documentUnit{
					UnitID:  h.SectionID,
					Heading: true,
					Level:   string(h.Level),
					Label:   label,
				})
				continue
			}
			if a := el.Article; a != nil {
				units = append(units, documentUnit{
					UnitID:    a.UID,
					Label:     a.Label(),
					LawPrefix: a.LawPrefix,
					Number:    a.Number,
					Revoked:   a.Revoked,
					Versions:  len(a.Versions),
				})
			}
		}
		writeJSON(w, units)
	}
}

func handleVisibility(rd *Reader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out := rd.FilteredOut()
		if out == nil {
			out = []string{}
		}
		writeJSON(w, map[string][]string{"filtered_out": out})
	}
}

type searchRequest struct {
	Term string `json:"term"`
}

func handleSearch(rd *Reader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req searchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}
		writeJSON(w, rd.Search(req.Term))
	}
}

func handleSearchStep(rd *Reader, step func(*Reader) SearchResponse) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, step(rd))
	}
}

func handleSearchClear(rd *Reader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rd.SearchClear()
		writeJSON(w, map[string]string{"status": "cleared"})
	}
}

func handleSystematic(rd *Reader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		nodes := rd.Indexes().Systematic.FindPath(r.URL.Query().Get("q"))
		writeJSON(w, nodes)
	}
}

func handleSection(rd *Reader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sectionID := chi.URLParam(r, "sectionID")
		h := rd.Document().HeadingBySection(sectionID)
		if h == nil {
			http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
			return
		}
		writeJSON(w, h)
	}
}

// subjectView is a subject entry with its compacted ref display.
type subjectView struct {
	Subject  string         `json:"subject"`
	Display  string         `json:"display,omitempty"`
	Children []subjectChild `json:"children,omitempty"`
	Vides    []string       `json:"vides,omitempty"`
}

type subjectChild struct {
	SubSubject string   `json:"sub_subject"`
	Display    string   `json:"display,omitempty"`
	Vides      []string `json:"vides,omitempty"`
}

func handleSubjects(rd *Reader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries := rd.Indexes().Subjects.Filter(r.URL.Query().Get("q"))
		views := make([]subjectView, 0, len(entries))
		for _, e := range entries {
			v := subjectView{Subject: e.Subject, Vides: e.Vides}
			if len(e.Refs) > 0 {
				v.Display = index.CompactRefs(e.Refs)
			}
			for _, c := range e.Children {
				child := subjectChild{SubSubject: c.SubSubject, Vides: c.Vides}
				if len(c.Refs) > 0 {
					child.Display = index.CompactRefs(c.Refs)
				}
				v.Children = append(v.Children, child)
			}
			views = append(views, v)
		}
		writeJSON(w, views)
	}
}

func handleReferences(rd *Reader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cats := rd.Indexes().References.Filter(r.URL.Query().Get("q"))
		writeJSON(w, cats)
	}
}

type pillOpenRequest struct {
	Subject    string `json:"subject"`
	SubSubject string `json:"sub_subject"`
}

func handlePillOpen(rd *Reader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req pillOpenRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}
		if req.Subject == "" {
			http.Error(w, `{"error":"subject is required"}`, http.StatusBadRequest)
			return
		}
		writeJSON(w, rd.PillOpen(req.Subject, req.SubSubject))
	}
}

type pillVideRequest struct {
	Vide string `json:"vide"`
}

func handlePillVide(rd *Reader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req pillVideRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}
		writeJSON(w, rd.PillOpenVide(req.Vide))
	}
}

func handlePillStep(rd *Reader, step func(*Reader) PillResponse) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, step(rd))
	}
}

type pillJumpRequest struct {
	Index int `json:"index"`
}

func handlePillJump(rd *Reader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req pillJumpRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}
		writeJSON(w, rd.PillJump(req.Index))
	}
}

func handlePillClose(rd *Reader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rd.PillClose()
		writeJSON(w, map[string]string{"status": "closed"})
	}
}

func handlePillState(rd *Reader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, PillResponse{State: rd.PillState()})
	}
}

type diffRequest struct {
	UID     string `json:"uid"`
	Version int    `json:"version"`
}

func handleDiff(rd *Reader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req diffRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}
		script, ok := rd.Diff(req.UID, req.Version)
		if !ok {
			http.Error(w, `{"error":"no comparable version"}`, http.StatusNotFound)
			return
		}
		writeJSON(w, script)
	}
}
