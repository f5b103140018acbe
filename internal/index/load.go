package index

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Artifact file names produced by the external build step, expected under
// the configured data directory next to the document file.
const (
	SystematicFile = "systematic.json"
	SubjectsFile   = "subjects.json"
	ReferencesFile = "references.json"
)

// Set bundles the three loaded indexes.
type Set struct {
	Systematic *Systematic
	Subjects   *Subjects
	References *References
}

// Load reads the three index artifacts from dir.
func Load(dir string) (*Set, error) {
	var sys Systematic
	if err := readJSON(filepath.Join(dir, SystematicFile), &sys); err != nil {
		return nil, err
	}
	var subj struct {
		Entries []Entry `json:"entries"`
	}
	if err := readJSON(filepath.Join(dir, SubjectsFile), &subj); err != nil {
		return nil, err
	}
	var refs References
	if err := readJSON(filepath.Join(dir, ReferencesFile), &refs); err != nil {
		return nil, err
	}
	return &Set{
		Systematic: &sys,
		Subjects:   NewSubjects(subj.Entries),
		References: &refs,
	}, nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading index %s: %w", filepath.Base(path), err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing index %s: %w", filepath.Base(path), err)
	}
	return nil
}
