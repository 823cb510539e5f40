// Package dataset holds the record, entity and subset types shared by the
// curation stages.
package dataset

import (
	"sort"
	"strings"
)

// Record is one question/answer pair from the corpus. Predicted carries the
// probed model's output when the record comes from an evaluation run.
type Record struct {
	Question  string `json:"question"`
	Answer    string `json:"answer"`
	Predicted string `json:"predicted,omitempty"`
}

// Malformed reports whether the record lacks question or answer text.
func (r Record) Malformed() bool {
	return strings.TrimSpace(r.Question) == "" || strings.TrimSpace(r.Answer) == ""
}

// Entity groups the records whose questions are about the same subject.
type Entity struct {
	Name     string   `json:"name"`
	Category string   `json:"category"`
	Records  []Record `json:"records"`
}

// Len returns the number of supporting records.
func (e Entity) Len() int { return len(e.Records) }

// Subset maps a category name to its ranked entities.
type Subset map[string][]Entity

// Categories returns the category names in sorted order.
func (s Subset) Categories() []string {
	cats := make([]string, 0, len(s))
	for c := range s {
		cats = append(cats, c)
	}
	sort.Strings(cats)
	return cats
}

// EntityCount returns the total number of entities across categories.
func (s Subset) EntityCount() int {
	n := 0
	for _, ents := range s {
		n += len(ents)
	}
	return n
}

// RecordCount returns the number of records held by the entities of cat.
func (s Subset) RecordCount(cat string) int {
	n := 0
	for _, e := range s[cat] {
		n += len(e.Records)
	}
	return n
}

// Clone copies the category slices so the result can be filtered without
// touching s. Entity record slices are shared; they are never mutated.
func (s Subset) Clone() Subset {
	out := make(Subset, len(s))
	for c, ents := range s {
		out[c] = append([]Entity(nil), ents...)
	}
	return out
}
