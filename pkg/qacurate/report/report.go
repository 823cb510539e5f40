// Package report summarizes a curation run.
package report

import (
	"time"

	"github.com/cognicore/qacurate/pkg/qacurate/dataset"
	"github.com/cognicore/qacurate/pkg/qacurate/group"
	"github.com/cognicore/qacurate/pkg/qacurate/validate"
)

// CategoryStats follows one category through the pipeline.
type CategoryStats struct {
	Name string `json:"name"`
	// Classified is the number of records the classifier assigned.
	Classified int `json:"classified"`
	// Entities is the number of entities before balancing.
	Entities int `json:"entities"`
	Balanced int `json:"balanced"`
	Cleaned  int `json:"cleaned"`
	// Records is the number of records held by the cleaned entities.
	Records int `json:"records"`
}

// Report is the statistics of one run.
type Report struct {
	RunID      string             `json:"run_id,omitempty"`
	CreatedAt  time.Time          `json:"created_at"`
	Limit      int                `json:"per_category_limit"`
	Counts     group.Counts       `json:"counts"`
	Categories []CategoryStats    `json:"categories"`
	Removals   []validate.Removal `json:"removals"`
}

// Stages are the intermediate subsets of a run.
type Stages struct {
	Grouped  dataset.Subset
	Balanced dataset.Subset
	Cleaned  dataset.Subset
}

// Build assembles a report. Categories are listed in the given order; any
// category that only appears in the subsets is appended in sorted order.
func Build(categories []string, counts group.Counts, stages Stages, removals []validate.Removal, limit int) Report {
	names := append([]string(nil), categories...)
	known := make(map[string]bool, len(names))
	for _, n := range names {
		known[n] = true
	}
	for _, s := range []dataset.Subset{stages.Grouped, stages.Balanced, stages.Cleaned} {
		for _, n := range s.Categories() {
			if !known[n] {
				known[n] = true
				names = append(names, n)
			}
		}
	}

	stats := make([]CategoryStats, 0, len(names))
	for _, n := range names {
		stats = append(stats, CategoryStats{
			Name:       n,
			Classified: counts.Classified[n],
			Entities:   len(stages.Grouped[n]),
			Balanced:   len(stages.Balanced[n]),
			Cleaned:    len(stages.Cleaned[n]),
			Records:    stages.Cleaned.RecordCount(n),
		})
	}

	if removals == nil {
		removals = []validate.Removal{}
	}
	return Report{
		CreatedAt:  time.Now().UTC(),
		Limit:      limit,
		Counts:     counts,
		Categories: stats,
		Removals:   removals,
	}
}

// Totals sums the per-category stats.
func (r Report) Totals() CategoryStats {
	t := CategoryStats{Name: "total"}
	for _, c := range r.Categories {
		t.Classified += c.Classified
		t.Entities += c.Entities
		t.Balanced += c.Balanced
		t.Cleaned += c.Cleaned
		t.Records += c.Records
	}
	return t
}
