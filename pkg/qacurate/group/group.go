// Package group classifies records and accumulates them into entities.
package group

import (
	"github.com/cognicore/qacurate/pkg/qacurate/classify"
	"github.com/cognicore/qacurate/pkg/qacurate/dataset"
	"github.com/cognicore/qacurate/pkg/qacurate/normalize"
)

// Classifier assigns a category to a record.
type Classifier interface {
	Classify(rec dataset.Record) classify.Decision
	Unclassified() string
}

// Extractor names the entity a question is about.
type Extractor interface {
	Extract(question string) string
}

// Counts tallies what happened to each input record. Every record lands in
// exactly one of Malformed, Unclassified, Unextractable, Duplicates or the
// Grouped total.
type Counts struct {
	Total         int `json:"total"`
	Malformed     int `json:"malformed"`
	Unclassified  int `json:"unclassified"`
	Unextractable int `json:"unextractable"`
	Duplicates    int `json:"duplicates"`
	Grouped       int `json:"grouped"`
	// Classified counts records per category before extraction.
	Classified map[string]int `json:"classified"`
}

func (c *Counts) add(o Counts) {
	c.Total += o.Total
	c.Malformed += o.Malformed
	c.Unclassified += o.Unclassified
	c.Unextractable += o.Unextractable
	c.Duplicates += o.Duplicates
	c.Grouped += o.Grouped
	if c.Classified == nil {
		c.Classified = make(map[string]int, len(o.Classified))
	}
	for cat, n := range o.Classified {
		c.Classified[cat] += n
	}
}

// Result is the outcome of a grouping pass.
type Result struct {
	Grouped dataset.Subset
	Counts  Counts
}

// Options configures a Grouper.
type Options struct {
	// Dedupe drops a record whose normalized question and answer already
	// appear in the same entity.
	Dedupe bool
}

// Grouper turns ordered records into per-category entities. Entities are
// keyed by their normalized name; the first spelling seen is kept.
type Grouper struct {
	classifier Classifier
	extractor  Extractor
	dedupe     bool
}

// New creates a Grouper.
func New(classifier Classifier, extractor Extractor, opts Options) *Grouper {
	return &Grouper{classifier: classifier, extractor: extractor, dedupe: opts.Dedupe}
}

// Group processes records sequentially.
func (g *Grouper) Group(records []dataset.Record) Result {
	acc := g.newAccumulator()
	for _, rec := range records {
		acc.observe(rec)
	}
	return acc.result()
}

type entityState struct {
	entity dataset.Entity
	seen   map[string]struct{}
}

type accumulator struct {
	g      *Grouper
	order  map[string][]*entityState
	index  map[string]map[string]*entityState
	counts Counts
}

func (g *Grouper) newAccumulator() *accumulator {
	return &accumulator{
		g:      g,
		order:  make(map[string][]*entityState),
		index:  make(map[string]map[string]*entityState),
		counts: Counts{Classified: make(map[string]int)},
	}
}

func (a *accumulator) observe(rec dataset.Record) {
	a.counts.Total++
	if rec.Malformed() {
		a.counts.Malformed++
		return
	}

	decision := a.g.classifier.Classify(rec)
	if !decision.Classified(a.g.classifier.Unclassified()) {
		a.counts.Unclassified++
		return
	}
	a.counts.Classified[decision.Category]++

	name := a.g.extractor.Extract(rec.Question)
	if name == "" {
		a.counts.Unextractable++
		return
	}
	a.add(decision.Category, name, rec)
}

// add appends rec to the entity (category, name), creating it on first sight.
func (a *accumulator) add(category, name string, rec dataset.Record) {
	key := normalize.Text(name)
	byName, ok := a.index[category]
	if !ok {
		byName = make(map[string]*entityState)
		a.index[category] = byName
	}
	st, ok := byName[key]
	if !ok {
		st = &entityState{
			entity: dataset.Entity{Name: name, Category: category},
			seen:   make(map[string]struct{}),
		}
		byName[key] = st
		a.order[category] = append(a.order[category], st)
	}

	if a.g.dedupe {
		fp := fingerprint(rec)
		if _, dup := st.seen[fp]; dup {
			a.counts.Duplicates++
			return
		}
		st.seen[fp] = struct{}{}
	}
	st.entity.Records = append(st.entity.Records, rec)
	a.counts.Grouped++
}

func (a *accumulator) result() Result {
	out := make(dataset.Subset, len(a.order))
	for cat, states := range a.order {
		ents := make([]dataset.Entity, len(states))
		for i, st := range states {
			ents[i] = st.entity
		}
		out[cat] = ents
	}
	return Result{Grouped: out, Counts: a.counts}
}

func fingerprint(rec dataset.Record) string {
	return normalize.Text(rec.Question) + "\x00" + normalize.Text(rec.Answer)
}
