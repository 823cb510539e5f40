package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/cognicore/qacurate/pkg/qacurate/dataset"
	"github.com/cognicore/qacurate/pkg/qacurate/internalerr"
	"github.com/cognicore/qacurate/pkg/qacurate/store"
	"github.com/cognicore/qacurate/pkg/qacurate/validate"
)

// Store is an in-memory implementation of store.Store for tests.
type Store struct {
	mu   sync.RWMutex
	ids  *store.IDSource
	runs map[string]store.Run
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		ids:  store.NewIDSource(),
		runs: make(map[string]store.Run),
	}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// SaveRun implements store.Store. Saving an existing ID replaces the run.
func (s *Store) SaveRun(ctx context.Context, run store.Run) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if run.ID == "" {
		run.ID = s.ids.Next()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[run.ID] = copyRun(run)
	return run.ID, nil
}

// GetRun implements store.Store.
func (s *Store) GetRun(ctx context.Context, id string) (store.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[id]
	if !ok {
		return store.Run{}, fmt.Errorf("run %q: %w", id, internalerr.ErrNotFound)
	}
	return copyRun(run), nil
}

// ListRuns implements store.Store.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]store.RunSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]store.RunSummary, 0, len(s.runs))
	for _, run := range s.runs {
		out = append(out, store.Summarize(run))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func copyRun(run store.Run) store.Run {
	cp := run
	cp.Subset = make(dataset.Subset, len(run.Subset))
	for cat, ents := range run.Subset {
		list := make([]dataset.Entity, len(ents))
		for i, e := range ents {
			e.Records = append([]dataset.Record(nil), e.Records...)
			list[i] = e
		}
		cp.Subset[cat] = list
	}
	cp.Report.Removals = append([]validate.Removal(nil), run.Report.Removals...)
	cp.Report.Categories = append(cp.Report.Categories[:0:0], run.Report.Categories...)
	classified := make(map[string]int, len(run.Report.Counts.Classified))
	for k, v := range run.Report.Counts.Classified {
		classified[k] = v
	}
	cp.Report.Counts.Classified = classified
	return cp
}
