// Package store persists curation runs.
package store

import (
	"context"
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/qacurate/pkg/qacurate/dataset"
	"github.com/cognicore/qacurate/pkg/qacurate/report"
)

// Store persists curation runs
type Store interface {
	Close() error

	// SaveRun stores run and returns its ID. A run without an ID is assigned
	// a new ULID.
	SaveRun(ctx context.Context, run Run) (string, error)
	// GetRun returns internalerr.ErrNotFound for unknown IDs.
	GetRun(ctx context.Context, id string) (Run, error)
	// ListRuns returns up to limit runs, newest first. A limit below one
	// lists every run.
	ListRuns(ctx context.Context, limit int) ([]RunSummary, error)
}

// Run is one curation result with its statistics
type Run struct {
	ID        string
	CreatedAt time.Time
	// Source names the corpus the run read, usually a file path.
	Source string
	Report report.Report
	Subset dataset.Subset
}

// RunSummary is the listing view of a Run
type RunSummary struct {
	ID        string
	CreatedAt time.Time
	Source    string
	Entities  int
	Records   int
}

// Summarize builds the listing view of run.
func Summarize(run Run) RunSummary {
	sum := RunSummary{
		ID:        run.ID,
		CreatedAt: run.CreatedAt,
		Source:    run.Source,
		Entities:  run.Subset.EntityCount(),
	}
	for _, cat := range run.Subset.Categories() {
		sum.Records += run.Subset.RecordCount(cat)
	}
	return sum
}

// IDSource hands out monotonic ULIDs. It is safe for concurrent use.
type IDSource struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// NewIDSource creates an ID source.
func NewIDSource() *IDSource {
	return &IDSource{entropy: ulid.Monotonic(rand.Reader, 0)}
}

// Next returns a new ID, lexically greater than every ID previously returned.
func (s *IDSource) Next() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ulid.MustNew(ulid.Now(), s.entropy).String()
}
