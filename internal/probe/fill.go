package probe

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cognicore/qacurate/internal/logging"
	"github.com/cognicore/qacurate/pkg/qacurate/dataset"
)

// Answerer answers one question.
type Answerer interface {
	Answer(ctx context.Context, question string) (string, error)
}

// FillOptions configures Fill.
type FillOptions struct {
	// Workers bounds concurrent requests; values below one mean one.
	Workers int
	// Overwrite replaces predictions that are already present.
	Overwrite bool
	Logger    *zap.Logger
}

// Fill returns a copy of s with every record's prediction set from a, and the
// number of records it asked about. The first failed request cancels the rest
// and is returned.
func Fill(ctx context.Context, s dataset.Subset, a Answerer, opts FillOptions) (dataset.Subset, int, error) {
	log := logging.OrNop(opts.Logger)
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}

	out := make(dataset.Subset, len(s))
	var pending []*dataset.Record
	for cat, ents := range s {
		list := make([]dataset.Entity, len(ents))
		for i, e := range ents {
			e.Records = append([]dataset.Record(nil), e.Records...)
			list[i] = e
		}
		out[cat] = list
	}
	for _, cat := range out.Categories() {
		for i := range out[cat] {
			recs := out[cat][i].Records
			for j := range recs {
				if opts.Overwrite || strings.TrimSpace(recs[j].Predicted) == "" {
					pending = append(pending, &recs[j])
				}
			}
		}
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for _, rec := range pending {
		rec := rec
		eg.Go(func() error {
			ans, err := a.Answer(ctx, rec.Question)
			if err != nil {
				return fmt.Errorf("answer %q: %w", rec.Question, err)
			}
			rec.Predicted = strings.TrimSpace(ans)
			log.Debug("probed", zap.String("question", rec.Question), zap.String("predicted", rec.Predicted))
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, 0, err
	}
	return out, len(pending), nil
}
