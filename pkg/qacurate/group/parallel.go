package group

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/cognicore/qacurate/pkg/qacurate/dataset"
)

// checkEvery is how many records a shard processes between context checks.
const checkEvery = 1024

// GroupParallel splits records into contiguous shards, groups each shard in
// its own goroutine and merges the partial results in shard order. The result
// is identical to Group. It returns ctx.Err() if ctx is cancelled before all
// shards finish.
func (g *Grouper) GroupParallel(ctx context.Context, records []dataset.Record, workers int) (Result, error) {
	if workers <= 1 || len(records) < 2*workers {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		return g.Group(records), nil
	}

	shards := split(records, workers)
	partials := make([]*accumulator, len(shards))

	eg, ctx := errgroup.WithContext(ctx)
	for i, shard := range shards {
		i, shard := i, shard
		eg.Go(func() error {
			acc := g.newAccumulator()
			for n, rec := range shard {
				if n%checkEvery == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				acc.observe(rec)
			}
			partials[i] = acc
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return Result{}, err
	}

	return g.merge(partials).result(), nil
}

// merge replays the partial accumulators into one, in order. Kept records go
// through add again so entity order and duplicate detection match a
// sequential pass.
func (g *Grouper) merge(partials []*accumulator) *accumulator {
	out := g.newAccumulator()
	for _, p := range partials {
		counts := p.counts
		counts.Grouped = 0
		out.counts.add(counts)

		for cat, states := range p.order {
			for _, st := range states {
				for _, rec := range st.entity.Records {
					out.add(cat, st.entity.Name, rec)
				}
			}
		}
	}
	return out
}

// split cuts records into n contiguous shards of near-equal size.
func split(records []dataset.Record, n int) [][]dataset.Record {
	shards := make([][]dataset.Record, 0, n)
	size := len(records) / n
	rem := len(records) % n
	start := 0
	for i := 0; i < n; i++ {
		end := start + size
		if i < rem {
			end++
		}
		shards = append(shards, records[start:end])
		start = end
	}
	return shards
}
