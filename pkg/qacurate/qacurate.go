// Package qacurate curates question/answer corpora into balanced,
// per-category entity subsets.
package qacurate

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/cognicore/qacurate/internal/logging"
	"github.com/cognicore/qacurate/pkg/qacurate/balance"
	"github.com/cognicore/qacurate/pkg/qacurate/classify"
	"github.com/cognicore/qacurate/pkg/qacurate/config"
	"github.com/cognicore/qacurate/pkg/qacurate/dataset"
	"github.com/cognicore/qacurate/pkg/qacurate/group"
	"github.com/cognicore/qacurate/pkg/qacurate/report"
	"github.com/cognicore/qacurate/pkg/qacurate/store"
)

// Curator is the curation pipeline facade
type Curator struct {
	comps   *config.Components
	grouper *group.Grouper
	store   store.Store
	log     *zap.Logger
	workers int
}

// Options configures a Curator
type Options struct {
	// Components, when set, is used as is and Config is ignored.
	Components *config.Components
	// Config defaults to the embedded profiles.
	Config *config.Config
	// Store, when set, receives every run.
	Store  store.Store
	Logger *zap.Logger
	// Workers is the number of classification shards; below two runs
	// sequentially.
	Workers int
}

// New creates a Curator. It fails if the configuration is invalid.
func New(opts Options) (*Curator, error) {
	comps := opts.Components
	if comps == nil {
		var err error
		cfg := opts.Config
		if cfg == nil {
			if cfg, err = config.Default(); err != nil {
				return nil, err
			}
		}
		if comps, err = config.Build(cfg); err != nil {
			return nil, err
		}
	}
	return &Curator{
		comps:   comps,
		grouper: group.New(comps.Classifier, comps.Extractor, group.Options{Dedupe: comps.Config.DedupeRecords}),
		store:   opts.Store,
		log:     logging.OrNop(opts.Logger),
		workers: opts.Workers,
	}, nil
}

// Close releases the store, if any.
func (c *Curator) Close() error {
	if c.store == nil {
		return nil
	}
	return c.store.Close()
}

// Config returns the active configuration.
func (c *Curator) Config() *config.Config { return c.comps.Config }

// Result is the outcome of a curation run
type Result struct {
	RunID  string
	Subset dataset.Subset
	Stages report.Stages
	Report report.Report
}

// Run classifies, groups, balances and cleans records. Source labels the run
// in the store.
func (c *Curator) Run(ctx context.Context, records []dataset.Record, source string) (Result, error) {
	limit := c.comps.Config.PerCategoryLimit
	c.log.Info("curation started",
		zap.Int("records", len(records)),
		zap.Int("workers", c.workers),
		zap.Int("per_category_limit", limit))

	grouped, err := c.grouper.GroupParallel(ctx, records, c.workers)
	if err != nil {
		return Result{}, fmt.Errorf("group records: %w", err)
	}
	counts := grouped.Counts
	c.log.Debug("grouped",
		zap.Int("grouped", counts.Grouped),
		zap.Int("malformed", counts.Malformed),
		zap.Int("unclassified", counts.Unclassified),
		zap.Int("unextractable", counts.Unextractable),
		zap.Int("duplicates", counts.Duplicates))

	balanced := balance.Balance(grouped.Grouped, limit)
	cleaned, removals := c.comps.Validator.Clean(balanced)
	for _, rm := range removals {
		c.log.Debug("entity removed",
			zap.String("category", rm.Category),
			zap.String("entity", rm.Entity),
			zap.String("reason", rm.Reason),
			zap.String("detail", rm.Detail))
	}

	stages := report.Stages{Grouped: grouped.Grouped, Balanced: balanced, Cleaned: cleaned}
	res := Result{
		Subset: cleaned,
		Stages: stages,
		Report: report.Build(c.comps.Classifier.Categories(), counts, stages, removals, limit),
	}

	if c.store != nil {
		id, err := c.store.SaveRun(ctx, store.Run{
			CreatedAt: res.Report.CreatedAt,
			Source:    source,
			Report:    res.Report,
			Subset:    cleaned,
		})
		if err != nil {
			return Result{}, fmt.Errorf("save run: %w", err)
		}
		res.RunID = id
		res.Report.RunID = id
	}

	c.log.Info("curation finished",
		zap.String("run_id", res.RunID),
		zap.Int("entities", cleaned.EntityCount()),
		zap.Int("removed", len(removals)))
	return res, nil
}

// Explanation describes how one record would be handled.
type Explanation struct {
	Decision classify.Decision
	Entity   string
}

// Explain classifies a single record and extracts its entity.
func (c *Curator) Explain(rec dataset.Record) Explanation {
	d := c.comps.Classifier.Classify(rec)
	return Explanation{Decision: d, Entity: c.comps.Extractor.Extract(rec.Question)}
}
