package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"job-aggregator/config"
	"job-aggregator/models"
	"job-aggregator/utils"
)

// EstimatePerFetchJob is the wall-clock cost budgeted per fetch job when
// estimating a run: the pacing delay plus a typical provider response.
const EstimatePerFetchJob = 7 * time.Second

// RawWriter receives each category's table straight from the fetcher,
// before cleaning.
type RawWriter interface {
	WriteRaw(category models.Category, tbl *models.Table) error
}

// Result is the output of a completed run.
type Result struct {
	RunID      string
	Table      *models.Table
	ByCategory map[models.Category]int
	FetchJobs  int
	StartedAt  time.Time
	FinishedAt time.Time
}

// Pipeline runs fetch → clean → filter for every category and merges the
// results.
type Pipeline struct {
	fetcher    *BatchFetcher
	cleaner    *Cleaner
	ranker     *Ranker
	aggregator *Aggregator
	sink       ProgressSink
	raw        RawWriter
	logger     *utils.Logger
}

// NewPipeline wires a pipeline around a fetcher.
func NewPipeline(fetcher *BatchFetcher, sink ProgressSink, logger *utils.Logger) *Pipeline {
	return &Pipeline{
		fetcher:    fetcher,
		cleaner:    NewCleaner(logger),
		ranker:     NewRanker(logger),
		aggregator: NewAggregator(logger),
		sink:       sink,
		logger:     logger,
	}
}

// WithRawWriter makes the pipeline hand every fetched category table to w.
func (p *Pipeline) WithRawWriter(w RawWriter) *Pipeline {
	p.raw = w
	return p
}

// EstimateDuration is the expected wall-clock time of a run.
func EstimateDuration(search config.SearchConfig) time.Duration {
	return time.Duration(search.Normalized().TotalFetchJobs()) * EstimatePerFetchJob
}

// Run validates the inputs, then runs the categories one after the other.
// Any fetch failure aborts the run and no partial result is returned.
func (p *Pipeline) Run(ctx context.Context, search config.SearchConfig, opts config.RunOptions) (*Result, error) {
	if err := search.Validate(); err != nil {
		return nil, err
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	search = search.Normalized()

	res := &Result{
		RunID:      uuid.NewString(),
		ByCategory: make(map[models.Category]int, len(models.Categories)),
		FetchJobs:  search.TotalFetchJobs(),
		StartedAt:  time.Now(),
	}
	p.logger.Info("[pipeline] Run %s: %d fetch jobs, days old %d, max jobs %d (≤%d per category)",
		res.RunID, res.FetchJobs, opts.DaysOld, opts.MaxJobs, PerCategoryCap(opts.MaxJobs))

	progress := NewProgress(res.FetchJobs, p.sink)
	filtered := make([]*models.Table, 0, len(models.Categories))

	for _, cat := range models.Categories {
		p.logger.Info("[pipeline] Category %s", cat.Label())

		raw, err := p.fetcher.Fetch(ctx, search.Terms(cat), search.Locations, opts.DaysOld, opts.MaxJobs, progress)
		if err != nil {
			return nil, fmt.Errorf("pipeline: %s: %w", cat, err)
		}
		if p.raw != nil {
			if err := p.raw.WriteRaw(cat, raw); err != nil {
				p.logger.Warn("[pipeline] Raw dump for %s failed: %v", cat, err)
			}
		}

		cleaned := p.cleaner.Clean(raw)
		ranked := p.ranker.Filter(cleaned, opts.MaxJobs)
		res.ByCategory[cat] = ranked.Len()
		filtered = append(filtered, ranked)
	}

	progress.Complete()

	res.Table = p.aggregator.Aggregate(filtered...)
	res.FinishedAt = time.Now()
	p.logger.Info("[pipeline] Run %s finished in %s with %d postings",
		res.RunID, res.FinishedAt.Sub(res.StartedAt).Round(time.Second), res.Table.Len())
	return res, nil
}
