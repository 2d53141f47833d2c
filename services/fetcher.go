package services

import (
	"context"
	"fmt"

	"job-aggregator/models"
	"job-aggregator/scraper"
	"job-aggregator/utils"
)

// BatchFetcher runs one category's cross-product of terms and locations
// against a Source, one fetch job at a time.
type BatchFetcher struct {
	source  scraper.Source
	pacer   utils.Pacer
	country string
	logger  *utils.Logger
}

// NewBatchFetcher creates a BatchFetcher. country is passed to the Source
// as a hint for which regional site to search.
func NewBatchFetcher(source scraper.Source, pacer utils.Pacer, country string, logger *utils.Logger) *BatchFetcher {
	return &BatchFetcher{source: source, pacer: pacer, country: country, logger: logger}
}

// Fetch searches every (term, location) pair, terms outer and locations
// inner, and returns the concatenated results. progress is advanced after
// each fetch job and the pacer waits after every job including the last and
// a failed one. The first Source error aborts the fetch and discards what
// was collected.
func (f *BatchFetcher) Fetch(ctx context.Context, terms, locations []string, recencyDays, resultsPerQuery int, progress *Progress) (*models.Table, error) {
	batches := make([]*models.Table, 0, len(terms)*len(locations))

	for _, term := range terms {
		for _, loc := range locations {
			q := scraper.Query{
				Term:          term,
				Location:      loc,
				HoursOld:      recencyDays * 24,
				ResultsWanted: resultsPerQuery,
				Country:       f.country,
			}

			f.logger.Debug("[fetch] %s: %q in %q", f.source.Name(), term, loc)
			tbl, err := f.source.Search(ctx, q)
			if err != nil {
				if perr := f.pacer.Wait(ctx); perr != nil {
					f.logger.Debug("[fetch] pacing after failure: %v", perr)
				}
				return nil, fmt.Errorf("fetch %q in %q: %w", term, loc, err)
			}
			batches = append(batches, tbl)
			f.logger.Info("[fetch] %q in %q: %d postings", term, loc, tbl.Len())

			if progress != nil {
				progress.Advance()
			}
			if err := f.pacer.Wait(ctx); err != nil {
				return nil, fmt.Errorf("fetch: pacing: %w", err)
			}
		}
	}

	return models.Concat(batches...), nil
}
