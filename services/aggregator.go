package services

import (
	"job-aggregator/models"
	"job-aggregator/utils"
)

// Aggregator merges the per-category tables into the final result.
type Aggregator struct {
	logger *utils.Logger
}

// NewAggregator creates an Aggregator.
func NewAggregator(logger *utils.Logger) *Aggregator {
	return &Aggregator{logger: logger}
}

// Aggregate concatenates the tables in the order given and removes postings
// that are exact duplicates across them, keeping the first occurrence.
func (a *Aggregator) Aggregate(tables ...*models.Table) *models.Table {
	combined := models.Concat(tables...)
	out := DropDuplicates(combined)

	a.logger.Info("[aggregator] Merged %d tables: %d → %d postings",
		len(tables), combined.Len(), out.Len())
	return out
}
