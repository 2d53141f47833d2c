package services

import (
	"sort"

	"job-aggregator/models"
	"job-aggregator/utils"
)

// Default salary band, both bounds inclusive.
const (
	DefaultMinSalary = 50000
	DefaultMaxSalary = 80000
)

// Ranker keeps the postings inside the salary band and ranks them by
// minimum salary.
type Ranker struct {
	MinSalary float64
	MaxSalary float64
	logger    *utils.Logger
}

// NewRanker creates a Ranker with the default salary band.
func NewRanker(logger *utils.Logger) *Ranker {
	return &Ranker{MinSalary: DefaultMinSalary, MaxSalary: DefaultMaxSalary, logger: logger}
}

// PerCategoryCap is the share of maxJobs each of the three categories may
// contribute. Floor division: maxJobs of 1 or 2 gives every category zero.
func PerCategoryCap(maxJobs int) int {
	return maxJobs / len(models.Categories)
}

// Filter keeps rows with min_amount >= MinSalary and max_amount <=
// MaxSalary, sorts them by min_amount descending (stable) and returns at
// most PerCategoryCap(maxJobs) rows. Rows missing either bound are dropped.
func (r *Ranker) Filter(tbl *models.Table, maxJobs int) *models.Table {
	out := models.NewTable()
	if tbl == nil {
		return out
	}
	out.Columns = append(out.Columns, tbl.Columns...)

	type ranked struct {
		row models.Row
		min float64
	}
	var kept []ranked
	for _, row := range tbl.Rows {
		lo, ok := row.Float(models.ColMinAmount)
		if !ok || lo < r.MinSalary {
			continue
		}
		hi, ok := row.Float(models.ColMaxAmount)
		if !ok || hi > r.MaxSalary {
			continue
		}
		kept = append(kept, ranked{row: row, min: lo})
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].min > kept[j].min
	})

	inBand := len(kept)
	limit := PerCategoryCap(maxJobs)
	if limit < 0 {
		limit = 0
	}
	if len(kept) > limit {
		kept = kept[:limit]
	}

	for _, k := range kept {
		c := make(models.Row, len(k.row))
		for key, v := range k.row {
			c[key] = v
		}
		out.Rows = append(out.Rows, c)
	}

	r.logger.Info("[ranker] %d of %d postings in the $%.0f–$%.0f band, kept top %d",
		inBand, tbl.Len(), r.MinSalary, r.MaxSalary, len(out.Rows))
	return out
}
