package services

import (
	"job-aggregator/models"
	"job-aggregator/utils"
)

// ExcludedColumns are dropped from every fetched table. Columns a source
// never sent are ignored.
var ExcludedColumns = []string{
	models.ColID, models.ColSite, models.ColJobURLDirect, models.ColJobType, models.ColSalarySource,
	models.ColCurrency, models.ColIsRemote, models.ColJobLevel, models.ColJobFunction,
	models.ColListingType, models.ColEmails, models.ColDescription, models.ColCompanyIndustry,
	models.ColCompanyLogo, models.ColCompanyURL, models.ColCompanyAddresses,
	models.ColCompanyDescription, models.ColSkills, models.ColExperienceRange,
	models.ColCompanyRating, models.ColCompanyReviewsCount, models.ColVacancyCount,
	models.ColWorkFromHomeType, models.ColInterval,
}

// Cleaner projects a category's fetched table down to the retained columns.
type Cleaner struct {
	logger *utils.Logger
}

// NewCleaner creates a Cleaner with the given logger.
func NewCleaner(logger *utils.Logger) *Cleaner {
	return &Cleaner{logger: logger}
}

// Clean drops exact duplicate rows, keeping the first, then drops the
// excluded columns. It is idempotent for tables without rows differing only
// in excluded columns; a second pass merges such rows.
func (c *Cleaner) Clean(tbl *models.Table) *models.Table {
	deduped := DropDuplicates(tbl)
	out := deduped.DropColumns(ExcludedColumns...)

	c.logger.Info("[cleaner] Cleaned %d → %d postings (dropped %d duplicates), %d columns kept",
		tbl.Len(), out.Len(), tbl.Len()-out.Len(), len(out.Columns))
	return out
}

// DropDuplicates returns the rows of tbl that are not exact duplicates of an
// earlier row, comparing every column.
func DropDuplicates(tbl *models.Table) *models.Table {
	out := models.NewTable()
	if tbl == nil {
		return out
	}
	out.Columns = append(out.Columns, tbl.Columns...)

	seen := utils.NewKeySet()
	for _, r := range tbl.Rows {
		if !seen.Add(tbl.RowKey(r)) {
			continue
		}
		c := make(models.Row, len(r))
		for k, v := range r {
			c[k] = v
		}
		out.Rows = append(out.Rows, c)
	}
	return out
}
