package services

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"job-aggregator/models"
	"job-aggregator/utils"
)

// InsightService summarises the final table of a run.
type InsightService struct {
	logger *utils.Logger
}

func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

func (s *InsightService) Generate(res *Result) *models.RunSummary {
	report := &models.RunSummary{
		ByCategory:         make(map[models.Category]int),
		PostingsByLocation: make(map[string]int),
		PostingsByCompany:  make(map[string]int),
	}
	if res == nil {
		return report
	}

	report.RunID = res.RunID
	for c, n := range res.ByCategory {
		report.ByCategory[c] = n
	}
	if res.Table.Len() == 0 {
		return report
	}
	report.TotalPostings = res.Table.Len()

	var total float64
	var priced int
	for _, row := range res.Table.Rows {
		p := models.PostingFromRow(row)
		if p.Location != "" {
			report.PostingsByLocation[p.Location]++
		}
		if p.Company != "" {
			report.PostingsByCompany[p.Company]++
		}

		if p.MinAmount != nil {
			total += *p.MinAmount
			if priced == 0 || *p.MinAmount < report.LowestMinSalary {
				report.LowestMinSalary = *p.MinAmount
			}
			if report.TopPaying == nil || *p.MinAmount > *report.TopPaying.MinAmount {
				pp := p
				report.TopPaying = &pp
			}
			priced++
		}
		if p.MaxAmount != nil && *p.MaxAmount > report.HighestMaxSalary {
			report.HighestMaxSalary = *p.MaxAmount
		}
	}

	if priced > 0 {
		report.AverageMinSalary = round2(total / float64(priced))
	}
	return report
}

func (s *InsightService) Print(w io.Writer, r *models.RunSummary) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n", sep)
	fmt.Fprintf(w, "\033[1;35m  JOB SEARCH RESULTS\033[0m\n")
	fmt.Fprintf(w, "\033[1;35m%s\033[0m\n\n", sep)

	fmt.Fprintf(w, "\033[1;33m  Overview\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Run                    : %s\n", r.RunID)
	fmt.Fprintf(w, "  Postings exported      : \033[1m%d\033[0m\n", r.TotalPostings)
	for _, c := range models.Categories {
		fmt.Fprintf(w, "  %-22s : %d\n", truncate(c.Label(), 22), r.ByCategory[c])
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Salary (yearly band)\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if r.AverageMinSalary > 0 {
		fmt.Fprintf(w, "  Average minimum : \033[1;32m$%.2f\033[0m\n", r.AverageMinSalary)
		fmt.Fprintf(w, "  Lowest minimum  : \033[1;32m$%.2f\033[0m\n", r.LowestMinSalary)
		fmt.Fprintf(w, "  Highest maximum : \033[1;32m$%.2f\033[0m\n", r.HighestMaxSalary)
	} else {
		fmt.Fprintf(w, "  No salary data available\n")
	}
	fmt.Fprintln(w)

	if r.TopPaying != nil {
		fmt.Fprintf(w, "\033[1;33m  Best Paying Posting\033[0m\n")
		fmt.Fprintf(w, "  %s\n", thin)
		fmt.Fprintf(w, "  %s\n", truncate(r.TopPaying.Title, 50))
		fmt.Fprintf(w, "  Company  : %s\n", r.TopPaying.Company)
		fmt.Fprintf(w, "  Location : %s\n", r.TopPaying.Location)
		fmt.Fprintf(w, "  From     : \033[1;31m$%.0f\033[0m\n", *r.TopPaying.MinAmount)
		fmt.Fprintln(w)
	}

	printCounts(w, "Postings by Location", r.PostingsByLocation, thin)
	printCounts(w, "Postings by Company", r.PostingsByCompany, thin)

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n\n", sep)
}

func printCounts(w io.Writer, title string, counts map[string]int, thin string) {
	fmt.Fprintf(w, "\033[1;33m  %s\033[0m\n", title)
	fmt.Fprintf(w, "  %s\n", thin)
	if len(counts) == 0 {
		fmt.Fprintf(w, "  No data\n")
		return
	}

	type kv struct {
		key   string
		count int
	}
	var rows []kv
	for k, n := range counts {
		rows = append(rows, kv{k, n})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].count != rows[j].count {
			return rows[i].count > rows[j].count
		}
		return rows[i].key < rows[j].key
	})
	for _, r := range rows {
		bar := strings.Repeat("█", r.count)
		fmt.Fprintf(w, "  %-30s %s (%d)\n", truncate(r.key, 28), bar, r.count)
	}
	fmt.Fprintln(w)
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
