package services

import (
	"bytes"
	"strings"
	"testing"
	"unicode/utf8"

	"job-aggregator/models"
)

func TestGenerateSummary(t *testing.T) {
	svc := NewInsightService(newTestLogger())
	tbl := tableOf(
		posting("Analyst", "Acme", 60000, 70000),
		posting("Senior Analyst", "Acme", 75000, 80000),
		posting("Accountant", "Beta", nil, 65000),
	)
	tbl.Rows[2][models.ColLocation] = "Chicago, IL"

	r := svc.Generate(&Result{
		RunID:      "run-1",
		Table:      tbl,
		ByCategory: map[models.Category]int{models.CategoryFinance: 2, models.CategoryAccounting: 1},
	})

	if r.RunID != "run-1" || r.TotalPostings != 3 {
		t.Errorf("unexpected header %+v", r)
	}
	if r.AverageMinSalary != 67500 {
		t.Errorf("AverageMinSalary = %v; want 67500", r.AverageMinSalary)
	}
	if r.LowestMinSalary != 60000 {
		t.Errorf("LowestMinSalary = %v; want 60000", r.LowestMinSalary)
	}
	if r.HighestMaxSalary != 80000 {
		t.Errorf("HighestMaxSalary = %v; want 80000", r.HighestMaxSalary)
	}
	if r.TopPaying == nil || r.TopPaying.Title != "Senior Analyst" {
		t.Errorf("TopPaying = %+v", r.TopPaying)
	}
	if r.PostingsByCompany["Acme"] != 2 || r.PostingsByLocation["Remote"] != 2 || r.PostingsByLocation["Chicago, IL"] != 1 {
		t.Errorf("counts: %v %v", r.PostingsByCompany, r.PostingsByLocation)
	}
	if r.ByCategory[models.CategoryFinance] != 2 {
		t.Errorf("ByCategory = %v", r.ByCategory)
	}
}

func TestGenerateEmpty(t *testing.T) {
	svc := NewInsightService(newTestLogger())

	r := svc.Generate(nil)
	if r.TotalPostings != 0 || r.TopPaying != nil {
		t.Errorf("expected an empty summary, got %+v", r)
	}

	r = svc.Generate(&Result{RunID: "x", Table: models.NewTable()})
	if r.RunID != "x" || r.TotalPostings != 0 {
		t.Errorf("unexpected summary %+v", r)
	}
}

func TestPrintSummary(t *testing.T) {
	svc := NewInsightService(newTestLogger())
	var buf bytes.Buffer

	svc.Print(&buf, svc.Generate(&Result{RunID: "run-7", Table: tableOf(posting("Analyst", "Acme", 60000, 70000))}))
	out := buf.String()
	for _, want := range []string{"JOB SEARCH RESULTS", "run-7", "Analyst", "Acme", "$60000.00"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}

	buf.Reset()
	svc.Print(&buf, svc.Generate(nil))
	if !strings.Contains(buf.String(), "No salary data available") {
		t.Errorf("empty summary should say so:\n%s", buf.String())
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate short = %q", got)
	}
	if got := truncate("a very long company name", 10); got != "a very ..." {
		t.Errorf("truncate long = %q", got)
	}
	got := truncate("Société Générale Zürich", 10)
	if got != "Société..." || !utf8.ValidString(got) {
		t.Errorf("truncate multibyte = %q", got)
	}
	if got := truncate("Zürich", 6); got != "Zürich" {
		t.Errorf("truncate fits in runes = %q", got)
	}
}
