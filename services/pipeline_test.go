package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"job-aggregator/config"
	"job-aggregator/models"
	"job-aggregator/scraper"
)

func testSearch() config.SearchConfig {
	return config.SearchConfig{
		Locations:      []string{"Chicago, IL", "Remote"},
		FinanceJobs:    []string{"Financial Analyst"},
		BAISJobs:       []string{"Data Analyst"},
		AccountingJobs: []string{"Staff Accountant", "Auditor"},
	}
}

// salaryBySource answers each query with one in-band posting unique to it.
func salaryBySource(q scraper.Query) *models.Table {
	return tableOf(posting(q.Term, q.Location, 60000, 75000))
}

type recordingRaw struct {
	categories []models.Category
	err        error
}

func (r *recordingRaw) WriteRaw(c models.Category, _ *models.Table) error {
	r.categories = append(r.categories, c)
	return r.err
}

func newTestPipeline(src *fakeSource, sink ProgressSink) (*Pipeline, *countingPacer) {
	pacer := &countingPacer{}
	f := NewBatchFetcher(src, pacer, "USA", newTestLogger())
	return NewPipeline(f, sink, newTestLogger()), pacer
}

func TestPipelineRun(t *testing.T) {
	src := &fakeSource{answer: salaryBySource}
	sink := &recordingSink{}
	p, pacer := newTestPipeline(src, sink)

	res, err := p.Run(context.Background(), testSearch(), config.RunOptions{DaysOld: 7, MaxJobs: 30})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(src.calls) != 8 || pacer.waits != 8 {
		t.Errorf("calls=%d waits=%d; want 8 each", len(src.calls), pacer.waits)
	}
	if res.FetchJobs != 8 {
		t.Errorf("FetchJobs = %d; want 8", res.FetchJobs)
	}
	if res.RunID == "" {
		t.Error("expected a run id")
	}
	if res.Table.Len() != 8 {
		t.Errorf("rows = %d; want 8", res.Table.Len())
	}
	want := map[models.Category]int{
		models.CategoryFinance: 2, models.CategoryBAIS: 2, models.CategoryAccounting: 4,
	}
	for c, n := range want {
		if res.ByCategory[c] != n {
			t.Errorf("ByCategory[%s] = %d; want %d", c, res.ByCategory[c], n)
		}
	}
	if got := res.Table.Rows[0].String(models.ColTitle); got != "Financial Analyst" {
		t.Errorf("first row should come from finance, got %q", got)
	}
	for _, q := range src.calls {
		if q.HoursOld != 7*24 || q.ResultsWanted != 30 || q.Country != "USA" {
			t.Errorf("unexpected query %+v", q)
		}
	}
}

func TestPipelineProgressEndsAtOne(t *testing.T) {
	src := &fakeSource{answer: salaryBySource}
	sink := &recordingSink{}
	p, _ := newTestPipeline(src, sink)

	if _, err := p.Run(context.Background(), testSearch(), config.RunOptions{DaysOld: 1, MaxJobs: 10}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	n := len(sink.fractions)
	if n != 9 {
		t.Fatalf("reports = %d; want 8 advances plus completion", n)
	}
	if sink.fractions[n-1] != 1.0 || sink.labels[n-1] != LabelFinishing {
		t.Errorf("last report = %v %q; want 1 %q", sink.fractions[n-1], sink.labels[n-1], LabelFinishing)
	}
	for i := 1; i < n; i++ {
		if sink.fractions[i] < sink.fractions[i-1] {
			t.Errorf("progress went backwards at %d: %v", i, sink.fractions)
		}
	}
	if sink.fractions[0] != 0.125 {
		t.Errorf("first report = %v; want 0.125", sink.fractions[0])
	}
}

func TestPipelineAbortsOnFetchError(t *testing.T) {
	src := &fakeSource{answer: salaryBySource, failAt: 3}
	raw := &recordingRaw{}
	p, _ := newTestPipeline(src, &recordingSink{})
	p.WithRawWriter(raw)

	res, err := p.Run(context.Background(), testSearch(), config.RunOptions{DaysOld: 3, MaxJobs: 30})
	if err == nil {
		t.Fatal("expected an error")
	}
	if res != nil {
		t.Errorf("expected no partial result, got %+v", res)
	}
	if !errors.Is(err, errBoom) {
		t.Errorf("error should wrap the source failure, got %v", err)
	}
	var se *scraper.Error
	if !errors.As(err, &se) || se.Term != "Data Analyst" {
		t.Errorf("error should carry the failing query, got %v", err)
	}
	if len(src.calls) != 3 {
		t.Errorf("calls = %d; want 3", len(src.calls))
	}
	if len(raw.categories) != 1 || raw.categories[0] != models.CategoryFinance {
		t.Errorf("only finance should reach the raw writer, got %v", raw.categories)
	}
}

func TestPipelineValidatesBeforeFetching(t *testing.T) {
	tests := []struct {
		name   string
		search config.SearchConfig
		opts   config.RunOptions
	}{
		{"no locations", func() config.SearchConfig { s := testSearch(); s.Locations = nil; return s }(), config.RunOptions{DaysOld: 1, MaxJobs: 10}},
		{"blank terms", func() config.SearchConfig { s := testSearch(); s.BAISJobs = []string{" ", ""}; return s }(), config.RunOptions{DaysOld: 1, MaxJobs: 10}},
		{"days old too large", testSearch(), config.RunOptions{DaysOld: 91, MaxJobs: 10}},
		{"max jobs zero", testSearch(), config.RunOptions{DaysOld: 1, MaxJobs: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &fakeSource{answer: salaryBySource}
			p, _ := newTestPipeline(src, nil)

			_, err := p.Run(context.Background(), tt.search, tt.opts)
			if !errors.Is(err, config.ErrInvalidSearch) {
				t.Errorf("expected ErrInvalidSearch, got %v", err)
			}
			if len(src.calls) != 0 {
				t.Errorf("source called %d times before validation", len(src.calls))
			}
		})
	}
}

func TestPipelineRawWriterFailureIsNotFatal(t *testing.T) {
	src := &fakeSource{answer: salaryBySource}
	raw := &recordingRaw{err: errors.New("disk full")}
	p, _ := newTestPipeline(src, nil)
	p.WithRawWriter(raw)

	res, err := p.Run(context.Background(), testSearch(), config.RunOptions{DaysOld: 1, MaxJobs: 30})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(raw.categories) != len(models.Categories) {
		t.Errorf("raw writer calls = %d; want %d", len(raw.categories), len(models.Categories))
	}
	if res.Table.Len() == 0 {
		t.Error("expected postings despite the raw writer failing")
	}
}

func TestPipelineSmallCapYieldsNothing(t *testing.T) {
	src := &fakeSource{answer: salaryBySource}
	p, _ := newTestPipeline(src, nil)

	res, err := p.Run(context.Background(), testSearch(), config.RunOptions{DaysOld: 1, MaxJobs: 2})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Table.Len() != 0 {
		t.Errorf("rows = %d; want 0", res.Table.Len())
	}
}

func TestEstimateDuration(t *testing.T) {
	if got := EstimateDuration(testSearch()); got != 8*EstimatePerFetchJob {
		t.Errorf("EstimateDuration = %s; want %s", got, 8*EstimatePerFetchJob)
	}
	s := testSearch()
	s.Locations = append(s.Locations, "  ")
	if got := EstimateDuration(s); got != 56*time.Second {
		t.Errorf("blank entries should not count, got %s", got)
	}
}
