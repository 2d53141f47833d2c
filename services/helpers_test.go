package services

import (
	"context"
	"errors"
	"io"

	"job-aggregator/models"
	"job-aggregator/scraper"
	"job-aggregator/utils"
)

func newTestLogger() *utils.Logger { return utils.NewLoggerTo(io.Discard, utils.LevelError) }

var errBoom = errors.New("provider unavailable")

// fakeSource records every query and answers from a canned function.
type fakeSource struct {
	calls  []scraper.Query
	failAt int // 1-based call number that fails; 0 never fails
	answer func(q scraper.Query) *models.Table
}

func (f *fakeSource) Name() string { return "fake" }

func (f *fakeSource) Search(_ context.Context, q scraper.Query) (*models.Table, error) {
	f.calls = append(f.calls, q)
	if f.failAt > 0 && len(f.calls) == f.failAt {
		return nil, scraper.NewError("fake", q, "boom", errBoom)
	}
	if f.answer == nil {
		return models.NewTable(), nil
	}
	return f.answer(q), nil
}

// countingPacer counts waits without sleeping.
type countingPacer struct{ waits int }

func (c *countingPacer) Wait(context.Context) error {
	c.waits++
	return nil
}

// recordingSink keeps every progress report.
type recordingSink struct {
	fractions []float64
	labels    []string
}

func (r *recordingSink) Report(fraction float64, label string) {
	r.fractions = append(r.fractions, fraction)
	r.labels = append(r.labels, label)
}

func posting(title, company string, lo, hi any) models.Row {
	return models.Row{
		models.ColTitle:     title,
		models.ColCompany:   company,
		models.ColLocation:  "Remote",
		models.ColMinAmount: lo,
		models.ColMaxAmount: hi,
		models.ColJobURL:    "https://jobs.example/" + title + "/" + company,
	}
}

func tableOf(rows ...models.Row) *models.Table {
	t := models.NewTable(models.ColTitle, models.ColCompany, models.ColLocation,
		models.ColMinAmount, models.ColMaxAmount, models.ColJobURL)
	for _, r := range rows {
		t.Append(r)
	}
	return t
}
