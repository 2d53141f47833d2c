package indeed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"job-aggregator/models"
	"job-aggregator/scraper"
)

const resultsPage = `
<html><body>
<div id="mosaic-jobResults">
  <div class="job_seen_beacon">
    <h2 class="jobTitle"><a data-jk="abc123" href="/rc/clk?jk=abc123"><span title="Financial Analyst">Financial Analyst</span></a></h2>
    <span data-testid="company-name">Acme Corp</span>
    <div data-testid="text-location">Chicago,&nbsp;IL</div>
    <div data-testid="attribute_snippet_testid">Full-time</div>
    <div data-testid="attribute_snippet_testid">$55,000 - $75,000 a year</div>
    <span data-testid="myJobsStateDate">Posted 3 days ago</span>
  </div>
  <div class="job_seen_beacon">
    <h2 class="jobTitle"><a data-jk="def456"><span title="Staff Accountant">Staff Accountant</span></a></h2>
    <span data-testid="company-name">Beta LLC</span>
    <div data-testid="text-location">Remote</div>
    <span data-testid="myJobsStateDate">Just posted</span>
  </div>
  <div class="job_seen_beacon">
    <h2 class="jobTitle"><a><span title="No key">No key</span></a></h2>
  </div>
</div>
<nav><a data-testid="pagination-page-next" href="/jobs?q=x&start=10">Next</a></nav>
</body></html>`

func TestParseResults(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	rows, hasNext, err := ParseResults(resultsPage, "https://www.indeed.com", now)
	require.NoError(t, err)
	assert.True(t, hasNext)
	require.Len(t, rows, 2, "card without a job key is skipped")

	first := rows[0]
	assert.Equal(t, "in-abc123", first[models.ColID])
	assert.Equal(t, "Financial Analyst", first[models.ColTitle])
	assert.Equal(t, "Acme Corp", first[models.ColCompany])
	assert.Equal(t, "Chicago, IL", first[models.ColLocation])
	assert.Equal(t, "https://www.indeed.com/viewjob?jk=abc123", first[models.ColJobURL])
	assert.Equal(t, "2024-05-07", first[models.ColDatePosted])
	assert.Equal(t, "yearly", first[models.ColInterval])

	tbl := models.NewTable(rowColumns...)
	tbl.Append(first)
	minV, ok := tbl.Rows[0].Float(models.ColMinAmount)
	require.True(t, ok)
	assert.Equal(t, 55000.0, minV)

	second := rows[1]
	assert.Equal(t, true, second[models.ColIsRemote])
	assert.Equal(t, "2024-05-10", second[models.ColDatePosted])
	_, hasSalary := second[models.ColMinAmount]
	assert.False(t, hasSalary)
}

func TestParseResultsLastPage(t *testing.T) {
	_, hasNext, err := ParseResults(`<html><body></body></html>`, "https://www.indeed.com", time.Now())
	require.NoError(t, err)
	assert.False(t, hasNext)
}

func TestParseSalary(t *testing.T) {
	f := func(v float64) *float64 { return &v }
	tests := []struct {
		in       string
		ok       bool
		min, max *float64
		interval string
	}{
		{in: "$50,000 - $80,000 a year", ok: true, min: f(50000), max: f(80000), interval: "yearly"},
		{in: "$25 - $30.50 an hour", ok: true, min: f(25), max: f(30.5), interval: "hourly"},
		{in: "From $60,000 a year", ok: true, min: f(60000), interval: "yearly"},
		{in: "Up to $4,500 a month", ok: true, max: f(4500), interval: "monthly"},
		{in: "$55K a year", ok: true, min: f(55000), max: f(55000), interval: "yearly"},
		{in: "Full-time", ok: false},
		{in: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseSalary(tt.in)
			require.Equal(t, tt.ok, ok)
			if !ok {
				return
			}
			assert.Equal(t, tt.interval, got.Interval)
			assert.Equal(t, tt.min, got.Min)
			assert.Equal(t, tt.max, got.Max)
		})
	}
}

func TestSearchURL(t *testing.T) {
	q := scraper.Query{Term: "Staff Accountant", Location: "Remote", HoursOld: 25}
	assert.Equal(t, "https://www.indeed.com/jobs?fromage=2&l=Remote&q=Staff+Accountant", searchURL(baseURL("USA"), q, 0))
	assert.Equal(t, "https://uk.indeed.com/jobs?fromage=2&l=Remote&q=Staff+Accountant&start=15", searchURL(baseURL("UK"), q, 15))
	assert.Equal(t, "https://www.indeed.com", baseURL("atlantis"))
}
