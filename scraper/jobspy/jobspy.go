// Package jobspy queries a JobSpy API service, which fans a search out to
// several job boards (Indeed, LinkedIn, ZipRecruiter, Glassdoor) and returns
// one flat result frame.
package jobspy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"job-aggregator/models"
	"job-aggregator/scraper"
	"job-aggregator/utils"
)

const (
	name       = "jobspy"
	searchPath = "/api/v1/search_jobs"
)

// Config configures the JobSpy client.
type Config struct {
	BaseURL string
	APIKey  string
	Sites   []string
	// HTTPClient defaults to a client without a timeout; a search blocks
	// until the service answers.
	HTTPClient *http.Client
}

// Client is a scraper.Source backed by a JobSpy API deployment.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *utils.Logger
}

type searchResponse struct {
	Count int              `json:"count"`
	Jobs  []map[string]any `json:"jobs"`
}

// New creates a JobSpy client.
func New(cfg Config, logger *utils.Logger) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{cfg: cfg, http: hc, logger: logger}
}

func (c *Client) Name() string { return name }

// Search runs one query against every configured site.
func (c *Client) Search(ctx context.Context, q scraper.Query) (*models.Table, error) {
	params := url.Values{}
	for _, s := range c.cfg.Sites {
		params.Add("site_name", s)
	}
	params.Set("search_term", q.Term)
	params.Set("location", q.Location)
	params.Set("hours_old", strconv.Itoa(q.HoursOld))
	params.Set("results_wanted", strconv.Itoa(q.ResultsWanted))
	if q.Country != "" {
		params.Set("country_indeed", q.Country)
	}

	reqURL := c.cfg.BaseURL + searchPath + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, scraper.NewError(name, q, "failed to create request", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("x-api-key", c.cfg.APIKey)
	}

	c.logger.Debug("[jobspy] GET %s", reqURL)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, scraper.NewError(name, q, "HTTP request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, scraper.NewError(name, q, "failed to read response body", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet := string(body)
		if len(snippet) > 256 {
			snippet = snippet[:256]
		}
		return nil, scraper.NewError(name, q, fmt.Sprintf("HTTP %d: %s", resp.StatusCode, snippet), nil)
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var out searchResponse
	if err := dec.Decode(&out); err != nil {
		return nil, scraper.NewError(name, q, "malformed response", err)
	}

	tbl := tableFromJobs(out.Jobs)
	c.logger.Debug("[jobspy] %q in %q returned %d postings", q.Term, q.Location, tbl.Len())
	return tbl, nil
}

// tableFromJobs keeps the provider's canonical column order for every
// column that shows up in the response.
func tableFromJobs(jobs []map[string]any) *models.Table {
	present := make(map[string]struct{})
	for _, j := range jobs {
		for k := range j {
			present[k] = struct{}{}
		}
	}

	var cols []string
	for _, c := range models.ProviderColumns {
		if _, ok := present[c]; ok {
			cols = append(cols, c)
		}
	}

	tbl := models.NewTable(cols...)
	for _, j := range jobs {
		tbl.Append(models.Row(j))
	}
	return tbl
}
