// Package indeed scrapes Indeed search result pages with a headless browser.
package indeed

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"strconv"
	"time"

	"github.com/chromedp/chromedp"

	"job-aggregator/models"
	"job-aggregator/scraper"
	"job-aggregator/utils"
)

const (
	site = "indeed"
	// pageSize is the number of cards Indeed renders per results page.
	pageSize = 15
)

// countryHosts maps a country hint onto the Indeed site serving it.
var countryHosts = map[string]string{
	"usa":       "https://www.indeed.com",
	"us":        "https://www.indeed.com",
	"uk":        "https://uk.indeed.com",
	"canada":    "https://ca.indeed.com",
	"australia": "https://au.indeed.com",
	"india":     "https://in.indeed.com",
}

// Config configures the Indeed scraper.
type Config struct {
	ChromeBin string
	// PageWait is how long to let a results page render before reading it.
	PageWait time.Duration
	// PageTimeout bounds a single page load. Zero means no bound.
	PageTimeout time.Duration
}

// Scraper is a scraper.Source that drives Chrome through Indeed searches.
type Scraper struct {
	cfg    Config
	logger *utils.Logger
	now    func() time.Time
}

// New creates a ready-to-use Indeed Scraper.
func New(cfg Config, logger *utils.Logger) *Scraper {
	if cfg.PageWait <= 0 {
		cfg.PageWait = 4 * time.Second
	}
	return &Scraper{cfg: cfg, logger: logger, now: time.Now}
}

func (s *Scraper) Name() string { return site }

// Search pages through the results of one query until ResultsWanted cards
// were collected or Indeed runs out of pages. A fresh browser is started for
// every call.
func (s *Scraper) Search(ctx context.Context, q scraper.Query) (*models.Table, error) {
	chromeBin := s.cfg.ChromeBin
	if chromeBin == "" {
		chromeBin = findChromeBinary()
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 "+
			"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	// Suppress chromedp log noise
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelBrowser()

	base := baseURL(q.Country)
	tbl := models.NewTable(rowColumns...)
	seen := utils.NewKeySet()

	for start := 0; q.ResultsWanted <= 0 || tbl.Len() < q.ResultsWanted; start += pageSize {
		pageURL := searchURL(base, q, start)
		s.logger.Debug("[indeed] Loading %s", pageURL)

		html, err := s.render(browserCtx, pageURL)
		if err != nil {
			return nil, scraper.NewError(site, q, fmt.Sprintf("render page at offset %d", start), err)
		}

		rows, hasNext, err := ParseResults(html, base, s.now())
		if err != nil {
			return nil, scraper.NewError(site, q, "parse results page", err)
		}

		added := 0
		for _, r := range rows {
			if !seen.Add(r.String(models.ColID)) {
				continue
			}
			tbl.Append(r)
			added++
			if q.ResultsWanted > 0 && tbl.Len() >= q.ResultsWanted {
				break
			}
		}
		s.logger.Debug("[indeed] Offset %d: %d new cards (%d total)", start, added, tbl.Len())

		if !hasNext || added == 0 {
			break
		}
	}

	s.logger.Info("[indeed] %q in %q: %d postings", q.Term, q.Location, tbl.Len())
	return tbl, nil
}

// render loads a page in a new tab and returns its HTML once rendered.
func (s *Scraper) render(browserCtx context.Context, pageURL string) (string, error) {
	ctx, cancel := chromedp.NewContext(browserCtx)
	defer cancel()

	if s.cfg.PageTimeout > 0 {
		var cancelTimeout context.CancelFunc
		ctx, cancelTimeout = context.WithTimeout(ctx, s.cfg.PageTimeout)
		defer cancelTimeout()
	}

	var html string
	err := chromedp.Run(ctx,
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("body"),
		chromedp.Sleep(s.cfg.PageWait),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", fmt.Errorf("chromedp page load: %w", err)
	}
	return html, nil
}

func baseURL(country string) string {
	if host, ok := countryHosts[normaliseCountry(country)]; ok {
		return host
	}
	return countryHosts["usa"]
}

func normaliseCountry(c string) string {
	out := make([]rune, 0, len(c))
	for _, r := range c {
		if r >= 'A' && r <= 'Z' {
			r += 'a' - 'A'
		}
		if r != ' ' {
			out = append(out, r)
		}
	}
	return string(out)
}

// searchURL builds the results URL. Indeed's recency filter is in whole
// days, so the hour window is rounded up.
func searchURL(base string, q scraper.Query, start int) string {
	params := url.Values{}
	params.Set("q", q.Term)
	params.Set("l", q.Location)
	if q.HoursOld > 0 {
		params.Set("fromage", strconv.Itoa((q.HoursOld+23)/24))
	}
	if start > 0 {
		params.Set("start", strconv.Itoa(start))
	}
	return base + "/jobs?" + params.Encode()
}

// findChromeBinary locates Chrome/Chromium binary.
func findChromeBinary() string {
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
