package indeed

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"job-aggregator/models"
)

var (
	// salaryAmountRegexp captures "$55,000", "$27.50" or "$60K" style amounts
	salaryAmountRegexp = regexp.MustCompile(`\$\s*([\d,]+(?:\.\d+)?)\s*([kK])?`)
	// postedDaysRegexp captures the day count in "Posted 3 days ago" / "30+ days ago"
	postedDaysRegexp = regexp.MustCompile(`(\d+)\+?\s*days?\s+ago`)
)

// Columns emitted for every Indeed card.
var rowColumns = []string{
	models.ColID, models.ColSite, models.ColJobURL, models.ColTitle, models.ColCompany,
	models.ColLocation, models.ColDatePosted, models.ColSalarySource, models.ColInterval,
	models.ColMinAmount, models.ColMaxAmount, models.ColCurrency, models.ColIsRemote,
}

// Salary is a pay range parsed from a card snippet.
type Salary struct {
	Min      *float64
	Max      *float64
	Interval string
}

// ParseResults extracts the job cards from a rendered search page. It also
// reports whether the page links to a further page of results.
func ParseResults(html, baseURL string, now time.Time) ([]models.Row, bool, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, false, err
	}

	var rows []models.Row
	doc.Find("div.job_seen_beacon, div.cardOutline").Each(func(_ int, card *goquery.Selection) {
		link := card.Find("h2.jobTitle a").First()
		jk, ok := link.Attr("data-jk")
		if !ok || jk == "" {
			// some layouts put data-jk on the card wrapper
			jk, _ = card.Find("[data-jk]").First().Attr("data-jk")
		}
		if jk == "" {
			return
		}

		title := strings.TrimSpace(link.Find("span[title]").AttrOr("title", ""))
		if title == "" {
			title = cleanText(link.Text())
		}
		location := cleanText(card.Find(`[data-testid="text-location"]`).First().Text())

		row := models.Row{
			models.ColID:         "in-" + jk,
			models.ColSite:       site,
			models.ColJobURL:     strings.TrimRight(baseURL, "/") + "/viewjob?jk=" + jk,
			models.ColTitle:      title,
			models.ColCompany:    cleanText(card.Find(`[data-testid="company-name"]`).First().Text()),
			models.ColLocation:   location,
			models.ColIsRemote:   strings.Contains(strings.ToLower(location), "remote"),
			models.ColDatePosted: nil,
		}

		if d, ok := parsePosted(card.Find(`[data-testid="myJobsStateDate"], span.date`).First().Text(), now); ok {
			row[models.ColDatePosted] = d
		}

		salaryText := ""
		card.Find(`[data-testid="attribute_snippet_testid"], .salary-snippet-container, .metadata.salary-snippet-container`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			txt := cleanText(s.Text())
			if strings.Contains(txt, "$") {
				salaryText = txt
				return false
			}
			return true
		})
		if sal, ok := ParseSalary(salaryText); ok {
			row[models.ColMinAmount] = sal.Min
			row[models.ColMaxAmount] = sal.Max
			row[models.ColInterval] = sal.Interval
			row[models.ColCurrency] = "USD"
			row[models.ColSalarySource] = "direct_data"
		}

		rows = append(rows, row)
	})

	hasNext := doc.Find(`a[data-testid="pagination-page-next"], a[aria-label="Next Page"]`).Length() > 0
	return rows, hasNext, nil
}

// ParseSalary reads snippets such as "$50,000 - $80,000 a year",
// "From $60,000 a year", "Up to $30 an hour" or "$55K a year".
func ParseSalary(text string) (Salary, bool) {
	lower := strings.ToLower(text)
	matches := salaryAmountRegexp.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return Salary{}, false
	}

	amounts := make([]float64, 0, 2)
	for _, m := range matches {
		v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
		if err != nil {
			continue
		}
		if m[2] != "" {
			v *= 1000
		}
		amounts = append(amounts, v)
	}
	if len(amounts) == 0 {
		return Salary{}, false
	}

	sal := Salary{Interval: parseInterval(lower)}
	lo, hi := amounts[0], amounts[0]
	if len(amounts) > 1 {
		hi = amounts[1]
	}

	switch {
	case strings.HasPrefix(lower, "from") || strings.Contains(lower, "starting at"):
		sal.Min = &lo
	case strings.HasPrefix(lower, "up to"):
		sal.Max = &hi
	default:
		sal.Min = &lo
		sal.Max = &hi
	}
	return sal, true
}

func parseInterval(lower string) string {
	switch {
	case strings.Contains(lower, "hour"):
		return "hourly"
	case strings.Contains(lower, "day"):
		return "daily"
	case strings.Contains(lower, "week"):
		return "weekly"
	case strings.Contains(lower, "month"):
		return "monthly"
	default:
		return "yearly"
	}
}

// parsePosted turns "Posted 3 days ago", "Just posted" or "Today" into a date.
func parsePosted(text string, now time.Time) (string, bool) {
	lower := strings.ToLower(cleanText(text))
	if lower == "" {
		return "", false
	}
	if strings.Contains(lower, "just posted") || strings.Contains(lower, "today") {
		return now.Format("2006-01-02"), true
	}
	m := postedDaysRegexp.FindStringSubmatch(lower)
	if len(m) < 2 {
		return "", false
	}
	days, err := strconv.Atoi(m[1])
	if err != nil {
		return "", false
	}
	return now.AddDate(0, 0, -days).Format("2006-01-02"), true
}

// cleanText collapses internal whitespace.
func cleanText(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return strings.Join(strings.Fields(s), " ")
}
