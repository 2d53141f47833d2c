package services

import (
	"sync"

	"job-aggregator/utils"
)

// Labels shown with progress updates.
const (
	LabelScraping  = "Scraping in progress. Please wait."
	LabelFinishing = "Finishing up!"
)

// ProgressSink receives run progress as a fraction in [0,1]. Reports are
// fire-and-forget.
type ProgressSink interface {
	Report(fraction float64, label string)
}

// Progress counts completed fetch jobs across every category of a run. One
// instance is created per run and handed to each category's fetch.
type Progress struct {
	total int
	done  int
	sink  ProgressSink
}

// NewProgress creates an accumulator for total fetch jobs.
func NewProgress(total int, sink ProgressSink) *Progress {
	return &Progress{total: total, sink: sink}
}

// Advance records one completed fetch job and reports the new fraction.
func (p *Progress) Advance() {
	p.done++
	p.report(LabelScraping)
}

// Complete forces the counter to full and reports it.
func (p *Progress) Complete() {
	p.done = p.total
	p.report(LabelFinishing)
}

// Done returns the number of completed fetch jobs.
func (p *Progress) Done() int { return p.done }

// Fraction returns the completed share of the run.
func (p *Progress) Fraction() float64 {
	if p.total <= 0 || p.done >= p.total {
		return 1
	}
	return float64(p.done) / float64(p.total)
}

func (p *Progress) report(label string) {
	if p.sink != nil {
		p.sink.Report(p.Fraction(), label)
	}
}

// LogProgressSink writes progress updates as log lines, skipping repeats.
type LogProgressSink struct {
	logger *utils.Logger
	mu     sync.Mutex
	last   int
}

// NewLogProgressSink creates a sink that logs whole percentages.
func NewLogProgressSink(logger *utils.Logger) *LogProgressSink {
	return &LogProgressSink{logger: logger, last: -1}
}

func (s *LogProgressSink) Report(fraction float64, label string) {
	pct := int(fraction * 100)
	s.mu.Lock()
	defer s.mu.Unlock()
	if pct == s.last {
		return
	}
	s.last = pct
	s.logger.Info("[progress] %3d%% %s", pct, label)
}
