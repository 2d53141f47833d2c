package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"job-aggregator/models"
)

// CSVWriter dumps each category's raw (uncleaned) table to its own CSV file
// in a directory. It is safe for concurrent use.
type CSVWriter struct {
	mu    sync.Mutex
	dir   string
	stamp string
	paths []string
}

// NewCSVWriter creates the output directory. Files written by this writer
// share a timestamp prefix so one run's dumps sort together.
func NewCSVWriter(dir string, now time.Time) (*CSVWriter, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}
	return &CSVWriter{dir: dir, stamp: now.Format("20060102-150405")}, nil
}

// WriteRaw writes the whole table, header first, to raw_<stamp>_<category>.csv.
func (c *CSVWriter) WriteRaw(category models.Category, tbl *models.Table) (err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	path := filepath.Join(c.dir, fmt.Sprintf("raw_%s_%s.csv", c.stamp, category))
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("csv: create file %q: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("csv: close %q: %w", path, cerr)
		}
		if err == nil {
			c.paths = append(c.paths, path)
		}
	}()

	w := csv.NewWriter(f)
	if err := w.Write(tbl.Columns); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}

	record := make([]string, len(tbl.Columns))
	for _, r := range tbl.Rows {
		for i, col := range tbl.Columns {
			record[i] = r.String(col)
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("csv: flush %q: %w", path, err)
	}
	return nil
}

// Paths lists the files written so far.
func (c *CSVWriter) Paths() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.paths...)
}
