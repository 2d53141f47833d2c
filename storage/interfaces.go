package storage

import (
	"context"
	"errors"

	"job-aggregator/config"
	"job-aggregator/models"
)

// ErrNotFound is returned by a ConfigStore that holds no search document yet.
var ErrNotFound = errors.New("search document not found")

// ConfigStore is the interface any search-document backend must satisfy.
// Write replaces the whole document.
type ConfigStore interface {
	Read(ctx context.Context) (config.SearchConfig, error)
	Write(ctx context.Context, cfg config.SearchConfig) error
}

// Exporter renders a table as a downloadable file.
type Exporter interface {
	Export(tbl *models.Table, sheet string) ([]byte, error)
}

// Archiver keeps the final table of every run.
type Archiver interface {
	Archive(ctx context.Context, runID string, tbl *models.Table) error
	Close() error
}
