package storage

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"job-aggregator/config"
	"job-aggregator/models"
	"job-aggregator/utils"
)

// Dialect selects the SQL flavour a SQLStore speaks.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

const archiveBatchSize = 50

// SQLStore keeps the search document and the run archive in PostgreSQL or
// SQLite. It satisfies both ConfigStore and Archiver.
type SQLStore struct {
	db       *sql.DB
	dialect  Dialect
	document string
	logger   *utils.Logger
	now      func() time.Time
}

// NewPostgresStore connects to PostgreSQL, retrying the initial ping, and
// runs the schema migrations.
func NewPostgresStore(ctx context.Context, dsn, document string, retry *utils.RetryConfig, logger *utils.Logger) (*SQLStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	if retry == nil {
		retry = &utils.RetryConfig{MaxAttempts: 1}
	}
	if err := retry.Do(ctx, "postgres ping", db.PingContext); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: %w", err)
	}

	return newSQLStore(ctx, db, DialectPostgres, document, logger)
}

// NewSQLiteStore opens (or creates) the SQLite database at path. ":memory:"
// gives a private in-memory database.
func NewSQLiteStore(ctx context.Context, path, document string, logger *utils.Logger) (*SQLStore, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	// sqlite wants a single writer; this also keeps :memory: on one connection
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: ping: %w", err)
	}
	return newSQLStore(ctx, db, DialectSQLite, document, logger)
}

func newSQLStore(ctx context.Context, db *sql.DB, dialect Dialect, document string, logger *utils.Logger) (*SQLStore, error) {
	if document == "" {
		document = "search"
	}
	s := &SQLStore{db: db, dialect: dialect, document: document, logger: logger, now: time.Now}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: migrate: %w", dialect, err)
	}
	return s, nil
}

func (s *SQLStore) migrate(ctx context.Context) error {
	idColumn := "INTEGER PRIMARY KEY AUTOINCREMENT"
	realType := "REAL"
	if s.dialect == DialectPostgres {
		idColumn = "BIGSERIAL PRIMARY KEY"
		realType = "DOUBLE PRECISION"
	}

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS search_documents (
			name       TEXT PRIMARY KEY,
			doc        TEXT NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS archive_runs (
			run_id       TEXT PRIMARY KEY,
			column_names TEXT NOT NULL,
			postings     INTEGER NOT NULL,
			archived_at  TIMESTAMP NOT NULL
		)`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS postings (
			id         %s,
			run_id     TEXT NOT NULL,
			seq        INTEGER NOT NULL,
			title      TEXT NOT NULL DEFAULT '',
			company    TEXT NOT NULL DEFAULT '',
			location   TEXT NOT NULL DEFAULT '',
			min_amount %s,
			max_amount %s,
			job_url    TEXT NOT NULL DEFAULT '',
			data       TEXT NOT NULL
		)`, idColumn, realType, realType),
		`CREATE INDEX IF NOT EXISTS idx_postings_run_id     ON postings(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_postings_min_amount ON postings(min_amount)`,
		`CREATE INDEX IF NOT EXISTS idx_postings_company    ON postings(company)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// placeholder returns the n-th (1-based) bind parameter.
func (s *SQLStore) placeholder(n int) string {
	if s.dialect == DialectPostgres {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

func (s *SQLStore) placeholders(from, count int) string {
	parts := make([]string, count)
	for i := range parts {
		parts[i] = s.placeholder(from + i)
	}
	return "(" + strings.Join(parts, ",") + ")"
}

// Read returns the stored search document.
func (s *SQLStore) Read(ctx context.Context) (config.SearchConfig, error) {
	var out config.SearchConfig
	var doc string

	q := "SELECT doc FROM search_documents WHERE name = " + s.placeholder(1)
	err := s.db.QueryRowContext(ctx, q, s.document).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return out, ErrNotFound
	}
	if err != nil {
		return out, fmt.Errorf("%s: read document: %w", s.dialect, err)
	}
	if err := json.Unmarshal([]byte(doc), &out); err != nil {
		return out, fmt.Errorf("%s: decode document: %w", s.dialect, err)
	}
	return out, nil
}

// Write upserts the search document.
func (s *SQLStore) Write(ctx context.Context, cfg config.SearchConfig) error {
	doc, err := json.MarshalIndent(cfg, "", "    ")
	if err != nil {
		return fmt.Errorf("%s: encode document: %w", s.dialect, err)
	}

	q := fmt.Sprintf(`
		INSERT INTO search_documents (name, doc, updated_at)
		VALUES %s
		ON CONFLICT (name) DO UPDATE SET doc = excluded.doc, updated_at = excluded.updated_at
	`, s.placeholders(1, 3))
	if _, err := s.db.ExecContext(ctx, q, s.document, string(doc), s.now().UTC()); err != nil {
		return fmt.Errorf("%s: write document: %w", s.dialect, err)
	}
	return nil
}

// Archive stores the final table of a run. Archiving the same run twice
// replaces the earlier copy.
func (s *SQLStore) Archive(ctx context.Context, runID string, tbl *models.Table) error {
	cols, err := json.Marshal(tbl.Columns)
	if err != nil {
		return fmt.Errorf("%s: encode columns: %w", s.dialect, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin archive: %w", s.dialect, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM postings WHERE run_id = "+s.placeholder(1), runID); err != nil {
		return fmt.Errorf("%s: clear run: %w", s.dialect, err)
	}
	q := fmt.Sprintf(`
		INSERT INTO archive_runs (run_id, column_names, postings, archived_at)
		VALUES %s
		ON CONFLICT (run_id) DO UPDATE SET column_names = excluded.column_names,
			postings = excluded.postings, archived_at = excluded.archived_at
	`, s.placeholders(1, 4))
	if _, err := tx.ExecContext(ctx, q, runID, string(cols), tbl.Len(), s.now().UTC()); err != nil {
		return fmt.Errorf("%s: record run: %w", s.dialect, err)
	}

	for i := 0; i < tbl.Len(); i += archiveBatchSize {
		end := i + archiveBatchSize
		if end > tbl.Len() {
			end = tbl.Len()
		}
		if err := s.insertBatch(ctx, tx, runID, i, tbl.Rows[i:end]); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit archive: %w", s.dialect, err)
	}
	s.logger.Info("[%s] Archived %d postings for run %s", s.dialect, tbl.Len(), runID)
	return nil
}

func (s *SQLStore) insertBatch(ctx context.Context, tx *sql.Tx, runID string, offset int, batch []models.Row) error {
	const width = 9
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*width)

	for idx, r := range batch {
		data, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("%s: encode posting: %w", s.dialect, err)
		}
		valueStrings = append(valueStrings, s.placeholders(idx*width+1, width))
		valueArgs = append(valueArgs,
			runID, offset+idx,
			r.String(models.ColTitle), r.String(models.ColCompany), r.String(models.ColLocation),
			nullFloat(r, models.ColMinAmount), nullFloat(r, models.ColMaxAmount),
			r.String(models.ColJobURL), string(data))
	}

	query := fmt.Sprintf(`
		INSERT INTO postings (run_id, seq, title, company, location, min_amount, max_amount, job_url, data)
		VALUES %s
	`, strings.Join(valueStrings, ","))

	if _, err := tx.ExecContext(ctx, query, valueArgs...); err != nil {
		return fmt.Errorf("%s: insert postings: %w", s.dialect, err)
	}
	return nil
}

func nullFloat(r models.Row, col string) sql.NullFloat64 {
	f, ok := r.Float(col)
	return sql.NullFloat64{Float64: f, Valid: ok}
}

// FetchRun loads an archived run back into a table, rows in their original
// order.
func (s *SQLStore) FetchRun(ctx context.Context, runID string) (*models.Table, error) {
	var cols string
	err := s.db.QueryRowContext(ctx,
		"SELECT column_names FROM archive_runs WHERE run_id = "+s.placeholder(1), runID).Scan(&cols)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: run %s: %w", s.dialect, runID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: fetch run: %w", s.dialect, err)
	}

	var columns []string
	if err := json.Unmarshal([]byte(cols), &columns); err != nil {
		return nil, fmt.Errorf("%s: decode columns: %w", s.dialect, err)
	}
	tbl := models.NewTable(columns...)

	rows, err := s.db.QueryContext(ctx,
		"SELECT data FROM postings WHERE run_id = "+s.placeholder(1)+" ORDER BY seq", runID)
	if err != nil {
		return nil, fmt.Errorf("%s: fetch postings: %w", s.dialect, err)
	}
	defer rows.Close()

	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("%s: scan posting: %w", s.dialect, err)
		}
		dec := json.NewDecoder(bytes.NewReader([]byte(data)))
		dec.UseNumber()
		var r models.Row
		if err := dec.Decode(&r); err != nil {
			return nil, fmt.Errorf("%s: decode posting: %w", s.dialect, err)
		}
		tbl.Append(r)
	}
	return tbl, rows.Err()
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}
