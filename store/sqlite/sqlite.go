/*
Package sqlite provides the SQLite-backed report archive.

PURPOSE:
  Persists finished report runs so the HTTP API can serve previously
  generated documents without re-hitting the upstream API. One table,
  append-only: a report run is a fact about what the configuration looked
  like at generation time, never updated afterward.

KEY TABLE:
  reports: One row per run - reporter slug, generation timestamp, run
           counters, and the full markdown document.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety alongside SQLite's own locking.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) so report reads don't
  block archive writes.

USAGE:
  archive, err := sqlite.New("./data/reports.db")
  if err != nil {
      log.Fatal(err)
  }
  defer archive.Close()

  id, err := archive.Save(ctx, report)

MIGRATION:
  Schema is auto-migrated on New(). Use ":memory:" for tests.

SEE ALSO:
  - generic/report.go: The Report type being archived
  - api/: The HTTP surface reading the archive
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/loyalty-reporter/generic"
)

// ArchivedReport is one stored report run.
type ArchivedReport struct {
	ID          int64
	Reporter    string
	Title       string
	GeneratedAt time.Time
	Stats       generic.RunStats
	Document    string
}

// Archive persists report runs in SQLite.
type Archive struct {
	db *sql.DB
	mu sync.RWMutex
}

// New opens (and migrates) the archive at dbPath. Use ":memory:" for an
// in-memory archive.
func New(dbPath string) (*Archive, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	archive := &Archive{db: db}
	if err := archive.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return archive, nil
}

// Close closes the database connection.
func (a *Archive) Close() error {
	return a.db.Close()
}

func (a *Archive) migrate() error {
	schema := `
	-- Report runs (append-only)
	CREATE TABLE IF NOT EXISTS reports (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		reporter TEXT NOT NULL,
		title TEXT NOT NULL,
		generated_at TEXT NOT NULL,
		entities INTEGER NOT NULL,
		enriched INTEGER NOT NULL,
		listing_only INTEGER NOT NULL,
		pages INTEGER NOT NULL,
		duplicates_dropped INTEGER NOT NULL,
		truncated BOOLEAN NOT NULL DEFAULT FALSE,
		fallback BOOLEAN NOT NULL DEFAULT FALSE,
		document TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_reports_reporter
		ON reports(reporter, generated_at DESC);
	`
	_, err := a.db.Exec(schema)
	return err
}

// Save stores one finished report run and returns its archive id.
func (a *Archive) Save(ctx context.Context, report *generic.Report) (int64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	query := `
		INSERT INTO reports
		(reporter, title, generated_at, entities, enriched, listing_only,
		 pages, duplicates_dropped, truncated, fallback, document, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	result, err := a.db.ExecContext(ctx, query,
		report.Adapter,
		report.Title,
		report.GeneratedAt.UTC().Format(time.RFC3339),
		report.Stats.Entities,
		report.Stats.Enriched,
		report.Stats.ListingOnly,
		report.Stats.Pages,
		report.Stats.DuplicatesDropped,
		report.Stats.Truncated,
		report.Stats.Fallback,
		report.Document,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save report: %w", err)
	}
	return result.LastInsertId()
}

// Get fetches one archived report by id, document included.
func (a *Archive) Get(ctx context.Context, id int64) (*ArchivedReport, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	query := `
		SELECT id, reporter, title, generated_at, entities, enriched,
		       listing_only, pages, duplicates_dropped, truncated, fallback, document
		FROM reports WHERE id = ?
	`
	row := a.db.QueryRowContext(ctx, query, id)
	report, err := scanReport(row, true)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: report %d", generic.ErrNotFound, id)
	}
	return report, err
}

// List returns archive entries newest-first, documents omitted to keep
// listings light. An empty reporter slug lists every reporter.
func (a *Archive) List(ctx context.Context, reporter string, limit int) ([]*ArchivedReport, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, reporter, title, generated_at, entities, enriched,
		       listing_only, pages, duplicates_dropped, truncated, fallback
		FROM reports
	`
	args := []any{}
	if reporter != "" {
		query += " WHERE reporter = ?"
		args = append(args, reporter)
	}
	query += " ORDER BY generated_at DESC, id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var reports []*ArchivedReport
	for rows.Next() {
		report, err := scanReport(rows, false)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	return reports, rows.Err()
}

// Latest fetches the newest archived report for one reporter.
func (a *Archive) Latest(ctx context.Context, reporter string) (*ArchivedReport, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	query := `
		SELECT id, reporter, title, generated_at, entities, enriched,
		       listing_only, pages, duplicates_dropped, truncated, fallback, document
		FROM reports WHERE reporter = ?
		ORDER BY generated_at DESC, id DESC LIMIT 1
	`
	row := a.db.QueryRowContext(ctx, query, reporter)
	report, err := scanReport(row, true)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: no reports for %q", generic.ErrNotFound, reporter)
	}
	return report, err
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanReport(row scanner, withDocument bool) (*ArchivedReport, error) {
	var report ArchivedReport
	var generatedAt string

	dest := []any{
		&report.ID, &report.Reporter, &report.Title, &generatedAt,
		&report.Stats.Entities, &report.Stats.Enriched, &report.Stats.ListingOnly,
		&report.Stats.Pages, &report.Stats.DuplicatesDropped,
		&report.Stats.Truncated, &report.Stats.Fallback,
	}
	if withDocument {
		dest = append(dest, &report.Document)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	parsed, err := time.Parse(time.RFC3339, generatedAt)
	if err != nil {
		return nil, fmt.Errorf("bad generated_at %q: %w", generatedAt, err)
	}
	report.GeneratedAt = parsed
	return &report, nil
}
