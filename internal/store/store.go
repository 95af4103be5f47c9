package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	"github.com/Rushilchauhan45/sitely/internal/cloud"
	"github.com/Rushilchauhan45/sitely/internal/ledger"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 0 - Initial schema (pre-release databases)
// 1 - Added site_code and user_id columns to sites
// 2 - Added overtime column to wage_records
const currentSchemaVersion = 2

// RetentionYears is the hard retention horizon for the three ledger
// streams. Rows older than this are filtered from reads and physically
// removed by Sweep.
const RetentionYears = 3

// dateLayout is the storage format for record dates. ISO dates sort
// lexicographically, so range filters and ORDER BY work on TEXT.
const dateLayout = "2006-01-02"

// Options configures a Store. The zero value is usable: system clock,
// standard logger, no-op mirror.
type Options struct {
	Clock  ledger.Clock
	Logger *logrus.Logger
	Mirror cloud.Mirror
}

// Store is the single relational handle for one installation.
// All access goes through one SQLite connection so that consecutive
// mutating calls from the UI layer serialize instead of interleaving.
type Store struct {
	db     *sql.DB
	clock  ledger.Clock
	log    *logrus.Logger
	mirror cloud.Mirror
}

// Open creates or opens the ledger database at the given path and
// ensures the schema: every table and index is created if absent and
// the additive column migrations are applied. Safe to call on every
// process start.
//
// The database is configured with:
//   - WAL mode so a crash mid-write recovers to a consistent state
//   - NORMAL synchronous mode (balance durability/performance)
//   - 5-second busy timeout for lock contention
//   - Foreign key enforcement (the site-deletion cascade depends on it)
//
// Any failure here is fatal for startup: no other component may use the
// store if the schema could not be ensured.
func Open(path string, opts Options) (*Store, error) {
	if opts.Clock == nil {
		opts.Clock = ledger.SystemClock{}
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	if opts.Mirror == nil {
		opts.Mirror = cloud.Nop{}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, schemaFailed("open database", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, schemaFailed("connect to database", err)
	}

	// SQLite supports one writer at a time; a single connection avoids
	// SQLITE_BUSY between rapid consecutive calls.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, schemaFailed("apply pragmas", err)
	}

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, schemaFailed("apply schema", err)
	}

	return &Store{
		db:     db,
		clock:  opts.Clock,
		log:    opts.Logger,
		mirror: opts.Mirror,
	}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// retentionCutoff returns the oldest record date still surfaced to
// callers, formatted for comparison against the record_date columns.
func (s *Store) retentionCutoff() string {
	return s.clock.Now().AddDate(-RetentionYears, 0, 0).Format(dateLayout)
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %q: %w", pragma, err)
		}
	}

	return nil
}

// applySchema creates tables if they don't exist and runs migrations.
// Idempotent.
func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}

	if err := runMigrations(db); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}

// runMigrations applies incremental schema migrations based on
// user_version. Each migration is additive and guarded so re-applying
// an already-present column is a no-op rather than an error.
func runMigrations(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}

	if version < 1 {
		if err := migrateToV1(db); err != nil {
			return err
		}
		version = 1
	}
	if version < 2 {
		if err := migrateToV2(db); err != nil {
			return err
		}
		version = 2
	}

	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}

	return nil
}

// migrateToV1 adds the share-code and owning-user columns to sites.
func migrateToV1(db *sql.DB) error {
	if err := addColumn(db, "sites", "site_code", "TEXT"); err != nil {
		return fmt.Errorf("migrate to v1: %w", err)
	}
	if err := addColumn(db, "sites", "user_id", "TEXT"); err != nil {
		return fmt.Errorf("migrate to v1: %w", err)
	}
	// CREATE INDEX IF NOT EXISTS is safe - no-op if index exists
	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_sites_code ON sites(site_code)`); err != nil {
		return fmt.Errorf("migrate to v1: %w", err)
	}
	return nil
}

// migrateToV2 adds the overtime column to wage_records.
func migrateToV2(db *sql.DB) error {
	if err := addColumn(db, "wage_records", "overtime", "REAL NOT NULL DEFAULT 0"); err != nil {
		return fmt.Errorf("migrate to v2: %w", err)
	}
	return nil
}

// addColumn adds a column if the table doesn't already have it.
// SQLite has no ADD COLUMN IF NOT EXISTS, so presence is checked via
// table_info first.
func addColumn(db *sql.DB, table, column, decl string) error {
	has, err := hasColumn(db, table, column)
	if err != nil {
		return err
	}
	if has {
		return nil
	}
	_, err = db.Exec(fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, decl))
	if err != nil {
		return fmt.Errorf("add %s.%s: %w", table, column, err)
	}
	return nil
}

// hasColumn reports whether a table already has the named column.
func hasColumn(db *sql.DB, table, column string) (bool, error) {
	rows, err := db.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return false, fmt.Errorf("table_info %s: %w", table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cid        int
			name, typ  string
			notNull    int
			defaultVal sql.NullString
			pk         int
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &defaultVal, &pk); err != nil {
			return false, fmt.Errorf("scan table_info: %w", err)
		}
		if name == column {
			return true, nil
		}
	}
	return false, rows.Err()
}

// schemaFailed wraps a fatal schema/DDL error.
func schemaFailed(what string, err error) error {
	return &ledger.Error{
		Code:    ledger.ErrCodeSchemaFailed,
		Message: what,
		Err:     err,
	}
}

// mapSQLiteErr converts driver constraint failures into typed
// CONSTRAINT_VIOLATION errors so callers never have to inspect the
// driver. Other errors pass through unchanged.
func mapSQLiteErr(entity string, err error) error {
	if err == nil {
		return nil
	}
	var serr sqlite3.Error
	if errors.As(err, &serr) && serr.Code == sqlite3.ErrConstraint {
		return ledger.NewConstraint(entity, serr.Error(), err)
	}
	return err
}

// formatDate renders a record date for storage.
func formatDate(t time.Time) string { return t.Format(dateLayout) }

// parseDate reads a stored record date. Zero time on empty.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(dateLayout, s)
}

// formatTimestamp and parseTimestamp handle full creation timestamps.
func formatTimestamp(t time.Time) string { return t.UTC().Format(time.RFC3339) }

func parseTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, s)
}

// execContext is a small helper for statements where only constraint
// mapping is needed.
func (s *Store) execContext(ctx context.Context, entity, query string, args ...any) (sql.Result, error) {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, mapSQLiteErr(entity, err)
	}
	return res, nil
}
