// SPDX-License-Identifier: MIT
package pricestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

var (
	// ErrNoData indicates a ticker with no stored prices in the requested range.
	ErrNoData = errors.New("pricestore: no data")

	// ErrBadCSV indicates a CSV import with a missing column or an unparsable row.
	ErrBadCSV = errors.New("pricestore: bad csv")

	// ErrInvalidRange indicates from after to, an empty ticker, or an empty ticker list.
	ErrInvalidRange = errors.New("pricestore: invalid range")
)

// dateLayout is the on-disk date format; it sorts lexically in date order.
const dateLayout = "2006-01-02"

// memoryPath opens a private in-memory database.
const memoryPath = ":memory:"

func storeErrorf(tag string, err error) error {
	return fmt.Errorf("pricestore.%s: %w", tag, err)
}

// Store is a SQLite-backed cache of daily closing prices and a log of solver runs.
// It is safe for concurrent use.
type Store struct {
	db  *sql.DB
	log zerolog.Logger
}

// Option configures Open.
type Option func(*Store)

// WithLogger routes store events to l. The default discards them.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// Open opens (or creates) the database at path and runs migrations.
// path ":memory:" gives a private in-memory database bound to a single connection.
func Open(ctx context.Context, path string, opts ...Option) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, storeErrorf("Open", err)
	}
	if path == memoryPath {
		db.SetMaxOpenConns(1)
	}
	if err = db.PingContext(ctx); err != nil {
		db.Close()
		return nil, storeErrorf("Open", err)
	}

	s := &Store{db: db, log: zerolog.Nop()}
	for _, fn := range opts {
		fn(s)
	}
	s.log = s.log.With().Str("component", "pricestore").Logger()

	if err = s.migrate(ctx); err != nil {
		db.Close()
		return nil, storeErrorf("migrate", err)
	}
	s.log.Debug().Str("path", path).Msg("store opened")

	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

var migrations = []string{
	`
	CREATE TABLE IF NOT EXISTS schema_version (version INTEGER PRIMARY KEY);

	CREATE TABLE IF NOT EXISTS prices (
		ticker TEXT NOT NULL,
		date   TEXT NOT NULL,
		close  REAL NOT NULL,
		PRIMARY KEY (ticker, date)
	);

	CREATE TABLE IF NOT EXISTS runs (
		id         TEXT PRIMARY KEY,
		created_at TEXT NOT NULL,
		method     TEXT NOT NULL,
		status     TEXT NOT NULL,
		tickers    TEXT NOT NULL,
		weights    TEXT NOT NULL,
		objective  REAL NOT NULL,
		iterations INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
	`,
}

func (s *Store) migrate(ctx context.Context) error {
	version := 0
	// A fresh database has no schema_version table yet.
	_ = s.db.QueryRowContext(ctx, "SELECT version FROM schema_version ORDER BY version DESC LIMIT 1").Scan(&version)

	for v := version; v < len(migrations); v++ {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		if _, err = tx.ExecContext(ctx, migrations[v]); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d: %w", v+1, err)
		}
		if _, err = tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", v+1); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d: %w", v+1, err)
		}
		if err = tx.Commit(); err != nil {
			return err
		}
		s.log.Debug().Int("version", v+1).Msg("migration applied")
	}

	return nil
}
