// Package sqldb provides relational storage for the address book over
// database/sql. SQLite (modernc.org/sqlite) and PostgreSQL (pgx) share one
// implementation; queries are parameterized and rebound per dialect.
package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/inovacc/addressbook/internal/logging"
	"github.com/inovacc/addressbook/internal/model"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // Pure Go SQLite driver
)

// Options tunes the connection pool.
type Options struct {
	MaxOpenConns int
	Logger       *slog.Logger
}

// Store implements store.Repository on a SQL database.
type Store struct {
	db      *sql.DB
	dialect Dialect
	log     *slog.Logger
}

// Open connects to the database, verifies it is reachable and applies pending migrations.
func Open(ctx context.Context, dialect Dialect, dsn string, opts Options) (*Store, error) {
	log := logging.Component(opts.Logger, "sqldb").With("dialect", string(dialect))

	connStr := dsn

	switch dialect {
	case SQLite:
		if err := ensureDir(dsn); err != nil {
			return nil, err
		}

		connStr = sqliteDSN(dsn)
	case Postgres:
	default:
		return nil, fmt.Errorf("unsupported dialect %q", dialect)
	}

	db, err := sql.Open(dialect.DriverName(), connStr)
	if err != nil {
		return nil, &model.ConnectivityError{Backend: string(dialect), Err: err}
	}

	if dialect == SQLite {
		// SQLite doesn't handle multiple writers well
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	} else if opts.MaxOpenConns > 0 {
		db.SetMaxOpenConns(opts.MaxOpenConns)
		db.SetMaxIdleConns(opts.MaxOpenConns)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, &model.ConnectivityError{Backend: string(dialect), Err: err}
	}

	migrator := NewMigrator(db, dialect)
	if err := migrator.MigrateUp(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	log.Debug("database opened")

	return &Store{db: db, dialect: dialect, log: log}, nil
}

// ensureDir creates the directory holding a SQLite database file.
func ensureDir(dsn string) error {
	if dsn == ":memory:" || strings.HasPrefix(dsn, "file:") {
		return nil
	}

	dir := filepath.Dir(dsn)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return &model.IOError{Op: "mkdir", Path: dir, Err: err}
	}

	return nil
}

// sqliteDSN appends the pragmas every connection needs.
func sqliteDSN(dsn string) string {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}

	return dsn + sep + "_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks if the database is accessible.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return &model.ConnectivityError{Backend: string(s.dialect), Err: err}
	}

	return nil
}

// Dialect reports the SQL flavour of the store.
func (s *Store) Dialect() Dialect {
	return s.dialect
}

// DB exposes the underlying pool for migrations and tests.
func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) q(query string) string {
	return s.dialect.Rebind(query)
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// withTx runs fn in a transaction, committing on success.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return s.mapError("begin", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				s.log.Warn("rollback failed", "error", rbErr)
			}
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return s.mapError("commit", err)
	}

	return nil
}
