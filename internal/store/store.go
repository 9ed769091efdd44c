package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/inovacc/addressbook/internal/config"
	"github.com/inovacc/addressbook/internal/model"
	"github.com/inovacc/addressbook/internal/store/bolt"
	"github.com/inovacc/addressbook/internal/store/sqldb"
)

// Repository defines the storage operations used by the address book.
type Repository interface {
	Ping(ctx context.Context) error
	Close() error

	ListEntries(ctx context.Context) ([]*model.Entry, error)
	GetEntry(ctx context.Context, id int64) (*model.Entry, error)
	CreateEntry(ctx context.Context, entry *model.Entry) error
	UpdateEntry(ctx context.Context, entry *model.Entry) error
	DeleteEntry(ctx context.Context, entry *model.Entry) error

	// Sync applies deletions, inserts and updates in one transaction.
	Sync(ctx context.Context, changes model.ChangeSet) error

	AddNote(ctx context.Context, note *model.Note) error
	NotesForEntry(ctx context.Context, entryID int64) ([]model.Note, error)
	SearchNotes(ctx context.Context, phrase string) ([]model.NoteHit, error)
}

var (
	_ Repository = (*sqldb.Store)(nil)
	_ Repository = (*bolt.Store)(nil)
)

// Open returns the backend named by cfg.Driver.
func Open(ctx context.Context, cfg config.Database, log *slog.Logger) (Repository, error) {
	dsn := cfg.DSN
	if dsn == "" {
		dsn = config.DefaultDSN(cfg.Driver)
	}

	if log != nil {
		log.Debug("opening store", "driver", cfg.Driver, "dsn", cfg.Redacted())
	}

	var (
		repo Repository
		err  error
	)

	switch cfg.Driver {
	case config.DriverSQLite, "":
		repo, err = openSQL(ctx, sqldb.SQLite, dsn, sqldb.Options{Logger: log})
	case config.DriverPostgres:
		repo, err = openSQL(ctx, sqldb.Postgres, dsn, sqldb.Options{MaxOpenConns: cfg.MaxOpenConns, Logger: log})
	case config.DriverBolt:
		repo, err = openBolt(dsn, cfg, log)
	default:
		err = model.NewValidationError("configuration", "database.driver",
			fmt.Sprintf("unknown driver %q", cfg.Driver))
	}

	if err != nil {
		return nil, err
	}

	return repo, nil
}

func openSQL(ctx context.Context, dialect sqldb.Dialect, dsn string, opts sqldb.Options) (Repository, error) {
	s, err := sqldb.Open(ctx, dialect, dsn, opts)
	if err != nil {
		return nil, err
	}

	return s, nil
}

func openBolt(path string, cfg config.Database, log *slog.Logger) (Repository, error) {
	s, err := bolt.Open(path, cfg.Timeout, log)
	if err != nil {
		return nil, err
	}

	return s, nil
}
