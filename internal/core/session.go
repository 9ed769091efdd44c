package core

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/inovacc/addressbook/internal/application"
	"github.com/inovacc/addressbook/internal/book"
	"github.com/inovacc/addressbook/internal/config"
	"github.com/inovacc/addressbook/internal/logging"
	"github.com/inovacc/addressbook/internal/store"
)

// SessionOptions controls how a session is opened.
type SessionOptions struct {
	// ConfigPath overrides the default configuration file
	ConfigPath string

	// Verbose forces debug logging
	Verbose bool

	// LogOutput receives log records, stderr when nil
	LogOutput io.Writer
}

// Session is an opened address book with its configuration and store.
type Session struct {
	Config     *config.Config
	ConfigPath string
	Log        *slog.Logger
	Repo       store.Repository
	Book       *book.AddressBook
}

// ResolveConfigPath returns the configuration file in effect.
func ResolveConfigPath(override string) (string, error) {
	if override != "" {
		return override, nil
	}

	return application.DefaultConfigPath()
}

// OpenSession loads the configuration, connects to the backing store and
// loads every contact.
func OpenSession(ctx context.Context, opts SessionOptions) (*Session, error) {
	path, err := ResolveConfigPath(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	out := opts.LogOutput
	if out == nil {
		out = os.Stderr
	}

	log := logging.New(out, cfg.Log, opts.Verbose)

	return openWith(ctx, cfg, path, log)
}

func openWith(ctx context.Context, cfg *config.Config, path string, log *slog.Logger) (*Session, error) {
	s := &Session{Config: cfg, ConfigPath: path, Log: log}

	tctx, cancel := s.WithTimeout(ctx)
	defer cancel()

	repo, err := store.Open(tctx, cfg.Database, logging.Component(log, "store"))
	if err != nil {
		return nil, fmt.Errorf("opening %s store: %w", cfg.Database.Driver, err)
	}

	s.Repo = repo
	s.Book = book.New(repo, log)

	if err := s.Book.Load(tctx); err != nil {
		_ = repo.Close()
		return nil, err
	}

	log.Debug("session opened", "config", path, "driver", cfg.Database.Driver, "contacts", s.Book.Len())

	return s, nil
}

// WithTimeout bounds ctx by the configured database timeout.
func (s *Session) WithTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.Config == nil || s.Config.Database.Timeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, s.Config.Database.Timeout)
}

// Save flushes the book to the backing store.
func (s *Session) Save(ctx context.Context) error {
	tctx, cancel := s.WithTimeout(ctx)
	defer cancel()

	return s.Book.Save(tctx)
}

// Reload discards unsaved changes and reloads the book from the store.
func (s *Session) Reload(ctx context.Context) error {
	tctx, cancel := s.WithTimeout(ctx)
	defer cancel()

	return s.Book.Load(tctx)
}

// Close releases the backing store.
func (s *Session) Close() error {
	if s == nil || s.Repo == nil {
		return nil
	}

	if err := s.Repo.Close(); err != nil {
		return fmt.Errorf("closing store: %w", err)
	}

	return nil
}
