package core

import (
	"context"
	"fmt"

	"github.com/inovacc/addressbook/internal/flatfile"
)

// TransferOptions selects the file format and text encoding for import and
// export. Empty values fall back to the file extension and the configured
// encoding.
type TransferOptions struct {
	Format   string
	Encoding string
}

func (s *Session) fileOptions(opts TransferOptions) (flatfile.Options, error) {
	format, err := flatfile.ParseFormat(opts.Format)
	if err != nil {
		return flatfile.Options{}, err
	}

	enc := opts.Encoding
	if enc == "" && s.Config != nil {
		enc = s.Config.File.Encoding
	}

	return flatfile.Options{Format: format, Encoding: enc}, nil
}

// Import merges the contacts in path into the book and saves. It returns
// the number of contacts added.
func Import(ctx context.Context, s *Session, path string, opts TransferOptions) (int, error) {
	fopts, err := s.fileOptions(opts)
	if err != nil {
		return 0, err
	}

	n, err := s.Book.LoadFromFile(path, fopts)
	if err != nil {
		return 0, fmt.Errorf("importing %s: %w", path, err)
	}

	if n == 0 {
		return 0, nil
	}

	if err := s.Save(ctx); err != nil {
		return 0, err
	}

	s.Log.Info("imported contacts", "path", path, "count", n)

	return n, nil
}

// Export writes every contact to path and returns how many were written.
func Export(s *Session, path string, opts TransferOptions) (int, error) {
	fopts, err := s.fileOptions(opts)
	if err != nil {
		return 0, err
	}

	if err := s.Book.StoreToFile(path, fopts); err != nil {
		return 0, fmt.Errorf("exporting %s: %w", path, err)
	}

	return s.Book.Len(), nil
}
