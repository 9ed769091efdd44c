// Package store defines the persistence boundary of the address book.
//
// The [Repository] interface is implemented by two backends:
//   - sqldb, for SQLite (the default, a single local file) and PostgreSQL
//   - bolt, an embedded bbolt key-value file
//
// Use [Open] to obtain the backend selected by configuration:
//
//	repo, err := store.Open(ctx, cfg.Database, log)
//	if err != nil {
//		return err
//	}
//	defer repo.Close()
//
// Every backend maps its driver errors into the model error taxonomy, so
// callers test failures with errors.Is(err, model.ErrNotFound) and friends.
package store
