package sqldb

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/inovacc/addressbook/internal/model"
	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Postgres SQLSTATE codes.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// mapError classifies a driver error into the model error taxonomy.
func (s *Store) mapError(op string, err error) error {
	if err == nil {
		return nil
	}

	if isConnectivity(err) {
		return &model.ConnectivityError{Backend: string(s.dialect), Err: fmt.Errorf("%s: %w", op, err)}
	}

	return fmt.Errorf("%s: %w", op, err)
}

// mapNotFound turns sql.ErrNoRows into a NotFoundError for kind/key.
func (s *Store) mapNotFound(err error, kind, key string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return &model.NotFoundError{Kind: kind, Key: key}
	}

	return s.mapError("query "+kind, err)
}

// mapEntryError reports a duplicate UID as a ConflictError.
func (s *Store) mapEntryError(op string, err error, e *model.Entry) error {
	if isUniqueViolation(err) {
		return &model.ConflictError{Kind: "contact", Key: e.UID, Reason: "uid already stored"}
	}

	return s.mapError(op, err)
}

func isConnectivity(err error) bool {
	var (
		connectErr *pgconn.ConnectError
		opErr      *net.OpError
	)

	return errors.As(err, &connectErr) ||
		errors.As(err, &opErr) ||
		errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
			liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY ||
			isLiteConstraint(liteErr, "UNIQUE")
	}

	return false
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgForeignKeyViolation
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY ||
			isLiteConstraint(liteErr, "FOREIGN KEY")
	}

	return false
}

// isLiteConstraint matches a primary constraint code by message when extended
// result codes are not reported.
func isLiteConstraint(err *sqlite.Error, kind string) bool {
	return err.Code()&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(err.Error(), kind)
}
