package sqldb

import (
	"context"
	"database/sql"
	"strconv"

	"github.com/inovacc/addressbook/internal/model"
)

const selectEntries = `
	SELECT e.id, e.uid, e.first_name, e.last_name, e.email, e.phone,
	       a.id, a.street, a.city, a.state, a.zip
	FROM address_entry e
	JOIN address a ON a.id = e.address_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*model.Entry, error) {
	var e model.Entry

	err := row.Scan(
		&e.ID, &e.UID, &e.FirstName, &e.LastName, &e.Email, &e.Phone,
		&e.Address.ID, &e.Address.Street, &e.Address.City, &e.Address.State, &e.Address.Zip,
	)
	if err != nil {
		return nil, err
	}

	return &e, nil
}

// ListEntries returns every entry with its address, ordered by name.
func (s *Store) ListEntries(ctx context.Context) ([]*model.Entry, error) {
	rows, err := s.db.QueryContext(ctx, selectEntries+` ORDER BY e.last_name, e.first_name, e.id`)
	if err != nil {
		return nil, s.mapError("list entries", err)
	}
	defer rows.Close()

	var entries []*model.Entry

	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, s.mapError("scan entry", err)
		}

		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, s.mapError("list entries", err)
	}

	return entries, nil
}

// GetEntry returns the entry with the given ID.
func (s *Store) GetEntry(ctx context.Context, id int64) (*model.Entry, error) {
	row := s.db.QueryRowContext(ctx, s.q(selectEntries+` WHERE e.id = ?`), id)

	e, err := scanEntry(row)
	if err != nil {
		return nil, s.mapNotFound(err, "contact", strconv.FormatInt(id, 10))
	}

	return e, nil
}

// CreateEntry inserts the address and then the entry, setting both IDs.
func (s *Store) CreateEntry(ctx context.Context, entry *model.Entry) error {
	var ids createdIDs

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		ids, err = s.insertEntry(ctx, tx, entry)

		return err
	})
	if err != nil {
		return err
	}

	ids.apply(entry)

	return nil
}

// UpdateEntry writes the entry and its address.
func (s *Store) UpdateEntry(ctx context.Context, entry *model.Entry) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.updateEntry(ctx, tx, entry)
	})
}

// DeleteEntry removes the entry, its notes and its address.
func (s *Store) DeleteEntry(ctx context.Context, entry *model.Entry) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.deleteEntry(ctx, tx, entry)
	})
}

// Sync applies a change set in a single transaction: deletions first, then
// inserts, then updates. IDs are written back only after commit.
func (s *Store) Sync(ctx context.Context, changes model.ChangeSet) error {
	if changes.Empty() {
		return nil
	}

	created := make([]createdIDs, len(changes.Created))

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		for _, e := range changes.Deleted {
			if err := s.deleteEntry(ctx, tx, e); err != nil {
				return err
			}
		}

		for i, e := range changes.Created {
			ids, err := s.insertEntry(ctx, tx, e)
			if err != nil {
				return err
			}

			created[i] = ids
		}

		for _, e := range changes.Updated {
			if err := s.updateEntry(ctx, tx, e); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	for i, e := range changes.Created {
		created[i].apply(e)
	}

	s.log.Debug("synced",
		"deleted", len(changes.Deleted),
		"created", len(changes.Created),
		"updated", len(changes.Updated))

	return nil
}

type createdIDs struct {
	entry   int64
	address int64
}

func (c createdIDs) apply(e *model.Entry) {
	e.ID = c.entry
	e.Address.ID = c.address
}

func (s *Store) insertEntry(ctx context.Context, tx execer, e *model.Entry) (createdIDs, error) {
	var ids createdIDs

	a := e.Address

	err := tx.QueryRowContext(ctx, s.q(`
		INSERT INTO address (street, city, state, zip)
		VALUES (?, ?, ?, ?)
		RETURNING id`),
		a.Street, a.City, a.State, a.Zip,
	).Scan(&ids.address)
	if err != nil {
		return ids, s.mapError("insert address", err)
	}

	err = tx.QueryRowContext(ctx, s.q(`
		INSERT INTO address_entry (uid, first_name, last_name, phone, email, address_id)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id`),
		e.UID, e.FirstName, e.LastName, e.Phone, e.Email, ids.address,
	).Scan(&ids.entry)
	if err != nil {
		return ids, s.mapEntryError("insert contact", err, e)
	}

	return ids, nil
}

func (s *Store) updateEntry(ctx context.Context, tx execer, e *model.Entry) error {
	var addressID int64

	err := tx.QueryRowContext(ctx, s.q(`
		UPDATE address_entry
		SET first_name = ?, last_name = ?, phone = ?, email = ?
		WHERE id = ?
		RETURNING address_id`),
		e.FirstName, e.LastName, e.Phone, e.Email, e.ID,
	).Scan(&addressID)
	if err != nil {
		return s.mapNotFound(err, "contact", strconv.FormatInt(e.ID, 10))
	}

	a := e.Address

	_, err = tx.ExecContext(ctx, s.q(`
		UPDATE address SET street = ?, city = ?, state = ?, zip = ? WHERE id = ?`),
		a.Street, a.City, a.State, a.Zip, addressID,
	)
	if err != nil {
		return s.mapError("update address", err)
	}

	e.Address.ID = addressID

	return nil
}

func (s *Store) deleteEntry(ctx context.Context, tx execer, e *model.Entry) error {
	var addressID int64

	err := tx.QueryRowContext(ctx, s.q(`DELETE FROM address_entry WHERE id = ? RETURNING address_id`), e.ID).
		Scan(&addressID)
	if err != nil {
		return s.mapNotFound(err, "contact", strconv.FormatInt(e.ID, 10))
	}

	if _, err := tx.ExecContext(ctx, s.q(`DELETE FROM address WHERE id = ?`), addressID); err != nil {
		return s.mapError("delete address", err)
	}

	return nil
}
