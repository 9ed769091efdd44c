// Package bolt stores the address book in a single bbolt file. Entries and
// notes are JSON values keyed by big-endian sequence IDs.
package bolt

import (
	"cmp"
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/inovacc/addressbook/internal/logging"
	"github.com/inovacc/addressbook/internal/model"
	"go.etcd.io/bbolt"
)

const (
	bucketEntries   = "entries"   // key: entry ID -> Entry JSON
	bucketUIDs      = "uids"      // key: UID -> entry ID
	bucketAddresses = "addresses" // key: address ID -> entry ID
	bucketNotes     = "notes"     // nested bucket per entry ID, key: note ID -> Note JSON
)

const backend = "bolt"

// Store implements store.Repository on bbolt.
type Store struct {
	db  *bbolt.DB
	log *slog.Logger
}

// Open opens or creates the database file. A file locked by another process
// for longer than timeout is reported as a ConnectivityError.
func Open(path string, timeout time.Duration, log *slog.Logger) (*Store, error) {
	if timeout <= 0 {
		timeout = time.Second
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, &model.IOError{Op: "mkdir", Path: filepath.Dir(path), Err: err}
	}

	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: timeout})
	if err != nil {
		if errors.Is(err, bbolt.ErrTimeout) {
			return nil, &model.ConnectivityError{Backend: backend, Err: err}
		}

		return nil, &model.IOError{Op: "open", Path: path, Err: err}
	}

	if err := db.Update(func(tx *bbolt.Tx) error {
		for _, name := range []string{bucketEntries, bucketUIDs, bucketAddresses, bucketNotes} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return err
			}
		}

		return nil
	}); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	return &Store{db: db, log: logging.Component(log, "bolt")}, nil
}

// Close closes the database file.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks that a read transaction can be opened.
func (s *Store) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.db.View(func(tx *bbolt.Tx) error {
		return nil
	})
	if err != nil {
		return &model.ConnectivityError{Backend: backend, Err: err}
	}

	return nil
}

func itob(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)

	return b
}

func idKey(id int64) []byte {
	return itob(uint64(id))
}

func btoi(b []byte) int64 {
	return int64(binary.BigEndian.Uint64(b))
}

func notFound(id int64) error {
	return &model.NotFoundError{Kind: "contact", Key: strconv.FormatInt(id, 10)}
}

// ListEntries returns every entry sorted by name.
func (s *Store) ListEntries(ctx context.Context) ([]*model.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out []*model.Entry

	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketEntries)).ForEach(func(_, v []byte) error {
			var e model.Entry
			if err := json.Unmarshal(v, &e); err != nil {
				return err
			}

			out = append(out, &e)

			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}

	slices.SortFunc(out, model.Compare)

	return out, nil
}

// GetEntry returns the entry with the given ID.
func (s *Store) GetEntry(ctx context.Context, id int64) (*model.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var e *model.Entry

	err := s.db.View(func(tx *bbolt.Tx) error {
		var err error
		e, err = getEntry(tx, id)

		return err
	})

	return e, err
}

func getEntry(tx *bbolt.Tx, id int64) (*model.Entry, error) {
	v := tx.Bucket([]byte(bucketEntries)).Get(idKey(id))
	if v == nil {
		return nil, notFound(id)
	}

	var e model.Entry
	if err := json.Unmarshal(v, &e); err != nil {
		return nil, fmt.Errorf("decoding contact %d: %w", id, err)
	}

	return &e, nil
}

// CreateEntry stores a new entry and sets its IDs.
func (s *Store) CreateEntry(ctx context.Context, entry *model.Entry) error {
	return s.Sync(ctx, model.ChangeSet{Created: []*model.Entry{entry}})
}

// UpdateEntry overwrites a stored entry.
func (s *Store) UpdateEntry(ctx context.Context, entry *model.Entry) error {
	return s.Sync(ctx, model.ChangeSet{Updated: []*model.Entry{entry}})
}

// DeleteEntry removes the entry and its notes.
func (s *Store) DeleteEntry(ctx context.Context, entry *model.Entry) error {
	return s.Sync(ctx, model.ChangeSet{Deleted: []*model.Entry{entry}})
}

// Sync applies the change set in one bbolt update. IDs are written back to
// the created entries after the transaction commits.
func (s *Store) Sync(ctx context.Context, changes model.ChangeSet) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if changes.Empty() {
		return nil
	}

	type ids struct{ entry, address int64 }

	created := make([]ids, len(changes.Created))

	err := s.db.Update(func(tx *bbolt.Tx) error {
		for _, e := range changes.Deleted {
			if err := deleteEntry(tx, e.ID); err != nil {
				return err
			}
		}

		for i, e := range changes.Created {
			entryID, addressID, err := insertEntry(tx, e)
			if err != nil {
				return err
			}

			created[i] = ids{entryID, addressID}
		}

		for _, e := range changes.Updated {
			if err := updateEntry(tx, e); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	for i, e := range changes.Created {
		e.ID = created[i].entry
		e.Address.ID = created[i].address
	}

	s.log.Debug("synced",
		"deleted", len(changes.Deleted),
		"created", len(changes.Created),
		"updated", len(changes.Updated))

	return nil
}

func putEntry(tx *bbolt.Tx, e *model.Entry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}

	return tx.Bucket([]byte(bucketEntries)).Put(idKey(e.ID), data)
}

func insertEntry(tx *bbolt.Tx, e *model.Entry) (int64, int64, error) {
	uids := tx.Bucket([]byte(bucketUIDs))
	if uids.Get([]byte(e.UID)) != nil {
		return 0, 0, &model.ConflictError{Kind: "contact", Key: e.UID, Reason: "uid already stored"}
	}

	entrySeq, err := tx.Bucket([]byte(bucketEntries)).NextSequence()
	if err != nil {
		return 0, 0, err
	}

	addresses := tx.Bucket([]byte(bucketAddresses))

	addressSeq, err := addresses.NextSequence()
	if err != nil {
		return 0, 0, err
	}

	// stored with its IDs; the caller's entry is only updated after commit
	rec := e.Clone()
	rec.ID = int64(entrySeq)
	rec.Address.ID = int64(addressSeq)
	rec.Notes = nil

	if err := putEntry(tx, rec); err != nil {
		return 0, 0, err
	}

	if err := uids.Put([]byte(rec.UID), idKey(rec.ID)); err != nil {
		return 0, 0, err
	}

	if err := addresses.Put(idKey(rec.Address.ID), idKey(rec.ID)); err != nil {
		return 0, 0, err
	}

	return rec.ID, rec.Address.ID, nil
}

func updateEntry(tx *bbolt.Tx, e *model.Entry) error {
	old, err := getEntry(tx, e.ID)
	if err != nil {
		return err
	}

	rec := e.Clone()
	rec.UID = old.UID
	rec.Address.ID = old.Address.ID
	rec.Notes = nil

	if err := putEntry(tx, rec); err != nil {
		return err
	}

	e.Address.ID = old.Address.ID

	return nil
}

func deleteEntry(tx *bbolt.Tx, id int64) error {
	old, err := getEntry(tx, id)
	if err != nil {
		return err
	}

	if err := tx.Bucket([]byte(bucketEntries)).Delete(idKey(id)); err != nil {
		return err
	}

	if err := tx.Bucket([]byte(bucketUIDs)).Delete([]byte(old.UID)); err != nil {
		return err
	}

	if err := tx.Bucket([]byte(bucketAddresses)).Delete(idKey(old.Address.ID)); err != nil {
		return err
	}

	notes := tx.Bucket([]byte(bucketNotes))
	if notes.Bucket(idKey(id)) != nil {
		return notes.DeleteBucket(idKey(id))
	}

	return nil
}

// AddNote stores a note for an existing entry and sets its ID.
func (s *Store) AddNote(ctx context.Context, note *model.Note) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if note.CreatedAt.IsZero() {
		note.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	}

	note.Content = model.TruncateNote(note.Content)

	var id int64

	err := s.db.Update(func(tx *bbolt.Tx) error {
		if tx.Bucket([]byte(bucketEntries)).Get(idKey(note.EntryID)) == nil {
			return notFound(note.EntryID)
		}

		b, err := tx.Bucket([]byte(bucketNotes)).CreateBucketIfNotExists(idKey(note.EntryID))
		if err != nil {
			return err
		}

		seq, err := tx.Bucket([]byte(bucketNotes)).NextSequence()
		if err != nil {
			return err
		}

		rec := *note
		rec.ID = int64(seq)

		data, err := json.Marshal(rec)
		if err != nil {
			return err
		}

		id = rec.ID

		return b.Put(idKey(rec.ID), data)
	})
	if err != nil {
		return err
	}

	note.ID = id

	return nil
}

// NotesForEntry returns the entry's notes in chronological order.
func (s *Store) NotesForEntry(ctx context.Context, entryID int64) ([]model.Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var notes []model.Note

	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketNotes)).Bucket(idKey(entryID))
		if b == nil {
			return nil
		}

		return b.ForEach(func(_, v []byte) error {
			var n model.Note
			if err := json.Unmarshal(v, &n); err != nil {
				return err
			}

			notes = append(notes, n)

			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}

	model.SortNotes(notes)

	return notes, nil
}

// SearchNotes returns notes whose content contains phrase, ignoring case.
// An empty phrase matches every note.
func (s *Store) SearchNotes(ctx context.Context, phrase string) ([]model.NoteHit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	needle := strings.ToLower(phrase)

	var hits []model.NoteHit

	err := s.db.View(func(tx *bbolt.Tx) error {
		notes := tx.Bucket([]byte(bucketNotes))

		return notes.ForEachBucket(func(k []byte) error {
			owner, err := getEntry(tx, btoi(k))
			if err != nil {
				return err
			}

			return notes.Bucket(k).ForEach(func(_, v []byte) error {
				var n model.Note
				if err := json.Unmarshal(v, &n); err != nil {
					return err
				}

				if needle != "" && !strings.Contains(strings.ToLower(n.Content), needle) {
					return nil
				}

				hits = append(hits, model.NoteHit{Note: n, EntryName: owner.Name()})

				return nil
			})
		})
	})
	if err != nil {
		return nil, fmt.Errorf("search notes: %w", err)
	}

	slices.SortStableFunc(hits, func(a, b model.NoteHit) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}

		return cmp.Compare(a.ID, b.ID)
	})

	return hits, nil
}
