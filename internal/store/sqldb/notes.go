package sqldb

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/inovacc/addressbook/internal/model"
)

// AddNote stores a note for an existing entry and sets its ID.
func (s *Store) AddNote(ctx context.Context, note *model.Note) error {
	if note.CreatedAt.IsZero() {
		note.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	}

	note.Content = model.TruncateNote(note.Content)

	var exists int

	err := s.db.QueryRowContext(ctx, s.q(`SELECT 1 FROM address_entry WHERE id = ?`), note.EntryID).Scan(&exists)
	if err != nil {
		return s.mapNotFound(err, "contact", strconv.FormatInt(note.EntryID, 10))
	}

	var id int64

	err = s.db.QueryRowContext(ctx, s.q(`
		INSERT INTO note (address_entry_id, content, created_at)
		VALUES (?, ?, ?)
		RETURNING id`),
		note.EntryID, note.Content, note.CreatedAt.UnixMilli(),
	).Scan(&id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return &model.NotFoundError{Kind: "contact", Key: strconv.FormatInt(note.EntryID, 10)}
		}

		return s.mapError("insert note", err)
	}

	note.ID = id

	return nil
}

// NotesForEntry returns the entry's notes in chronological order.
func (s *Store) NotesForEntry(ctx context.Context, entryID int64) ([]model.Note, error) {
	rows, err := s.db.QueryContext(ctx, s.q(`
		SELECT id, address_entry_id, content, created_at
		FROM note
		WHERE address_entry_id = ?
		ORDER BY created_at, id`), entryID)
	if err != nil {
		return nil, s.mapError("list notes", err)
	}
	defer rows.Close()

	var notes []model.Note

	for rows.Next() {
		var (
			n       model.Note
			created int64
		)

		if err := rows.Scan(&n.ID, &n.EntryID, &n.Content, &created); err != nil {
			return nil, s.mapError("scan note", err)
		}

		n.CreatedAt = time.UnixMilli(created).UTC()
		notes = append(notes, n)
	}

	if err := rows.Err(); err != nil {
		return nil, s.mapError("list notes", err)
	}

	return notes, nil
}

// SearchNotes returns notes whose content contains phrase, ignoring case.
// An empty phrase matches every note.
func (s *Store) SearchNotes(ctx context.Context, phrase string) ([]model.NoteHit, error) {
	query := `
		SELECT n.id, n.address_entry_id, n.content, n.created_at, e.first_name, e.last_name
		FROM note n
		JOIN address_entry e ON e.id = n.address_entry_id`

	var args []any

	if phrase != "" {
		query += ` WHERE n.content ` + s.dialect.ilike() + ` ? ESCAPE '\'`
		args = append(args, likePattern(phrase))
	}

	query += ` ORDER BY n.created_at, n.id`

	rows, err := s.db.QueryContext(ctx, s.q(query), args...)
	if err != nil {
		return nil, s.mapError("search notes", err)
	}
	defer rows.Close()

	var hits []model.NoteHit

	for rows.Next() {
		var (
			h           model.NoteHit
			created     int64
			first, last string
		)

		if err := rows.Scan(&h.ID, &h.EntryID, &h.Content, &created, &first, &last); err != nil {
			return nil, s.mapError("scan note", err)
		}

		h.CreatedAt = time.UnixMilli(created).UTC()
		h.EntryName = strings.TrimSpace(first + " " + last)
		hits = append(hits, h)
	}

	if err := rows.Err(); err != nil {
		return nil, s.mapError("search notes", err)
	}

	return hits, nil
}
