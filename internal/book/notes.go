package book

import (
	"context"
	"fmt"

	"github.com/inovacc/addressbook/internal/model"
)

// persistedLocked returns the book's copy of entry when it has been saved.
func (b *AddressBook) persistedLocked(entry *model.Entry) (*model.Entry, error) {
	if entry == nil {
		return nil, invalidNil("note")
	}

	cur, ok := b.entries[entry.UID]
	if !ok {
		return nil, model.NewValidationError("note", "entry", "contact is not in the address book")
	}

	if !cur.Persisted() {
		return nil, model.NewValidationError("note", "entry", "contact must be saved before notes can be added")
	}

	return cur, nil
}

// AddNote attaches a note to a saved contact. The note is written to the
// backing store immediately; content longer than model.MaxNoteLength is cut.
func (b *AddressBook) AddNote(ctx context.Context, entry *model.Entry, content string) (*model.Note, error) {
	b.mu.RLock()
	cur, err := b.persistedLocked(entry)
	b.mu.RUnlock()

	if err != nil {
		return nil, err
	}

	note := model.NewNote(cur.ID, content)
	if err := b.repo.AddNote(ctx, &note); err != nil {
		return nil, fmt.Errorf("adding note: %w", err)
	}

	b.log.Debug("note added", "contact", cur.ID, "note", note.ID)

	return &note, nil
}

// NotesFor returns the contact's notes in chronological order. A contact that
// has never been saved has no notes.
func (b *AddressBook) NotesFor(ctx context.Context, entry *model.Entry) ([]model.Note, error) {
	if entry == nil {
		return nil, invalidNil("note")
	}

	b.mu.RLock()
	cur, ok := b.entries[entry.UID]
	b.mu.RUnlock()

	id := entry.ID
	if ok {
		id = cur.ID
	}

	if id == 0 {
		return nil, nil
	}

	notes, err := b.repo.NotesForEntry(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("listing notes: %w", err)
	}

	model.SortNotes(notes)

	return notes, nil
}

// SearchNotes returns every note containing phrase, ignoring case; an empty
// phrase returns all notes. Contact names come from the working set when the
// contact is in it, so unsaved renames are reflected.
func (b *AddressBook) SearchNotes(ctx context.Context, phrase string) ([]model.NoteHit, error) {
	hits, err := b.repo.SearchNotes(ctx, phrase)
	if err != nil {
		return nil, fmt.Errorf("searching notes: %w", err)
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	names := make(map[int64]string, len(b.entries))
	for _, e := range b.entries {
		if e.Persisted() {
			names[e.ID] = e.Name()
		}
	}

	for i := range hits {
		if name, ok := names[hits[i].EntryID]; ok {
			hits[i].EntryName = name
		}
	}

	return hits, nil
}
