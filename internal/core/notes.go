package core

import (
	"context"
	"strings"

	"github.com/inovacc/addressbook/internal/model"
)

// AddNote attaches a note to the contact with id.
func AddNote(ctx context.Context, s *Session, id int64, content string) (*model.Note, error) {
	if strings.TrimSpace(content) == "" {
		return nil, model.NewValidationError("note", "content", "is required")
	}

	e, err := s.Book.GetByID(id)
	if err != nil {
		return nil, err
	}

	tctx, cancel := s.WithTimeout(ctx)
	defer cancel()

	return s.Book.AddNote(tctx, e, content)
}

// ListNotes returns the notes of the contact with id, oldest first.
func ListNotes(ctx context.Context, s *Session, id int64) (*model.Entry, []model.Note, error) {
	e, err := s.Book.GetByID(id)
	if err != nil {
		return nil, nil, err
	}

	tctx, cancel := s.WithTimeout(ctx)
	defer cancel()

	notes, err := s.Book.NotesFor(tctx, e)
	if err != nil {
		return nil, nil, err
	}

	return e, notes, nil
}

// SearchNotes returns the notes containing phrase; an empty phrase lists all.
func SearchNotes(ctx context.Context, s *Session, phrase string) ([]model.NoteHit, error) {
	tctx, cancel := s.WithTimeout(ctx)
	defer cancel()

	return s.Book.SearchNotes(tctx, strings.TrimSpace(phrase))
}
