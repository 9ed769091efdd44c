package model

import (
	"cmp"
	"slices"
	"time"
)

// MaxNoteLength is the longest note content kept, in characters.
const MaxNoteLength = 800

// Note is free text attached to an Entry.
type Note struct {
	// ID is the primary key, 0 until persisted
	ID int64 `json:"id"`

	// EntryID references the entry the note is about
	EntryID int64 `json:"entry_id"`

	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// NewNote returns a note for the entry stamped with the current time, at the
// millisecond precision the stores keep.
func NewNote(entryID int64, content string) Note {
	return Note{
		EntryID:   entryID,
		Content:   TruncateNote(content),
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
}

// TruncateNote cuts content down to MaxNoteLength characters.
func TruncateNote(content string) string {
	r := []rune(content)
	if len(r) <= MaxNoteLength {
		return content
	}

	return string(r[:MaxNoteLength])
}

func (n Note) String() string {
	return n.CreatedAt.Format(time.DateOnly) + ": " + n.Content
}

// SortNotes orders notes chronologically.
func SortNotes(notes []Note) {
	slices.SortStableFunc(notes, func(a, b Note) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}

		return cmp.Compare(a.ID, b.ID)
	})
}

// NoteHit is a note found by a search together with the name of its contact.
type NoteHit struct {
	Note
	EntryName string `json:"entry_name"`
}
