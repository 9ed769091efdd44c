package model

import (
	"net/mail"
	"strings"
)

// Address is the postal address owned by a single Entry.
type Address struct {
	// ID is the primary key, 0 until persisted
	ID int64 `json:"id"`

	Street string `json:"street"`
	City   string `json:"city"`
	State  string `json:"state"`

	// Zip is text so leading zeros survive
	Zip string `json:"zip"`
}

// String renders the address on one line: "street city, state zip".
func (a Address) String() string {
	var b strings.Builder

	b.WriteString(a.Street)
	b.WriteString(" ")
	b.WriteString(a.City)
	b.WriteString(", ")
	b.WriteString(a.State)
	b.WriteString(" ")
	b.WriteString(a.Zip)

	return b.String()
}

// Entry is a contact in the address book.
type Entry struct {
	// ID is the primary key, 0 until persisted
	ID int64 `json:"id"`

	// UID identifies the entry in memory before it has an ID
	UID string `json:"uid"`

	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Email     string  `json:"email"`
	Phone     string  `json:"phone"`
	Address   Address `json:"address"`

	// Notes is filled on demand; notes are stored separately from the entry
	Notes []Note `json:"-"`
}

// SortKey is the case-sensitive ordering key: last name followed by first name.
func (e *Entry) SortKey() string {
	return e.LastName + e.FirstName
}

// Name returns "First Last" with empty parts omitted.
func (e *Entry) Name() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

// Persisted reports whether the entry has been written to the backing store.
func (e *Entry) Persisted() bool {
	return e.ID != 0
}

// Clone returns a deep copy of the entry.
func (e *Entry) Clone() *Entry {
	if e == nil {
		return nil
	}

	c := *e
	if e.Notes != nil {
		c.Notes = append([]Note(nil), e.Notes...)
	}

	return &c
}

// Normalize trims surrounding whitespace from every text field, matching what
// a contact file gives back when read.
func (e *Entry) Normalize() {
	t := strings.TrimSpace

	e.FirstName = t(e.FirstName)
	e.LastName = t(e.LastName)
	e.Address.Street = t(e.Address.Street)
	e.Address.City = t(e.Address.City)
	e.Address.State = t(e.Address.State)
	e.Address.Zip = t(e.Address.Zip)
	e.Email = t(e.Email)
	e.Phone = t(e.Phone)
}

func (e *Entry) String() string {
	return e.Name() + "\n" + e.Address.String() + "\n" + e.Email + "\n" + e.Phone
}

// Validate checks the fields a contact must satisfy before it enters a book.
func (e *Entry) Validate() error {
	verr := &ValidationError{Subject: "contact"}

	if strings.TrimSpace(e.FirstName) == "" && strings.TrimSpace(e.LastName) == "" {
		verr.Add("name", "first or last name is required")
	}

	// the flat file is line oriented
	for _, f := range e.textFields() {
		if strings.ContainsAny(f.value, "\r\n") {
			verr.Add(f.name, "must not contain line breaks")
		}
	}

	if e.Email != "" {
		if _, err := mail.ParseAddress(e.Email); err != nil {
			verr.Add("email", "not a valid email address")
		}
	}

	return verr.OrNil()
}

type namedField struct {
	name  string
	value string
}

func (e *Entry) textFields() []namedField {
	return []namedField{
		{"first_name", e.FirstName},
		{"last_name", e.LastName},
		{"street", e.Address.Street},
		{"city", e.Address.City},
		{"state", e.Address.State},
		{"zip", e.Address.Zip},
		{"email", e.Email},
		{"phone", e.Phone},
	}
}

// Compare orders entries by SortKey. Entries with equal keys are ordered by ID
// and then UID, so two people with the same name are never treated as one.
func Compare(a, b *Entry) int {
	if c := strings.Compare(a.SortKey(), b.SortKey()); c != 0 {
		return c
	}

	switch {
	case a.ID < b.ID:
		return -1
	case a.ID > b.ID:
		return 1
	}

	return strings.Compare(a.UID, b.UID)
}
