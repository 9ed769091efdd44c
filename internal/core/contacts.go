package core

import (
	"context"

	"github.com/inovacc/addressbook/internal/model"
)

// ContactFields carries contact values from a form or command line. Nil
// fields are left untouched by EditContact.
type ContactFields struct {
	FirstName *string
	LastName  *string
	Street    *string
	City      *string
	State     *string
	Zip       *string
	Email     *string
	Phone     *string
}

// Apply copies every non-nil field onto e.
func (f ContactFields) Apply(e *model.Entry) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}

	set(&e.FirstName, f.FirstName)
	set(&e.LastName, f.LastName)
	set(&e.Address.Street, f.Street)
	set(&e.Address.City, f.City)
	set(&e.Address.State, f.State)
	set(&e.Address.Zip, f.Zip)
	set(&e.Email, f.Email)
	set(&e.Phone, f.Phone)
}

// Empty reports whether no field is set.
func (f ContactFields) Empty() bool {
	return f == ContactFields{}
}

// AddContact adds a contact and saves the book. The returned entry carries
// its persisted ID.
func AddContact(ctx context.Context, s *Session, fields ContactFields) (*model.Entry, error) {
	e := &model.Entry{}
	fields.Apply(e)

	if err := s.Book.Add(e); err != nil {
		return nil, err
	}

	if err := s.Save(ctx); err != nil {
		return nil, err
	}

	return s.Book.Get(e.UID)
}

// EditContact changes the given fields of the contact with id and saves.
func EditContact(ctx context.Context, s *Session, id int64, fields ContactFields) (*model.Entry, error) {
	if fields.Empty() {
		return nil, model.NewValidationError("edit", "fields", "nothing to change")
	}

	e, err := s.Book.GetByID(id)
	if err != nil {
		return nil, err
	}

	fields.Apply(e)

	if err := s.Book.Update(e); err != nil {
		return nil, err
	}

	if err := s.Save(ctx); err != nil {
		return nil, err
	}

	return s.Book.Get(e.UID)
}

// RemoveContact deletes the contact with id and saves.
func RemoveContact(ctx context.Context, s *Session, id int64) (*model.Entry, error) {
	e, err := s.Book.GetByID(id)
	if err != nil {
		return nil, err
	}

	if err := s.Book.Remove(e); err != nil {
		return nil, err
	}

	if err := s.Save(ctx); err != nil {
		return nil, err
	}

	return e, nil
}

// GetContact returns the contact with id.
func GetContact(s *Session, id int64) (*model.Entry, error) {
	return s.Book.GetByID(id)
}

// ListContacts returns every contact in sorted order.
func ListContacts(s *Session) []*model.Entry {
	return s.Book.Contacts()
}

// FindContacts returns the contacts whose last name starts with prefix.
func FindContacts(s *Session, prefix string) []*model.Entry {
	return s.Book.Find(prefix)
}
