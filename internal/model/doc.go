// Package model defines the data structures used throughout the address book.
//
// The types are plain values shared by the store backends, the address book
// and the presentation layer, with conversions handled by each package.
//
// # Entry
//
// The [Entry] struct represents a contact:
//
//	type Entry struct {
//	    ID        int64   // Primary key, 0 until saved
//	    UID       string  // In-memory identity (UUID)
//	    FirstName string
//	    LastName  string
//	    Email     string
//	    Phone     string
//	    Address   Address // Owned postal address
//	    Notes     []Note  // Loaded on demand
//	}
//
// Entries are ordered with [Compare]: last name then first name, case
// sensitive, with ties broken by identity.
//
// # Note
//
// A [Note] is free text about an entry, capped at [MaxNoteLength] characters.
//
// # Errors
//
// The error taxonomy ([NotFoundError], [ValidationError], [ConflictError],
// [IOError], [ConnectivityError]) matches the sentinels [ErrNotFound],
// [ErrValidation], [ErrConflict], [ErrIO] and [ErrConnectivity] via errors.Is.
package model
