// Package core provides the operations behind the addressbook commands.
//
// This package contains the application logic separated from UI concerns.
// A [Session] ties together the configuration, the logger, the backing store
// and the loaded address book; the functions in this package act on a
// session and return errors instead of printing.
//
// # Design Principles
//
//   - Functions return errors instead of printing to stdout/stderr
//   - Every store call takes a context bounded by the configured timeout
//   - Mutating operations save the book before returning
//   - UI-specific logic belongs in the cli and cmd packages, not here
package core
