// Package cli provides the terminal user interface for the address book.
//
// The package uses [Bubbletea] for the interactive views and [Lipgloss] for
// styling. All views follow the Bubbletea Model-View-Update architecture.
//
// # Views
//
//   - Contact list: filterable list of contacts with add, edit, delete,
//     note, save and reload actions
//   - Contact form: field editor with tab navigation
//   - Notes: note input and the notes of one contact
//
// Changes made in the TUI stay in memory until saved with "s". Quitting with
// unsaved changes asks for confirmation once.
//
// [Bubbletea]: https://github.com/charmbracelet/bubbletea
// [Lipgloss]: https://github.com/charmbracelet/lipgloss
package cli
