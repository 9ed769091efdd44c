package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/inovacc/addressbook/internal/config"
	"github.com/inovacc/addressbook/internal/core"
	"github.com/inovacc/addressbook/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) (*AppModel, *core.Session) {
	t.Helper()

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.ini")

	cfg := config.Default()
	cfg.Database.DSN = filepath.Join(dir, "book.db")
	require.NoError(t, config.Save(cfgPath, &cfg))

	s, err := core.OpenSession(context.Background(), core.SessionOptions{ConfigPath: cfgPath, LogOutput: &bytes.Buffer{}})
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = s.Close()
	})

	first, last := "Ada", "Lovelace"
	_, err = core.AddContact(context.Background(), s, core.ContactFields{FirstName: &first, LastName: &last})
	require.NoError(t, err)

	m := NewApp(context.Background(), s)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	return m, s
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m *AppModel, msg tea.Msg) tea.Cmd {
	_, cmd := m.Update(msg)
	return cmd
}

func TestApp_AddContactThroughForm(t *testing.T) {
	m, s := newTestApp(t)

	press(m, runes("a"))
	require.Equal(t, stateForm, m.state)

	press(m, runes("Grace"))
	press(m, tea.KeyMsg{Type: tea.KeyTab})
	press(m, runes("Hopper"))

	cmd := press(m, tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NotNil(t, cmd)

	submit, ok := cmd().(formSubmitMsg)
	require.True(t, ok)
	assert.True(t, submit.isNew)

	press(m, submit)
	assert.Equal(t, stateList, m.state)
	assert.Equal(t, 2, s.Book.Len())
	assert.True(t, s.Book.Dirty())
	assert.Contains(t, m.status, "Grace Hopper")
}

func TestApp_FormShowsValidationErrors(t *testing.T) {
	m, s := newTestApp(t)

	press(m, runes("a"))

	cmd := press(m, tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NotNil(t, cmd)
	press(m, cmd())

	assert.Equal(t, stateForm, m.state)
	assert.Contains(t, m.form.errs, "first_name")
	assert.Equal(t, 1, s.Book.Len())

	cmd = press(m, tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	press(m, cmd())
	assert.Equal(t, stateList, m.state)
}

func TestApp_QuitWarnsOnUnsavedChanges(t *testing.T) {
	m, s := newTestApp(t)

	press(m, runes("d"))
	require.Equal(t, stateConfirmDelete, m.state)

	press(m, runes("y"))
	assert.Equal(t, stateList, m.state)
	assert.Zero(t, s.Book.Len())
	require.True(t, s.Book.Dirty())

	cmd := press(m, runes("q"))
	assert.Nil(t, cmd)
	assert.True(t, m.quitWarned)
	assert.Contains(t, m.status, "Unsaved changes")

	cmd = press(m, runes("s"))
	require.NotNil(t, cmd)
	assert.True(t, m.saving)

	press(m, m.save())
	assert.False(t, m.saving)
	assert.False(t, s.Book.Dirty())
	assert.False(t, m.statusIsErr)

	cmd = press(m, runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestApp_DeleteCanBeCancelled(t *testing.T) {
	m, s := newTestApp(t)

	press(m, runes("d"))
	press(m, runes("n"))

	assert.Equal(t, stateList, m.state)
	assert.Equal(t, 1, s.Book.Len())
	assert.False(t, s.Book.Dirty())
}

func TestApp_NotesFlow(t *testing.T) {
	m, _ := newTestApp(t)

	press(m, runes("n"))
	require.Equal(t, stateNoteInput, m.state)

	press(m, runes("analytical engine"))

	cmd := press(m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	added, ok := cmd().(noteAddedMsg)
	require.True(t, ok)
	require.NoError(t, added.err)
	press(m, added)
	assert.Equal(t, "Note added", m.status)

	cmd = press(m, runes("v"))
	require.NotNil(t, cmd)
	press(m, cmd())

	require.Equal(t, stateNotes, m.state)
	require.Len(t, m.notes, 1)
	assert.Equal(t, "analytical engine", m.notes[0].Content)
	assert.Contains(t, m.View(), "analytical engine")

	press(m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, stateList, m.state)
}

func TestApp_SearchNotes(t *testing.T) {
	m, s := newTestApp(t)

	_, err := s.Book.AddNote(context.Background(), s.Book.Contacts()[0], "analytical engine")
	require.NoError(t, err)

	press(m, runes("f"))
	require.Equal(t, stateNoteSearch, m.state)
	assert.Contains(t, m.View(), "Search notes")

	press(m, runes("ENGINE"))

	cmd := press(m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	found, ok := cmd().(notesFoundMsg)
	require.True(t, ok)
	require.NoError(t, found.err)
	press(m, found)

	require.Equal(t, stateSearchResults, m.state)
	require.Len(t, m.hits, 1)
	assert.Contains(t, m.View(), "Ada Lovelace: analytical engine")

	press(m, tea.KeyMsg{Type: tea.KeyEsc})
	require.Equal(t, stateList, m.state)

	press(m, runes("f"))
	press(m, runes("steam"))
	cmd = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	press(m, cmd())

	require.Equal(t, stateSearchResults, m.state)
	assert.Empty(t, m.hits)
	assert.Contains(t, m.View(), "No notes found.")

	press(m, runes("q"))
	assert.Equal(t, stateList, m.state)
	assert.False(t, m.quitting)
}

func TestApp_NoteNeedsSavedContact(t *testing.T) {
	m, s := newTestApp(t)

	// drop the saved contact and add an unsaved one in its place
	require.NoError(t, s.Book.Remove(s.Book.Contacts()[0]))
	require.NoError(t, s.Book.Add(&model.Entry{FirstName: "Alan", LastName: "Turing"}))
	m.refresh()

	press(m, runes("n"))
	assert.Equal(t, stateList, m.state)
	assert.True(t, m.statusIsErr)
}

func TestApp_CtrlCAlwaysQuits(t *testing.T) {
	m, s := newTestApp(t)

	press(m, runes("d"))
	press(m, runes("y"))
	require.True(t, s.Book.Dirty())

	cmd := press(m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, m.View())
}
