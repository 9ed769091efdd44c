package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/inovacc/addressbook/internal/core"
	"github.com/inovacc/addressbook/internal/model"
)

type appState int

const (
	stateList appState = iota
	stateForm
	stateConfirmDelete
	stateNoteInput
	stateNotes
	stateNoteSearch
	stateSearchResults
)

type savedMsg struct{ err error }

type reloadedMsg struct{ err error }

type noteAddedMsg struct {
	note *model.Note
	err  error
}

type notesFoundMsg struct {
	phrase string
	hits   []model.NoteHit
	err    error
}

type notesLoadedMsg struct {
	entry *model.Entry
	notes []model.Note
	err   error
}

// AppModel is the interactive address book.
type AppModel struct {
	ctx     context.Context
	session *core.Session

	state   appState
	list    list.Model
	form    contactForm
	note    textinput.Model
	search  textinput.Model
	spinner spinner.Model

	// target is the contact the confirm, note and notes states act on
	target *model.Entry
	notes  []model.Note

	phrase string
	hits   []model.NoteHit

	saving      bool
	quitWarned  bool
	quitting    bool
	status      string
	statusIsErr bool
	width       int
	height      int
}

// NewApp builds the TUI for an opened session.
func NewApp(ctx context.Context, s *core.Session) *AppModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle

	ti := textinput.New()
	ti.Placeholder = "Type a note"
	ti.CharLimit = model.MaxNoteLength
	ti.Cursor.Style = cursorStyle

	search := textinput.New()
	search.Placeholder = "Text to look for, empty for all notes"
	search.Cursor.Style = cursorStyle

	return &AppModel{
		ctx:     ctx,
		session: s,
		list:    newContactList(s.Book.Contacts()),
		note:    ti,
		search:  search,
		spinner: sp,
	}
}

// Run starts the TUI on the terminal and blocks until it exits.
func Run(ctx context.Context, s *core.Session) error {
	p := tea.NewProgram(NewApp(ctx, s), tea.WithAltScreen(), tea.WithContext(ctx))

	_, err := p.Run()

	return err
}

func (m *AppModel) Init() tea.Cmd {
	return nil
}

func (m *AppModel) setStatus(s string) {
	m.status = s
	m.statusIsErr = false
}

func (m *AppModel) setError(err error) {
	m.status = err.Error()
	m.statusIsErr = true

	if hint := core.Hint(err); hint != "" {
		m.status += " (" + hint + ")"
	}
}

func (m *AppModel) refresh() tea.Cmd {
	return m.list.SetItems(contactItems(m.session.Book.Contacts()))
}

func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		h, v := docStyle.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v-2)

		return m, nil

	case spinner.TickMsg:
		if !m.saving {
			return m, nil
		}

		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd

	case savedMsg:
		m.saving = false
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}

		m.quitWarned = false
		m.setStatus(fmt.Sprintf("Saved %s", countLabel(m.session.Book.Len())))

		return m, m.refresh()

	case reloadedMsg:
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}

		m.quitWarned = false
		m.setStatus(fmt.Sprintf("Reloaded %s", countLabel(m.session.Book.Len())))

		return m, m.refresh()

	case noteAddedMsg:
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}

		m.setStatus("Note added")

		return m, nil

	case notesLoadedMsg:
		if msg.err != nil {
			m.state = stateList
			m.setError(msg.err)

			return m, nil
		}

		m.target = msg.entry
		m.notes = msg.notes
		m.state = stateNotes

		return m, nil

	case notesFoundMsg:
		if msg.err != nil {
			m.state = stateList
			m.setError(msg.err)

			return m, nil
		}

		m.phrase = msg.phrase
		m.hits = msg.hits
		m.state = stateSearchResults

		return m, nil

	case formCancelMsg:
		m.state = stateList
		return m, nil

	case formSubmitMsg:
		return m.applyForm(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
	}

	switch m.state {
	case stateForm:
		var cmd tea.Cmd
		m.form, cmd = m.form.Update(msg)

		return m, cmd

	case stateConfirmDelete:
		return m.updateConfirm(msg)

	case stateNoteInput:
		return m.updateNoteInput(msg)

	case stateNoteSearch:
		return m.updateNoteSearch(msg)

	case stateNotes, stateSearchResults:
		if k, ok := msg.(tea.KeyMsg); ok {
			switch k.String() {
			case "esc", "q", "enter":
				m.state = stateList
			}
		}

		return m, nil
	}

	return m.updateList(msg)
}

func (m *AppModel) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	k, ok := msg.(tea.KeyMsg)

	// while the filter prompt is open every key belongs to the list
	if !ok || m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)

		return m, cmd
	}

	if m.saving {
		return m, nil
	}

	switch k.String() {
	case "q", "esc":
		if k.String() == "esc" && m.list.FilterState() == list.FilterApplied {
			m.list.ResetFilter()
			return m, nil
		}

		if m.session.Book.Dirty() && !m.quitWarned {
			m.quitWarned = true
			m.status = "Unsaved changes: press s to save or q again to quit without saving"
			m.statusIsErr = true

			return m, nil
		}

		m.quitting = true

		return m, tea.Quit

	case "a":
		m.form = newContactForm(nil)
		m.state = stateForm

		return m, textinput.Blink

	case "e":
		if e := selectedEntry(m.list); e != nil {
			m.form = newContactForm(e)
			m.state = stateForm

			return m, textinput.Blink
		}

		return m, nil

	case "d":
		if e := selectedEntry(m.list); e != nil {
			m.target = e
			m.state = stateConfirmDelete
		}

		return m, nil

	case "n":
		e := selectedEntry(m.list)
		if e == nil {
			return m, nil
		}

		if !e.Persisted() {
			m.setError(fmt.Errorf("save %s before adding notes", e.Name()))
			return m, nil
		}

		m.target = e
		m.note.SetValue("")
		m.state = stateNoteInput

		return m, m.note.Focus()

	case "v":
		if e := selectedEntry(m.list); e != nil {
			return m, m.loadNotes(e)
		}

		return m, nil

	case "f":
		m.search.SetValue("")
		m.state = stateNoteSearch

		return m, m.search.Focus()

	case "s":
		m.saving = true
		m.setStatus("Saving...")

		return m, tea.Batch(m.spinner.Tick, m.save)

	case "r":
		return m, m.reload
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)

	return m, cmd
}

func (m *AppModel) applyForm(msg formSubmitMsg) (tea.Model, tea.Cmd) {
	var err error
	if msg.isNew {
		err = m.session.Book.Add(msg.entry)
	} else {
		err = m.session.Book.Update(msg.entry)
	}

	if err != nil {
		m.form.setError(err)
		return m, nil
	}

	verb := "Updated"
	if msg.isNew {
		verb = "Added"
	}

	m.state = stateList
	m.quitWarned = false
	m.setStatus(fmt.Sprintf("%s %s (unsaved)", verb, msg.entry.Name()))

	return m, m.refresh()
}

func (m *AppModel) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch strings.ToLower(k.String()) {
	case "y":
		m.state = stateList

		if err := m.session.Book.Remove(m.target); err != nil {
			m.setError(err)
			return m, nil
		}

		m.quitWarned = false
		m.setStatus(fmt.Sprintf("Removed %s (unsaved)", m.target.Name()))

		return m, m.refresh()

	case "n", "esc", "q":
		m.state = stateList
		m.setStatus("Delete cancelled")
	}

	return m, nil
}

func (m *AppModel) updateNoteInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "esc":
			m.note.Blur()
			m.state = stateList

			return m, nil

		case "enter":
			content := strings.TrimSpace(m.note.Value())

			m.note.Blur()
			m.state = stateList

			if content == "" {
				return m, nil
			}

			return m, m.addNote(m.target, content)
		}
	}

	var cmd tea.Cmd
	m.note, cmd = m.note.Update(msg)

	return m, cmd
}

func (m *AppModel) updateNoteSearch(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "esc":
			m.search.Blur()
			m.state = stateList

			return m, nil

		case "enter":
			m.search.Blur()

			return m, m.searchNotes(strings.TrimSpace(m.search.Value()))
		}
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)

	return m, cmd
}

func (m *AppModel) save() tea.Msg {
	return savedMsg{err: m.session.Save(m.ctx)}
}

func (m *AppModel) reload() tea.Msg {
	return reloadedMsg{err: m.session.Reload(m.ctx)}
}

func (m *AppModel) addNote(e *model.Entry, content string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.session.WithTimeout(m.ctx)
		defer cancel()

		n, err := m.session.Book.AddNote(ctx, e, content)

		return noteAddedMsg{note: n, err: err}
	}
}

func (m *AppModel) loadNotes(e *model.Entry) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.session.WithTimeout(m.ctx)
		defer cancel()

		notes, err := m.session.Book.NotesFor(ctx, e)

		return notesLoadedMsg{entry: e, notes: notes, err: err}
	}
}

func (m *AppModel) searchNotes(phrase string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.session.WithTimeout(m.ctx)
		defer cancel()

		hits, err := m.session.Book.SearchNotes(ctx, phrase)

		return notesFoundMsg{phrase: phrase, hits: hits, err: err}
	}
}

func (m *AppModel) View() string {
	if m.quitting {
		return ""
	}

	var body string

	switch m.state {
	case stateForm:
		body = m.form.View()

	case stateConfirmDelete:
		body = warnStyle.Render(fmt.Sprintf("Delete %s? (y/n)", m.target.Name()))

	case stateNoteInput:
		body = headerStyle.Render("New note for "+m.target.Name()) + "\n\n" +
			m.note.View() + "\n\n" +
			helpStyle.Render(fmt.Sprintf("enter: add • esc: cancel • max %d characters", model.MaxNoteLength))

	case stateNotes:
		body = notesView(m.target, m.notes)

	case stateNoteSearch:
		body = headerStyle.Render("Search notes") + "\n\n" +
			m.search.View() + "\n\n" +
			helpStyle.Render("enter: search • esc: cancel")

	case stateSearchResults:
		body = searchView(m.phrase, m.hits)

	default:
		body = m.list.View()
	}

	return docStyle.Render(body + "\n" + m.statusLine())
}

func (m *AppModel) statusLine() string {
	if m.saving {
		return m.spinner.View() + " Saving..."
	}

	if m.status == "" {
		return ""
	}

	if m.statusIsErr {
		return errorStyle.Render(m.status)
	}

	return successStyle.Render(m.status)
}

func notesView(e *model.Entry, notes []model.Note) string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("Notes for "+e.Name()) + "\n\n")

	if len(notes) == 0 {
		b.WriteString(blurredStyle.Render("No notes yet.") + "\n")
	}

	for _, n := range notes {
		b.WriteString(dateStyle.Render(n.CreatedAt.Local().Format("2006-01-02 15:04")) + "  " + n.Content + "\n")
	}

	b.WriteString("\n" + helpStyle.Render("esc: back"))

	return b.String()
}

func searchView(phrase string, hits []model.NoteHit) string {
	var b strings.Builder

	title := "All notes"
	if phrase != "" {
		title = fmt.Sprintf("Notes containing %q", phrase)
	}

	b.WriteString(headerStyle.Render(title) + "\n\n")

	if len(hits) == 0 {
		b.WriteString(blurredStyle.Render("No notes found.") + "\n")
	}

	for _, h := range hits {
		b.WriteString(dateStyle.Render(h.CreatedAt.Local().Format("2006-01-02 15:04")) + "  " +
			h.EntryName + ": " + h.Content + "\n")
	}

	b.WriteString("\n" + helpStyle.Render("esc: back"))

	return b.String()
}
