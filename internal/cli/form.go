package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/inovacc/addressbook/internal/model"
)

const fieldLine = " %s\n %s\n"

type formField struct {
	key         string
	label       string
	placeholder string
	get         func(e *model.Entry) string
	set         func(e *model.Entry, v string)
}

var formFields = []formField{
	{"first_name", "First name", "Ada",
		func(e *model.Entry) string { return e.FirstName }, func(e *model.Entry, v string) { e.FirstName = v }},
	{"last_name", "Last name", "Lovelace",
		func(e *model.Entry) string { return e.LastName }, func(e *model.Entry, v string) { e.LastName = v }},
	{"street", "Street", "12 St James Sq",
		func(e *model.Entry) string { return e.Address.Street }, func(e *model.Entry, v string) { e.Address.Street = v }},
	{"city", "City", "London",
		func(e *model.Entry) string { return e.Address.City }, func(e *model.Entry, v string) { e.Address.City = v }},
	{"state", "State", "CA",
		func(e *model.Entry) string { return e.Address.State }, func(e *model.Entry, v string) { e.Address.State = v }},
	{"zip", "Zip", "94542",
		func(e *model.Entry) string { return e.Address.Zip }, func(e *model.Entry, v string) { e.Address.Zip = v }},
	{"email", "Email", "ada@example.com",
		func(e *model.Entry) string { return e.Email }, func(e *model.Entry, v string) { e.Email = v }},
	{"phone", "Phone", "555-0100",
		func(e *model.Entry) string { return e.Phone }, func(e *model.Entry, v string) { e.Phone = v }},
}

// contactForm edits the fields of one contact. focusIndex == len(inputs)
// means the submit button has focus.
type contactForm struct {
	title      string
	base       *model.Entry
	inputs     []textinput.Model
	focusIndex int
	errs       map[string]string
	err        error
}

// formSubmitMsg carries the edited contact out of the form.
type formSubmitMsg struct {
	entry *model.Entry
	isNew bool
}

type formCancelMsg struct{}

func newContactForm(base *model.Entry) contactForm {
	title := "Edit contact"
	if base == nil {
		title = "Add contact"
		base = &model.Entry{}
	}

	f := contactForm{
		title:  title,
		base:   base.Clone(),
		inputs: make([]textinput.Model, len(formFields)),
	}

	for i, fld := range formFields {
		t := textinput.New()
		t.Cursor.Style = cursorStyle
		t.CharLimit = 128
		t.Placeholder = fld.placeholder
		t.SetValue(fld.get(base))

		if i == 0 {
			t.Focus()
			t.PromptStyle = focusedStyle
			t.TextStyle = focusedStyle
		}

		f.inputs[i] = t
	}

	return f
}

func (f contactForm) entry() *model.Entry {
	e := f.base.Clone()
	for i, fld := range formFields {
		fld.set(e, strings.TrimSpace(f.inputs[i].Value()))
	}

	return e
}

// setError shows a validation failure next to the fields it names.
func (f *contactForm) setError(err error) {
	f.errs = nil
	f.err = err

	var verr *model.ValidationError
	if !errors.As(err, &verr) {
		return
	}

	f.errs = make(map[string]string, len(verr.Fields))

	for _, fe := range verr.Fields {
		name := fe.Field
		if name == "name" {
			name = "first_name"
		}

		f.errs[name] = fe.Message
	}
}

func (f contactForm) Update(msg tea.Msg) (contactForm, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			return f, func() tea.Msg { return formCancelMsg{} }

		case "ctrl+s":
			return f, f.submit

		case "tab", "shift+tab", "enter", "up", "down":
			s := msg.String()

			if s == "enter" && f.focusIndex == len(f.inputs) {
				return f, f.submit
			}

			if s == "up" || s == "shift+tab" {
				f.focusIndex--
			} else {
				f.focusIndex++
			}

			if f.focusIndex > len(f.inputs) {
				f.focusIndex = 0
			} else if f.focusIndex < 0 {
				f.focusIndex = len(f.inputs)
			}

			return f, f.refocus()
		}
	}

	cmds := make([]tea.Cmd, len(f.inputs))
	for i := range f.inputs {
		f.inputs[i], cmds[i] = f.inputs[i].Update(msg)
	}

	return f, tea.Batch(cmds...)
}

func (f *contactForm) refocus() tea.Cmd {
	cmds := make([]tea.Cmd, len(f.inputs))

	for i := range f.inputs {
		if i == f.focusIndex {
			cmds[i] = f.inputs[i].Focus()
			f.inputs[i].PromptStyle = focusedStyle
			f.inputs[i].TextStyle = focusedStyle

			continue
		}

		f.inputs[i].Blur()
		f.inputs[i].PromptStyle = noStyle
		f.inputs[i].TextStyle = noStyle
	}

	return tea.Batch(cmds...)
}

func (f contactForm) submit() tea.Msg {
	return formSubmitMsg{entry: f.entry(), isNew: f.base.UID == ""}
}

func (f contactForm) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(f.title) + "\n")
	b.WriteString(blurredStyle.Render("Edit the fields below and press Tab to navigate") + "\n\n")

	for i, fld := range formFields {
		b.WriteString(fmt.Sprintf(fieldLine, blurredStyle.Render(fld.label+":"), f.inputs[i].View()))

		if msg, ok := f.errs[fld.key]; ok {
			b.WriteString("   " + errorStyle.Render(msg) + "\n")
		}

		b.WriteString("\n")
	}

	if f.err != nil && len(f.errs) == 0 {
		b.WriteString(errorStyle.Render(" "+f.err.Error()) + "\n\n")
	}

	button := blurredButton
	if f.focusIndex == len(f.inputs) {
		button = focusedButton
	}

	b.WriteString(fmt.Sprintf("\n %s\n\n", button))
	b.WriteString(helpStyle.Render(" tab/shift+tab: navigate • enter: submit • ctrl+s: submit • esc: cancel"))

	return b.String()
}
