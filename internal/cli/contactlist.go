package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/inovacc/addressbook/internal/model"
)

type contactItem struct {
	entry *model.Entry
}

func (i contactItem) Title() string {
	title := i.entry.Name()
	if !i.entry.Persisted() {
		title += " *"
	}

	return title
}

func (i contactItem) Description() string {
	parts := make([]string, 0, 3)

	if addr := strings.TrimSpace(i.entry.Address.String()); addr != "," {
		parts = append(parts, addr)
	}

	if i.entry.Email != "" {
		parts = append(parts, i.entry.Email)
	}

	if i.entry.Phone != "" {
		parts = append(parts, i.entry.Phone)
	}

	return strings.Join(parts, " | ")
}

func (i contactItem) FilterValue() string {
	return i.entry.FirstName + " " + i.entry.LastName
}

func contactItems(entries []*model.Entry) []list.Item {
	items := make([]list.Item, len(entries))
	for i, e := range entries {
		items[i] = contactItem{entry: e}
	}

	return items
}

func newContactList(entries []*model.Entry) list.Model {
	l := list.New(contactItems(entries), list.NewDefaultDelegate(), 0, 0)
	l.Title = "Address Book"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetStatusBarItemName("contact", "contacts")

	extra := func() []key.Binding {
		return []key.Binding{
			key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
			key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
			key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
			key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "note")),
			key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "view notes")),
			key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "search notes")),
			key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save")),
			key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		}
	}

	l.AdditionalShortHelpKeys = extra
	l.AdditionalFullHelpKeys = extra

	// q and esc are handled by the app so unsaved changes can be confirmed
	l.DisableQuitKeybindings()

	return l
}

func selectedEntry(l list.Model) *model.Entry {
	i, ok := l.SelectedItem().(contactItem)
	if !ok {
		return nil
	}

	return i.entry
}

func countLabel(n int) string {
	if n == 1 {
		return "1 contact"
	}

	return fmt.Sprintf("%d contacts", n)
}
