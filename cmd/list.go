package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/inovacc/addressbook/internal/core"
	"github.com/inovacc/addressbook/internal/model"
	"github.com/spf13/cobra"
)

var (
	listJSON        bool
	listInteractive bool
)

var (
	tableHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")).Padding(0, 1)
	tableCellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List all contacts",
	Long: `List all contacts sorted by last and first name.

Examples:
  addressbook list
  addressbook list --json
  addressbook list --interactive`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if listInteractive && isTerminal() {
			return runTUI(cmd)
		}

		return withSession(cmd, func(s *core.Session) error {
			return printContacts(cmd.OutOrStdout(), core.ListContacts(s), listJSON, "Add one with: addressbook add --first <name>")
		})
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output as JSON")
	listCmd.Flags().BoolVarP(&listInteractive, "interactive", "i", false, "Open the interactive list when running on a terminal")
}

// contactListItem represents a contact in JSON output
type contactListItem struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Street    string `json:"street,omitempty"`
	City      string `json:"city,omitempty"`
	State     string `json:"state,omitempty"`
	Zip       string `json:"zip,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

func printContacts(w io.Writer, entries []*model.Entry, asJSON bool, emptyHint string) error {
	if asJSON {
		items := make([]contactListItem, 0, len(entries))
		for _, e := range entries {
			items = append(items, contactListItem{
				ID:        e.ID,
				FirstName: e.FirstName,
				LastName:  e.LastName,
				Street:    e.Address.Street,
				City:      e.Address.City,
				State:     e.Address.State,
				Zip:       e.Address.Zip,
				Email:     e.Email,
				Phone:     e.Phone,
			})
		}

		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		return enc.Encode(items)
	}

	if len(entries) == 0 {
		printEmptyResult(w, "contacts", emptyHint)
		return nil
	}

	_, _ = fmt.Fprintln(w, contactTable(entries).Render())

	return nil
}

func contactTable(entries []*model.Entry) *table.Table {
	rows := make([][]string, 0, len(entries))

	for _, e := range entries {
		addr := strings.TrimSpace(e.Address.String())
		if addr == "," {
			addr = ""
		}

		rows = append(rows, []string{
			strconv.FormatInt(e.ID, 10),
			e.Name(),
			truncateString(addr, 40),
			e.Email,
			e.Phone,
		})
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "NAME", "ADDRESS", "EMAIL", "PHONE").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}

			return tableCellStyle
		})
}
