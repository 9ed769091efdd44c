package cmd

import (
	"errors"
	"os"

	"github.com/inovacc/addressbook/internal/cli"
	"github.com/inovacc/addressbook/internal/core"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var errNoTerminal = errors.New("the interactive interface needs a terminal")

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive address book",
	Long: `Open the interactive address book.

Keys:
  a  add a contact         e  edit the selected contact
  d  delete                n  add a note
  v  view notes            /  filter by name
  f  search notes          s  save changes
  r  reload from the database
  q  quit`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if !isTerminal() {
			return errNoTerminal
		}

		return runTUI(cmd)
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

func runTUI(cmd *cobra.Command) error {
	return withSession(cmd, func(s *core.Session) error {
		return cli.Run(cmd.Context(), s)
	})
}
