package cmd

import (
	"fmt"
	"strings"

	"github.com/inovacc/addressbook/internal/core"
	"github.com/inovacc/addressbook/internal/model"
	"github.com/spf13/cobra"
)

var noteAddCmd = &cobra.Command{
	Use:   "add <id> <text>...",
	Short: "Add a note to a contact",
	Long: fmt.Sprintf(`Add a dated note to a contact. Notes longer than %d characters are
truncated.

Examples:
  addressbook note add 3 "Met at the conference"
  addressbook note add 3 Prefers email over phone`, model.MaxNoteLength),
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		return withSession(cmd, func(s *core.Session) error {
			n, err := core.AddNote(cmd.Context(), s, id, strings.Join(args[1:], " "))
			if err != nil {
				return err
			}

			_, _ = fmt.Fprint(cmd.OutOrStdout(), "Note added: ")
			printNote(cmd.OutOrStdout(), *n)

			return nil
		})
	},
}

func init() {
	noteCmd.AddCommand(noteAddCmd)
}
