package cmd

import (
	"fmt"

	"github.com/inovacc/addressbook/internal/core"
	"github.com/spf13/cobra"
)

var noteListCmd = &cobra.Command{
	Use:     "list <id>",
	Aliases: []string{"ls"},
	Short:   "Show the notes of a contact",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		return withSession(cmd, func(s *core.Session) error {
			e, notes, err := core.ListNotes(cmd.Context(), s, id)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			if len(notes) == 0 {
				printEmptyResult(out, "notes", fmt.Sprintf("Add one with: addressbook note add %d <text>", id))
				return nil
			}

			_, _ = fmt.Fprintf(out, "Notes for %s:\n", e.Name())

			for _, n := range notes {
				printNote(out, n)
			}

			return nil
		})
	},
}

func init() {
	noteCmd.AddCommand(noteListCmd)
}
