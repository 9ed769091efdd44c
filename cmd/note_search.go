package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/inovacc/addressbook/internal/core"
	"github.com/spf13/cobra"
)

var noteSearchCmd = &cobra.Command{
	Use:   "search [phrase]",
	Short: "Search notes across all contacts",
	Long: `Search notes containing a phrase, ignoring case. Without a phrase every
note is listed, oldest first.

Examples:
  addressbook note search conference
  addressbook note search`,
	RunE: func(cmd *cobra.Command, args []string) error {
		phrase := strings.Join(args, " ")

		return withSession(cmd, func(s *core.Session) error {
			hits, err := core.SearchNotes(cmd.Context(), s, phrase)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			if len(hits) == 0 {
				printEmptyResult(out, "notes", "")
				return nil
			}

			for _, h := range hits {
				_, _ = fmt.Fprintf(out, "%s  %s: %s\n", h.CreatedAt.In(time.Local).Format(noteTimeLayout), h.EntryName, h.Content)
			}

			return nil
		})
	},
}

func init() {
	noteCmd.AddCommand(noteSearchCmd)
}
