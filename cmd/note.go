package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/inovacc/addressbook/internal/model"
	"github.com/spf13/cobra"
)

var noteCmd = &cobra.Command{
	Use:   "note",
	Short: "Manage notes about contacts",
	Long: `Commands for dated notes attached to contacts.

Available Commands:
  add       Add a note to a contact
  list      Show the notes of a contact
  search    Search notes across all contacts`,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

func init() {
	rootCmd.AddCommand(noteCmd)
}

const noteTimeLayout = "2006-01-02 15:04"

func printNote(w io.Writer, n model.Note) {
	_, _ = fmt.Fprintf(w, "%s  %s\n", n.CreatedAt.In(time.Local).Format(noteTimeLayout), n.Content)
}
