package cmd

import (
	"fmt"

	"github.com/inovacc/addressbook/internal/core"
	"github.com/spf13/cobra"
)

var findJSON bool

var findCmd = &cobra.Command{
	Use:   "find <last-name-prefix>",
	Short: "Find contacts by last name",
	Long: `Find the contacts whose last name starts with the given prefix.
Matching is case-sensitive.

Examples:
  addressbook find Love
  addressbook find H --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(s *core.Session) error {
			hint := fmt.Sprintf("No last name starts with %q.", args[0])
			return printContacts(cmd.OutOrStdout(), core.FindContacts(s, args[0]), findJSON, hint)
		})
	},
}

func init() {
	rootCmd.AddCommand(findCmd)
	findCmd.Flags().BoolVar(&findJSON, "json", false, "Output as JSON")
}
