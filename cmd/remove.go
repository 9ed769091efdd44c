package cmd

import (
	"fmt"

	"github.com/inovacc/addressbook/internal/core"
	"github.com/spf13/cobra"
)

var removeYes bool

var removeCmd = &cobra.Command{
	Use:     "remove <id>",
	Aliases: []string{"rm"},
	Short:   "Remove a contact",
	Long: `Remove a contact and its notes from the address book.

You are asked for confirmation unless --yes is given.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		return withSession(cmd, func(s *core.Session) error {
			e, err := core.GetContact(s, id)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			if !removeYes && !promptConfirm(cmd.InOrStdin(), out, fmt.Sprintf("Remove %s and their notes? [y/N]: ", e.Name())) {
				_, _ = fmt.Fprintln(out, "Cancelled.")
				return nil
			}

			if _, err := core.RemoveContact(cmd.Context(), s, id); err != nil {
				return fmt.Errorf("failed to remove contact: %w", err)
			}

			_, _ = fmt.Fprintf(out, "Removed %s\n", e.Name())

			return nil
		})
	},
}

func init() {
	removeCmd.Flags().BoolVarP(&removeYes, "yes", "y", false, "Skip confirmation prompt")
	rootCmd.AddCommand(removeCmd)
}
