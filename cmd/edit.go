package cmd

import (
	"github.com/inovacc/addressbook/internal/core"
	"github.com/spf13/cobra"
)

var editFlags contactFlags

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change fields of a contact",
	Long: `Change the given fields of a contact and save. Fields without a flag keep
their value; pass an empty value to clear a field.

Examples:
  addressbook edit 3 --city London
  addressbook edit 3 --phone ""`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		return withSession(cmd, func(s *core.Session) error {
			e, err := core.EditContact(cmd.Context(), s, id, editFlags.fields(cmd.Flags()))
			if err != nil {
				return err
			}

			printContact(cmd.OutOrStdout(), "Contact updated", e)

			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(editCmd)
	editFlags.register(editCmd.Flags())
}
