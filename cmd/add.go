package cmd

import (
	"github.com/inovacc/addressbook/internal/core"
	"github.com/spf13/cobra"
)

var addFlags contactFlags

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a contact",
	Long: `Add a contact to the address book and save it.

A first or last name is required; every other field is optional.

Examples:
  addressbook add --first Ada --last Lovelace --email ada@example.com
  addressbook add --last Hopper --city Arlington --state VA --zip 22201`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withSession(cmd, func(s *core.Session) error {
			e, err := core.AddContact(cmd.Context(), s, addFlags.fields(cmd.Flags()))
			if err != nil {
				return err
			}

			printContact(cmd.OutOrStdout(), "Contact added", e)

			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
	addFlags.register(addCmd.Flags())
}
