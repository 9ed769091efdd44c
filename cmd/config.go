package cmd

import (
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage addressbook configuration",
	Long: `Commands for managing addressbook configuration.

Available Commands:
  show      Show the configuration in effect
  init      Write a configuration file with the defaults
  path      Print the configuration file path`,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
