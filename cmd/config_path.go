package cmd

import (
	"fmt"

	"github.com/inovacc/addressbook/internal/core"
	"github.com/spf13/cobra"
)

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		path, err := core.ResolveConfigPath(configPath)
		if err != nil {
			return err
		}

		_, _ = fmt.Fprintln(cmd.OutOrStdout(), path)

		return nil
	},
}

func init() {
	configCmd.AddCommand(configPathCmd)
}
