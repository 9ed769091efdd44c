package cmd

import (
	"fmt"

	"github.com/inovacc/addressbook/internal/core"
	"github.com/spf13/cobra"
)

var exportOpts core.TransferOptions

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Export all contacts to a file",
	Long: `Write every contact to a file, replacing it if it exists.

Examples:
  addressbook export contacts.txt
  addressbook export backup.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := expandPath(args[0])
		if err != nil {
			return err
		}

		return withSession(cmd, func(s *core.Session) error {
			n, err := core.Export(s, path, exportOpts)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Exported %d contact(s) to %s\n", n, path)

			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	registerTransferFlags(exportCmd, &exportOpts)
}
