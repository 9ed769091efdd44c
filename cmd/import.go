package cmd

import (
	"fmt"

	"github.com/inovacc/addressbook/internal/core"
	"github.com/spf13/cobra"
)

var importOpts core.TransferOptions

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import contacts from a file",
	Long: `Add the contacts in a file to the address book and save.

The format follows the file extension (.yaml, .yml, .json, anything else is
the line format with eight lines per contact) unless --format is given.

Examples:
  addressbook import contacts.txt
  addressbook import old.txt --encoding windows-1252
  addressbook import backup.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := expandPath(args[0])
		if err != nil {
			return err
		}

		return withSession(cmd, func(s *core.Session) error {
			n, err := core.Import(cmd.Context(), s, path, importOpts)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Imported %d contact(s) from %s\n", n, path)

			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
	registerTransferFlags(importCmd, &importOpts)
}

func registerTransferFlags(cmd *cobra.Command, opts *core.TransferOptions) {
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "File format: lines, yaml or json (default from extension)")
	cmd.Flags().StringVarP(&opts.Encoding, "encoding", "e", "", "Text encoding, e.g. utf-8, latin1 (default from config)")
}
