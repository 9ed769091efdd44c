package cmd

import (
	"fmt"
	"strconv"

	"github.com/inovacc/addressbook/internal/config"
	"github.com/inovacc/addressbook/internal/core"
	"github.com/inovacc/addressbook/internal/encoding"
	"github.com/spf13/cobra"
)

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the configuration in effect",
	Long: `Show the configuration in effect. Passwords in the database DSN are
masked.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		path, err := core.ResolveConfigPath(configPath)
		if err != nil {
			return err
		}

		cfg, err := config.Load(path)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()

		_, _ = fmt.Fprintf(out, "Config file: %s\n", path)

		if !encoding.FileExists(path) {
			_, _ = fmt.Fprintln(out, "The file does not exist, using defaults. Create it with: addressbook config init")
		}

		printInfoBox(out, "Configuration", [][2]string{
			{"Driver", cfg.Database.Driver},
			{"DSN", cfg.Database.Redacted()},
			{"Max open conns", strconv.Itoa(cfg.Database.MaxOpenConns)},
			{"Timeout", cfg.Database.Timeout.String()},
			{"Log level", cfg.Log.Level},
			{"Log format", cfg.Log.Format},
			{"File encoding", cfg.File.Encoding},
		})

		if cfg.Database.Driver == config.DriverPostgres && cfg.Database.DSN == "" {
			_, _ = fmt.Fprintln(out, "Set dsn in the [database] section to reach the postgres server.")
		}

		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
}
