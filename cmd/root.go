package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/inovacc/addressbook/internal/application"
	"github.com/inovacc/addressbook/internal/core"
	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   application.AppName,
	Short: "A personal address book",
	Long: `Addressbook keeps contacts and dated notes about them in a local or
remote database. Run it without arguments on a terminal for the interactive
interface, or use the commands below from scripts.

The backing store is chosen in the config file: sqlite (default), postgres
or bolt.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if !isTerminal() {
			return cmd.Help()
		}

		return runTUI(cmd)
	},
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	err := rootCmd.ExecuteContext(ctx)

	stop()

	if err != nil {
		printError(rootCmd.ErrOrStderr(), err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", os.Getenv(application.EnvConfig), "Config file (default is the user config directory)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// openSession opens the address book configured for this invocation.
func openSession(cmd *cobra.Command) (*core.Session, error) {
	return core.OpenSession(cmd.Context(), core.SessionOptions{
		ConfigPath: configPath,
		Verbose:    verbose,
		LogOutput:  cmd.ErrOrStderr(),
	})
}

// withSession runs fn against an opened session and closes it afterwards.
func withSession(cmd *cobra.Command, fn func(s *core.Session) error) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}

	defer func() {
		if cerr := s.Close(); cerr != nil {
			s.Log.Warn("close failed", "error", cerr)
		}
	}()

	return fn(s)
}

func printError(w io.Writer, err error) {
	_, _ = fmt.Fprintf(w, "Error: %v\n", err)

	if hint := core.Hint(err); hint != "" {
		_, _ = fmt.Fprintf(w, "Hint: %s\n", hint)
	}
}
