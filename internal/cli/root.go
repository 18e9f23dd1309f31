// Package cli implements the productsummary command line.
package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rshade/productsummary/internal/config"
	"github.com/rshade/productsummary/internal/logging"
)

// isTerminal checks if the given file is a terminal.
//
//nolint:gochecknoglobals // Replaced in tests.
var isTerminal = func(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// NewRootCmd creates the root Cobra command for the productsummary CLI.
func NewRootCmd(ver string) *cobra.Command {
	var (
		logResult  *logging.Result
		configPath string
	)

	cmd := &cobra.Command{
		Use:          "productsummary",
		Short:        "Show a customer's product summary for a support case",
		Long:         "productsummary resolves a case to its contact and shows that contact's financial product summary.",
		Version:      ver,
		Example:      rootCmdExample,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := loadConfig(cmd, configPath); err != nil {
				return err
			}
			result := setupLogging(cmd)
			logResult = &result
			return nil
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return cleanupLogging(logResult)
		},
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().StringVar(&configPath, "config", "",
		"config file (default $PRODUCTSUMMARY_CONFIG or ~/.productsummary/config.yaml)")
	cmd.AddCommand(newShowCmd(), newServeCmd(), newConfigCmd())

	return cmd
}

const rootCmdExample = `  # Show the product summary for a case
  productsummary show 500Qx00000AbCdE

  # Print the exposed state as JSON
  productsummary show --case 500Qx00000AbCdE --output json

  # Serve a fixture file over HTTP and gRPC for local development
  productsummary serve --fixtures fixtures.yaml`

// loadConfig reads .env, the config file and the environment, and installs
// the result as the global configuration.
func loadConfig(cmd *cobra.Command, flagPath string) error {
	if err := config.LoadDotEnv(); err != nil {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
	}
	cfg, err := config.Load(config.ResolvePath(flagPath))
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	config.SetGlobalConfig(cfg)
	return nil
}
