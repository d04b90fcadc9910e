package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/GooGuTeam/g0v0-client-versions/internal/service/generator"
	"github.com/GooGuTeam/g0v0-client-versions/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string

	// logLevel overrides the configured log level.
	logLevel string

	// rootCmd represents the base command for generating the version catalog.
	rootCmd = &cobra.Command{
		Use:   "version-catalog [clients-dir] [output-dir]",
		Short: "Generate the client version catalog from definition files",
		Long: "Resolve the most recent releases of every declared game client, " +
			"fingerprint the platform binaries, and write the catalog files " +
			"servers use to verify connecting clients.",
		Args: cobra.MaximumNArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			options := &generator.Options{
				ConfigPath: configPath,
				LogLevel:   logLevel,
			}

			if len(args) > 0 {
				options.ClientsDir = args[0]
			}

			if len(args) > 1 {
				options.OutputDir = args[1]
			}

			return generator.Run(ctx, options)
		},
	}
)

// Execute runs the version-catalog CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "path to configuration file")
	rootCmd.Flags().StringVarP(&logLevel, "log-level", "l", "", "minimum log level (debug, info, warn, error)")
}
