package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/avolkoff/panelbridge/internal/config"
	"github.com/avolkoff/panelbridge/internal/service/console"
	"github.com/avolkoff/panelbridge/internal/version"
)

var (
	// configPath stores the path to the configuration YAML file.
	configPath string

	// rootCmd represents the base command printing the decoded panel feed.
	rootCmd = &cobra.Command{
		Use:   "panel-console [script-file]",
		Short: "Print the decoded panel feed with timestamps.",
		Long: `Diagnostic console that prints every decoded panel and keypad message as one
fixed-width line prefixed with the elapsed seconds since start.

Lines typed on standard input are forwarded to the bus through the virtual
keypad. The replay script file can be provided as argument or loaded from the
configuration file.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			// Use script file argument if provided, otherwise rely on config.
			var scriptFile string
			if len(args) > 0 {
				scriptFile = args[0]
			}

			consoleOptions := &console.Options{
				ConfigPath: configPath,
				ScriptFile: scriptFile,
			}

			return console.Run(ctx, consoleOptions)
		},
	}
)

// Execute runs the panel-console CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
}
