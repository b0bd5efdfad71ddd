package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/avolkoff/panelbridge/internal/config"
	"github.com/avolkoff/panelbridge/internal/service/notifier"
	"github.com/avolkoff/panelbridge/internal/version"
)

var (
	// configPath stores the path to the configuration YAML file.
	configPath string

	// rootCmd represents the base command bridging the panel to push
	// notifications.
	rootCmd = &cobra.Command{
		Use:   "panel-notifier [script-file]",
		Short: "Bridge panel status changes to push notifications.",
		Long: `Background service that watches the security panel status feed and sends a push
notification for every partition alarm and AC power transition.

The panel feed is polled continuously; each detected transition is delivered
once over the configured push service, with no retries. When an MQTT broker is
configured, every event is also mirrored to its topic.

The replay script file can be provided as argument or loaded from the
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

			notifierOptions := &notifier.Options{
				ConfigPath: configPath,
				ScriptFile: scriptFile,
			}

			return notifier.Run(ctx, notifierOptions)
		},
	}
)

// Execute runs the panel-notifier CLI and exits with non-zero status on error.
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
