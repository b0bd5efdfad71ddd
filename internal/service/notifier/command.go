package notifier

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avolkoff/panelbridge/internal/config"
	"github.com/avolkoff/panelbridge/internal/domain/panel"
	"github.com/avolkoff/panelbridge/internal/logger"
	"github.com/avolkoff/panelbridge/internal/mqtt"
	"github.com/avolkoff/panelbridge/internal/push"
)

// Options controls the notifier behaviour and configuration.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// ScriptFile provides an optional replay script override.
	ScriptFile string
	// PollInterval overrides the decoder polling period.
	PollInterval time.Duration
}

var (
	// errAccessTokenRequired is returned when the push credential is missing.
	errAccessTokenRequired = errors.New("push access token must be provided")
	// errScriptRequired is returned when no panel frame source is configured.
	errScriptRequired = errors.New("panel script file must be provided")
)

// Run wires the panel decoder to the push and MQTT transports and drives the
// bridge loop until the context is canceled.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "panel-notifier")

	// Load settings from configuration file.
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	if level, ok := logger.ParseLogLevel(cfg.LogLevel); ok {
		logger.SetLevel(level)
	}

	if cfg.Push.AccessToken == "" {
		return errAccessTokenRequired
	}

	// Command line argument overrides the configured script.
	scriptFile := cfg.Panel.ScriptFile
	if opts.ScriptFile != "" {
		scriptFile = opts.ScriptFile
	}

	if scriptFile == "" {
		return errScriptRequired
	}

	steps, err := panel.LoadScriptFile(scriptFile)
	if err != nil {
		return fmt.Errorf("load panel script: %w", err)
	}

	transport := push.New(cfg.Push.Host, cfg.Push.Port, cfg.Push.AccessToken,
		push.WithResponseTimeout(cfg.Push.ResponseTimeout))

	serviceOpts := []Option{WithPollInterval(opts.PollInterval)}

	if cfg.MQTT.Broker != "" {
		announcer, err := mqtt.NewAnnouncer(cfg.MQTT)
		if err != nil {
			return fmt.Errorf("connect event mirror: %w", err)
		}

		defer announcer.Close()

		serviceOpts = append(serviceOpts, WithAnnouncer(announcer))
	}

	logger.InfoKV(ctx, "Bridge started",
		"push_host", cfg.Push.Host,
		"push_port", cfg.Push.Port,
		"script_file", scriptFile,
		"mqtt_broker", cfg.MQTT.Broker)

	return NewService(panel.NewSimulator(steps...), transport, serviceOpts...).Run(ctx)
}
