package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/avolkoff/panelbridge/internal/config"
	"github.com/avolkoff/panelbridge/internal/domain/panel"
	"github.com/avolkoff/panelbridge/internal/logger"
)

// Options controls the console behaviour and configuration.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// ScriptFile provides an optional replay script override.
	ScriptFile string
	// PollInterval overrides the decoder polling period.
	PollInterval time.Duration
	// Output receives the diagnostic lines; defaults to stdout.
	Output io.Writer
	// Input feeds the virtual keypad; defaults to stdin.
	Input io.Reader
}

// errScriptRequired is returned when no panel frame source is configured.
var errScriptRequired = errors.New("panel script file must be provided")

// Run prints the decoded panel feed until the context is canceled.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "panel-console")

	// The console works without a settings file as long as a script is
	// given on the command line.
	scriptFile := opts.ScriptFile

	cfg, err := config.Load(opts.ConfigPath)

	switch {
	case err == nil:
		if level, ok := logger.ParseLogLevel(cfg.LogLevel); ok {
			logger.SetLevel(level)
		}

		if scriptFile == "" {
			scriptFile = cfg.Panel.ScriptFile
		}
	case scriptFile == "":
		return fmt.Errorf("load configuration: %w", err)
	default:
		logger.WarnKV(ctx, "Settings not loaded, using defaults", "error", err)
	}

	if scriptFile == "" {
		return errScriptRequired
	}

	steps, err := panel.LoadScriptFile(scriptFile)
	if err != nil {
		return fmt.Errorf("load panel script: %w", err)
	}

	output := opts.Output
	if output == nil {
		output = os.Stdout
	}

	input := opts.Input
	if input == nil {
		input = os.Stdin
	}

	logger.InfoKV(ctx, "Console started", "script_file", scriptFile)

	service := NewService(panel.NewSimulator(steps...), NewPrinter(output),
		WithInput(input),
		WithPollInterval(opts.PollInterval))

	return service.Run(ctx)
}
