package console

import (
	"bufio"
	"context"
	"io"
	"strings"
	"time"

	"github.com/avolkoff/panelbridge/internal/domain/panel"
	"github.com/avolkoff/panelbridge/internal/logger"
)

// DefaultPollInterval is how often the panel decoder is polled for a new frame.
const DefaultPollInterval = 50 * time.Millisecond

// Service prints every decoded frame and forwards input lines to the virtual
// keypad.
type Service struct {
	// panel is the bus decoder collaborator.
	panel panel.Interface
	// printer renders the timestamped diagnostic lines.
	printer *Printer
	// input feeds the virtual keypad; nil disables forwarding.
	input io.Reader
	// pollInterval is the decoder polling period.
	pollInterval time.Duration
}

// Option configures service behaviour.
type Option func(*Service)

// WithInput forwards lines read from r to the virtual keypad.
func WithInput(r io.Reader) Option {
	return func(s *Service) {
		s.input = r
	}
}

// WithPollInterval overrides the decoder polling period.
func WithPollInterval(interval time.Duration) Option {
	return func(s *Service) {
		if interval > 0 {
			s.pollInterval = interval
		}
	}
}

// NewService wires the printer to the panel decoder.
func NewService(p panel.Interface, printer *Printer, opts ...Option) *Service {
	service := &Service{
		panel:        p,
		printer:      printer,
		pollInterval: DefaultPollInterval,
	}

	for _, opt := range opts {
		opt(service)
	}

	return service
}

// Cycle prints the frames decoded in one processing cycle: the panel frame
// first if present, then the keypad frame with its own timestamp sample.
// A cycle without a new valid command prints nothing.
func (s *Service) Cycle() {
	if !s.panel.Process() {
		return
	}

	if frame, ok := s.panel.PanelFrame(); ok {
		s.printer.PrintFrame(frame)
	}

	if frame, ok := s.panel.KeypadFrame(); ok {
		s.printer.PrintFrame(frame)
	}
}

// Run polls the decoder until the context is canceled.
func (s *Service) Run(ctx context.Context) error {
	if s.input != nil {
		go s.forwardKeys(ctx)
	}

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Context canceled, exiting")
			return nil
		case <-ticker.C:
			s.Cycle()
		}
	}
}

// forwardKeys sends every non-empty input line to the virtual keypad.
func (s *Service) forwardKeys(ctx context.Context) {
	scanner := bufio.NewScanner(s.input)
	for scanner.Scan() {
		keys := strings.TrimSpace(scanner.Text())
		if keys == "" {
			continue
		}

		if err := s.panel.Write(keys); err != nil {
			logger.ErrorKV(ctx, "Virtual keypad write failed", "keys", keys, "error", err)
		}
	}
}
