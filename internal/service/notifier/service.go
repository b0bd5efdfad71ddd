package notifier

import (
	"context"
	"time"

	"github.com/avolkoff/panelbridge/internal/domain/panel"
	"github.com/avolkoff/panelbridge/internal/logger"
	"github.com/avolkoff/panelbridge/internal/notify"
	"github.com/avolkoff/panelbridge/internal/push"
)

// Transport delivers one notification payload. Implemented by push.Client.
type Transport interface {
	Deliver(ctx context.Context, payload string) push.Result
}

// Announcer mirrors events to a secondary sink. Implemented by mqtt.Announcer.
type Announcer interface {
	Announce(ctx context.Context, event notify.Event) error
}

const (
	// DefaultPollInterval is how often the panel decoder is polled for a
	// new frame.
	DefaultPollInterval = 50 * time.Millisecond

	// eventQueueSize buffers detected events ahead of the dispatch
	// worker. A full queue drops rather than stalls panel intake.
	eventQueueSize = 16
)

// Service polls the panel decoder, detects status transitions and dispatches
// notification events.
type Service struct {
	// panel is the bus decoder collaborator.
	panel panel.Interface
	// transport delivers events to the push service.
	transport Transport
	// announcer optionally mirrors events to MQTT; nil disables it.
	announcer Announcer
	// pollInterval is the decoder polling period.
	pollInterval time.Duration
	// events feeds the single dispatch worker.
	events chan notify.Event
}

// Option configures service behaviour.
type Option func(*Service)

// WithAnnouncer mirrors every dispatched event to the provided sink.
func WithAnnouncer(announcer Announcer) Option {
	return func(s *Service) {
		s.announcer = announcer
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

// NewService wires the detector to its transports.
func NewService(p panel.Interface, transport Transport, opts ...Option) *Service {
	service := &Service{
		panel:        p,
		transport:    transport,
		pollInterval: DefaultPollInterval,
		events:       make(chan notify.Event, eventQueueSize),
	}

	for _, opt := range opts {
		opt(service)
	}

	return service
}

// Cycle runs one detector pass. It returns the events for the transitions
// detected this cycle; an empty slice when the decoder reported no new valid
// command or no topic transitioned.
//
// Each changed flag is consumed exactly once, so a second pass without a new
// frame detects nothing.
func (s *Service) Cycle(ctx context.Context) []notify.Event {
	if !s.panel.Process() {
		return nil
	}

	var events []notify.Event

	flags := s.panel.Flags()
	for _, topic := range panel.Topics {
		value, changed := flags.Flag(topic).Consume()
		if !changed {
			continue
		}

		event := notify.NewEvent(topic, value)
		events = append(events, event)

		logger.DebugKV(ctx, "Status transition detected",
			"event_id", event.ID,
			"topic", string(topic),
			"value", value)
	}

	return events
}

// Run drives the poll loop until the context is canceled. Detected events
// are handed to a single dispatch worker; queued events are drained before
// Run returns.
func (s *Service) Run(ctx context.Context) error {
	// Announce startup so a silent bridge is distinguishable from a dead one.
	s.enqueue(ctx, notify.NewStartupEvent())

	// Deliveries already queued should finish even during shutdown.
	dispatchCtx := context.WithoutCancel(ctx)

	workerDone := make(chan struct{})

	go func() {
		defer close(workerDone)

		for event := range s.events {
			s.dispatch(dispatchCtx, event)
		}
	}()

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			close(s.events)
			<-workerDone

			logger.Info(ctx, "Context canceled, exiting")

			return nil
		case <-ticker.C:
			for _, event := range s.Cycle(ctx) {
				s.enqueue(ctx, event)
			}
		}
	}
}

// enqueue hands an event to the dispatch worker without ever blocking the
// panel poll loop.
func (s *Service) enqueue(ctx context.Context, event notify.Event) {
	select {
	case s.events <- event:
	default:
		logger.WarnKV(ctx, "Event queue full, notification dropped",
			"event_id", event.ID,
			"message", event.Message)
	}
}

// dispatch performs one fire-and-forget delivery. Failures are reported once
// and forgotten; nothing is retried.
func (s *Service) dispatch(ctx context.Context, event notify.Event) {
	result := s.transport.Deliver(ctx, event.Payload())
	if result.Delivered() {
		logger.InfoKV(ctx, "Notification delivered",
			"event_id", event.ID,
			"message", event.Message)
	} else {
		logger.ErrorKV(ctx, "Notification failed",
			"event_id", event.ID,
			"message", event.Message,
			"result", result.String(),
			"error", result.Err)
	}

	if s.announcer == nil {
		return
	}

	if err := s.announcer.Announce(ctx, event); err != nil {
		logger.ErrorKV(ctx, "Event mirror failed",
			"event_id", event.ID,
			"error", err)
	}
}
